package service

import (
	"Wellspring/internal/api/config"
	"Wellspring/internal/api/dto"
	"Wellspring/internal/model"
	"Wellspring/internal/pkg/consts"
	"Wellspring/internal/pkg/es"
	"Wellspring/internal/pkg/llm"
	"Wellspring/internal/pkg/minio"
	"Wellspring/internal/pkg/redis"
	"Wellspring/internal/pkg/util"
	"Wellspring/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// MaxOffsetLimit Elastic 深分页限制
const MaxOffsetLimit = 10000

type PostService interface {
	CreatePost(ctx context.Context, userID uint64, postDTO *dto.PostBaseDTO) (uint64, error)
	GetPost(ctx context.Context, userID uint64, postID uint64) (*dto.PostDTO, error)
	GetLatestFeed(ctx context.Context, cursor string, pageSize int) (*dto.FeedPageDTO, error)
	SearchPost(ctx context.Context, keyword string, page, pageSize int) ([]*dto.PostDTO, error)
	GetChallengeFeed(ctx context.Context, challengeID uint64, page, pageSize int) ([]*dto.PostDTO, error)
	GetUserPosts(ctx context.Context, targetUserID, viewerID uint64, page, pageSize int) ([]*dto.PostDTO, error)
	UpdatePostContent(ctx context.Context, userID uint64, postID uint64, postDTO *dto.PostBaseDTO) error
	UpdatePostStatus(ctx context.Context, postID uint64, status int) error
	DeletePost(ctx context.Context, userID uint64, postID uint64, isAdmin bool) error
}

type postServiceImpl struct {
	postESRepo    es.PostRepo
	postDBRepo    repository.PostRepo
	userRepo      repository.UserRepo
	challengeRepo repository.ChallengeRepo
}

func NewPostService(postESRepo es.PostRepo, postDBRepo repository.PostRepo, userRepo repository.UserRepo, challengeRepo repository.ChallengeRepo) PostService {
	return &postServiceImpl{
		postESRepo:    postESRepo,
		postDBRepo:    postDBRepo,
		userRepo:      userRepo,
		challengeRepo: challengeRepo,
	}
}

// CreatePost 发布动态：校验媒体、内容审核、落库并同步 ES
// 携带挑战ID的打卡帖会在成功后累计成员进度
func (s *postServiceImpl) CreatePost(ctx context.Context, userID uint64, postDTO *dto.PostBaseDTO) (uint64, error) {
	if postDTO.ChallengeID > 0 {
		if err := s.checkChallengeMembership(ctx, userID, postDTO.ChallengeID); err != nil {
			return 0, err
		}
	}

	var hdelKeys []string
	for _, mediaDTO := range postDTO.Medias {
		if err := processMedia(ctx, mediaDTO, &hdelKeys); err != nil {
			return 0, err
		}
	}

	status := s.moderate(ctx, postDTO)

	post := &model.Post{
		UserID:  userID,
		Title:   postDTO.Title,
		Content: postDTO.Content,
		Status:  status,
	}
	if postDTO.ChallengeID > 0 {
		cid := postDTO.ChallengeID
		post.ChallengeID = &cid
	}
	mediaJSON, err := mediasToJSON(postDTO.Medias)
	if err != nil {
		return 0, err
	}
	post.Media = mediaJSON

	if err := s.postDBRepo.CreatePost(ctx, post); err != nil {
		return 0, err
	}

	if postDTO.ChallengeID > 0 {
		if err := s.challengeRepo.AddProgress(ctx, postDTO.ChallengeID, userID, 1); err != nil {
			log.WarnContext(ctx, "add challenge progress failed", "challengeID", postDTO.ChallengeID, "userID", userID, "err", err)
		}
	}

	if len(hdelKeys) > 0 {
		go func(keys []string) {
			_ = redis.HDel(context.Background(), consts.MediaTempKey, keys...)
		}(hdelKeys)
	}

	// 审核通过的内容才进入公共检索
	if status == consts.PostStatusNormal {
		go s.indexPost(context.Background(), post)
	}

	return post.ID, nil
}

// GetPost 获取单个动态详情，非正常状态仅作者可见
func (s *postServiceImpl) GetPost(ctx context.Context, userID uint64, postID uint64) (*dto.PostDTO, error) {
	post, err := s.postDBRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil ||
		(post.UserID != userID && post.Status != consts.PostStatusNormal) {
		return nil, ErrPostNotFound
	}

	// 浏览计数走 Redis，由定时任务批量回写
	if userID != post.UserID {
		go func(pid uint64) {
			bgCtx := context.Background()
			rdb := redis.GetRdbClient()
			_ = rdb.Incr(bgCtx, consts.PostViewKey+strconv.FormatUint(pid, 10)).Err()
			_ = redis.SAdd(bgCtx, consts.PostDirtyKey, pid)
		}(postID)
	}

	return s.toPostDTO(ctx, post)
}

// GetLatestFeed 最新流，SearchAfter 游标翻页
func (s *postServiceImpl) GetLatestFeed(ctx context.Context, cursor string, pageSize int) (*dto.FeedPageDTO, error) {
	lastSortValues, err := util.DecodeCursor(cursor)
	if err != nil {
		log.ErrorContext(ctx, "decode cursor error", "err", err)
		lastSortValues = nil
	}

	posts, err := s.postESRepo.GetLatestPostsByCursor(ctx, lastSortValues, pageSize)
	if err != nil {
		return nil, err
	}

	items, err := s.batchToPostDTOByES(posts)
	if err != nil {
		return nil, err
	}

	var nextCursor string
	if len(posts) > 0 {
		lastPost := posts[len(posts)-1]
		if len(lastPost.Sort) > 0 {
			nextCursor = util.EncodeCursor(lastPost.Sort)
		}
	}

	return &dto.FeedPageDTO{
		Posts:  items,
		Cursor: nextCursor,
	}, nil
}

// SearchPost 混合检索：关键词 + 语义向量
func (s *postServiceImpl) SearchPost(ctx context.Context, keyword string, page, pageSize int) ([]*dto.PostDTO, error) {
	if (page-1)*pageSize >= MaxOffsetLimit {
		return []*dto.PostDTO{}, nil
	}

	vector, err := llm.FetchEmbedding(ctx, keyword)
	if err != nil {
		log.WarnContext(ctx, "fetch embedding failed, fallback to text only", "err", err)
		vector = nil
	}

	from := (page - 1) * pageSize
	posts, err := s.postESRepo.HybridSearch(ctx, keyword, vector, from, pageSize)
	if err != nil {
		return nil, err
	}
	return s.batchToPostDTOByES(posts)
}

// GetChallengeFeed 挑战打卡流
func (s *postServiceImpl) GetChallengeFeed(ctx context.Context, challengeID uint64, page, pageSize int) ([]*dto.PostDTO, error) {
	from := (page - 1) * pageSize
	posts, err := s.postESRepo.GetPostsByChallenge(ctx, challengeID, from, pageSize)
	if err != nil {
		return nil, err
	}
	return s.batchToPostDTOByES(posts)
}

// GetUserPosts 用户主页动态列表，本人走 DB 可见全部状态
func (s *postServiceImpl) GetUserPosts(ctx context.Context, targetUserID, viewerID uint64, page, pageSize int) ([]*dto.PostDTO, error) {
	if targetUserID == viewerID {
		posts, err := s.postDBRepo.GetPostsByUser(ctx, targetUserID, pageSize, (page-1)*pageSize)
		if err != nil {
			return nil, err
		}
		out := make([]*dto.PostDTO, 0, len(posts))
		for _, post := range posts {
			item, err := s.toPostDTO(ctx, post)
			if err != nil {
				return nil, err
			}
			out = append(out, item)
		}
		return out, nil
	}

	from := (page - 1) * pageSize
	posts, err := s.postESRepo.GetUserPosts(ctx, targetUserID, from, pageSize)
	if err != nil {
		return nil, err
	}
	return s.batchToPostDTOByES(posts)
}

// UpdatePostContent 更新动态内容及媒体，重走审核后重建索引
func (s *postServiceImpl) UpdatePostContent(ctx context.Context, userID uint64, postID uint64, postDTO *dto.PostBaseDTO) error {
	oldPost, err := s.postDBRepo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if oldPost == nil {
		return ErrPostNotFound
	}
	if oldPost.UserID != userID {
		return UnauthorizedError
	}

	oldMedias, err := mediasFromJSON(oldPost.Media)
	if err != nil {
		return err
	}

	newMediaMap := make(map[string]struct{})
	for _, m := range postDTO.Medias {
		newMediaMap[m.MediaURL] = struct{}{}
	}

	var toDeleteKeys []string
	for _, oldMedia := range oldMedias {
		if _, exists := newMediaMap[oldMedia.URL]; !exists {
			toDeleteKeys = append(toDeleteKeys, oldMedia.URL)
			if oldMedia.Cover != nil && *oldMedia.Cover != "" {
				toDeleteKeys = append(toDeleteKeys, *oldMedia.Cover)
			}
		}
	}

	var hdelKeys []string
	for _, mediaDTO := range postDTO.Medias {
		isAlreadyInOld := false
		for _, oldMedia := range oldMedias {
			if oldMedia.URL == mediaDTO.MediaURL {
				isAlreadyInOld = true
				break
			}
		}

		if !isAlreadyInOld {
			if err = processMedia(ctx, mediaDTO, &hdelKeys); err != nil {
				return err
			}
		}
	}

	oldPost.Title = postDTO.Title
	oldPost.Content = postDTO.Content
	mediaJSON, err := mediasToJSON(postDTO.Medias)
	if err != nil {
		return err
	}
	oldPost.Media = mediaJSON
	oldPost.Status = s.moderate(ctx, postDTO)

	if err = s.postDBRepo.UpdatePost(ctx, oldPost); err != nil {
		return err
	}

	go func() {
		bgCtx := context.Background()
		for _, key := range toDeleteKeys {
			_ = minio.DeleteFile(bgCtx, key)
		}
		if len(hdelKeys) > 0 {
			_ = redis.HDel(bgCtx, consts.MediaTempKey, hdelKeys...)
		}
		if oldPost.Status == consts.PostStatusNormal {
			s.indexPost(bgCtx, oldPost)
		} else {
			_ = s.postESRepo.DeletePost(bgCtx, oldPost.ID)
		}
	}()

	return nil
}

// UpdatePostStatus 人工复审修改动态状态
func (s *postServiceImpl) UpdatePostStatus(ctx context.Context, postID uint64, status int) error {
	post, err := s.postDBRepo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}

	if err = s.postDBRepo.UpdatePostStatus(ctx, postID, status); err != nil {
		return err
	}

	post.Status = status
	go func() {
		bgCtx := context.Background()
		if status == consts.PostStatusNormal {
			s.indexPost(bgCtx, post)
		} else {
			_ = s.postESRepo.DeletePost(bgCtx, post.ID)
		}
	}()
	return nil
}

// DeletePost 删除动态及其媒体文件
func (s *postServiceImpl) DeletePost(ctx context.Context, userID uint64, postID uint64, isAdmin bool) error {
	post, err := s.postDBRepo.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.UserID != userID && !isAdmin {
		return UnauthorizedError
	}

	if err = s.postDBRepo.DeletePost(ctx, postID); err != nil {
		return err
	}

	go func() {
		bgCtx := context.Background()
		_ = s.postESRepo.DeletePost(bgCtx, postID)
		medias, err := mediasFromJSON(post.Media)
		if err != nil {
			return
		}
		for _, m := range medias {
			_ = minio.DeleteFile(bgCtx, m.URL)
			if m.Cover != nil && *m.Cover != "" {
				_ = minio.DeleteFile(bgCtx, *m.Cover)
			}
		}
	}()

	return nil
}

// moderate 内容审核，文本与图片取较严的结果
func (s *postServiceImpl) moderate(ctx context.Context, postDTO *dto.PostBaseDTO) int {
	level, err := llm.ContentSafe(ctx, &llm.Content{
		Title:   postDTO.Title,
		Content: postDTO.Content,
	})
	if err != nil {
		log.WarnContext(ctx, "content moderation failed, fallback to manual review", "err", err)
		level = llm.ContentSafeWarn
	}

	var imageURLs []string
	var transcripts []string
	for _, m := range postDTO.Medias {
		switch {
		case strings.HasPrefix(m.MimeType, consts.MimePrefixImage):
			imageURLs = append(imageURLs, minio.GetPublicURL(m.MediaURL))
		case strings.HasPrefix(m.MimeType, consts.MimePrefixVideo):
			if m.CoverURL != nil && *m.CoverURL != "" {
				imageURLs = append(imageURLs, minio.GetPublicURL(*m.CoverURL))
			}
			imageURLs = append(imageURLs, s.sampleVideoFrames(ctx, m)...)
			if text := transcribeMedia(ctx, m.MediaURL); text != "" {
				transcripts = append(transcripts, text)
			}
		case strings.HasPrefix(m.MimeType, consts.MimePrefixAudio):
			if text := transcribeMedia(ctx, m.MediaURL); text != "" {
				transcripts = append(transcripts, text)
			}
		}
	}
	if len(imageURLs) > 0 {
		imgLevel, err := llm.ImageSafe(ctx, imageURLs)
		if err != nil {
			log.WarnContext(ctx, "image moderation failed", "err", err)
			imgLevel = llm.ContentSafeWarn
		}
		if imgLevel > level {
			level = imgLevel
		}
	}
	if len(transcripts) > 0 {
		audioLevel, err := llm.ContentSafe(ctx, &llm.Content{
			Content: strings.Join(transcripts, "\n"),
		})
		if err != nil {
			log.WarnContext(ctx, "transcript moderation failed", "err", err)
			audioLevel = llm.ContentSafeWarn
		}
		if audioLevel > level {
			level = audioLevel
		}
	}

	switch level {
	case llm.ContentSafePass:
		return consts.PostStatusNormal
	case llm.ContentSafeDeny:
		return consts.PostStatusDenied
	default:
		return consts.PostStatusWarning
	}
}

// sampleVideoFrames 抽取视频关键帧并暂存到临时桶，供图片审核使用
// 临时桶有生命周期策略，抽帧文件无需手动清理
func (s *postServiceImpl) sampleVideoFrames(ctx context.Context, m *dto.MediasBaseDTO) []string {
	url := minio.GetPublicURL(m.MediaURL)
	frames, err := util.GetImageFrames(ctx, url, float64(m.Duration))
	if err != nil {
		log.WarnContext(ctx, "sample video frames failed", "url", m.MediaURL, "err", err)
		return nil
	}

	var frameURLs []string
	for _, frame := range frames {
		objName := uuid.NewString() + ".jpg"
		fileName, err := minio.UploadTempFile(ctx, objName, frame, -1, "image/jpeg")
		if err != nil {
			log.WarnContext(ctx, "upload video frame failed", "err", err)
			continue
		}
		frameURLs = append(frameURLs, minio.GetTempPublicURL(fileName))
	}
	return frameURLs
}

// transcribeMedia 提取媒体中的语音转为文本，whisper 未配置时跳过
func transcribeMedia(ctx context.Context, mediaURL string) string {
	if config.Cfg.LibPath.Whisper == "" {
		return ""
	}
	text, err := util.AudioStreamToText(ctx, minio.GetPublicURL(mediaURL))
	if err != nil {
		log.WarnContext(ctx, "transcribe media failed", "url", mediaURL, "err", err)
		return ""
	}
	return text
}

// checkChallengeMembership 打卡帖前置校验：挑战开放且用户已入组
func (s *postServiceImpl) checkChallengeMembership(ctx context.Context, userID, challengeID uint64) error {
	challenge, err := s.challengeRepo.GetChallenge(ctx, challengeID)
	if err != nil {
		return err
	}
	if challenge == nil {
		return ErrChallengeNotFound
	}
	if challenge.Status != consts.ChallengeStatusOpen {
		return ErrChallengeClosed
	}
	member, err := s.challengeRepo.GetMember(ctx, challengeID, userID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrChallengeNotJoined
	}
	return nil
}

// indexPost 同步动态到 ES，附带作者信息与语义向量
func (s *postServiceImpl) indexPost(ctx context.Context, post *model.Post) {
	doc := &es.PostES{
		ID:            post.ID,
		UserID:        post.UserID,
		Status:        post.Status,
		Title:         post.Title,
		Content:       post.Content,
		Tags:          util.ExtractTags(post.Title + " " + post.Content),
		LikesCount:    int(post.LikeCount),
		CommentsCount: int(post.CommentCount),
		CoinsCount:    int(post.CoinCount),
		CreatedAt:     post.CreatedAt,
		UpdatedAt:     post.UpdatedAt,
	}
	if post.ChallengeID != nil {
		doc.ChallengeID = *post.ChallengeID
	}

	medias, err := mediasFromJSON(post.Media)
	if err == nil {
		for _, m := range medias {
			doc.Media = append(doc.Media, es.PostMediaES{
				Type:     m.Type,
				URL:      m.URL,
				Cover:    m.Cover,
				Width:    m.Width,
				Height:   m.Height,
				Duration: int(m.Duration),
			})
		}
	}

	details, err := s.userRepo.GetUserSimpleInfoByIds(ctx, []uint64{post.UserID})
	if err == nil && len(details) > 0 {
		doc.UserNickname = details[0].Nickname
		doc.UserAvatar = details[0].AvatarURL
	}

	embedCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	vector, err := llm.FetchEmbedding(embedCtx, post.Title+"\n"+post.Content)
	if err != nil {
		log.WarnContext(ctx, "fetch embedding for index failed", "postID", post.ID, "err", err)
	} else {
		doc.ContentVector = vector
	}

	if err = s.postESRepo.IndexPost(ctx, doc, post.UpdatedAt.UnixMilli()); err != nil {
		log.ErrorContext(ctx, "index post failed", "postID", post.ID, "err", err)
	}
}

// toPostDTO 将 Model 转换为返回给前端的 DTO
func (s *postServiceImpl) toPostDTO(ctx context.Context, post *model.Post) (*dto.PostDTO, error) {
	out := &dto.PostDTO{}
	if err := copier.Copy(out, post); err != nil {
		return nil, err
	}
	out.CreatedAt = post.CreatedAt.Format("2006-01-02 15:04:05")
	out.UpdatedAt = post.UpdatedAt.Format("2006-01-02 15:04:05")
	if post.ChallengeID != nil {
		out.ChallengeID = *post.ChallengeID
	}

	medias, err := mediasFromJSON(post.Media)
	if err != nil {
		return nil, err
	}
	for _, m := range medias {
		var coverURL *string
		if m.Cover != nil && *m.Cover != "" {
			url := minio.GetPublicURL(*m.Cover)
			coverURL = &url
		}
		out.Medias = append(out.Medias, &dto.MediasBaseDTO{
			MimeType: m.Type,
			MediaURL: minio.GetPublicURL(m.URL),
			Width:    m.Width,
			Height:   m.Height,
			Duration: int(m.Duration),
			CoverURL: coverURL,
		})
	}

	defaultAvatarUrl := minio.GetPublicURL(consts.DefaultAvatarURL)
	details, err := s.userRepo.GetUserSimpleInfoByIds(ctx, []uint64{post.UserID})
	if err == nil && len(details) > 0 {
		out.Nickname = details[0].Nickname
		out.AvatarURL = minio.GetPublicURL(details[0].AvatarURL)
	} else {
		out.Nickname = "用户_" + strconv.FormatUint(post.UserID, 10)
		out.AvatarURL = defaultAvatarUrl
	}

	return out, nil
}

func (s *postServiceImpl) toPostDTOByES(post *es.PostES) (*dto.PostDTO, error) {
	out := &dto.PostDTO{
		ID:           post.ID,
		Title:        post.Title,
		Content:      post.Content,
		ChallengeID:  post.ChallengeID,
		UserID:       post.UserID,
		Nickname:     post.UserNickname,
		AvatarURL:    minio.GetPublicURL(post.UserAvatar),
		LikeCount:    int64(post.LikesCount),
		CommentCount: int64(post.CommentsCount),
		CoinCount:    int64(post.CoinsCount),
		CreatedAt:    post.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:    post.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	for _, media := range post.Media {
		var coverURL *string
		if media.Cover != nil && *media.Cover != "" {
			url := minio.GetPublicURL(*media.Cover)
			coverURL = &url
		}
		out.Medias = append(out.Medias, &dto.MediasBaseDTO{
			MimeType: media.Type,
			MediaURL: minio.GetPublicURL(media.URL),
			Width:    media.Width,
			Height:   media.Height,
			Duration: media.Duration,
			CoverURL: coverURL,
		})
	}
	return out, nil
}

func (s *postServiceImpl) batchToPostDTOByES(posts []*es.PostES) ([]*dto.PostDTO, error) {
	out := make([]*dto.PostDTO, len(posts))
	for i, post := range posts {
		item, err := s.toPostDTOByES(post)
		if err != nil {
			return nil, err
		}
		out[i] = item
	}
	return out, nil
}

// mediasToJSON 把媒体列表编码为 JSON 存储列
func mediasToJSON(medias []*dto.MediasBaseDTO) (*string, error) {
	if len(medias) == 0 {
		return nil, nil
	}
	list := make([]model.PostMedia, 0, len(medias))
	for _, m := range medias {
		list = append(list, model.PostMedia{
			Type:     m.MimeType,
			URL:      m.MediaURL,
			Cover:    m.CoverURL,
			Width:    m.Width,
			Height:   m.Height,
			Duration: float64(m.Duration),
		})
	}
	data, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	str := string(data)
	return &str, nil
}

func mediasFromJSON(raw *string) ([]model.PostMedia, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var list []model.PostMedia
	if err := json.Unmarshal([]byte(*raw), &list); err != nil {
		return nil, err
	}
	return list, nil
}

func getCover(ctx context.Context, mediaDTO *dto.MediasBaseDTO) error {
	if strings.HasPrefix(mediaDTO.MimeType, consts.MimePrefixVideo) &&
		mediaDTO.CoverURL == nil {
		stream, err := util.GetCover(ctx, minio.GetPublicURL(mediaDTO.MediaURL))
		if err != nil {
			return err
		}
		coverName := time.Now().Format("2006/01/02/") + uuid.NewString() + ".jpg"
		fileKey, err := minio.UploadFile(ctx, coverName, stream, -1, "image/jpeg")
		if err != nil {
			return err
		}
		mediaDTO.CoverURL = &fileKey
	}
	return nil
}

func verifyAndFillMediaMeta(ctx context.Context, mediaDTO *dto.MediasBaseDTO) error {
	val, err := redis.HGet(ctx, consts.MediaTempKey, mediaDTO.MediaURL)
	if err != nil || val == "" {
		log.WarnContext(ctx, "media resource not found in temp cache", "url", mediaDTO.MediaURL)
		return ErrFileNotExist
	}

	var meta dto.MediaTempMetadata
	if err = json.Unmarshal([]byte(val), &meta); err != nil {
		log.ErrorContext(ctx, "unmarshal media meta failed", "url", mediaDTO.MediaURL, "err", err)
		return UnExpectedError
	}

	mediaDTO.Width = meta.Width
	mediaDTO.Height = meta.Height
	mediaDTO.Duration = int(meta.Duration)
	mediaDTO.MimeType = meta.MimeType

	return nil
}

// processMedia 校验临时媒体、固化存储并生成视频封面
func processMedia(ctx context.Context, mediaDTO *dto.MediasBaseDTO, hdelKeys *[]string) error {
	if err := verifyAndFillMediaMeta(ctx, mediaDTO); err != nil {
		return err
	}
	if err := minio.PromoteTempFile(ctx, mediaDTO.MediaURL); err != nil {
		return err
	}
	if err := getCover(ctx, mediaDTO); err != nil {
		return err
	}
	*hdelKeys = append(*hdelKeys, mediaDTO.MediaURL)
	if mediaDTO.CoverURL != nil && *mediaDTO.CoverURL != "" {
		*hdelKeys = append(*hdelKeys, *mediaDTO.CoverURL)
	}
	return nil
}
