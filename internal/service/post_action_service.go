package service

import (
	"Wellspring/internal/api/dto"
	"Wellspring/internal/model"
	"Wellspring/internal/pkg/consts"
	"Wellspring/internal/pkg/kafka"
	"Wellspring/internal/pkg/minio"
	"Wellspring/internal/pkg/redis"
	"Wellspring/internal/pkg/util"
	"Wellspring/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxCoinPerPost 单帖单人投币上限
const MaxCoinPerPost = 2

const activityPreviewRunes = 30

type PostActionService interface {
	LikePost(ctx context.Context, userID, postID uint64) error
	CancelLikePost(ctx context.Context, userID, postID uint64) error
	GetPostActionState(ctx context.Context, userID, postID uint64) (*dto.PostActionStateDTO, error)
	GetLikedPosts(ctx context.Context, userID uint64, page, pageSize int) ([]uint64, error)

	CreateComment(ctx context.Context, userID uint64, req *dto.CommentCreateDTO) (*dto.CommentDTO, error)
	DeleteComment(ctx context.Context, userID, commentID uint64) error
	GetCommentsByPostID(ctx context.Context, postID uint64, page, pageSize int) ([]*dto.CommentDTO, error)
	GetSubComments(ctx context.Context, rootID uint64, page, pageSize int) ([]*dto.CommentDTO, error)

	GiveCoins(ctx context.Context, userID uint64, req *dto.CoinGiftReq) error
	GetUserTotalLikes(ctx context.Context, userID uint64) (int64, error)
}

type postActionServiceImpl struct {
	actionRepo repository.PostActionRepo
	postRepo   repository.PostRepo
	userRepo   repository.UserRepo
	producer   kafka.ActivityProducer
}

func NewPostActionService(
	actionRepo repository.PostActionRepo,
	postRepo repository.PostRepo,
	userRepo repository.UserRepo,
	producer kafka.ActivityProducer,
) PostActionService {
	return &postActionServiceImpl{
		actionRepo: actionRepo,
		postRepo:   postRepo,
		userRepo:   userRepo,
		producer:   producer,
	}
}

func (s *postActionServiceImpl) LikePost(ctx context.Context, userID, postID uint64) error {
	post, err := s.getVisiblePost(ctx, postID)
	if err != nil {
		return err
	}

	if err := s.actionRepo.CreateLike(ctx, &model.Like{UserID: userID, PostID: postID, CreatedAt: time.Now()}); err != nil {
		if isDuplicateError(err) {
			return ErrActionDuplicate
		}
		return err
	}

	s.bumpCounter(postID, consts.PostLikeKey, 1)
	s.publishActivity(ctx, &kafka.ActivityEvent{
		ReceiverID: post.UserID,
		SenderID:   userID,
		Kind:       consts.ActivityKindLike,
		TargetID:   postID,
		Content:    "点赞了你的动态",
		Payload:    map[string]any{"post_title": post.Title},
	})
	return nil
}

func (s *postActionServiceImpl) CancelLikePost(ctx context.Context, userID, postID uint64) error {
	if _, err := s.getVisiblePost(ctx, postID); err != nil {
		return err
	}
	if err := s.actionRepo.DeleteLike(ctx, userID, postID); err != nil {
		return err
	}
	s.bumpCounter(postID, consts.PostLikeKey, -1)
	return nil
}

// GetPostActionState 聚合动态的交互计数与当前用户的点赞状态
// 计数为 DB 快照加 Redis 未刷库增量
func (s *postActionServiceImpl) GetPostActionState(ctx context.Context, userID, postID uint64) (*dto.PostActionStateDTO, error) {
	post, err := s.getVisiblePost(ctx, postID)
	if err != nil {
		return nil, err
	}

	state := &dto.PostActionStateDTO{
		LikeCount:    post.LikeCount + s.pendingDelta(ctx, consts.PostLikeKey, postID),
		CommentCount: post.CommentCount,
		CoinCount:    post.CoinCount,
		ViewCount:    post.ViewCount + s.pendingDelta(ctx, consts.PostViewKey, postID),
	}

	if userID > 0 {
		liked, err := s.actionRepo.CheckLikeExists(ctx, userID, postID)
		if err != nil {
			return nil, err
		}
		state.IsLiked = liked
	}
	return state, nil
}

func (s *postActionServiceImpl) GetLikedPosts(ctx context.Context, userID uint64, page, pageSize int) ([]uint64, error) {
	return s.actionRepo.GetLikedPostIDs(ctx, userID, pageSize, (page-1)*pageSize)
}

func (s *postActionServiceImpl) CreateComment(ctx context.Context, userID uint64, req *dto.CommentCreateDTO) (*dto.CommentDTO, error) {
	post, err := s.getVisiblePost(ctx, req.PostID)
	if err != nil {
		return nil, err
	}

	var rootID, replyToID uint64
	activityReceiver := post.UserID

	if req.ParentID > 0 {
		parent, err := s.actionRepo.GetCommentByID(ctx, req.ParentID)
		if err != nil || parent == nil {
			return nil, ErrCommentNotFound
		}
		if parent.PostID != req.PostID {
			return nil, ErrCommentNotFound
		}
		replyToID = parent.UserID
		activityReceiver = parent.UserID
		if parent.RootID == 0 {
			rootID = parent.ID
		} else {
			rootID = parent.RootID
		}
	}

	comment := &model.PostComment{
		PostID:    req.PostID,
		UserID:    userID,
		RootID:    rootID,
		ReplyToID: replyToID,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}

	if err := s.actionRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.bumpDBCounter(req.PostID, "comment_count", 1)
	s.publishActivity(ctx, &kafka.ActivityEvent{
		ReceiverID: activityReceiver,
		SenderID:   userID,
		Kind:       consts.ActivityKindComment,
		TargetID:   req.PostID,
		Content:    util.TruncatePreview(req.Content, activityPreviewRunes),
		Payload:    map[string]any{"post_title": post.Title, "comment_id": comment.ID},
	})

	return s.toCommentDTO(ctx, comment, nil), nil
}

func (s *postActionServiceImpl) DeleteComment(ctx context.Context, userID, commentID uint64) error {
	comment, err := s.actionRepo.GetCommentByID(ctx, commentID)
	if err != nil || comment == nil {
		return ErrCommentNotFound
	}

	if comment.UserID != userID {
		return UnauthorizedError
	}

	if err = s.actionRepo.DeleteComment(ctx, commentID); err != nil {
		return err
	}

	s.bumpDBCounter(comment.PostID, "comment_count", -1)
	return nil
}

func (s *postActionServiceImpl) GetCommentsByPostID(ctx context.Context, postID uint64, page, pageSize int) ([]*dto.CommentDTO, error) {
	rootComments, err := s.actionRepo.GetRootCommentsByPostID(ctx, postID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	userCache := make(map[uint64]*model.UserDetail)
	s.preloadUsers(ctx, rootComments, userCache)

	res := make([]*dto.CommentDTO, 0, len(rootComments))
	for _, rc := range rootComments {
		rootDTO := s.toCommentDTO(ctx, rc, userCache)
		count, err := s.actionRepo.GetSubCommentCountByRootID(ctx, rc.ID)
		if err == nil {
			rootDTO.SubCommentCount = count
		}
		res = append(res, rootDTO)
	}
	return res, nil
}

func (s *postActionServiceImpl) GetSubComments(ctx context.Context, rootID uint64, page, pageSize int) ([]*dto.CommentDTO, error) {
	subs, err := s.actionRepo.GetSubCommentsByRootID(ctx, rootID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	userCache := make(map[uint64]*model.UserDetail)
	s.preloadUsers(ctx, subs, userCache)

	res := make([]*dto.CommentDTO, 0, len(subs))
	for _, sc := range subs {
		res = append(res, s.toCommentDTO(ctx, sc, userCache))
	}
	return res, nil
}

// GiveCoins 给动态投币：同一用户对同一动态累计不超过上限
// 余额扣减与流水写入在仓储层事务内完成
func (s *postActionServiceImpl) GiveCoins(ctx context.Context, userID uint64, req *dto.CoinGiftReq) error {
	post, err := s.getVisiblePost(ctx, req.PostID)
	if err != nil {
		return err
	}
	if post.UserID == userID {
		return ErrCoinGiftSelf
	}

	lockKey := consts.CoinGiftLock + strconv.FormatUint(userID, 10) + ":" + strconv.FormatUint(req.PostID, 10)
	lockUUID := uuid.NewString()
	ok, err := redis.TryLock(ctx, lockKey, lockUUID, 5*time.Second, 3)
	if err != nil || !ok {
		return ErrActionDuplicate
	}
	defer redis.UnLock(ctx, lockKey, lockUUID)

	given, err := s.actionRepo.GetCoinAmountOnPost(ctx, userID, req.PostID)
	if err != nil {
		return err
	}
	if given+req.Amount > MaxCoinPerPost {
		return ErrActionDuplicate
	}

	gift := &model.CoinGift{
		PostID:     req.PostID,
		GiverID:    userID,
		ReceiverID: post.UserID,
		Amount:     req.Amount,
		CreatedAt:  time.Now(),
	}
	if err = s.actionRepo.GiveCoins(ctx, gift); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCoinInsufficient
		}
		return err
	}

	s.bumpDBCounter(req.PostID, "coin_count", req.Amount)
	s.publishActivity(ctx, &kafka.ActivityEvent{
		ReceiverID: post.UserID,
		SenderID:   userID,
		Kind:       consts.ActivityKindCoin,
		TargetID:   req.PostID,
		Content:    "给你的动态投了 " + strconv.FormatInt(req.Amount, 10) + " 枚金币",
		Payload:    map[string]any{"post_title": post.Title, "amount": req.Amount},
	})
	return nil
}

func (s *postActionServiceImpl) GetUserTotalLikes(ctx context.Context, userID uint64) (int64, error) {
	return s.actionRepo.GetUserTotalLikes(ctx, userID)
}

func (s *postActionServiceImpl) getVisiblePost(ctx context.Context, postID uint64) (*model.Post, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil || post.Status != consts.PostStatusNormal {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// bumpCounter 高频计数走 Redis 增量，由定时任务批量刷库
func (s *postActionServiceImpl) bumpCounter(postID uint64, keyPrefix string, delta int64) {
	go func() {
		bgCtx := context.Background()
		if _, err := redis.IncrBy(bgCtx, keyPrefix+strconv.FormatUint(postID, 10), delta); err != nil {
			log.Error("bump post counter failed", "postID", postID, "err", err)
			return
		}
		_ = redis.SAdd(bgCtx, consts.PostDirtyKey, postID)
	}()
}

// bumpDBCounter 低频计数直接写库
func (s *postActionServiceImpl) bumpDBCounter(postID uint64, column string, delta int64) {
	go func() {
		err := s.postRepo.UpdateCounters(context.Background(), postID, map[string]int64{column: delta})
		if err != nil {
			log.Error("update post counter failed", "postID", postID, "column", column, "err", err)
		}
	}()
}

// pendingDelta 读取尚未刷库的 Redis 计数增量
func (s *postActionServiceImpl) pendingDelta(ctx context.Context, keyPrefix string, postID uint64) int64 {
	delta, err := redis.GetInt64(ctx, keyPrefix+strconv.FormatUint(postID, 10))
	if err != nil {
		return 0
	}
	return delta
}

func (s *postActionServiceImpl) publishActivity(ctx context.Context, event *kafka.ActivityEvent) {
	event.OccurredAt = time.Now()
	if err := s.producer.Publish(ctx, event); err != nil {
		log.WarnContext(ctx, "publish activity event failed", "kind", event.Kind, "err", err)
	}
}

func (s *postActionServiceImpl) preloadUsers(ctx context.Context, comments []*model.PostComment, cache map[uint64]*model.UserDetail) {
	idSet := make(map[uint64]struct{})
	for _, c := range comments {
		idSet[c.UserID] = struct{}{}
		if c.ReplyToID != 0 {
			idSet[c.ReplyToID] = struct{}{}
		}
	}
	ids := make([]uint64, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return
	}
	details, err := s.userRepo.GetUserSimpleInfoByIds(ctx, ids)
	if err != nil {
		log.WarnContext(ctx, "preload comment users failed", "err", err)
		return
	}
	for _, d := range details {
		cache[d.UserID] = d
	}
}

func (s *postActionServiceImpl) toCommentDTO(ctx context.Context, comment *model.PostComment, userCache map[uint64]*model.UserDetail) *dto.CommentDTO {
	item := &dto.CommentDTO{
		ID:            comment.ID,
		PostID:        comment.PostID,
		UserID:        comment.UserID,
		Content:       comment.Content,
		RootID:        comment.RootID,
		ReplyToUserID: comment.ReplyToID,
		CreatedAt:     comment.CreatedAt.Format("2006-01-02 15:04:05"),
	}

	lookup := func(id uint64) *model.UserDetail {
		if userCache != nil {
			if d, ok := userCache[id]; ok {
				return d
			}
		}
		details, err := s.userRepo.GetUserSimpleInfoByIds(ctx, []uint64{id})
		if err != nil || len(details) == 0 {
			return nil
		}
		if userCache != nil {
			userCache[id] = details[0]
		}
		return details[0]
	}

	if d := lookup(comment.UserID); d != nil {
		item.Nickname = d.Nickname
		item.AvatarURL = minio.GetPublicURL(d.AvatarURL)
	}
	if comment.ReplyToID != 0 {
		if d := lookup(comment.ReplyToID); d != nil {
			item.ReplyToNickname = d.Nickname
		}
	}
	return item
}

func isDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return false
}
