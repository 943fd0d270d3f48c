package service

import (
	"Wellspring/internal/api/dto"
	"Wellspring/internal/pkg/consts"
	"Wellspring/internal/pkg/minio"
	"Wellspring/internal/pkg/mongo"
	"Wellspring/internal/pkg/redis"
	"Wellspring/internal/pkg/util"
	"Wellspring/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
)

const messagePreviewRunes = 50

// ChatService 私信服务接口定义
type ChatService interface {
	SendMessage(ctx context.Context, senderID uint64, req *dto.SendMessageReq) (*dto.MessageDTO, error)
	GetChatHistory(ctx context.Context, userID, peerID uint64, before time.Time, pageSize int) ([]*dto.MessageDTO, error)
	GetConversationList(ctx context.Context, userID uint64, limit, offset int64) ([]*dto.ConversationDTO, error)
	MarkAsRead(ctx context.Context, userID, peerID uint64) error
	GetTotalUnread(ctx context.Context, userID uint64) (int64, error)
	DeleteConversation(ctx context.Context, userID, peerID uint64) error
	Close()
}

type pushJob struct {
	targetID uint64
	payload  []byte
}

type chatServiceImpl struct {
	convRepo    mongo.ConversationRepo
	messageRepo mongo.MessageRepo
	userRepo    repository.UserRepo
	pushChan    chan pushJob
	wg          sync.WaitGroup
	stopChan    chan struct{}
}

// NewChatService 构造函数：初始化服务并启动异步推送工作池
func NewChatService(convRepo mongo.ConversationRepo, messageRepo mongo.MessageRepo, userRepo repository.UserRepo) ChatService {
	s := &chatServiceImpl{
		convRepo:    convRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		pushChan:    make(chan pushJob, 2048),
		stopChan:    make(chan struct{}),
	}

	workerCount := 5
	s.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go s.pushWorker()
	}

	return s
}

// SendMessage 发送消息：明细与会话摘要在同一事务内落库，成功后异步推送
func (s *chatServiceImpl) SendMessage(ctx context.Context, senderID uint64, req *dto.SendMessageReq) (*dto.MessageDTO, error) {
	targetID := req.TargetUserID
	if targetID == 0 || targetID == senderID {
		return nil, ErrMessageTargetInvalid
	}

	target, err := s.userRepo.GetUserById(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil || target.IsBan {
		return nil, ErrMessageTargetInvalid
	}

	msgModel := &mongo.Message{
		ConversationID: mongo.PairKey(senderID, targetID),
		SenderID:       senderID,
		MsgType:        req.MsgType,
		Content:        req.Content,
		Payload:        toPayloadModels(req.Payload),
		CreatedAt:      time.Now(),
	}

	preview := util.TruncatePreview(req.Content, messagePreviewRunes)
	if err := s.convRepo.SaveWithTouch(ctx, msgModel, targetID, preview); err != nil {
		return nil, err
	}

	// 推送到接收者的【用户个人频道】
	msgDTO := s.toMessageDTO(msgModel)
	s.enqueueMessagePush(msgDTO, targetID)

	return msgDTO, nil
}

// GetChatHistory 按时间游标倒序分页拉取
func (s *chatServiceImpl) GetChatHistory(ctx context.Context, userID, peerID uint64, before time.Time, pageSize int) ([]*dto.MessageDTO, error) {
	convID := mongo.PairKey(userID, peerID)
	if before.IsZero() {
		before = time.Now()
	}
	_, pageSize = util.NormalizePage(1, pageSize)
	models, err := s.messageRepo.GetHistory(ctx, convID, before, pageSize)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.MessageDTO, 0, len(models))
	for _, m := range models {
		res = append(res, s.toMessageDTO(m))
	}
	return res, nil
}

// GetConversationList 获取会话列表，按最后消息时间倒序
func (s *chatServiceImpl) GetConversationList(ctx context.Context, userID uint64, limit, offset int64) ([]*dto.ConversationDTO, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	convs, err := s.convRepo.ListForUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	peerIDs := make([]uint64, 0, len(convs))
	for _, c := range convs {
		peerIDs = append(peerIDs, c.PeerOf(userID))
	}
	peers := make(map[uint64]struct {
		nickname string
		avatar   string
	})
	if len(peerIDs) > 0 {
		details, err := s.userRepo.GetUserSimpleInfoByIds(ctx, peerIDs)
		if err != nil {
			return nil, err
		}
		for _, d := range details {
			peers[d.UserID] = struct {
				nickname string
				avatar   string
			}{d.Nickname, minio.GetPublicURL(d.AvatarURL)}
		}
	}

	res := make([]*dto.ConversationDTO, 0, len(convs))
	for _, c := range convs {
		peerID := c.PeerOf(userID)
		d := &dto.ConversationDTO{
			ConversationID: c.ID,
			PeerID:         peerID,
			LastMsgContent: c.LastContent,
			LastSenderID:   c.LastSenderID,
			LastMessageAt:  c.LastMessageAt,
			UnreadCount:    c.UnreadOf(userID),
		}
		if p, ok := peers[peerID]; ok {
			d.PeerNickname = p.nickname
			d.PeerAvatar = p.avatar
		}
		res = append(res, d)
	}
	return res, nil
}

// MarkAsRead 清零未读并向对方推送已读回执
func (s *chatServiceImpl) MarkAsRead(ctx context.Context, userID, peerID uint64) error {
	convID := mongo.PairKey(userID, peerID)
	if err := s.convRepo.ClearUnread(ctx, convID, userID); err != nil {
		if err == mongodrv.ErrNoDocuments {
			return ErrConversationNotFound
		}
		return err
	}

	s.enqueueReadReceiptPush(convID, userID, peerID)

	return nil
}

func (s *chatServiceImpl) GetTotalUnread(ctx context.Context, userID uint64) (int64, error) {
	return s.convRepo.TotalUnread(ctx, userID)
}

// DeleteConversation 删除会话及其全部消息明细
func (s *chatServiceImpl) DeleteConversation(ctx context.Context, userID, peerID uint64) error {
	convID := mongo.PairKey(userID, peerID)
	conv, err := s.convRepo.GetByID(ctx, convID)
	if err != nil {
		if err == mongodrv.ErrNoDocuments {
			return ErrConversationNotFound
		}
		return err
	}
	if conv == nil {
		return ErrConversationNotFound
	}
	return s.convRepo.DeleteWithMessages(ctx, convID)
}

// enqueueMessagePush 把新消息投进推送队列，队列满则丢弃 (推送为尽力而为)
func (s *chatServiceImpl) enqueueMessagePush(msg *dto.MessageDTO, targetUserID uint64) {
	envelope := struct {
		Type string          `json:"type"`
		Data *dto.MessageDTO `json:"data"`
	}{
		Type: consts.PushTypeMessage,
		Data: msg,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		log.Error("Failed to marshal message push", "err", err)
		return
	}
	s.enqueuePush(targetUserID, data)
}

// enqueueReadReceiptPush 把已读回执投进推送队列
func (s *chatServiceImpl) enqueueReadReceiptPush(convID string, fromUID, toPeerID uint64) {
	receipt := &dto.ReadReceiptDTO{
		ConversationID: convID,
		UserID:         fromUID,
		Type:           consts.PushTypeReadReceipt,
	}
	data, err := json.Marshal(receipt)
	if err != nil {
		log.Error("Failed to marshal read receipt push", "err", err)
		return
	}
	s.enqueuePush(toPeerID, data)
}

func (s *chatServiceImpl) enqueuePush(targetUserID uint64, payload []byte) {
	select {
	case s.pushChan <- pushJob{targetID: targetUserID, payload: payload}:
	default:
		log.Warn("Push queue full, dropping payload", "targetID", targetUserID)
	}
}

func (s *chatServiceImpl) Close() {
	close(s.stopChan)
	s.wg.Wait()
	log.Info("ChatService shut down gracefully")
}

// pushWorker 消费推送队列，发布到接收者的用户频道
func (s *chatServiceImpl) pushWorker() {
	defer s.wg.Done()
	for {
		select {
		case job := <-s.pushChan:
			channel := consts.PushUserKey + strconv.FormatUint(job.targetID, 10)
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			if err := redis.Publish(ctx, channel, job.payload); err != nil {
				log.Warn("Failed to publish push payload", "targetID", job.targetID, "err", err)
			}
			cancel()
		case <-s.stopChan:
			return
		}
	}
}

func (s *chatServiceImpl) toMessageDTO(m *mongo.Message) *dto.MessageDTO {
	return &dto.MessageDTO{
		ID:             m.ID.Hex(),
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		MsgType:        m.MsgType,
		Content:        m.Content,
		Payload:        toPayloadDTOs(m.Payload),
		CreatedAt:      m.CreatedAt,
	}
}

func toPayloadModels(in []dto.PayloadDTO) []mongo.Payload {
	if len(in) == 0 {
		return nil
	}
	out := make([]mongo.Payload, 0, len(in))
	for _, p := range in {
		out = append(out, mongo.Payload{
			MimeType: p.MimeType,
			MediaURL: p.MediaURL,
			Width:    p.Width,
			Height:   p.Height,
			Duration: p.Duration,
			CoverURL: p.CoverURL,
		})
	}
	return out
}

func toPayloadDTOs(in []mongo.Payload) []dto.PayloadDTO {
	if len(in) == 0 {
		return nil
	}
	out := make([]dto.PayloadDTO, 0, len(in))
	for _, p := range in {
		out = append(out, dto.PayloadDTO{
			MimeType: p.MimeType,
			MediaURL: p.MediaURL,
			Width:    p.Width,
			Height:   p.Height,
			Duration: p.Duration,
			CoverURL: p.CoverURL,
		})
	}
	return out
}
