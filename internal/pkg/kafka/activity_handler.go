package kafka

import (
	"Wellspring/internal/pkg/consts"
	"Wellspring/internal/pkg/mongo"
	"Wellspring/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// ActivityHandler 消费活动事件：落库到活动信箱，并向在线用户推送
type ActivityHandler struct {
	activityRepo mongo.ActivityRepo
	userRepo     repository.UserRepo
	rdb          *redis.Client
}

func NewActivityHandler(activityRepo mongo.ActivityRepo, userRepo repository.UserRepo, rdb *redis.Client) *ActivityHandler {
	return &ActivityHandler{
		activityRepo: activityRepo,
		userRepo:     userRepo,
		rdb:          rdb,
	}
}

func (s *ActivityHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("activity consumer setup")
	return nil
}

func (s *ActivityHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("activity consumer cleanup")
	return nil
}

func (s *ActivityHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-activity consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-activity process batch error", "err", err)
		return err
	}
	return nil
}

func (s *ActivityHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	event, err := ToActivityEvent(msg)
	if err != nil {
		// 解析失败的消息无法重试成功，记录后跳过
		log.ErrorContext(ctx, "drop malformed activity event", "err", err)
		return nil
	}

	// 自己对自己的操作不产生通知
	if event.ReceiverID == event.SenderID {
		return nil
	}

	createdAt := event.OccurredAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	activity := &mongo.ActivityModel{
		ReceiverID: event.ReceiverID,
		SenderID:   event.SenderID,
		Kind:       event.Kind,
		TargetID:   event.TargetID,
		Content:    event.Content,
		Payload:    event.Payload,
		IsRead:     false,
		CreatedAt:  createdAt,
	}

	if err := s.activityRepo.CreateActivity(ctx, activity); err != nil {
		return errors.Wrap(err, "create activity")
	}

	s.pushToReceiver(ctx, event)

	log.InfoContext(ctx, "activity event consumed",
		"kind", event.Kind, "senderID", event.SenderID, "receiverID", event.ReceiverID)
	return nil
}

// pushPayload 通过 Redis 频道下发给 WebSocket 网关的推送体
type pushPayload struct {
	Type  string         `json:"type"`
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Icon  string         `json:"icon"`
	Kind  string         `json:"kind"`
	Extra map[string]any `json:"extra,omitempty"`
}

// pushToReceiver 尽力而为的实时推送，失败只记日志不影响落库
func (s *ActivityHandler) pushToReceiver(ctx context.Context, event *ActivityEvent) {
	payload := pushPayload{
		Type:  consts.PushTypeActivity,
		Body:  event.Content,
		Kind:  event.Kind,
		Extra: event.Payload,
	}

	if event.SenderID != 0 {
		senders, err := s.userRepo.GetUserSimpleInfoByIds(ctx, []uint64{event.SenderID})
		if err != nil || len(senders) == 0 {
			log.WarnContext(ctx, "failed to get sender for push", "senderID", event.SenderID)
		} else {
			payload.Title = senders[0].Nickname
			payload.Icon = senders[0].AvatarURL
		}
	} else {
		payload.Title = "系统通知"
	}

	// 标题为空说明发送方信息缺失（注销或系统脏数据），不打扰用户
	if payload.Title == "" {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.ErrorContext(ctx, "marshal push payload error", "err", err)
		return
	}

	channel := consts.PushUserKey + strconv.FormatUint(event.ReceiverID, 10)
	if err := s.rdb.Publish(ctx, channel, data).Err(); err != nil {
		log.WarnContext(ctx, "publish push payload error", "channel", channel, "err", err)
	}
}
