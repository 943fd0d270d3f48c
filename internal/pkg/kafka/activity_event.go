package kafka

import (
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// ActivityEvent 业务侧写入 activity 主题的事件，一条事件落库一条活动通知
type ActivityEvent struct {
	ReceiverID uint64         `json:"receiver_id"`
	SenderID   uint64         `json:"sender_id"`
	Kind       string         `json:"kind"`
	TargetID   uint64         `json:"target_id"`
	Content    string         `json:"content"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// ToActivityEvent 将kafka消息转换为活动事件结构体
func ToActivityEvent(msg *sarama.ConsumerMessage) (*ActivityEvent, error) {
	var event ActivityEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		log.Error("unmarshal activity event error", "err", err)
		return nil, errors.Wrap(err, "unmarshal activity event")
	}

	if event.ReceiverID == 0 || event.Kind == "" {
		return nil, errors.New("activity event missing receiver or kind")
	}

	return &event, nil
}
