package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityModel 动态通知模型 (关注、点赞、评论、投币、挑战邀请、挑战获胜)
type ActivityModel struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReceiverID uint64             `bson:"receiver_id" json:"receiverId"` // 通知接收者ID
	SenderID   uint64             `bson:"sender_id" json:"senderId"`     // 动作发起者ID (系统事件为0)
	Kind       string             `bson:"kind" json:"kind"`              // 事件类型，见 consts.ActivityKind*
	TargetID   uint64             `bson:"target_id" json:"targetId"`     // 关联的目标ID (帖子ID、挑战ID等)
	Content    string             `bson:"content" json:"content"`        // 通知文案预览或评论片段
	Payload    map[string]any     `bson:"payload" json:"payload"`        // 额外元数据 (如帖子标题快照)
	IsRead     bool               `bson:"is_read" json:"isRead"`         // 是否已读
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`   // 创建时间
}
