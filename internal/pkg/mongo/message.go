package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message MongoDB 私聊消息明细模型
type Message struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ConversationID string             `bson:"conversation_id" json:"conversationId"` // 会话 PairKey
	SenderID       uint64             `bson:"sender_id" json:"senderId"`             // 发送者 UID
	MsgType        int                `bson:"msg_type" json:"msgType"`               // 1-文本, 2-图片, 3-撤回占位
	Content        string             `bson:"content" json:"content"`                // 文本内容或消息预览
	Payload        []Payload          `bson:"payload,omitempty" json:"payload"`      // 结构化附件
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`           // 消息发送时间
}

// Payload 附件
type Payload struct {
	MimeType string  `bson:"mime_type" json:"mime_type"`
	MediaURL string  `bson:"url" json:"url"`
	Width    int     `bson:"width" json:"width"`
	Height   int     `bson:"height" json:"height"`
	Duration float64 `bson:"duration" json:"duration"`
	CoverURL string  `bson:"cover_url,omitempty" json:"cover_url"`
}
