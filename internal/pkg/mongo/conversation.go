package mongo

import (
	"fmt"
	"time"
)

// Conversation MongoDB 私聊会话模型
// _id 为两个参与者 UID 升序拼接的 PairKey，保证同一对用户只存在一个会话
type Conversation struct {
	ID            string           `bson:"_id" json:"id"`                        // PairKey: "<小UID>_<大UID>"
	Participants  []uint64         `bson:"participants" json:"participants"`     // 两个参与者的 UID
	LastContent   string           `bson:"last_content" json:"lastContent"`      // 最后一条消息预览
	LastSenderID  uint64           `bson:"last_sender_id" json:"lastSenderId"`   // 最后一条消息发送者
	LastMessageAt time.Time        `bson:"last_message_at" json:"lastMessageAt"` // 最后一条消息时间
	Unread        map[string]int64 `bson:"unread" json:"unread"`                 // 各参与者的未读计数，key 为 UID 字符串
	CreatedAt     time.Time        `bson:"created_at" json:"createdAt"`
}

// PairKey 计算两个用户的会话标识，顺序无关
func PairKey(userID, peerID uint64) string {
	if userID < peerID {
		return fmt.Sprintf("%d_%d", userID, peerID)
	}
	return fmt.Sprintf("%d_%d", peerID, userID)
}

// UnreadOf 取指定参与者的未读计数
func (c *Conversation) UnreadOf(userID uint64) int64 {
	if c.Unread == nil {
		return 0
	}
	return c.Unread[fmt.Sprintf("%d", userID)]
}

// PeerOf 取会话中另一方的 UID
func (c *Conversation) PeerOf(userID uint64) uint64 {
	for _, p := range c.Participants {
		if p != userID {
			return p
		}
	}
	return userID
}
