package dto

import "time"

// SendMessageReq 发送消息请求体
type SendMessageReq struct {
	TargetUserID uint64       `json:"target_user_id" binding:"required"`
	MsgType      int          `json:"msg_type" binding:"required"` // 1-文本, 2-图片...
	Content      string       `json:"content" binding:"required"`
	Payload      []PayloadDTO `json:"payload"`
}

// PayloadDTO 消息附件
type PayloadDTO struct {
	MimeType string  `json:"mime_type"`
	MediaURL string  `json:"url"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Duration float64 `json:"duration"`
	CoverURL string  `json:"cover_url,omitempty"`
}

// MessageDTO 消息明细响应
type MessageDTO struct {
	ID             string       `json:"id,omitempty"`
	ConversationID string       `json:"conversation_id"`
	SenderID       uint64       `json:"sender_id"`
	MsgType        int          `json:"msg_type"`
	Content        string       `json:"content"`
	Payload        []PayloadDTO `json:"payload,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// ConversationDTO 会话列表项响应
type ConversationDTO struct {
	ConversationID string    `json:"conversation_id"`
	PeerID         uint64    `json:"peer_id"` // 对手方ID
	PeerNickname   string    `json:"peer_nickname"`
	PeerAvatar     string    `json:"peer_avatar"`
	LastMsgContent string    `json:"last_msg_content"`
	LastSenderID   uint64    `json:"last_sender_id"`
	LastMessageAt  time.Time `json:"lastMessageAt"`
	UnreadCount    int64     `json:"unreadCount"`
}

// ReadReceiptDTO 已读回执推送
type ReadReceiptDTO struct {
	ConversationID string `json:"conversation_id"`
	UserID         uint64 `json:"user_id"`
	Type           string `json:"type"`
}

// ChatUnreadDTO 会话未读总数返回
type ChatUnreadDTO struct {
	UnreadCount int64 `json:"unread_count"`
}
