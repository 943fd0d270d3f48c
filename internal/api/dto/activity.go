package dto

// ActivityDTO 动态通知返回对象
type ActivityDTO struct {
	ID         string         `json:"id"`
	SenderID   uint64         `json:"sender_id"`
	SenderName string         `json:"sender_name"`
	AvatarURL  string         `json:"avatar_url"`
	Kind       string         `json:"kind"`      // follow / like / comment / coin / challenge_invite / challenge_win
	TargetID   uint64         `json:"target_id"` // 关联的帖子ID或挑战ID
	Content    string         `json:"content"`   // 预览内容
	Payload    map[string]any `json:"payload"`   // 扩展字段
	IsRead     bool           `json:"is_read"`
	CreatedAt  string         `json:"created_at"`
}

// ActivityUnreadDTO 未读数返回
type ActivityUnreadDTO struct {
	UnreadCount int64 `json:"unread_count"`
}

// ActivityMarkAllDTO 一键已读返回
type ActivityMarkAllDTO struct {
	MarkedCount int64 `json:"marked_count"`
}
