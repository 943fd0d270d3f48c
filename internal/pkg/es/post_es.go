package es

import "time"

// PostES 写入 ES 的完整文档
type PostES struct {
	ID            uint64        `json:"id"`
	UserID        uint64        `json:"user_id"`
	ChallengeID   uint64        `json:"challenge_id,omitempty"`
	Status        int           `json:"status"`
	Title         string        `json:"title"`
	Content       string        `json:"content"`
	Tags          []string      `json:"tags,omitempty"`
	ContentVector []float32     `json:"content_vector,omitempty"`
	Media         []PostMediaES `json:"media"`
	UserNickname  string        `json:"user_nickname"`
	UserAvatar    string        `json:"user_avatar"`
	LikesCount    int           `json:"likes_count"`
	CommentsCount int           `json:"comments_count"`
	CoinsCount    int           `json:"coins_count"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	// Sort 为 SearchAfter 游标回传值，不入索引
	Sort []interface{} `json:"-"`
}

// PostMediaES 对应 Mapping 中的 media 对象
type PostMediaES struct {
	Type     string  `json:"type"`
	URL      string  `json:"url"`
	Cover    *string `json:"cover,omitempty"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Duration int     `json:"duration"`
}
