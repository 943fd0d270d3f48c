package model

import "time"

// Post 动态主表，Media 以 JSON 数组冗余存储对象元数据
type Post struct {
	ID           uint64  `gorm:"primaryKey" json:"id"`
	UserID       uint64  `gorm:"index:idx_post_user;not null" json:"userId"`
	ChallengeID  *uint64 `gorm:"index:idx_post_challenge" json:"challengeId"` // 关联的挑战（打卡动态）
	Title        string  `gorm:"type:varchar(255);not null" json:"title"`
	Content      string  `gorm:"type:text" json:"content"`
	Media        *string `gorm:"type:json" json:"media"`
	Status       int     `gorm:"type:tinyint;not null;default:1;index" json:"status"` // 1-正常, 2-待审核, 3-拒绝
	LikeCount    int64   `gorm:"not null;default:0" json:"likeCount"`
	CommentCount int64   `gorm:"not null;default:0" json:"commentCount"`
	CoinCount    int64   `gorm:"not null;default:0" json:"coinCount"`
	ViewCount    int64   `gorm:"not null;default:0" json:"viewCount"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (Post) TableName() string { return "posts" }

// PostMedia 对应 Media JSON 的单个元素
type PostMedia struct {
	Type     string  `json:"type"` // image / video
	URL      string  `json:"url"`
	Cover    *string `json:"cover,omitempty"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Duration float64 `json:"duration"`
}
