package model

import "time"

// PostComment 评论表，RootID 为 0 表示一级评论
type PostComment struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	PostID    uint64    `gorm:"index:idx_comment_post;not null" json:"postId"`
	UserID    uint64    `gorm:"index:idx_comment_user;not null" json:"userId"`
	RootID    uint64    `gorm:"not null;default:0;index" json:"rootId"`
	ReplyToID uint64    `gorm:"not null;default:0" json:"replyToId"`
	Content   string    `gorm:"type:varchar(1000);not null" json:"content"`
	IsDelete  bool      `gorm:"type:tinyint(1);default:0" json:"-"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (PostComment) TableName() string { return "post_comments" }
