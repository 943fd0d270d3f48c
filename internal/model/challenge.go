package model

import "time"

// Challenge 挑战主表
type Challenge struct {
	ID          uint64    `gorm:"primaryKey" json:"id"`
	CreatorID   uint64    `gorm:"index:idx_challenge_creator;not null" json:"creatorId"`
	Title       string    `gorm:"type:varchar(100);not null" json:"title"`
	Description string    `gorm:"type:varchar(1000)" json:"description"`
	Goal        int64     `gorm:"not null;default:0" json:"goal"` // 目标打卡次数
	Status      int       `gorm:"type:tinyint;not null;default:1;index" json:"status"` // 1-进行中, 2-已结束
	WinnerID    *uint64   `json:"winnerId"`
	CertURL     *string   `gorm:"type:varchar(512)" json:"certUrl"`
	StartAt     time.Time `gorm:"not null" json:"startAt"`
	EndAt       time.Time `gorm:"not null;index" json:"endAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Challenge) TableName() string { return "challenges" }

// ChallengeMember 挑战成员表，Progress 为累计打卡次数
type ChallengeMember struct {
	ChallengeID uint64    `gorm:"primaryKey" json:"challengeId"`
	UserID      uint64    `gorm:"primaryKey;index:idx_member_user" json:"userId"`
	Progress    int64     `gorm:"not null;default:0" json:"progress"`
	JoinedAt    time.Time `json:"joinedAt"`
}

func (ChallengeMember) TableName() string { return "challenge_members" }
