package model

import "time"

// CoinGift 投币流水：记录一次用户向动态作者赠送金币
type CoinGift struct {
	ID         uint64    `gorm:"primaryKey" json:"id"`
	PostID     uint64    `gorm:"index:idx_gift_post;not null" json:"postId"`
	GiverID    uint64    `gorm:"index:idx_gift_giver;not null" json:"giverId"`
	ReceiverID uint64    `gorm:"not null" json:"receiverId"`
	Amount     int64     `gorm:"not null" json:"amount"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (CoinGift) TableName() string { return "coin_gifts" }
