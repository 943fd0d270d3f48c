package model

import "time"

// StoreItem 商城道具表，Slot 区分装扮位置
type StoreItem struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(64);not null" json:"name"`
	Slot      string    `gorm:"type:varchar(32);not null;index" json:"slot"` // avatar_frame / profile_bg / badge
	Price     int64     `gorm:"not null;default:0" json:"price"`
	IconURL   string    `gorm:"type:varchar(512)" json:"iconUrl"`
	OnShelf   bool      `gorm:"not null;default:true" json:"onShelf"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (StoreItem) TableName() string { return "store_items" }

// UserItem 用户持有道具表
type UserItem struct {
	UserID     uint64    `gorm:"primaryKey" json:"userId"`
	ItemID     uint64    `gorm:"primaryKey" json:"itemId"`
	IsEquipped bool      `gorm:"not null;default:false" json:"isEquipped"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (UserItem) TableName() string { return "user_items" }
