package dto

// StoreItemDTO 商城道具
type StoreItemDTO struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Slot    string `json:"slot"`
	Price   int64  `json:"price"`
	IconURL string `json:"icon_url"`
	IsOwned bool   `json:"is_owned"`
}

// PurchaseReq 购买请求
type PurchaseReq struct {
	ItemID uint64 `json:"item_id" binding:"required"`
}

// PurchaseDTO 购买结果
type PurchaseDTO struct {
	ItemID        uint64 `json:"item_id"`
	RemainingCoin int64  `json:"remaining_coin"`
}

// EquipReq 装扮/卸下请求
type EquipReq struct {
	ItemID uint64 `json:"item_id" binding:"required"`
	Equip  bool   `json:"equip"`
}

// UserItemDTO 用户持有道具
type UserItemDTO struct {
	ItemID     uint64 `json:"item_id"`
	Name       string `json:"name"`
	Slot       string `json:"slot"`
	IconURL    string `json:"icon_url"`
	IsEquipped bool   `json:"is_equipped"`
}
