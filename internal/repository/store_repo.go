package repository

import (
	"Wellspring/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

// ErrInsufficientBalance 购买时余额不足
var ErrInsufficientBalance = errors.New("insufficient balance")

type StoreRepo interface {
	GetItems(ctx context.Context, limit, offset int) ([]*model.StoreItem, error)
	GetItem(ctx context.Context, id uint64) (*model.StoreItem, error)
	GetUserItems(ctx context.Context, userID uint64) ([]*model.UserItem, error)
	CheckOwned(ctx context.Context, userID, itemID uint64) (bool, error)
	Purchase(ctx context.Context, userID uint64, item *model.StoreItem) (int64, error)
	SetEquipped(ctx context.Context, userID, itemID uint64, equipped bool) error
	UnequipSlot(ctx context.Context, userID uint64, slot string) error
}

type StoreRepoImpl struct {
	db *gorm.DB
}

func NewStoreRepo(db *gorm.DB) StoreRepo {
	return &StoreRepoImpl{db: db}
}

func (s *StoreRepoImpl) GetItems(ctx context.Context, limit, offset int) ([]*model.StoreItem, error) {
	var items []*model.StoreItem
	err := s.db.WithContext(ctx).
		Where("on_shelf = ?", true).
		Order("id ASC").
		Limit(limit).Offset(offset).
		Find(&items).Error
	return items, err
}

func (s *StoreRepoImpl) GetItem(ctx context.Context, id uint64) (*model.StoreItem, error) {
	var item model.StoreItem
	err := s.db.WithContext(ctx).First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (s *StoreRepoImpl) GetUserItems(ctx context.Context, userID uint64) ([]*model.UserItem, error) {
	var items []*model.UserItem
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (s *StoreRepoImpl) CheckOwned(ctx context.Context, userID, itemID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.UserItem{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Count(&count).Error
	return count > 0, err
}

// Purchase 在事务中完成购买：条件扣款 + 发放道具，返回扣款后余额
// 余额不足返回 ErrInsufficientBalance，重复购买由唯一主键兜底
func (s *StoreRepoImpl) Purchase(ctx context.Context, userID uint64, item *model.StoreItem) (int64, error) {
	var remaining int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deduct := tx.Model(&model.User{}).
			Where("id = ? AND coins >= ?", userID, item.Price).
			Update("coins", gorm.Expr("coins - ?", item.Price))
		if deduct.Error != nil {
			return deduct.Error
		}
		if deduct.RowsAffected == 0 {
			return ErrInsufficientBalance
		}

		if err := tx.Create(&model.UserItem{
			UserID: userID,
			ItemID: item.ID,
		}).Error; err != nil {
			return err
		}

		var user model.User
		if err := tx.Select("coins").First(&user, userID).Error; err != nil {
			return err
		}
		remaining = user.Coins
		return nil
	})
	return remaining, err
}

func (s *StoreRepoImpl) SetEquipped(ctx context.Context, userID, itemID uint64, equipped bool) error {
	result := s.db.WithContext(ctx).Model(&model.UserItem{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Update("is_equipped", equipped)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UnequipSlot 卸下同槽位已装扮的道具，保证每个槽位至多一件
func (s *StoreRepoImpl) UnequipSlot(ctx context.Context, userID uint64, slot string) error {
	return s.db.WithContext(ctx).
		Model(&model.UserItem{}).
		Where("user_id = ? AND is_equipped = ? AND item_id IN (?)",
			userID, true,
			s.db.Model(&model.StoreItem{}).Select("id").Where("slot = ?", slot),
		).
		Update("is_equipped", false).Error
}
