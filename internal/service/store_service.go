package service

import (
	"Wellspring/internal/api/dto"
	"Wellspring/internal/pkg/consts"
	"Wellspring/internal/pkg/minio"
	"Wellspring/internal/pkg/redis"
	"Wellspring/internal/repository"
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StoreService interface {
	GetItems(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.StoreItemDTO, error)
	GetUserItems(ctx context.Context, userID uint64) ([]*dto.UserItemDTO, error)
	Purchase(ctx context.Context, userID uint64, req *dto.PurchaseReq) (*dto.PurchaseDTO, error)
	Equip(ctx context.Context, userID uint64, req *dto.EquipReq) error
}

type storeServiceImpl struct {
	storeRepo repository.StoreRepo
}

func NewStoreService(storeRepo repository.StoreRepo) StoreService {
	return &storeServiceImpl{storeRepo: storeRepo}
}

func (s *storeServiceImpl) GetItems(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.StoreItemDTO, error) {
	items, err := s.storeRepo.GetItems(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	ownedSet := make(map[uint64]struct{})
	if userID > 0 {
		userItems, err := s.storeRepo.GetUserItems(ctx, userID)
		if err != nil {
			return nil, err
		}
		for _, ui := range userItems {
			ownedSet[ui.ItemID] = struct{}{}
		}
	}

	res := make([]*dto.StoreItemDTO, 0, len(items))
	for _, item := range items {
		_, owned := ownedSet[item.ID]
		res = append(res, &dto.StoreItemDTO{
			ID:      item.ID,
			Name:    item.Name,
			Slot:    item.Slot,
			Price:   item.Price,
			IconURL: minio.GetPublicURL(item.IconURL),
			IsOwned: owned,
		})
	}
	return res, nil
}

func (s *storeServiceImpl) GetUserItems(ctx context.Context, userID uint64) ([]*dto.UserItemDTO, error) {
	userItems, err := s.storeRepo.GetUserItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.UserItemDTO, 0, len(userItems))
	for _, ui := range userItems {
		item, err := s.storeRepo.GetItem(ctx, ui.ItemID)
		if err != nil || item == nil {
			continue
		}
		res = append(res, &dto.UserItemDTO{
			ItemID:     ui.ItemID,
			Name:       item.Name,
			Slot:       item.Slot,
			IconURL:    minio.GetPublicURL(item.IconURL),
			IsEquipped: ui.IsEquipped,
		})
	}
	return res, nil
}

// Purchase 购买道具：扣款与发放由仓储层事务保证原子
func (s *storeServiceImpl) Purchase(ctx context.Context, userID uint64, req *dto.PurchaseReq) (*dto.PurchaseDTO, error) {
	item, err := s.storeRepo.GetItem(ctx, req.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil || !item.OnShelf {
		return nil, ErrItemNotFound
	}

	owned, err := s.storeRepo.CheckOwned(ctx, userID, req.ItemID)
	if err != nil {
		return nil, err
	}
	if owned {
		return nil, ErrItemOwned
	}

	lockKey := consts.StorePurchaseLock + strconv.FormatUint(userID, 10)
	lockUUID := uuid.NewString()
	ok, err := redis.TryLock(ctx, lockKey, lockUUID, 5*time.Second, 3)
	if err != nil || !ok {
		return nil, ErrActionDuplicate
	}
	defer redis.UnLock(ctx, lockKey, lockUUID)

	remaining, err := s.storeRepo.Purchase(ctx, userID, item)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientBalance) {
			return nil, ErrCoinInsufficient
		}
		if isDuplicateError(err) {
			return nil, ErrItemOwned
		}
		return nil, err
	}

	return &dto.PurchaseDTO{ItemID: req.ItemID, RemainingCoin: remaining}, nil
}

// Equip 装扮道具时先卸下同槽位的旧道具
func (s *storeServiceImpl) Equip(ctx context.Context, userID uint64, req *dto.EquipReq) error {
	item, err := s.storeRepo.GetItem(ctx, req.ItemID)
	if err != nil {
		return err
	}
	if item == nil {
		return ErrItemNotFound
	}

	owned, err := s.storeRepo.CheckOwned(ctx, userID, req.ItemID)
	if err != nil {
		return err
	}
	if !owned {
		return ErrItemNotOwned
	}

	if req.Equip {
		if err = s.storeRepo.UnequipSlot(ctx, userID, item.Slot); err != nil {
			return err
		}
	}
	if err = s.storeRepo.SetEquipped(ctx, userID, req.ItemID, req.Equip); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrItemNotOwned
		}
		return err
	}
	return nil
}
