package service

import (
	"Wellspring/internal/api/dto"
	"Wellspring/internal/model"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStoreRepo struct {
	items       map[uint64]*model.StoreItem
	owned       map[uint64]bool
	unequipped  []string
	equipCalls  []uint64
	purchaseErr error
}

func newFakeStoreRepo() *fakeStoreRepo {
	return &fakeStoreRepo{
		items: make(map[uint64]*model.StoreItem),
		owned: make(map[uint64]bool),
	}
}

func (f *fakeStoreRepo) GetItems(ctx context.Context, limit, offset int) ([]*model.StoreItem, error) {
	var res []*model.StoreItem
	for _, it := range f.items {
		if it.OnShelf {
			res = append(res, it)
		}
	}
	return res, nil
}

func (f *fakeStoreRepo) GetItem(ctx context.Context, id uint64) (*model.StoreItem, error) {
	return f.items[id], nil
}

func (f *fakeStoreRepo) GetUserItems(ctx context.Context, userID uint64) ([]*model.UserItem, error) {
	var res []*model.UserItem
	for id := range f.owned {
		res = append(res, &model.UserItem{UserID: userID, ItemID: id})
	}
	return res, nil
}

func (f *fakeStoreRepo) CheckOwned(ctx context.Context, userID, itemID uint64) (bool, error) {
	return f.owned[itemID], nil
}

func (f *fakeStoreRepo) Purchase(ctx context.Context, userID uint64, item *model.StoreItem) (int64, error) {
	if f.purchaseErr != nil {
		return 0, f.purchaseErr
	}
	f.owned[item.ID] = true
	return 100 - item.Price, nil
}

func (f *fakeStoreRepo) SetEquipped(ctx context.Context, userID, itemID uint64, equipped bool) error {
	f.equipCalls = append(f.equipCalls, itemID)
	return nil
}

func (f *fakeStoreRepo) UnequipSlot(ctx context.Context, userID uint64, slot string) error {
	f.unequipped = append(f.unequipped, slot)
	return nil
}

func TestPurchaseItemNotFound(t *testing.T) {
	repo := newFakeStoreRepo()
	svc := NewStoreService(repo)

	_, err := svc.Purchase(context.Background(), 1, &dto.PurchaseReq{ItemID: 99})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestPurchaseItemOffShelf(t *testing.T) {
	repo := newFakeStoreRepo()
	repo.items[5] = &model.StoreItem{ID: 5, Name: "金色头像框", Slot: "avatar_frame", Price: 30, OnShelf: false}
	svc := NewStoreService(repo)

	_, err := svc.Purchase(context.Background(), 1, &dto.PurchaseReq{ItemID: 5})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestPurchaseAlreadyOwned(t *testing.T) {
	repo := newFakeStoreRepo()
	repo.items[5] = &model.StoreItem{ID: 5, Name: "金色头像框", Slot: "avatar_frame", Price: 30, OnShelf: true}
	repo.owned[5] = true
	svc := NewStoreService(repo)

	_, err := svc.Purchase(context.Background(), 1, &dto.PurchaseReq{ItemID: 5})
	assert.ErrorIs(t, err, ErrItemOwned)
}

func TestEquipNotOwned(t *testing.T) {
	repo := newFakeStoreRepo()
	repo.items[5] = &model.StoreItem{ID: 5, Name: "金色头像框", Slot: "avatar_frame", OnShelf: true}
	svc := NewStoreService(repo)

	err := svc.Equip(context.Background(), 1, &dto.EquipReq{ItemID: 5, Equip: true})
	assert.ErrorIs(t, err, ErrItemNotOwned)
}

func TestEquipUnequipsSlotFirst(t *testing.T) {
	repo := newFakeStoreRepo()
	repo.items[5] = &model.StoreItem{ID: 5, Name: "金色头像框", Slot: "avatar_frame", OnShelf: true}
	repo.owned[5] = true
	svc := NewStoreService(repo)

	err := svc.Equip(context.Background(), 1, &dto.EquipReq{ItemID: 5, Equip: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"avatar_frame"}, repo.unequipped)
	assert.Equal(t, []uint64{5}, repo.equipCalls)
}

func TestUnequipSkipsSlotClear(t *testing.T) {
	repo := newFakeStoreRepo()
	repo.items[5] = &model.StoreItem{ID: 5, Name: "金色头像框", Slot: "avatar_frame", OnShelf: true}
	repo.owned[5] = true
	svc := NewStoreService(repo)

	err := svc.Equip(context.Background(), 1, &dto.EquipReq{ItemID: 5, Equip: false})
	require.NoError(t, err)
	assert.Empty(t, repo.unequipped)
	assert.Equal(t, []uint64{5}, repo.equipCalls)
}
