package service

import (
	"Wellspring/internal/pkg/mongo"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

type fakeActivityRepo struct {
	byID        map[primitive.ObjectID]*mongo.ActivityModel
	markedIDs   []string
	markedAll   bool
	unreadCount int64
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{byID: make(map[primitive.ObjectID]*mongo.ActivityModel)}
}

func (f *fakeActivityRepo) CreateActivity(ctx context.Context, msg *mongo.ActivityModel) error {
	f.byID[msg.ID] = msg
	return nil
}

func (f *fakeActivityRepo) GetActivityList(ctx context.Context, userID uint64, limit, offset int64) ([]*mongo.ActivityModel, error) {
	var res []*mongo.ActivityModel
	for _, m := range f.byID {
		if m.ReceiverID == userID {
			res = append(res, m)
		}
	}
	return res, nil
}

func (f *fakeActivityRepo) MarkAsRead(ctx context.Context, userID uint64, msgID string) error {
	f.markedIDs = append(f.markedIDs, msgID)
	return nil
}

func (f *fakeActivityRepo) MarkAllAsRead(ctx context.Context, userID uint64) (int64, error) {
	f.markedAll = true
	return f.unreadCount, nil
}

func (f *fakeActivityRepo) GetUnreadCount(ctx context.Context, userID uint64) (int64, error) {
	return f.unreadCount, nil
}

func (f *fakeActivityRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*mongo.ActivityModel, error) {
	m, ok := f.byID[id]
	if !ok {
		return nil, mongoDB.ErrNoDocuments
	}
	return m, nil
}

func TestMarkReadInvalidID(t *testing.T) {
	svc := NewActivityService(newFakeActivityRepo(), nil)
	err := svc.MarkRead(context.Background(), 1, "not-a-hex")
	assert.ErrorIs(t, err, ErrParamInvalid)
}

func TestMarkReadNotFound(t *testing.T) {
	svc := NewActivityService(newFakeActivityRepo(), nil)
	err := svc.MarkRead(context.Background(), 1, primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrActivityNotFound)
}

func TestMarkReadWrongReceiver(t *testing.T) {
	repo := newFakeActivityRepo()
	id := primitive.NewObjectID()
	repo.byID[id] = &mongo.ActivityModel{ID: id, ReceiverID: 2, CreatedAt: time.Now()}
	svc := NewActivityService(repo, nil)

	err := svc.MarkRead(context.Background(), 1, id.Hex())
	assert.ErrorIs(t, err, UnauthorizedError)
}

func TestMarkReadAlreadyRead(t *testing.T) {
	repo := newFakeActivityRepo()
	id := primitive.NewObjectID()
	repo.byID[id] = &mongo.ActivityModel{ID: id, ReceiverID: 1, IsRead: true}
	svc := NewActivityService(repo, nil)

	err := svc.MarkRead(context.Background(), 1, id.Hex())
	require.NoError(t, err)
	// 已读的通知不再触发写操作
	assert.Empty(t, repo.markedIDs)
}

func TestMarkRead(t *testing.T) {
	repo := newFakeActivityRepo()
	id := primitive.NewObjectID()
	repo.byID[id] = &mongo.ActivityModel{ID: id, ReceiverID: 1}
	svc := NewActivityService(repo, nil)

	err := svc.MarkRead(context.Background(), 1, id.Hex())
	require.NoError(t, err)
	assert.Equal(t, []string{id.Hex()}, repo.markedIDs)
}

func TestMarkAllReadReturnsCount(t *testing.T) {
	repo := newFakeActivityRepo()
	repo.unreadCount = 5
	svc := NewActivityService(repo, nil)

	res, err := svc.MarkAllRead(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, repo.markedAll)
	assert.Equal(t, int64(5), res.MarkedCount)
}

func TestGetUnreadCount(t *testing.T) {
	repo := newFakeActivityRepo()
	repo.unreadCount = 3
	svc := NewActivityService(repo, nil)

	res, err := svc.GetUnreadCount(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.UnreadCount)
}
