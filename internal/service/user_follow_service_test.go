package service

import (
	"Wellspring/internal/model"
	"Wellspring/internal/pkg/consts"
	"Wellspring/internal/pkg/kafka"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRelationRepo struct {
	following map[uint64][]uint64
	followers map[uint64][]uint64
}

func newFakeRelationRepo() *fakeRelationRepo {
	return &fakeRelationRepo{
		following: make(map[uint64][]uint64),
		followers: make(map[uint64][]uint64),
	}
}

func (f *fakeRelationRepo) Follow(ctx context.Context, userID, targetID uint64) error {
	f.following[userID] = append(f.following[userID], targetID)
	f.followers[targetID] = append(f.followers[targetID], userID)
	return nil
}

func (f *fakeRelationRepo) Unfollow(ctx context.Context, userID, targetID uint64) error {
	f.following[userID] = removeID(f.following[userID], targetID)
	f.followers[targetID] = removeID(f.followers[targetID], userID)
	return nil
}

func (f *fakeRelationRepo) IsFollowing(ctx context.Context, userID, targetID uint64) (bool, error) {
	for _, id := range f.following[userID] {
		if id == targetID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRelationRepo) GetFollowing(ctx context.Context, userID uint64) ([]uint64, error) {
	return f.following[userID], nil
}

func (f *fakeRelationRepo) GetFollowers(ctx context.Context, userID uint64) ([]uint64, error) {
	return f.followers[userID], nil
}

func (f *fakeRelationRepo) CountFollowing(ctx context.Context, userID uint64) (int64, error) {
	return int64(len(f.following[userID])), nil
}

func (f *fakeRelationRepo) CountFollowers(ctx context.Context, userID uint64) (int64, error) {
	return int64(len(f.followers[userID])), nil
}

func removeID(ids []uint64, target uint64) []uint64 {
	res := ids[:0]
	for _, id := range ids {
		if id != target {
			res = append(res, id)
		}
	}
	return res
}

type fakeActivityProducer struct {
	events []*kafka.ActivityEvent
}

func (f *fakeActivityProducer) Publish(ctx context.Context, event *kafka.ActivityEvent) error {
	f.events = append(f.events, event)
	return nil
}

func (f *fakeActivityProducer) Close() error { return nil }

func newFollowFixture() (*fakeRelationRepo, *fakeActivityProducer, UserFollowService) {
	rel := newFakeRelationRepo()
	producer := &fakeActivityProducer{}
	users := newFakeUserRepo()
	users.users[1] = &model.User{ID: 1}
	users.users[2] = &model.User{ID: 2}
	return rel, producer, NewUserFollowService(rel, users, producer)
}

func TestFollowAddsBothSidesOnce(t *testing.T) {
	rel, producer, svc := newFollowFixture()

	require.NoError(t, svc.Follow(context.Background(), 1, 2))

	following, err := svc.GetFollowingCount(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), following)

	assert.Equal(t, []uint64{2}, rel.following[1])
	assert.Equal(t, []uint64{1}, rel.followers[2])
	assert.Empty(t, rel.following[2])
	assert.Empty(t, rel.followers[1])

	require.Len(t, producer.events, 1)
	assert.Equal(t, consts.ActivityKindFollow, producer.events[0].Kind)
	assert.Equal(t, uint64(2), producer.events[0].ReceiverID)
	assert.Equal(t, uint64(1), producer.events[0].SenderID)
}

func TestFollowTwiceRejected(t *testing.T) {
	rel, _, svc := newFollowFixture()

	require.NoError(t, svc.Follow(context.Background(), 1, 2))
	err := svc.Follow(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrFollowExist)

	assert.Len(t, rel.following[1], 1)
	assert.Len(t, rel.followers[2], 1)
}

func TestFollowSelfRejected(t *testing.T) {
	_, _, svc := newFollowFixture()

	assert.ErrorIs(t, svc.Follow(context.Background(), 1, 1), ErrFollowSelf)
	assert.ErrorIs(t, svc.Unfollow(context.Background(), 1, 1), ErrFollowSelf)
}

func TestFollowUnknownUserRejected(t *testing.T) {
	_, _, svc := newFollowFixture()

	assert.ErrorIs(t, svc.Follow(context.Background(), 1, 99), ErrUserNotFound)
}

func TestFollowUnfollowRestores(t *testing.T) {
	rel, _, svc := newFollowFixture()

	require.NoError(t, svc.Follow(context.Background(), 1, 2))
	require.NoError(t, svc.Unfollow(context.Background(), 1, 2))

	ok, err := svc.IsFollowing(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, rel.following[1])
	assert.Empty(t, rel.followers[2])

	// 再次关注应当回到单条关系
	require.NoError(t, svc.Follow(context.Background(), 1, 2))
	assert.Equal(t, []uint64{2}, rel.following[1])
	assert.Equal(t, []uint64{1}, rel.followers[2])
}
