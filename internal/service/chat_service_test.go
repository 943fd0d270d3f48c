package service

import (
	"Wellspring/internal/api/dto"
	"Wellspring/internal/model"
	"Wellspring/internal/pkg/mongo"
	"Wellspring/internal/pkg/redis"
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodrv "go.mongodb.org/mongo-driver/mongo"
)

func init() {
	// 单测不连真实 Redis，指向不可达地址让缓存与推送走失败分支
	redis.Rdb = goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond})
}

type fakeUserRepo struct {
	users map[uint64]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint64]*model.User)}
}

func (f *fakeUserRepo) GetUserById(ctx context.Context, id uint64) (*model.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) GetUserByIds(ctx context.Context, ids []uint64) ([]*model.User, error) {
	var res []*model.User
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			res = append(res, u)
		}
	}
	return res, nil
}

func (f *fakeUserRepo) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) GetUserByPhone(ctx context.Context, phone string) (*model.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) GetUserHomeInfoById(ctx context.Context, id uint64) (*model.UserDetail, error) {
	return nil, nil
}

func (f *fakeUserRepo) GetUserSimpleInfoByIds(ctx context.Context, ids []uint64) ([]*model.UserDetail, error) {
	var res []*model.UserDetail
	for _, id := range ids {
		if _, ok := f.users[id]; ok {
			res = append(res, &model.UserDetail{UserID: id, Nickname: "u" + strconv.FormatUint(id, 10)})
		}
	}
	return res, nil
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *model.User, detail *model.UserDetail, roles *[]*model.UserRole) error {
	return nil
}

func (f *fakeUserRepo) UpdateUser(ctx context.Context, user *model.User) error { return nil }

func (f *fakeUserRepo) UpdateUserIsBan(ctx context.Context, id uint64, isBan bool) (int64, error) {
	return 0, nil
}

func (f *fakeUserRepo) UpdateUserDetail(ctx context.Context, detail *model.UserDetail) error {
	return nil
}

func (f *fakeUserRepo) UpdateUserFollowCount(ctx context.Context, id uint64, followerCount int64, followingCount int64) error {
	return nil
}

func (f *fakeUserRepo) AddCoins(ctx context.Context, id uint64, delta int64) error { return nil }

func (f *fakeUserRepo) DeleteUser(ctx context.Context, id uint64) error { return nil }

// fakeChatStore 同时扮演会话与消息存储，模拟 SaveWithTouch 的事务语义
type fakeChatStore struct {
	convs        map[string]*mongo.Conversation
	msgs         []*mongo.Message
	saveErr      error
	lastPageSize int
}

func newFakeChatStore() *fakeChatStore {
	return &fakeChatStore{convs: make(map[string]*mongo.Conversation)}
}

func (f *fakeChatStore) SaveWithTouch(ctx context.Context, msg *mongo.Message, peerID uint64, preview string) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	msg.ID = primitive.NewObjectID()
	f.msgs = append(f.msgs, msg)

	conv, ok := f.convs[msg.ConversationID]
	if !ok {
		participants := []uint64{msg.SenderID, peerID}
		if peerID < msg.SenderID {
			participants = []uint64{peerID, msg.SenderID}
		}
		conv = &mongo.Conversation{
			ID:           msg.ConversationID,
			Participants: participants,
			Unread:       make(map[string]int64),
			CreatedAt:    msg.CreatedAt,
		}
		f.convs[msg.ConversationID] = conv
	}
	conv.LastContent = preview
	conv.LastSenderID = msg.SenderID
	conv.LastMessageAt = msg.CreatedAt
	conv.Unread[strconv.FormatUint(peerID, 10)]++
	return nil
}

func (f *fakeChatStore) GetByID(ctx context.Context, convID string) (*mongo.Conversation, error) {
	conv, ok := f.convs[convID]
	if !ok {
		return nil, mongodrv.ErrNoDocuments
	}
	return conv, nil
}

func (f *fakeChatStore) ListForUser(ctx context.Context, userID uint64, limit, offset int64) ([]*mongo.Conversation, error) {
	var res []*mongo.Conversation
	for _, conv := range f.convs {
		for _, p := range conv.Participants {
			if p == userID {
				res = append(res, conv)
				break
			}
		}
	}
	return res, nil
}

func (f *fakeChatStore) ClearUnread(ctx context.Context, convID string, userID uint64) error {
	conv, ok := f.convs[convID]
	if !ok {
		return mongodrv.ErrNoDocuments
	}
	conv.Unread[strconv.FormatUint(userID, 10)] = 0
	return nil
}

func (f *fakeChatStore) DeleteWithMessages(ctx context.Context, convID string) error {
	delete(f.convs, convID)
	kept := f.msgs[:0]
	for _, m := range f.msgs {
		if m.ConversationID != convID {
			kept = append(kept, m)
		}
	}
	f.msgs = kept
	return nil
}

func (f *fakeChatStore) TotalUnread(ctx context.Context, userID uint64) (int64, error) {
	var total int64
	key := strconv.FormatUint(userID, 10)
	for _, conv := range f.convs {
		total += conv.Unread[key]
	}
	return total, nil
}

func (f *fakeChatStore) GetHistory(ctx context.Context, convID string, before time.Time, pageSize int) ([]*mongo.Message, error) {
	f.lastPageSize = pageSize
	var res []*mongo.Message
	for _, m := range f.msgs {
		if m.ConversationID == convID && m.CreatedAt.Before(before) {
			res = append(res, m)
		}
		if len(res) >= pageSize {
			break
		}
	}
	return res, nil
}

func newChatFixture() (*fakeChatStore, ChatService) {
	store := newFakeChatStore()
	users := newFakeUserRepo()
	users.users[3] = &model.User{ID: 3}
	users.users[8] = &model.User{ID: 8}
	return store, NewChatService(store, store, users)
}

func TestSendMessageUpdatesConversationSummary(t *testing.T) {
	store, svc := newChatFixture()
	defer svc.Close()

	res, err := svc.SendMessage(context.Background(), 3, &dto.SendMessageReq{
		TargetUserID: 8,
		MsgType:      1,
		Content:      "明早六点河边见",
	})
	require.NoError(t, err)
	require.NotNil(t, res)

	conv, ok := store.convs["3_8"]
	require.True(t, ok)
	assert.Equal(t, "明早六点河边见", conv.LastContent)
	assert.Equal(t, uint64(3), conv.LastSenderID)
	assert.Equal(t, int64(1), conv.UnreadOf(8))
	assert.Equal(t, int64(0), conv.UnreadOf(3))
	first := conv.LastMessageAt
	assert.False(t, first.IsZero())

	_, err = svc.SendMessage(context.Background(), 8, &dto.SendMessageReq{
		TargetUserID: 3,
		MsgType:      1,
		Content:      "收到",
	})
	require.NoError(t, err)
	assert.False(t, conv.LastMessageAt.Before(first))
	assert.Equal(t, uint64(8), conv.LastSenderID)
	assert.Equal(t, int64(1), conv.UnreadOf(3))
}

func TestSendMessageRejectsInvalidTarget(t *testing.T) {
	store, svc := newChatFixture()
	defer svc.Close()

	_, err := svc.SendMessage(context.Background(), 3, &dto.SendMessageReq{TargetUserID: 3, MsgType: 1, Content: "hi"})
	assert.ErrorIs(t, err, ErrMessageTargetInvalid)

	_, err = svc.SendMessage(context.Background(), 3, &dto.SendMessageReq{TargetUserID: 99, MsgType: 1, Content: "hi"})
	assert.ErrorIs(t, err, ErrMessageTargetInvalid)

	assert.Empty(t, store.msgs)
}

func TestSendMessageRejectsBannedTarget(t *testing.T) {
	store := newFakeChatStore()
	users := newFakeUserRepo()
	users.users[3] = &model.User{ID: 3}
	users.users[8] = &model.User{ID: 8, IsBan: true}
	svc := NewChatService(store, store, users)
	defer svc.Close()

	_, err := svc.SendMessage(context.Background(), 3, &dto.SendMessageReq{TargetUserID: 8, MsgType: 1, Content: "hi"})
	assert.ErrorIs(t, err, ErrMessageTargetInvalid)
}

func TestSendMessagePersistFailureLeavesNoTrace(t *testing.T) {
	store, svc := newChatFixture()
	defer svc.Close()
	store.saveErr = errors.New("write failed")

	_, err := svc.SendMessage(context.Background(), 3, &dto.SendMessageReq{TargetUserID: 8, MsgType: 1, Content: "hi"})
	require.Error(t, err)

	assert.Empty(t, store.msgs)
	assert.Empty(t, store.convs)
}

func TestDeleteConversationCascades(t *testing.T) {
	store, svc := newChatFixture()
	defer svc.Close()

	_, err := svc.SendMessage(context.Background(), 3, &dto.SendMessageReq{TargetUserID: 8, MsgType: 1, Content: "一起跑步吗"})
	require.NoError(t, err)
	_, err = svc.SendMessage(context.Background(), 8, &dto.SendMessageReq{TargetUserID: 3, MsgType: 1, Content: "好"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteConversation(context.Background(), 8, 3))

	for _, uid := range []uint64{3, 8} {
		list, err := svc.GetConversationList(context.Background(), uid, 20, 0)
		require.NoError(t, err)
		assert.Empty(t, list)
	}
	assert.Empty(t, store.msgs)

	err = svc.DeleteConversation(context.Background(), 3, 8)
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestGetChatHistoryClampsPageSize(t *testing.T) {
	store, svc := newChatFixture()
	defer svc.Close()

	_, err := svc.GetChatHistory(context.Background(), 3, 8, time.Time{}, 0)
	require.NoError(t, err)
	assert.Equal(t, 20, store.lastPageSize)

	_, err = svc.GetChatHistory(context.Background(), 3, 8, time.Time{}, -5)
	require.NoError(t, err)
	assert.Equal(t, 20, store.lastPageSize)

	_, err = svc.GetChatHistory(context.Background(), 3, 8, time.Time{}, 1000)
	require.NoError(t, err)
	assert.Equal(t, 100, store.lastPageSize)

	_, err = svc.GetChatHistory(context.Background(), 3, 8, time.Time{}, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, store.lastPageSize)
}

func TestMarkAsRead(t *testing.T) {
	store, svc := newChatFixture()
	defer svc.Close()

	err := svc.MarkAsRead(context.Background(), 3, 8)
	assert.ErrorIs(t, err, ErrConversationNotFound)

	_, err = svc.SendMessage(context.Background(), 3, &dto.SendMessageReq{TargetUserID: 8, MsgType: 1, Content: "hi"})
	require.NoError(t, err)

	require.NoError(t, svc.MarkAsRead(context.Background(), 8, 3))
	assert.Equal(t, int64(0), store.convs["3_8"].UnreadOf(8))

	total, err := svc.GetTotalUnread(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}
