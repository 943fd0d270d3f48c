package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ConversationRepo interface {
	SaveWithTouch(ctx context.Context, msg *Message, peerID uint64, preview string) error
	GetByID(ctx context.Context, convID string) (*Conversation, error)
	ListForUser(ctx context.Context, userID uint64, limit, offset int64) ([]*Conversation, error)
	ClearUnread(ctx context.Context, convID string, userID uint64) error
	DeleteWithMessages(ctx context.Context, convID string) error
	TotalUnread(ctx context.Context, userID uint64) (int64, error)
}

type conversationRepoImpl struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewConversationRepo(db *mongo.Database) ConversationRepo {
	return &conversationRepoImpl{
		db:  db,
		col: db.Collection("conversations"),
	}
}

// SaveWithTouch 在同一事务中落消息明细并刷新会话摘要，两者同生共死
// 会话不存在则由 $setOnInsert 原子创建，接收方未读数 +1
func (s *conversationRepoImpl) SaveWithTouch(ctx context.Context, msg *Message, peerID uint64, preview string) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	session, err := s.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := s.db.Collection("messages").InsertOne(sc, msg)
		if err != nil {
			return nil, err
		}
		if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
			msg.ID = oid
		}
		return nil, s.touchOnSend(sc, msg.ConversationID, msg.SenderID, peerID, preview, msg.CreatedAt)
	})
	return err
}

func (s *conversationRepoImpl) touchOnSend(ctx context.Context, convID string, senderID, peerID uint64, preview string, sentAt time.Time) error {
	participants := []uint64{senderID, peerID}
	if peerID < senderID {
		participants = []uint64{peerID, senderID}
	}

	filter := bson.M{"_id": convID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"participants": participants,
			"created_at":   sentAt,
		},
		"$set": bson.M{
			"last_content":    preview,
			"last_sender_id":  senderID,
			"last_message_at": sentAt,
		},
		"$inc": bson.M{
			fmt.Sprintf("unread.%d", peerID): 1,
		},
	}

	_, err := s.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// GetByID 根据 PairKey 查询会话
func (s *conversationRepoImpl) GetByID(ctx context.Context, convID string) (*Conversation, error) {
	var conv Conversation
	if err := s.col.FindOne(ctx, bson.M{"_id": convID}).Decode(&conv); err != nil {
		return nil, err
	}
	return &conv, nil
}

// ListForUser 分页获取用户参与的会话 (按最后消息时间倒序)
func (s *conversationRepoImpl) ListForUser(ctx context.Context, userID uint64, limit, offset int64) ([]*Conversation, error) {
	filter := bson.M{"participants": userID}
	opts := options.Find().
		SetSort(bson.D{{Key: "last_message_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*Conversation
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// ClearUnread 进入会话时将当前用户的未读计数归零
func (s *conversationRepoImpl) ClearUnread(ctx context.Context, convID string, userID uint64) error {
	filter := bson.M{"_id": convID, "participants": userID}
	update := bson.M{"$set": bson.M{fmt.Sprintf("unread.%d", userID): int64(0)}}
	result, err := s.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteWithMessages 在事务中删除会话及其全部消息，保证不残留孤儿消息
func (s *conversationRepoImpl) DeleteWithMessages(ctx context.Context, convID string) error {
	session, err := s.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := s.col.DeleteOne(sc, bson.M{"_id": convID}); err != nil {
			return nil, err
		}
		if _, err := s.db.Collection("messages").DeleteMany(sc, bson.M{"conversation_id": convID}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

// TotalUnread 汇总用户所有会话的未读消息数
func (s *conversationRepoImpl) TotalUnread(ctx context.Context, userID uint64) (int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"participants": userID}}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"total": bson.M{"$sum": fmt.Sprintf("$unread.%d", userID)},
		}}},
	}

	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var result []struct {
		Total int64 `bson:"total"`
	}
	if err = cursor.All(ctx, &result); err != nil {
		return 0, err
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Total, nil
}
