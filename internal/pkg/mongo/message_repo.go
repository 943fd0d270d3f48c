package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepo 消息明细的读侧接口，写入统一走 ConversationRepo.SaveWithTouch
type MessageRepo interface {
	GetHistory(ctx context.Context, convID string, before time.Time, pageSize int) ([]*Message, error)
}

type messageRepoImpl struct {
	col *mongo.Collection
}

func NewMessageRepo(db *mongo.Database) MessageRepo {
	return &messageRepoImpl{
		col: db.Collection("messages"),
	}
}

// GetHistory 历史消息查询逻辑
// before 为当前页面最旧一条消息的时间。如果是第一页，传零值。
func (s *messageRepoImpl) GetHistory(ctx context.Context, convID string, before time.Time, pageSize int) ([]*Message, error) {
	// 基础过滤：指定会话
	filter := bson.M{"conversation_id": convID}

	// 游标过滤：拉取比当前最旧消息更早的消息
	if !before.IsZero() {
		filter["created_at"] = bson.M{"$lt": before}
	}

	// 按时间降序排列 (最新的在前)，限制返回条数
	findOptions := options.Find().
		SetSort(bson.D{
			{Key: "created_at", Value: -1},
			{Key: "_id", Value: -1},
		}).
		SetLimit(int64(pageSize))

	cursor, err := s.col.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var messages []*Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}

	return messages, nil
}
