package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RelationRepo interface {
	Follow(ctx context.Context, userID, targetID uint64) error
	Unfollow(ctx context.Context, userID, targetID uint64) error
	IsFollowing(ctx context.Context, userID, targetID uint64) (bool, error)
	GetFollowing(ctx context.Context, userID uint64) ([]uint64, error)
	GetFollowers(ctx context.Context, userID uint64) ([]uint64, error)
	CountFollowing(ctx context.Context, userID uint64) (int64, error)
	CountFollowers(ctx context.Context, userID uint64) (int64, error)
}

type relationRepoImpl struct {
	db  *mongo.Database
	col *mongo.Collection
}

func NewRelationRepo(db *mongo.Database) RelationRepo {
	return &relationRepoImpl{
		db:  db,
		col: db.Collection("relations"),
	}
}

// Follow 在事务中同时更新双方文档，保证镜像数组不失配
// $addToSet 天然幂等，重复关注不会产生重复元素
func (s *relationRepoImpl) Follow(ctx context.Context, userID, targetID uint64) error {
	return s.mirror(ctx, userID, targetID, "$addToSet")
}

// Unfollow 在事务中从双方文档移除对方，重复取关无害
func (s *relationRepoImpl) Unfollow(ctx context.Context, userID, targetID uint64) error {
	return s.mirror(ctx, userID, targetID, "$pull")
}

// mirror 对关注关系的双边文档做同一个数组操作 (op 为 $addToSet 或 $pull)
func (s *relationRepoImpl) mirror(ctx context.Context, userID, targetID uint64, op string) error {
	session, err := s.db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	now := time.Now()
	upsert := options.Update().SetUpsert(true)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		// 我的 following 数组
		if _, err := s.col.UpdateOne(sc,
			bson.M{"_id": userID},
			bson.M{
				op:     bson.M{"following": targetID},
				"$set": bson.M{"updated_at": now},
			}, upsert); err != nil {
			return nil, err
		}
		// 对方的 followers 数组
		if _, err := s.col.UpdateOne(sc,
			bson.M{"_id": targetID},
			bson.M{
				op:     bson.M{"followers": userID},
				"$set": bson.M{"updated_at": now},
			}, upsert); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

// IsFollowing 查询 userID 是否已关注 targetID
func (s *relationRepoImpl) IsFollowing(ctx context.Context, userID, targetID uint64) (bool, error) {
	filter := bson.M{"_id": userID, "following": targetID}
	count, err := s.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetFollowing 获取关注列表
func (s *relationRepoImpl) GetFollowing(ctx context.Context, userID uint64) ([]uint64, error) {
	return s.loadArray(ctx, userID, "following")
}

// GetFollowers 获取粉丝列表
func (s *relationRepoImpl) GetFollowers(ctx context.Context, userID uint64) ([]uint64, error) {
	return s.loadArray(ctx, userID, "followers")
}

func (s *relationRepoImpl) loadArray(ctx context.Context, userID uint64, field string) ([]uint64, error) {
	var rel Relation
	opts := options.FindOne().SetProjection(bson.M{field: 1})
	err := s.col.FindOne(ctx, bson.M{"_id": userID}, opts).Decode(&rel)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return []uint64{}, nil
		}
		return nil, err
	}
	if field == "followers" {
		return rel.Followers, nil
	}
	return rel.Following, nil
}

// CountFollowing 统计关注数
func (s *relationRepoImpl) CountFollowing(ctx context.Context, userID uint64) (int64, error) {
	return s.countArray(ctx, userID, "following")
}

// CountFollowers 统计粉丝数
func (s *relationRepoImpl) CountFollowers(ctx context.Context, userID uint64) (int64, error) {
	return s.countArray(ctx, userID, "followers")
}

func (s *relationRepoImpl) countArray(ctx context.Context, userID uint64, field string) (int64, error) {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"_id": userID}}},
		bson.D{{Key: "$project", Value: bson.M{
			"count": bson.M{"$size": bson.M{"$ifNull": []any{"$" + field, []any{}}}},
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
		Count int64 `bson:"count"`
	}
	if err = cursor.All(ctx, &result); err != nil {
		return 0, err
	}
	if len(result) == 0 {
		return 0, nil
	}
	return result[0].Count, nil
}
