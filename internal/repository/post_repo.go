package repository

import (
	"Wellspring/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type PostRepo interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, id uint64) (*model.Post, error)
	GetPostByIds(ctx context.Context, ids []uint64) ([]*model.Post, error)
	GetPostsByUser(ctx context.Context, userID uint64, limit, offset int) ([]*model.Post, error)
	UpdatePost(ctx context.Context, post *model.Post) error
	UpdatePostStatus(ctx context.Context, id uint64, status int) error
	UpdateCounters(ctx context.Context, id uint64, counters map[string]int64) error
	CountUserChallengePosts(ctx context.Context, userID, challengeID uint64) (int64, error)
	DeletePost(ctx context.Context, id uint64) error
}

type PostRepoImpl struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepo {
	return &PostRepoImpl{
		db: db,
	}
}

func (s PostRepoImpl) CreatePost(ctx context.Context, post *model.Post) error {
	return s.db.WithContext(ctx).Create(post).Error
}

func (s PostRepoImpl) GetPost(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (s PostRepoImpl) GetPostByIds(ctx context.Context, ids []uint64) ([]*model.Post, error) {
	var posts []*model.Post
	err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s PostRepoImpl) GetPostsByUser(ctx context.Context, userID uint64, limit, offset int) ([]*model.Post, error) {
	var posts []*model.Post
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

func (s PostRepoImpl) UpdatePost(ctx context.Context, post *model.Post) error {
	return s.db.WithContext(ctx).Updates(post).Error
}

func (s PostRepoImpl) UpdatePostStatus(ctx context.Context, id uint64, status int) error {
	return s.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Update("status", status).Error
}

// UpdateCounters 批量回写计数增量 (点赞数、浏览数等定期从 Redis 刷库)
func (s PostRepoImpl) UpdateCounters(ctx context.Context, id uint64, counters map[string]int64) error {
	if len(counters) == 0 {
		return nil
	}
	values := make(map[string]interface{}, len(counters))
	for k, v := range counters {
		if v == 0 {
			continue
		}
		values[k] = gorm.Expr(k+" + ?", v)
	}
	if len(values) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Model(&model.Post{}).Where("id = ?", id).Updates(values).Error
}

// CountUserChallengePosts 统计用户在某挑战下的打卡帖数
func (s PostRepoImpl) CountUserChallengePosts(ctx context.Context, userID, challengeID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Count(&count).Error
	return count, err
}

func (s PostRepoImpl) DeletePost(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Delete(&model.Post{}, id).Error
}
