package repository

import (
	"Wellspring/internal/model"
	"context"

	"gorm.io/gorm"
)

type PostActionRepo interface {
	CreateLike(ctx context.Context, like *model.Like) error
	DeleteLike(ctx context.Context, userID, postID uint64) error
	CheckLikeExists(ctx context.Context, userID, postID uint64) (bool, error)
	GetLikedPostIDs(ctx context.Context, userID uint64, limit, offset int) ([]uint64, error)

	CreateComment(ctx context.Context, comment *model.PostComment) error
	DeleteComment(ctx context.Context, commentID uint64) error
	GetCommentByID(ctx context.Context, commentID uint64) (*model.PostComment, error)
	GetRootCommentsByPostID(ctx context.Context, postID uint64, limit, offset int) ([]*model.PostComment, error)
	GetSubCommentsByRootID(ctx context.Context, rootID uint64, limit, offset int) ([]*model.PostComment, error)
	GetSubCommentCountByRootID(ctx context.Context, rootID uint64) (int64, error)

	GetCoinAmountOnPost(ctx context.Context, giverID, postID uint64) (int64, error)
	GiveCoins(ctx context.Context, gift *model.CoinGift) error

	GetLikeCountByPostID(ctx context.Context, postID uint64) (int64, error)
	GetCommentCountByPostID(ctx context.Context, postID uint64) (int64, error)
	GetCoinCountByPostID(ctx context.Context, postID uint64) (int64, error)
	GetUserTotalLikes(ctx context.Context, userID uint64) (int64, error)
}

type PostActionRepoImpl struct {
	db *gorm.DB
}

func NewPostActionRepo(db *gorm.DB) PostActionRepo {
	return &PostActionRepoImpl{db}
}

func (s *PostActionRepoImpl) CreateLike(ctx context.Context, like *model.Like) error {
	return s.db.WithContext(ctx).Create(like).Error
}

func (s *PostActionRepoImpl) DeleteLike(ctx context.Context, userID, postID uint64) error {
	return s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.Like{}).Error
}

func (s *PostActionRepoImpl) CheckLikeExists(ctx context.Context, userID, postID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

func (s *PostActionRepoImpl) GetLikedPostIDs(ctx context.Context, userID uint64, limit, offset int) ([]uint64, error) {
	var postIDs []uint64
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Pluck("post_id", &postIDs).Error
	return postIDs, err
}

func (s *PostActionRepoImpl) CreateComment(ctx context.Context, comment *model.PostComment) error {
	return s.db.WithContext(ctx).Create(comment).Error
}

func (s *PostActionRepoImpl) DeleteComment(ctx context.Context, commentID uint64) error {
	return s.db.WithContext(ctx).Model(&model.PostComment{}).
		Where("(id = ? OR root_id = ?) AND is_delete = ?", commentID, commentID, false).
		Update("is_delete", true).Error
}

func (s *PostActionRepoImpl) GetCommentByID(ctx context.Context, commentID uint64) (*model.PostComment, error) {
	var comment model.PostComment
	err := s.db.WithContext(ctx).
		Where("id = ? AND is_delete = ?", commentID, false).
		First(&comment).Error
	return &comment, err
}

// GetRootCommentsByPostID 分页获取帖子的顶级评论
func (s *PostActionRepoImpl) GetRootCommentsByPostID(ctx context.Context, postID uint64, limit, offset int) ([]*model.PostComment, error) {
	var comments []*model.PostComment
	err := s.db.WithContext(ctx).
		Where("post_id = ? AND root_id = ? AND is_delete = ?", postID, 0, false).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	return comments, err
}

// GetSubCommentsByRootID 获取某个根评论下的子评论
func (s *PostActionRepoImpl) GetSubCommentsByRootID(ctx context.Context, rootID uint64, limit, offset int) ([]*model.PostComment, error) {
	var comments []*model.PostComment
	err := s.db.WithContext(ctx).
		Where("root_id = ? AND is_delete = ?", rootID, false).
		Order("created_at ASC").
		Limit(limit).Offset(offset).
		Find(&comments).Error
	return comments, err
}

// GetSubCommentCountByRootID 获取某个根评论下的回复总数
func (s *PostActionRepoImpl) GetSubCommentCountByRootID(ctx context.Context, rootID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.PostComment{}).
		Where("root_id = ? AND is_delete = ?", rootID, false).
		Count(&count).Error
	return count, err
}

// GetCoinAmountOnPost 查询用户在某帖子上已投币总量
func (s *PostActionRepoImpl) GetCoinAmountOnPost(ctx context.Context, giverID, postID uint64) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&model.CoinGift{}).
		Where("giver_id = ? AND post_id = ?", giverID, postID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// GiveCoins 在事务中完成投币：扣减投币者余额、增加作者余额、写入流水
func (s *PostActionRepoImpl) GiveCoins(ctx context.Context, gift *model.CoinGift) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 条件扣减，余额不足时 RowsAffected 为 0
		deduct := tx.Model(&model.User{}).
			Where("id = ? AND coins >= ?", gift.GiverID, gift.Amount).
			Update("coins", gorm.Expr("coins - ?", gift.Amount))
		if deduct.Error != nil {
			return deduct.Error
		}
		if deduct.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Model(&model.User{}).
			Where("id = ?", gift.ReceiverID).
			Update("coins", gorm.Expr("coins + ?", gift.Amount)).Error; err != nil {
			return err
		}

		return tx.Create(gift).Error
	})
}

func (s *PostActionRepoImpl) GetLikeCountByPostID(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

func (s *PostActionRepoImpl) GetCommentCountByPostID(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.PostComment{}).
		Where("post_id = ? AND is_delete = ?", postID, false).
		Count(&count).Error
	return count, err
}

func (s *PostActionRepoImpl) GetCoinCountByPostID(ctx context.Context, postID uint64) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&model.CoinGift{}).
		Where("post_id = ?", postID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

func (s *PostActionRepoImpl) GetUserTotalLikes(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Table("likes").
		Joins("JOIN posts ON likes.post_id = posts.id").
		Where("posts.user_id = ?", userID).
		Count(&count).Error
	return count, err
}
