package repository

import (
	"Wellspring/internal/model"
	"Wellspring/internal/pkg/consts"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type ChallengeRepo interface {
	CreateChallenge(ctx context.Context, challenge *model.Challenge, creator *model.ChallengeMember) error
	GetChallenge(ctx context.Context, id uint64) (*model.Challenge, error)
	GetOpenChallenges(ctx context.Context, limit, offset int) ([]*model.Challenge, error)
	GetExpiredOpenChallenges(ctx context.Context, now time.Time) ([]*model.Challenge, error)
	GetUserChallenges(ctx context.Context, userID uint64, limit, offset int) ([]*model.Challenge, error)
	JoinChallenge(ctx context.Context, member *model.ChallengeMember) error
	RemoveMember(ctx context.Context, challengeID, userID uint64) error
	GetMember(ctx context.Context, challengeID, userID uint64) (*model.ChallengeMember, error)
	GetMembers(ctx context.Context, challengeID uint64) ([]*model.ChallengeMember, error)
	CountMembers(ctx context.Context, challengeID uint64) (int64, error)
	AddProgress(ctx context.Context, challengeID, userID uint64, delta int64) error
	SettleChallenge(ctx context.Context, id uint64, winnerID *uint64, certURL *string) error
}

type ChallengeRepoImpl struct {
	db *gorm.DB
}

func NewChallengeRepo(db *gorm.DB) ChallengeRepo {
	return &ChallengeRepoImpl{db: db}
}

// CreateChallenge 在事务中创建挑战并让创建者自动入组
func (s *ChallengeRepoImpl) CreateChallenge(ctx context.Context, challenge *model.Challenge, creator *model.ChallengeMember) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(challenge).Error; err != nil {
			return err
		}
		creator.ChallengeID = challenge.ID
		return tx.Create(creator).Error
	})
}

func (s *ChallengeRepoImpl) GetChallenge(ctx context.Context, id uint64) (*model.Challenge, error) {
	var challenge model.Challenge
	err := s.db.WithContext(ctx).First(&challenge, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &challenge, nil
}

func (s *ChallengeRepoImpl) GetOpenChallenges(ctx context.Context, limit, offset int) ([]*model.Challenge, error) {
	var challenges []*model.Challenge
	err := s.db.WithContext(ctx).
		Where("status = ?", consts.ChallengeStatusOpen).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&challenges).Error
	return challenges, err
}

// GetExpiredOpenChallenges 查询已到期但尚未结算的挑战
func (s *ChallengeRepoImpl) GetExpiredOpenChallenges(ctx context.Context, now time.Time) ([]*model.Challenge, error) {
	var challenges []*model.Challenge
	err := s.db.WithContext(ctx).
		Where("status = ? AND end_at <= ?", consts.ChallengeStatusOpen, now).
		Find(&challenges).Error
	return challenges, err
}

func (s *ChallengeRepoImpl) GetUserChallenges(ctx context.Context, userID uint64, limit, offset int) ([]*model.Challenge, error) {
	var challenges []*model.Challenge
	err := s.db.WithContext(ctx).
		Table("challenges").
		Select("challenges.*").
		Joins("JOIN challenge_members ON challenge_members.challenge_id = challenges.id").
		Where("challenge_members.user_id = ?", userID).
		Order("challenges.created_at DESC").
		Limit(limit).Offset(offset).
		Find(&challenges).Error
	return challenges, err
}

func (s *ChallengeRepoImpl) JoinChallenge(ctx context.Context, member *model.ChallengeMember) error {
	return s.db.WithContext(ctx).Create(member).Error
}

func (s *ChallengeRepoImpl) RemoveMember(ctx context.Context, challengeID, userID uint64) error {
	res := s.db.WithContext(ctx).
		Where("challenge_id = ? AND user_id = ?", challengeID, userID).
		Delete(&model.ChallengeMember{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *ChallengeRepoImpl) GetMember(ctx context.Context, challengeID, userID uint64) (*model.ChallengeMember, error) {
	var member model.ChallengeMember
	err := s.db.WithContext(ctx).
		Where("challenge_id = ? AND user_id = ?", challengeID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &member, nil
}

func (s *ChallengeRepoImpl) GetMembers(ctx context.Context, challengeID uint64) ([]*model.ChallengeMember, error) {
	var members []*model.ChallengeMember
	err := s.db.WithContext(ctx).
		Where("challenge_id = ?", challengeID).
		Order("progress DESC, joined_at ASC").
		Find(&members).Error
	return members, err
}

func (s *ChallengeRepoImpl) CountMembers(ctx context.Context, challengeID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ChallengeMember{}).
		Where("challenge_id = ?", challengeID).
		Count(&count).Error
	return count, err
}

func (s *ChallengeRepoImpl) AddProgress(ctx context.Context, challengeID, userID uint64, delta int64) error {
	result := s.db.WithContext(ctx).Model(&model.ChallengeMember{}).
		Where("challenge_id = ? AND user_id = ?", challengeID, userID).
		Update("progress", gorm.Expr("progress + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SettleChallenge 关闭挑战并记录获胜者，只允许从进行中状态迁移一次
func (s *ChallengeRepoImpl) SettleChallenge(ctx context.Context, id uint64, winnerID *uint64, certURL *string) error {
	result := s.db.WithContext(ctx).Model(&model.Challenge{}).
		Where("id = ? AND status = ?", id, consts.ChallengeStatusOpen).
		Updates(map[string]interface{}{
			"status":    consts.ChallengeStatusClosed,
			"winner_id": winnerID,
			"cert_url":  certURL,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
