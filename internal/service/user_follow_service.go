package service

import (
	"Wellspring/internal/api/dto"
	"Wellspring/internal/pkg/consts"
	"Wellspring/internal/pkg/kafka"
	"Wellspring/internal/pkg/minio"
	"Wellspring/internal/pkg/mongo"
	"Wellspring/internal/pkg/redis"
	"Wellspring/internal/repository"
	"context"
	log "log/slog"
	"strconv"
	"time"
)

const MaxFollowingCount = 1000

type UserFollowService interface {
	Follow(ctx context.Context, userID, targetID uint64) error
	Unfollow(ctx context.Context, userID, targetID uint64) error
	IsFollowing(ctx context.Context, userID, targetID uint64) (bool, error)
	GetFollowing(ctx context.Context, userID, viewerID uint64) ([]*dto.UserCardDTO, error)
	GetFollowers(ctx context.Context, userID, viewerID uint64) ([]*dto.UserCardDTO, error)
	GetFollowingCount(ctx context.Context, userID uint64) (int64, error)
	GetFollowerCount(ctx context.Context, userID uint64) (int64, error)
}

type UserFollowServiceImpl struct {
	relationRepo mongo.RelationRepo
	userRepo     repository.UserRepo
	producer     kafka.ActivityProducer
}

func NewUserFollowService(relationRepo mongo.RelationRepo, userRepo repository.UserRepo, producer kafka.ActivityProducer) UserFollowService {
	return &UserFollowServiceImpl{
		relationRepo: relationRepo,
		userRepo:     userRepo,
		producer:     producer,
	}
}

func (s *UserFollowServiceImpl) Follow(ctx context.Context, userID, targetID uint64) error {
	if userID == targetID {
		return ErrFollowSelf
	}

	target, err := s.userRepo.GetUserById(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}

	count, err := s.GetFollowingCount(ctx, userID)
	if err != nil {
		return err
	}
	if count >= MaxFollowingCount {
		return ErrFollowLimit
	}

	isFollowing, err := s.relationRepo.IsFollowing(ctx, userID, targetID)
	if err != nil {
		return err
	}
	if isFollowing {
		return ErrFollowExist
	}

	if err = s.relationRepo.Follow(ctx, userID, targetID); err != nil {
		return err
	}
	s.evictCountCache(ctx, userID, targetID)

	event := &kafka.ActivityEvent{
		ReceiverID: targetID,
		SenderID:   userID,
		Kind:       consts.ActivityKindFollow,
		TargetID:   userID,
		Content:    "关注了你",
		OccurredAt: time.Now(),
	}
	if err = s.producer.Publish(ctx, event); err != nil {
		log.WarnContext(ctx, "publish follow activity failed", "userID", userID, "targetID", targetID, "err", err)
	}
	return nil
}

func (s *UserFollowServiceImpl) Unfollow(ctx context.Context, userID, targetID uint64) error {
	if userID == targetID {
		return ErrFollowSelf
	}
	if err := s.relationRepo.Unfollow(ctx, userID, targetID); err != nil {
		return err
	}
	s.evictCountCache(ctx, userID, targetID)
	return nil
}

func (s *UserFollowServiceImpl) IsFollowing(ctx context.Context, userID, targetID uint64) (bool, error) {
	return s.relationRepo.IsFollowing(ctx, userID, targetID)
}

func (s *UserFollowServiceImpl) GetFollowing(ctx context.Context, userID, viewerID uint64) ([]*dto.UserCardDTO, error) {
	ids, err := s.relationRepo.GetFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildUserCards(ctx, ids, viewerID)
}

func (s *UserFollowServiceImpl) GetFollowers(ctx context.Context, userID, viewerID uint64) ([]*dto.UserCardDTO, error) {
	ids, err := s.relationRepo.GetFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildUserCards(ctx, ids, viewerID)
}

func (s *UserFollowServiceImpl) GetFollowingCount(ctx context.Context, userID uint64) (int64, error) {
	return s.getCountCommon(ctx, userID, consts.UserFollowingCountKey, s.relationRepo.CountFollowing)
}

func (s *UserFollowServiceImpl) GetFollowerCount(ctx context.Context, userID uint64) (int64, error) {
	return s.getCountCommon(ctx, userID, consts.UserFollowerCountKey, s.relationRepo.CountFollowers)
}

type fetchCountFunc func(ctx context.Context, userID uint64) (int64, error)

func (s *UserFollowServiceImpl) getCountCommon(ctx context.Context, userID uint64, keyPrefix string, fetchDB fetchCountFunc) (int64, error) {
	key := keyPrefix + strconv.FormatUint(userID, 10)

	valStr, err := redis.GetValue(ctx, key)
	if err == nil && valStr != "" {
		return strconv.ParseInt(valStr, 10, 64)
	}

	count, err := fetchDB(ctx, userID)
	if err != nil {
		return 0, err
	}

	_ = redis.SetWithExpiration(ctx, key, count, time.Hour*1)
	return count, nil
}

func (s *UserFollowServiceImpl) evictCountCache(ctx context.Context, userID, targetID uint64) {
	_ = redis.DeleteKey(ctx, consts.UserFollowingCountKey+strconv.FormatUint(userID, 10))
	_ = redis.DeleteKey(ctx, consts.UserFollowerCountKey+strconv.FormatUint(targetID, 10))
}

// buildUserCards 把用户ID列表拼装成卡片，并标记浏览者的关注状态
func (s *UserFollowServiceImpl) buildUserCards(ctx context.Context, ids []uint64, viewerID uint64) ([]*dto.UserCardDTO, error) {
	if len(ids) == 0 {
		return []*dto.UserCardDTO{}, nil
	}

	details, err := s.userRepo.GetUserSimpleInfoByIds(ctx, ids)
	if err != nil {
		return nil, err
	}

	viewerFollowing := make(map[uint64]struct{})
	if viewerID != 0 {
		followingIDs, err := s.relationRepo.GetFollowing(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		for _, id := range followingIDs {
			viewerFollowing[id] = struct{}{}
		}
	}

	byID := make(map[uint64]*dto.UserCardDTO, len(details))
	for _, detail := range details {
		_, followed := viewerFollowing[detail.UserID]
		byID[detail.UserID] = &dto.UserCardDTO{
			UserID:     detail.UserID,
			Nickname:   detail.Nickname,
			AvatarURL:  minio.GetPublicURL(detail.AvatarURL),
			Bio:        detail.Bio,
			IsFollowed: followed,
		}
	}

	// 保持关系表里的顺序
	cards := make([]*dto.UserCardDTO, 0, len(ids))
	for _, id := range ids {
		if card, ok := byID[id]; ok {
			cards = append(cards, card)
		}
	}
	return cards, nil
}
