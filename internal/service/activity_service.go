package service

import (
	"Wellspring/internal/api/dto"
	"Wellspring/internal/pkg/minio"
	"Wellspring/internal/pkg/mongo"
	"Wellspring/internal/repository"
	"context"
	"errors"
	"time"

	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

type ActivityService interface {
	GetActivityList(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.ActivityDTO, error)
	GetUnreadCount(ctx context.Context, userID uint64) (*dto.ActivityUnreadDTO, error)
	MarkRead(ctx context.Context, userID uint64, msgID string) error
	MarkAllRead(ctx context.Context, userID uint64) (*dto.ActivityMarkAllDTO, error)
}

type activityServiceImpl struct {
	activityRepo mongo.ActivityRepo
	userRepo     repository.UserRepo
}

func NewActivityService(activity mongo.ActivityRepo, user repository.UserRepo) ActivityService {
	return &activityServiceImpl{
		activityRepo: activity,
		userRepo:     user,
	}
}

// GetActivityList 获取通知列表并补全发送者信息
func (s *activityServiceImpl) GetActivityList(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.ActivityDTO, error) {
	limit := int64(pageSize)
	offset := int64((page - 1) * pageSize)

	list, err := s.activityRepo.GetActivityList(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ActivityDTO, 0, len(list))
	for _, m := range list {
		d := &dto.ActivityDTO{}
		_ = copier.Copy(d, m)
		d.ID = m.ID.Hex()
		d.CreatedAt = m.CreatedAt.UTC().Format(time.RFC3339)

		// 补全发送者信息 (SenderID 为 0 代表系统发送)
		if m.SenderID > 0 {
			user, err := s.userRepo.GetUserHomeInfoById(ctx, m.SenderID)
			if err == nil && user != nil {
				d.SenderName = user.Nickname
				d.AvatarURL = minio.GetPublicURL(user.AvatarURL)
			}
		} else {
			d.SenderName = "系统通知"
		}

		res = append(res, d)
	}

	return res, nil
}

// GetUnreadCount 获取未读数
func (s *activityServiceImpl) GetUnreadCount(ctx context.Context, userID uint64) (*dto.ActivityUnreadDTO, error) {
	count, err := s.activityRepo.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.ActivityUnreadDTO{UnreadCount: count}, nil
}

// MarkRead 标记单条已读
func (s *activityServiceImpl) MarkRead(ctx context.Context, userID uint64, msgID string) error {
	objectID, err := primitive.ObjectIDFromHex(msgID)
	if err != nil {
		return ErrParamInvalid
	}

	notice, err := s.activityRepo.GetByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, mongoDB.ErrNoDocuments) {
			return ErrActivityNotFound
		}
		return err
	}

	if notice.ReceiverID != userID {
		return UnauthorizedError
	}

	if notice.IsRead {
		return nil
	}

	return s.activityRepo.MarkAsRead(ctx, userID, msgID)
}

// MarkAllRead 一键已读，返回实际清除的条数
func (s *activityServiceImpl) MarkAllRead(ctx context.Context, userID uint64) (*dto.ActivityMarkAllDTO, error) {
	count, err := s.activityRepo.MarkAllAsRead(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.ActivityMarkAllDTO{MarkedCount: count}, nil
}
