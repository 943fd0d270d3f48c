package service

import (
	"Wellspring/internal/api/config"
	"Wellspring/internal/api/dto"
	"Wellspring/internal/model"
	"Wellspring/internal/pkg/consts"
	"Wellspring/internal/pkg/kafka"
	"Wellspring/internal/pkg/minio"
	"Wellspring/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"time"

	"gorm.io/gorm"
)

// MaxChallengeMembers 单个挑战的成员上限
const MaxChallengeMembers = 200

type ChallengeService interface {
	CreateChallenge(ctx context.Context, userID uint64, req *dto.ChallengeCreateDTO) (uint64, error)
	GetChallenge(ctx context.Context, challengeID, viewerID uint64) (*dto.ChallengeDTO, error)
	GetOpenChallenges(ctx context.Context, viewerID uint64, page, pageSize int) ([]*dto.ChallengeDTO, error)
	GetUserChallenges(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.ChallengeDTO, error)
	JoinChallenge(ctx context.Context, userID, challengeID uint64) error
	LeaveChallenge(ctx context.Context, userID, challengeID uint64) error
	InviteMember(ctx context.Context, userID uint64, req *dto.ChallengeInviteReq) error
	GetMembers(ctx context.Context, challengeID uint64) ([]*dto.ChallengeMemberDTO, error)
}

type challengeServiceImpl struct {
	challengeRepo repository.ChallengeRepo
	userRepo      repository.UserRepo
	producer      kafka.ActivityProducer
}

func NewChallengeService(
	challengeRepo repository.ChallengeRepo,
	userRepo repository.UserRepo,
	producer kafka.ActivityProducer,
) ChallengeService {
	return &challengeServiceImpl{
		challengeRepo: challengeRepo,
		userRepo:      userRepo,
		producer:      producer,
	}
}

func (s *challengeServiceImpl) CreateChallenge(ctx context.Context, userID uint64, req *dto.ChallengeCreateDTO) (uint64, error) {
	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return 0, ErrParamInvalid
	}
	endAt, err := time.Parse(time.RFC3339, req.EndAt)
	if err != nil || !endAt.After(startAt) || endAt.Before(time.Now()) {
		return 0, ErrParamInvalid
	}

	challenge := &model.Challenge{
		CreatorID:   userID,
		Title:       req.Title,
		Description: req.Description,
		Goal:        req.Goal,
		Status:      consts.ChallengeStatusOpen,
		StartAt:     startAt,
		EndAt:       endAt,
	}
	creator := &model.ChallengeMember{
		UserID:   userID,
		JoinedAt: time.Now(),
	}
	if err = s.challengeRepo.CreateChallenge(ctx, challenge, creator); err != nil {
		return 0, err
	}
	return challenge.ID, nil
}

func (s *challengeServiceImpl) GetChallenge(ctx context.Context, challengeID, viewerID uint64) (*dto.ChallengeDTO, error) {
	challenge, err := s.challengeRepo.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}
	return s.toChallengeDTO(ctx, challenge, viewerID), nil
}

func (s *challengeServiceImpl) GetOpenChallenges(ctx context.Context, viewerID uint64, page, pageSize int) ([]*dto.ChallengeDTO, error) {
	challenges, err := s.challengeRepo.GetOpenChallenges(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return s.batchToChallengeDTO(ctx, challenges, viewerID), nil
}

func (s *challengeServiceImpl) GetUserChallenges(ctx context.Context, userID uint64, page, pageSize int) ([]*dto.ChallengeDTO, error) {
	challenges, err := s.challengeRepo.GetUserChallenges(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}
	return s.batchToChallengeDTO(ctx, challenges, userID), nil
}

func (s *challengeServiceImpl) JoinChallenge(ctx context.Context, userID, challengeID uint64) error {
	challenge, err := s.challengeRepo.GetChallenge(ctx, challengeID)
	if err != nil {
		return err
	}
	if challenge == nil {
		return ErrChallengeNotFound
	}
	if challenge.Status != consts.ChallengeStatusOpen || time.Now().After(challenge.EndAt) {
		return ErrChallengeClosed
	}

	maxMembers := int64(config.Cfg.Challenge.MaxMembers)
	if maxMembers <= 0 {
		maxMembers = MaxChallengeMembers
	}
	count, err := s.challengeRepo.CountMembers(ctx, challengeID)
	if err != nil {
		return err
	}
	if count >= maxMembers {
		return ErrChallengeFull
	}

	member := &model.ChallengeMember{
		ChallengeID: challengeID,
		UserID:      userID,
		JoinedAt:    time.Now(),
	}
	if err = s.challengeRepo.JoinChallenge(ctx, member); err != nil {
		if isDuplicateError(err) {
			return ErrChallengeJoined
		}
		return err
	}
	return nil
}

// LeaveChallenge 退出挑战，创建者不可退出自己的挑战
func (s *challengeServiceImpl) LeaveChallenge(ctx context.Context, userID, challengeID uint64) error {
	challenge, err := s.challengeRepo.GetChallenge(ctx, challengeID)
	if err != nil {
		return err
	}
	if challenge == nil {
		return ErrChallengeNotFound
	}
	if challenge.CreatorID == userID {
		return ErrParamInvalid
	}
	if err = s.challengeRepo.RemoveMember(ctx, challengeID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChallengeNotJoined
		}
		return err
	}
	return nil
}

// InviteMember 给目标用户推送挑战邀请，目标不会被自动拉入挑战
func (s *challengeServiceImpl) InviteMember(ctx context.Context, userID uint64, req *dto.ChallengeInviteReq) error {
	if req.TargetUserID == userID {
		return ErrParamInvalid
	}

	challenge, err := s.challengeRepo.GetChallenge(ctx, req.ChallengeID)
	if err != nil {
		return err
	}
	if challenge == nil {
		return ErrChallengeNotFound
	}
	if challenge.Status != consts.ChallengeStatusOpen || time.Now().After(challenge.EndAt) {
		return ErrChallengeClosed
	}

	if member, err := s.challengeRepo.GetMember(ctx, req.ChallengeID, userID); err != nil {
		return err
	} else if member == nil {
		return ErrChallengeNotJoined
	}

	target, err := s.userRepo.GetUserById(ctx, req.TargetUserID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}

	if member, err := s.challengeRepo.GetMember(ctx, req.ChallengeID, req.TargetUserID); err != nil {
		return err
	} else if member != nil {
		return ErrChallengeJoined
	}

	event := &kafka.ActivityEvent{
		ReceiverID: req.TargetUserID,
		SenderID:   userID,
		Kind:       consts.ActivityKindChallengeInvite,
		TargetID:   req.ChallengeID,
		Content:    "邀请你参加挑战「" + challenge.Title + "」",
		Payload:    map[string]any{"challenge_title": challenge.Title},
		OccurredAt: time.Now(),
	}
	if err = s.producer.Publish(ctx, event); err != nil {
		log.WarnContext(ctx, "publish challenge invite failed", "challengeID", req.ChallengeID, "err", err)
	}
	return nil
}

func (s *challengeServiceImpl) GetMembers(ctx context.Context, challengeID uint64) ([]*dto.ChallengeMemberDTO, error) {
	challenge, err := s.challengeRepo.GetChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}

	members, err := s.challengeRepo.GetMembers(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserID)
	}
	details, err := s.userRepo.GetUserSimpleInfoByIds(ctx, ids)
	if err != nil {
		log.WarnContext(ctx, "fetch challenge member info failed", "challengeID", challengeID, "err", err)
	}
	detailMap := make(map[uint64]*model.UserDetail, len(details))
	for _, d := range details {
		detailMap[d.UserID] = d
	}

	res := make([]*dto.ChallengeMemberDTO, 0, len(members))
	for _, m := range members {
		item := &dto.ChallengeMemberDTO{
			UserID:   m.UserID,
			Progress: m.Progress,
			JoinedAt: m.JoinedAt.Format("2006-01-02 15:04:05"),
		}
		if d, ok := detailMap[m.UserID]; ok {
			item.Nickname = d.Nickname
			item.AvatarURL = minio.GetPublicURL(d.AvatarURL)
		}
		res = append(res, item)
	}
	return res, nil
}

func (s *challengeServiceImpl) toChallengeDTO(ctx context.Context, challenge *model.Challenge, viewerID uint64) *dto.ChallengeDTO {
	item := &dto.ChallengeDTO{
		ID:          challenge.ID,
		CreatorID:   challenge.CreatorID,
		Title:       challenge.Title,
		Description: challenge.Description,
		Goal:        challenge.Goal,
		Status:      challenge.Status,
		WinnerID:    challenge.WinnerID,
		StartAt:     challenge.StartAt.Format(time.RFC3339),
		EndAt:       challenge.EndAt.Format(time.RFC3339),
	}
	if challenge.CertURL != nil {
		url := minio.GetPublicURL(*challenge.CertURL)
		item.CertURL = &url
	}

	if count, err := s.challengeRepo.CountMembers(ctx, challenge.ID); err == nil {
		item.MemberCount = count
	}
	if viewerID > 0 {
		if member, err := s.challengeRepo.GetMember(ctx, challenge.ID, viewerID); err == nil && member != nil {
			item.IsJoined = true
			item.MyProgress = member.Progress
		}
	}
	return item
}

func (s *challengeServiceImpl) batchToChallengeDTO(ctx context.Context, challenges []*model.Challenge, viewerID uint64) []*dto.ChallengeDTO {
	res := make([]*dto.ChallengeDTO, 0, len(challenges))
	for _, c := range challenges {
		res = append(res, s.toChallengeDTO(ctx, c, viewerID))
	}
	return res
}
