package job

import (
	"Wellspring/internal/api/config"
	"Wellspring/internal/model"
	"Wellspring/internal/pkg/certificate"
	"Wellspring/internal/pkg/consts"
	"Wellspring/internal/pkg/kafka"
	"Wellspring/internal/pkg/llm"
	"Wellspring/internal/pkg/logger"
	"Wellspring/internal/pkg/minio"
	"Wellspring/internal/pkg/redis"
	"Wellspring/internal/repository"
	"bytes"
	"context"
	"fmt"
	log "log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// ChallengeWinnerJob 结算到期挑战：选出进度最高的成员、渲染证书并通知
type ChallengeWinnerJob struct {
	challengeRepo repository.ChallengeRepo
	userRepo      repository.UserRepo
	producer      kafka.ActivityProducer
}

func NewChallengeWinnerJob(
	challengeRepo repository.ChallengeRepo,
	userRepo repository.UserRepo,
	producer kafka.ActivityProducer,
) *ChallengeWinnerJob {
	return &ChallengeWinnerJob{
		challengeRepo: challengeRepo,
		userRepo:      userRepo,
		producer:      producer,
	}
}

func (s *ChallengeWinnerJob) Run() {
	traceID := "job-challenge-" + uuid.NewString()
	ctx := context.WithValue(context.Background(), logger.TraceIDKey, traceID)

	expired, err := s.challengeRepo.GetExpiredOpenChallenges(ctx, time.Now())
	if err != nil {
		log.ErrorContext(ctx, "list expired challenges error", "err", err)
		return
	}

	for _, challenge := range expired {
		if err := s.settle(ctx, challenge); err != nil {
			log.ErrorContext(ctx, "settle challenge error", "challengeID", challenge.ID, "err", err)
		}
	}
}

func (s *ChallengeWinnerJob) settle(ctx context.Context, challenge *model.Challenge) error {
	// 多实例部署时只允许一个结算者
	lockKey := consts.ChallengeSettleLock + strconv.FormatUint(challenge.ID, 10)
	lockUUID := uuid.NewString()
	ok, err := redis.TryLock(ctx, lockKey, lockUUID, time.Minute, 1)
	if err != nil || !ok {
		return nil
	}
	defer redis.UnLock(ctx, lockKey, lockUUID)

	members, err := s.challengeRepo.GetMembers(ctx, challenge.ID)
	if err != nil {
		return err
	}

	var winner *model.ChallengeMember
	for _, m := range members {
		if m.Progress <= 0 {
			continue
		}
		if winner == nil || m.Progress > winner.Progress {
			winner = m
		}
	}

	// 无人打卡，直接关闭
	if winner == nil {
		if err = s.challengeRepo.SettleChallenge(ctx, challenge.ID, nil, nil); err != nil {
			return err
		}
		log.InfoContext(ctx, "challenge closed without winner", "challengeID", challenge.ID)
		return nil
	}

	nickname := "用户_" + strconv.FormatUint(winner.UserID, 10)
	if details, err := s.userRepo.GetUserSimpleInfoByIds(ctx, []uint64{winner.UserID}); err == nil && len(details) > 0 {
		nickname = details[0].Nickname
	}

	certURL, err := s.renderCertificate(ctx, challenge, winner, nickname)
	if err != nil {
		// 证书失败不阻塞结算
		log.WarnContext(ctx, "render certificate failed", "challengeID", challenge.ID, "err", err)
	}

	var certPtr *string
	if certURL != "" {
		certPtr = &certURL
	}
	if err = s.challengeRepo.SettleChallenge(ctx, challenge.ID, &winner.UserID, certPtr); err != nil {
		return err
	}

	event := &kafka.ActivityEvent{
		ReceiverID: winner.UserID,
		SenderID:   0,
		Kind:       consts.ActivityKindChallengeWin,
		TargetID:   challenge.ID,
		Content:    "恭喜你在挑战「" + challenge.Title + "」中获胜",
		Payload:    map[string]any{"challenge_title": challenge.Title, "cert_url": certURL},
		OccurredAt: time.Now(),
	}
	if err = s.producer.Publish(ctx, event); err != nil {
		log.WarnContext(ctx, "publish challenge win event failed", "challengeID", challenge.ID, "err", err)
	}

	log.InfoContext(ctx, "challenge settled", "challengeID", challenge.ID, "winnerID", winner.UserID)
	return nil
}

func (s *ChallengeWinnerJob) renderCertificate(ctx context.Context, challenge *model.Challenge, winner *model.ChallengeMember, nickname string) (string, error) {
	message := llm.GenerateCertificateText(ctx, &llm.CertPayload{
		Nickname:       nickname,
		ChallengeTitle: challenge.Title,
		Progress:       winner.Progress,
	})

	input := &certificate.Input{
		Nickname:       nickname,
		ChallengeTitle: challenge.Title,
		Progress:       winner.Progress,
		Message:        message,
		IssuedAt:       time.Now(),
	}

	var png []byte
	var err error
	if tmpl := config.Cfg.Challenge.CertTemplate; tmpl != "" {
		png, err = certificate.RenderOnTemplate(tmpl, input)
	} else {
		png, err = certificate.Render(input)
	}
	if err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("certs/%d/%d.png", challenge.ID, winner.UserID)
	fileKey, err := minio.UploadFile(ctx, objectName, bytes.NewReader(png), int64(len(png)), "image/png")
	if err != nil {
		return "", err
	}
	return fileKey, nil
}
