package service

import (
	"Wellspring/internal/api/dto"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCreateChallengeRejectsBadTimes(t *testing.T) {
	svc := NewChallengeService(nil, nil, nil)
	ctx := context.Background()

	now := time.Now()
	valid := func() *dto.ChallengeCreateDTO {
		return &dto.ChallengeCreateDTO{
			Title:   "30天晨跑",
			Goal:    30,
			StartAt: now.Add(time.Hour).Format(time.RFC3339),
			EndAt:   now.Add(30 * 24 * time.Hour).Format(time.RFC3339),
		}
	}

	// 时间格式非法
	req := valid()
	req.StartAt = "2025-06-01"
	_, err := svc.CreateChallenge(ctx, 1, req)
	assert.ErrorIs(t, err, ErrParamInvalid)

	// 结束早于开始
	req = valid()
	req.EndAt = now.Add(30 * time.Minute).Format(time.RFC3339)
	req.StartAt = now.Add(time.Hour).Format(time.RFC3339)
	_, err = svc.CreateChallenge(ctx, 1, req)
	assert.ErrorIs(t, err, ErrParamInvalid)

	// 结束时间已经过去
	req = valid()
	req.StartAt = now.Add(-48 * time.Hour).Format(time.RFC3339)
	req.EndAt = now.Add(-24 * time.Hour).Format(time.RFC3339)
	_, err = svc.CreateChallenge(ctx, 1, req)
	assert.ErrorIs(t, err, ErrParamInvalid)
}
