package llm

import (
	"context"
	"errors"
	log "log/slog"

	"github.com/goccy/go-json"
)

// PlanRequest 健身计划生成入参
type PlanRequest struct {
	Goal      string `json:"goal"`
	DaysAWeek int    `json:"days_a_week"`
	Level     string `json:"level"`
	Notes     string `json:"notes,omitempty"`
}

// GenerateFitnessPlan 根据用户目标生成结构化健身计划文本
func GenerateFitnessPlan(ctx context.Context, req *PlanRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		log.Error("健身计划-AI大模型请求数据序列化失败", "err", err)
		return "", err
	}

	resp, err := fetchModel(ctx, fitnessPlanPrompt, string(payload), 0.7)
	if err != nil {
		log.Error("健身计划-AI大模型请求失败", "err", err)
		return "", err
	}

	if len(resp.Choices) > 0 && resp.Choices[0].Content != "" {
		return resp.Choices[0].Content, nil
	}

	return "", errors.New("健身计划-AI大模型返回数据为空")
}

// CertPayload 证书贺词生成入参
type CertPayload struct {
	Nickname       string `json:"nickname"`
	ChallengeTitle string `json:"challenge_title"`
	Progress       int64  `json:"progress"`
}

// GenerateCertificateText 为挑战获胜者生成简短贺词
// 任何失败都回退到固定文案，证书渲染不应被 AI 故障阻塞
func GenerateCertificateText(ctx context.Context, payload *CertPayload) string {
	const fallback = "坚持不懈，载誉而归。"

	data, err := json.Marshal(payload)
	if err != nil {
		return fallback
	}

	resp, err := fetchModel(ctx, certificatePrompt, string(data), 0.7)
	if err != nil {
		log.Error("证书贺词-AI大模型请求失败", "err", err)
		return fallback
	}

	if len(resp.Choices) > 0 && resp.Choices[0].Content != "" {
		return resp.Choices[0].Content
	}
	return fallback
}
