package service

import (
	"Wellspring/internal/api/dto"
	"Wellspring/internal/pkg/llm"
	"Wellspring/internal/pkg/mongo"
	"context"
	log "log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"
)

const assistantHistoryLimit = 20

type AssistantService interface {
	Chat(ctx context.Context, userID uint64, req *dto.AssistantChatReq) (string, <-chan string, error)
	GetHistory(ctx context.Context, userID uint64, sessionID string) (*dto.AssistantHistoryDTO, error)
	GenerateFitnessPlan(ctx context.Context, req *dto.FitnessPlanReq) (*dto.FitnessPlanDTO, error)
}

type assistantServiceImpl struct {
	agent       llm.Agent
	messageRepo mongo.AssistantMessageRepo
}

func NewAssistantService(agent llm.Agent, messageRepo mongo.AssistantMessageRepo) AssistantService {
	return &assistantServiceImpl{
		agent:       agent,
		messageRepo: messageRepo,
	}
}

// Chat 助手多轮对话：取回会话上文后交给 Agent 流式生成
// 用户消息立即落库，助手回复在流结束后整条落库
func (s *assistantServiceImpl) Chat(ctx context.Context, userID uint64, req *dto.AssistantChatReq) (string, <-chan string, error) {
	sessionID := req.SessionID
	if sessionID == "" || sessionID == "0" {
		sessionID = uuid.NewString()
	}

	convID := conversationID(userID, sessionID)
	history, err := s.messageRepo.GetHistory(ctx, convID, assistantHistoryLimit)
	if err != nil {
		return "", nil, err
	}

	seq := uint64(0)
	if len(history) > 0 {
		seq = history[len(history)-1].Seq
	}

	if err = s.messageRepo.SaveMessage(ctx, &mongo.AssistantMessage{
		ConversationID: convID,
		SenderID:       userID,
		Content:        req.Message,
		Seq:            seq + 1,
		CreatedAt:      time.Now(),
	}); err != nil {
		return "", nil, err
	}

	agentChan := s.agent.Converse(ctx, req.Message, sessionID, toLLMHistory(history))

	out := make(chan string, 20)
	go func() {
		defer close(out)

		var reply strings.Builder
		for chunk := range agentChan {
			reply.WriteString(chunk)
			out <- chunk
		}

		if reply.Len() == 0 {
			return
		}
		saveCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		err := s.messageRepo.SaveMessage(saveCtx, &mongo.AssistantMessage{
			ConversationID: convID,
			SenderID:       0,
			Content:        reply.String(),
			Seq:            seq + 2,
			CreatedAt:      time.Now(),
		})
		if err != nil {
			log.Error("save assistant reply failed", "convID", convID, "err", err)
		}
	}()

	return sessionID, out, nil
}

func (s *assistantServiceImpl) GetHistory(ctx context.Context, userID uint64, sessionID string) (*dto.AssistantHistoryDTO, error) {
	if sessionID == "" {
		return nil, ErrParamInvalid
	}

	history, err := s.messageRepo.GetHistory(ctx, conversationID(userID, sessionID), assistantHistoryLimit)
	if err != nil {
		return nil, err
	}

	rows := make([]*dto.MessageRow, 0, len(history))
	for _, msg := range history {
		role := "assistant"
		if msg.SenderID != 0 {
			role = "user"
		}
		rows = append(rows, &dto.MessageRow{
			Role:      role,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return &dto.AssistantHistoryDTO{SessionID: sessionID, Messages: rows}, nil
}

func (s *assistantServiceImpl) GenerateFitnessPlan(ctx context.Context, req *dto.FitnessPlanReq) (*dto.FitnessPlanDTO, error) {
	plan, err := llm.GenerateFitnessPlan(ctx, &llm.PlanRequest{
		Goal:      req.Goal,
		DaysAWeek: req.DaysAWeek,
		Level:     req.Level,
		Notes:     req.Notes,
	})
	if err != nil {
		return nil, ErrAIServiceBusy
	}
	return &dto.FitnessPlanDTO{Plan: plan}, nil
}

// conversationID 会话按用户隔离，避免跨用户读取历史
func conversationID(userID uint64, sessionID string) string {
	return strconv.FormatUint(userID, 10) + ":" + sessionID
}

func toLLMHistory(history []*mongo.AssistantMessage) []llms.MessageContent {
	messages := make([]llms.MessageContent, 0, len(history))
	for _, msg := range history {
		role := llms.ChatMessageTypeAI
		if msg.SenderID != 0 {
			role = llms.ChatMessageTypeHuman
		}
		messages = append(messages, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(msg.Content)},
		})
	}
	return messages
}
