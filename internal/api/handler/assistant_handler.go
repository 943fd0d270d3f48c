package handler

import (
	"Wellspring/internal/api/dto"
	"Wellspring/internal/pkg/llm"
	"Wellspring/internal/pkg/response"
	"Wellspring/internal/service"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AssistantResponse struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type AssistantHandler struct {
	agent        llm.Agent
	assistantSvc service.AssistantService
}

func NewAssistantHandler(agent llm.Agent, assistantSvc service.AssistantService) *AssistantHandler {
	return &AssistantHandler{
		agent:        agent,
		assistantSvc: assistantSvc,
	}
}

// Search 单轮问答，无会话记忆
func (s *AssistantHandler) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	channel := s.agent.ChatSingle(c.Request.Context(), query)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("Transfer-Encoding", "chunked")

	c.Stream(func(w io.Writer) bool {
		if msg, ok := <-channel; ok {
			c.SSEvent("", AssistantResponse{
				Type:    "message",
				Content: msg,
			})
			return true
		}
		return false
	})
}

// QuickChat 轻量多轮问答，链内存维护上下文，不走检索工具也不落历史
func (s *AssistantHandler) QuickChat(c *gin.Context) {
	query := c.Query("query")
	sessionID := c.Query("session_id")
	if query == "" || sessionID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	// 会话按用户隔离
	sessionID = strconv.FormatUint(c.GetUint64("user_id"), 10) + ":" + sessionID

	channel, err := llm.ChatWithChain(c.Request.Context(), query, sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("Transfer-Encoding", "chunked")

	c.Stream(func(w io.Writer) bool {
		if msg, ok := <-channel; ok {
			c.SSEvent("", AssistantResponse{
				Type:    "message",
				Content: msg,
			})
			return true
		}
		return false
	})
}

// Converse 多轮对话，SSE 首帧回传会话 ID
func (s *AssistantHandler) Converse(c *gin.Context) {
	var req dto.AssistantChatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BadRequest, "参数格式错误")
		return
	}

	userID := c.GetUint64("user_id")
	isNewChat := req.SessionID == "" || req.SessionID == "0"

	sessionID, outChan, err := s.assistantSvc.Chat(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		if isNewChat {
			c.SSEvent("", AssistantResponse{
				Type:    "session_id",
				Content: sessionID,
			})
			isNewChat = false
			return true
		}

		if msg, ok := <-outChan; ok {
			c.SSEvent("", AssistantResponse{
				Type:    "message",
				Content: msg,
			})
			return true
		}

		c.SSEvent("", AssistantResponse{
			Type:    "done",
			Content: "EOF",
		})
		return false
	})
}

func (s *AssistantHandler) GetHistory(c *gin.Context) {
	userID := c.GetUint64("user_id")
	sessionID := c.Query("session_id")

	res, err := s.assistantSvc.GetHistory(c.Request.Context(), userID, sessionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GenerateFitnessPlan 生成个性化健身计划
func (s *AssistantHandler) GenerateFitnessPlan(c *gin.Context) {
	var req dto.FitnessPlanReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := s.assistantSvc.GenerateFitnessPlan(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
