package handler

import (
	"Wellspring/internal/api/dto"
	"Wellspring/internal/pkg/response"
	"Wellspring/internal/service"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	chatSvc service.ChatService
}

func NewChatHandler(chatSvc service.ChatService) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc}
}

// SendMessage 发送私信
func (s *ChatHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	senderID := c.GetUint64("user_id")

	res, err := s.chatSvc.SendMessage(c.Request.Context(), senderID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetChatHistory 按时间向前翻页拉取历史消息
func (s *ChatHandler) GetChatHistory(c *gin.Context) {
	userID := c.GetUint64("user_id")

	peerID, err := strconv.ParseUint(c.Query("peer_id"), 10, 64)
	if err != nil || peerID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	before := time.Now()
	if beforeStr := c.Query("before"); beforeStr != "" {
		t, err := time.Parse(time.RFC3339, beforeStr)
		if err != nil {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		before = t
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	res, err := s.chatSvc.GetChatHistory(c.Request.Context(), userID, peerID, before, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetConversationList 获取会话列表
func (s *ChatHandler) GetConversationList(c *gin.Context) {
	userID := c.GetUint64("user_id")
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	offset, _ := strconv.ParseInt(c.DefaultQuery("offset", "0"), 10, 64)

	res, err := s.chatSvc.GetConversationList(c.Request.Context(), userID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// MarkAsRead 清零与指定用户会话的未读数
func (s *ChatHandler) MarkAsRead(c *gin.Context) {
	userID := c.GetUint64("user_id")

	peerID, err := strconv.ParseUint(c.Query("peer_id"), 10, 64)
	if err != nil || peerID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err = s.chatSvc.MarkAsRead(c.Request.Context(), userID, peerID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetTotalUnread 所有会话未读数之和
func (s *ChatHandler) GetTotalUnread(c *gin.Context) {
	userID := c.GetUint64("user_id")

	count, err := s.chatSvc.GetTotalUnread(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.ChatUnreadDTO{UnreadCount: count})
}

// DeleteConversation 删除会话并级联清理消息
func (s *ChatHandler) DeleteConversation(c *gin.Context) {
	userID := c.GetUint64("user_id")

	peerID, err := strconv.ParseUint(c.Param("peer_id"), 10, 64)
	if err != nil || peerID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err = s.chatSvc.DeleteConversation(c.Request.Context(), userID, peerID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
