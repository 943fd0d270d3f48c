package handler

import (
	"Wellspring/internal/pkg/response"
	"Wellspring/internal/pkg/util"
	"Wellspring/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	activitySvc service.ActivityService
}

func NewActivityHandler(activitySvc service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activitySvc: activitySvc}
}

// GetActivityList 分页获取通知列表
func (s *ActivityHandler) GetActivityList(c *gin.Context) {
	userID := c.GetUint64("user_id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = util.NormalizePage(page, pageSize)

	res, err := s.activitySvc.GetActivityList(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *ActivityHandler) GetUnreadCount(c *gin.Context) {
	userID := c.GetUint64("user_id")

	res, err := s.activitySvc.GetUnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *ActivityHandler) MarkRead(c *gin.Context) {
	userID := c.GetUint64("user_id")

	msgID := c.Param("activity_id")
	if msgID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.activitySvc.MarkRead(c.Request.Context(), userID, msgID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// MarkAllRead 一键已读，返回实际标记条数
func (s *ActivityHandler) MarkAllRead(c *gin.Context) {
	userID := c.GetUint64("user_id")

	res, err := s.activitySvc.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
