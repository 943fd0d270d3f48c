package handler

import (
	"Wellspring/internal/pkg/response"
	"Wellspring/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type UserFollowHandler struct {
	followSvc service.UserFollowService
}

func NewUserFollowHandler(followSvc service.UserFollowService) *UserFollowHandler {
	return &UserFollowHandler{followSvc: followSvc}
}

func (s *UserFollowHandler) Follow(c *gin.Context) {
	userID := c.GetUint64("user_id")
	targetID, err := strconv.ParseUint(c.Param("target_id"), 10, 64)
	if err != nil || targetID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.followSvc.Follow(c.Request.Context(), userID, targetID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserFollowHandler) Unfollow(c *gin.Context) {
	userID := c.GetUint64("user_id")
	targetID, err := strconv.ParseUint(c.Param("target_id"), 10, 64)
	if err != nil || targetID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.followSvc.Unfollow(c.Request.Context(), userID, targetID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserFollowHandler) IsFollowing(c *gin.Context) {
	userID := c.GetUint64("user_id")
	targetID, err := strconv.ParseUint(c.Param("target_id"), 10, 64)
	if err != nil || targetID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	following, err := s.followSvc.IsFollowing(c.Request.Context(), userID, targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]bool{"is_following": following})
}

// GetFollowings 默认查当前用户，携带 user_id 参数时查他人
func (s *UserFollowHandler) GetFollowings(c *gin.Context) {
	viewerID := c.GetUint64("user_id")
	targetID := viewerID
	if idStr := c.Query("user_id"); idStr != "" {
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil || id == 0 {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		targetID = id
	}

	res, err := s.followSvc.GetFollowing(c.Request.Context(), targetID, viewerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *UserFollowHandler) GetFollowers(c *gin.Context) {
	viewerID := c.GetUint64("user_id")
	targetID := viewerID
	if idStr := c.Query("user_id"); idStr != "" {
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil || id == 0 {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		targetID = id
	}

	res, err := s.followSvc.GetFollowers(c.Request.Context(), targetID, viewerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *UserFollowHandler) GetFollowingCount(c *gin.Context) {
	targetID := c.GetUint64("user_id")
	if idStr := c.Query("user_id"); idStr != "" {
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil || id == 0 {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		targetID = id
	}

	count, err := s.followSvc.GetFollowingCount(c.Request.Context(), targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]int64{"count": count})
}

func (s *UserFollowHandler) GetFollowerCount(c *gin.Context) {
	targetID := c.GetUint64("user_id")
	if idStr := c.Query("user_id"); idStr != "" {
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil || id == 0 {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		targetID = id
	}

	count, err := s.followSvc.GetFollowerCount(c.Request.Context(), targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]int64{"count": count})
}
