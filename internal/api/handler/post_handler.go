package handler

import (
	"Wellspring/internal/api/dto"
	"Wellspring/internal/pkg/consts"
	"Wellspring/internal/pkg/response"
	"Wellspring/internal/pkg/util"
	"Wellspring/internal/service"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	postSvc service.PostService
}

func NewPostHandler(postSvc service.PostService) *PostHandler {
	return &PostHandler{postSvc: postSvc}
}

func (s *PostHandler) CreatePost(c *gin.Context) {
	var postDTO dto.PostBaseDTO
	if err := c.ShouldBindJSON(&postDTO); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&postDTO); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	userID := c.GetUint64("user_id")

	postID, err := s.postSvc.CreatePost(c.Request.Context(), userID, &postDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]uint64{"post_id": postID})
}

func (s *PostHandler) GetPost(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || postID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	viewerID := c.GetUint64("user_id")

	res, err := s.postSvc.GetPost(c.Request.Context(), viewerID, postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetLatestFeed 最新信息流，cursor 为上一页返回的游标
func (s *PostHandler) GetLatestFeed(c *gin.Context) {
	cursor := c.Query("cursor")
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	_, pageSize = util.NormalizePage(1, pageSize)

	res, err := s.postSvc.GetLatestFeed(c.Request.Context(), cursor, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *PostHandler) SearchPost(c *gin.Context) {
	keyword := c.Query("keyword")
	if keyword == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	page, pageSize = util.NormalizePage(page, pageSize)

	res, err := s.postSvc.SearchPost(c.Request.Context(), keyword, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetChallengeFeed 挑战打卡帖信息流
func (s *PostHandler) GetChallengeFeed(c *gin.Context) {
	challengeID, err := strconv.ParseUint(c.Param("challenge_id"), 10, 64)
	if err != nil || challengeID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	page, pageSize = util.NormalizePage(page, pageSize)

	res, err := s.postSvc.GetChallengeFeed(c.Request.Context(), challengeID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *PostHandler) GetPostByUserId(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil || targetID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	page, pageSize = util.NormalizePage(page, pageSize)

	viewerID := c.GetUint64("user_id")

	res, err := s.postSvc.GetUserPosts(c.Request.Context(), targetID, viewerID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *PostHandler) GetPostSelf(c *gin.Context) {
	userID := c.GetUint64("user_id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	page, pageSize = util.NormalizePage(page, pageSize)

	res, err := s.postSvc.GetUserPosts(c.Request.Context(), userID, userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *PostHandler) UpdatePostContent(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || postID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var postDTO dto.PostBaseDTO
	if err = c.ShouldBindJSON(&postDTO); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = util.ValidateDTO(&postDTO); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	userID := c.GetUint64("user_id")

	if err = s.postSvc.UpdatePostContent(c.Request.Context(), userID, postID, &postDTO); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// UpdatePostStatus 审核通道：人工通过或拒绝
func (s *PostHandler) UpdatePostStatus(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || postID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req struct {
		Status int `json:"status" binding:"required"`
	}
	if err = c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	validStatuses := []int{consts.PostStatusNormal, consts.PostStatusWarning, consts.PostStatusDenied}
	if !slices.Contains(validStatuses, req.Status) {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err = s.postSvc.UpdatePostStatus(c.Request.Context(), postID, req.Status); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *PostHandler) DeletePost(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("post_id"), 10, 64)
	if err != nil || postID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")
	roles := c.GetStringSlice("roles")
	isAdmin := slices.Contains(roles, consts.RoleAdmin)

	if err = s.postSvc.DeletePost(c.Request.Context(), userID, postID, isAdmin); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
