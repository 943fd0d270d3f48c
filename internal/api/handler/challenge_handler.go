package handler

import (
	"Wellspring/internal/api/dto"
	"Wellspring/internal/pkg/response"
	"Wellspring/internal/pkg/util"
	"Wellspring/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ChallengeHandler struct {
	challengeSvc service.ChallengeService
}

func NewChallengeHandler(challengeSvc service.ChallengeService) *ChallengeHandler {
	return &ChallengeHandler{challengeSvc: challengeSvc}
}

func (s *ChallengeHandler) CreateChallenge(c *gin.Context) {
	var req dto.ChallengeCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&req); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	userID := c.GetUint64("user_id")

	challengeID, err := s.challengeSvc.CreateChallenge(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]uint64{"challenge_id": challengeID})
}

func (s *ChallengeHandler) GetChallenge(c *gin.Context) {
	challengeID, err := strconv.ParseUint(c.Param("challenge_id"), 10, 64)
	if err != nil || challengeID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	viewerID := c.GetUint64("user_id")

	res, err := s.challengeSvc.GetChallenge(c.Request.Context(), challengeID, viewerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetOpenChallenges 浏览进行中的挑战
func (s *ChallengeHandler) GetOpenChallenges(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	page, pageSize = util.NormalizePage(page, pageSize)

	viewerID := c.GetUint64("user_id")

	res, err := s.challengeSvc.GetOpenChallenges(c.Request.Context(), viewerID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *ChallengeHandler) GetMyChallenges(c *gin.Context) {
	userID := c.GetUint64("user_id")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	page, pageSize = util.NormalizePage(page, pageSize)

	res, err := s.challengeSvc.GetUserChallenges(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *ChallengeHandler) JoinChallenge(c *gin.Context) {
	challengeID, err := strconv.ParseUint(c.Param("challenge_id"), 10, 64)
	if err != nil || challengeID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	if err = s.challengeSvc.JoinChallenge(c.Request.Context(), userID, challengeID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ChallengeHandler) LeaveChallenge(c *gin.Context) {
	challengeID, err := strconv.ParseUint(c.Param("challenge_id"), 10, 64)
	if err != nil || challengeID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	if err = s.challengeSvc.LeaveChallenge(c.Request.Context(), userID, challengeID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ChallengeHandler) InviteMember(c *gin.Context) {
	var req dto.ChallengeInviteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	if err := s.challengeSvc.InviteMember(c.Request.Context(), userID, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *ChallengeHandler) GetMembers(c *gin.Context) {
	challengeID, err := strconv.ParseUint(c.Param("challenge_id"), 10, 64)
	if err != nil || challengeID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := s.challengeSvc.GetMembers(c.Request.Context(), challengeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
