package handler

import (
	"Wellspring/internal/api/dto"
	"Wellspring/internal/pkg/consts"
	"Wellspring/internal/pkg/minio"
	"Wellspring/internal/pkg/redis"
	"Wellspring/internal/pkg/response"
	"Wellspring/internal/pkg/util"
	"Wellspring/internal/service"
	"context"
	"errors"
	log "log/slog"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userSvc      service.UserService
	userRolesSvc service.UserRolesService
	smsSvc       service.SmsService
}

func NewUserHandler(userSvc service.UserService, userRolesSvc service.UserRolesService, smsSvc service.SmsService) *UserHandler {
	return &UserHandler{
		userSvc:      userSvc,
		userRolesSvc: userRolesSvc,
		smsSvc:       smsSvc,
	}
}

func (s *UserHandler) Register(c *gin.Context) {
	var registerDTO dto.RegisterDTO
	if err := c.ShouldBind(&registerDTO); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if !util.ValidateRegDTO(&registerDTO) {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	userID, err := s.userSvc.Register(c.Request.Context(), &registerDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, map[string]uint64{"user_id": userID})
}

func (s *UserHandler) SendSmsCode(c *gin.Context) {
	var req dto.PhoneDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if !util.ValidatePhone(req.Phone) {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	if err := s.smsSvc.SendSms(c.Request.Context(), req.Phone); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) Login(c *gin.Context) {
	var loginDTO dto.CredentialDTO
	if err := c.ShouldBind(&loginDTO); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if !util.ValidateLoginDTO(&loginDTO) {
		response.Fail(c, response.BadRequest, service.ErrParamInvalid.Error())
		return
	}
	token, err := s.userSvc.Login(c.Request.Context(), &loginDTO, true)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, token)
}

// LoginByPhone 验证码登录，手机号未注册时返回临时令牌引导注册
func (s *UserHandler) LoginByPhone(c *gin.Context) {
	var req dto.PhoneLoginDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	phoneToken, err := s.smsSvc.CheckCode(c.Request.Context(), req.Phone, req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	loginDTO := dto.CredentialDTO{Phone: &req.Phone}
	token, err := s.userSvc.Login(c.Request.Context(), &loginDTO, false)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.Success(c, map[string]any{
				"is_reg":      false,
				"phone_token": phoneToken,
			})
			return
		}
		response.Error(c, err)
		return
	}

	_ = s.smsSvc.DelSmsRegToken(c.Request.Context(), req.Phone)
	response.Success(c, map[string]any{
		"is_reg": true,
		"token":  token.Token,
		"user_id": token.UserID,
	})
}

func (s *UserHandler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if err := s.userSvc.Logout(c.Request.Context(), token); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) GetUserInfo(c *gin.Context) {
	userID := c.GetUint64("user_id")
	res, err := s.userSvc.GetUserInfo(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *UserHandler) GetHomeInfo(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil || targetID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	res, err := s.userSvc.GetUserHomeInfoById(c.Request.Context(), targetID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *UserHandler) GetUserSimpleInfoByIds(c *gin.Context) {
	idsParam := c.Query("ids")
	if idsParam == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	parts := strings.Split(idsParam, ",")
	ids := make([]uint64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil || id == 0 {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		ids = append(ids, id)
	}

	res, err := s.userSvc.GetUserSimpleInfoByIds(c.Request.Context(), ids)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *UserHandler) SearchUser(c *gin.Context) {
	var searchDTO dto.SearchUserDTO
	if nickname := c.Query("nickname"); nickname != "" {
		searchDTO.Nickname = &nickname
	}
	if username := c.Query("username"); username != "" {
		searchDTO.Username = &username
	}
	if phone := c.Query("phone"); phone != "" {
		searchDTO.Phone = &phone
	}
	if idStr := c.Query("id"); idStr != "" {
		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		searchDTO.ID = &id
	}

	res, err := s.userSvc.SearchUser(c.Request.Context(), &searchDTO)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *UserHandler) UpdateUserInfo(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var userDTO dto.UserDTO
	if err := c.ShouldBind(&userDTO); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&userDTO); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	if err := s.userSvc.UpdateUserInfo(c.Request.Context(), userID, &userDTO); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) ForgetPassword(c *gin.Context) {
	var req dto.ForgetPasswordDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := s.userSvc.UpdatePasswordFromToken(c.Request.Context(), &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) ChangePassword(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.ChangePasswordDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := s.userSvc.UpdatePasswordFromOld(c.Request.Context(), userID, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) ChangeUsername(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.ChangeUsernameDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := s.userSvc.UpdateUsername(c.Request.Context(), userID, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) ChangePhone(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.ChangePhoneDTO
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := s.userSvc.UpdatePhone(c.Request.Context(), userID, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// UploadAvatar 接收临时上传的对象名并绑定为头像
func (s *UserHandler) UploadAvatar(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req struct {
		ObjectName string `json:"object_name" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	meta, err := redis.HGet(c.Request.Context(), consts.MediaTempKey, req.ObjectName)
	if err != nil || meta == "" {
		response.Error(c, service.ErrFileNotExist)
		return
	}

	if err = s.userSvc.UpdateAvatar(c.Request.Context(), userID, req.ObjectName); err != nil {
		response.Error(c, err)
		return
	}

	go func() {
		_ = redis.HDel(context.Background(), consts.MediaTempKey, req.ObjectName)
	}()

	response.Success(c, map[string]string{"avatar_url": minio.GetPublicURL(req.ObjectName)})
}

func (s *UserHandler) CancelUser(c *gin.Context) {
	userID := c.GetUint64("user_id")
	if err := s.userSvc.CancelUser(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}
	log.InfoContext(c.Request.Context(), "用户注销账号", "userID", userID)
	response.Success(c, nil)
}

func (s *UserHandler) BanUser(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Query("user_id"), 10, 64)
	if err != nil || targetID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if targetID == c.GetUint64("user_id") {
		response.Error(c, service.ErrUserBanSelf)
		return
	}
	if err = s.userSvc.BanUser(c.Request.Context(), targetID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) GetAllRoles(c *gin.Context) {
	roles, err := s.userRolesSvc.GetRoles(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, roles)
}

func (s *UserHandler) AddUserRole(c *gin.Context) {
	var req struct {
		UserID uint64 `json:"user_id" binding:"required"`
		RoleID uint64 `json:"role_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := s.userRolesSvc.AddRoleToUser(c.Request.Context(), req.UserID, req.RoleID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) DeleteUserRole(c *gin.Context) {
	var req struct {
		UserID uint64 `json:"user_id" binding:"required"`
		RoleID uint64 `json:"role_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := s.userRolesSvc.DeleteRoleFromUser(c.Request.Context(), req.UserID, req.RoleID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *UserHandler) UnbanUser(c *gin.Context) {
	targetID, err := strconv.ParseUint(c.Query("user_id"), 10, 64)
	if err != nil || targetID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err = s.userSvc.UnBanUser(c.Request.Context(), targetID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
