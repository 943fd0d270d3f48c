package handler

import (
	"Wellspring/internal/api/dto"
	"Wellspring/internal/pkg/response"
	"Wellspring/internal/pkg/util"
	"Wellspring/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type StoreHandler struct {
	storeSvc service.StoreService
}

func NewStoreHandler(storeSvc service.StoreService) *StoreHandler {
	return &StoreHandler{storeSvc: storeSvc}
}

// GetItems 上架商品列表，登录时附带持有状态
func (s *StoreHandler) GetItems(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = util.NormalizePage(page, pageSize)

	userID := c.GetUint64("user_id")

	res, err := s.storeSvc.GetItems(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *StoreHandler) GetUserItems(c *gin.Context) {
	userID := c.GetUint64("user_id")

	res, err := s.storeSvc.GetUserItems(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *StoreHandler) Purchase(c *gin.Context) {
	var req dto.PurchaseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	res, err := s.storeSvc.Purchase(c.Request.Context(), userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

func (s *StoreHandler) Equip(c *gin.Context) {
	var req dto.EquipReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")

	if err := s.storeSvc.Equip(c.Request.Context(), userID, &req); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
