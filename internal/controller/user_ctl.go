package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/api/dto"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/middleware"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/service"
)

type UserController struct {
	userService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{userService: userService}
}

// ==================== 当前用户 ====================

// GetMe 当前用户信息
func (ctrl *UserController) GetMe(c *gin.Context) {
	userID := middleware.GetUserID(c)
	vo, err := ctrl.userService.GetMe(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, vo)
}

// ==================== 地址簿 ====================

// ListAddresses 地址列表
func (ctrl *UserController) ListAddresses(c *gin.Context) {
	userID := middleware.GetUserID(c)
	addresses, err := ctrl.userService.ListAddresses(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, addresses)
}

// CreateAddress 新建地址
func (ctrl *UserController) CreateAddress(c *gin.Context) {
	var req dto.CreateAddressReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数无效", "code": "MISSING_FIELDS"})
		return
	}

	userID := middleware.GetUserID(c)
	address, err := ctrl.userService.CreateAddress(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, address)
}
