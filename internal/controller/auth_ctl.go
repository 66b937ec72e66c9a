package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/api/dto"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/middleware"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/model"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/service"
)

type AuthController struct {
	authService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// ==================== 注册 / 登录 ====================

// Register 注册
func (ctrl *AuthController) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数无效", "code": "MISSING_FIELDS"})
		return
	}

	user, err := ctrl.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := ctrl.buildAuthResponse(user)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, resp)
}

// Login 登录
func (ctrl *AuthController) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数无效", "code": "MISSING_FIELDS"})
		return
	}

	user, err := ctrl.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	resp, err := ctrl.buildAuthResponse(user)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, resp)
}

// buildAuthResponse 签发 Token 并组装响应
func (ctrl *AuthController) buildAuthResponse(user *model.User) (*dto.AuthResponse, error) {
	token, err := middleware.GenerateAccessToken(user.ID, user.Name, user.Role)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token: token,
		User: &dto.UserVO{
			ID:    user.ID,
			Name:  user.Name,
			Email: user.Email,
			Phone: user.Phone,
			Role:  user.Role,
		},
	}, nil
}
