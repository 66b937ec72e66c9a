package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/api/dto"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/middleware"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/service"
)

type CheckoutController struct {
	checkoutService *service.CheckoutService
}

func NewCheckoutController(checkoutService *service.CheckoutService) *CheckoutController {
	return &CheckoutController{checkoutService: checkoutService}
}

// ==================== 下单 ====================

// CreateOrder 从购物车创建订单
// @Summary 创建订单并在网关建支付单
// @Tags Checkout
// @Success 201 {object} dto.CreateOrderResponse
// @Router /api/checkout/create-order [post]
func (ctrl *CheckoutController) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数无效", "code": "INVALID_PARAMS"})
		return
	}
	if req.TamperFields() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求体不允许指定归属", "code": "USER_ID_NOT_ALLOWED"})
		return
	}

	userID := middleware.GetUserID(c)
	role := middleware.GetUserRole(c)
	resp, err := ctrl.checkoutService.CreateOrder(c.Request.Context(), userID, role, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusCreated, resp)
}

// ==================== 验签 ====================

// VerifyPayment 支付回调验签
// @Summary 校验支付签名并落账
// @Tags Checkout
// @Success 200 {object} dto.VerifyPaymentResponse
// @Router /api/checkout/verify [post]
func (ctrl *CheckoutController) VerifyPayment(c *gin.Context) {
	var req dto.VerifyPaymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数无效", "code": "MISSING_FIELDS"})
		return
	}

	resp, err := ctrl.checkoutService.VerifyPayment(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, resp)
}
