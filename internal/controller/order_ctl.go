package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/api/dto"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/middleware"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/service"
)

type OrderController struct {
	orderService *service.OrderService
}

func NewOrderController(orderService *service.OrderService) *OrderController {
	return &OrderController{orderService: orderService}
}

// ==================== 查询接口 ====================

// ListOrders 订单列表
// @Summary 订单列表（管理员全量，用户只看自己的）
// @Tags Order
// @Param status query string false "状态筛选"
// @Param isWholesale query bool false "批发单筛选"
// @Param startDate query string false "起始日期 2006-01-02"
// @Param endDate query string false "结束日期"
// @Param page query int false "页码" default(1)
// @Param pageSize query int false "每页数量" default(20)
// @Success 200 {object} dto.ListOrdersResponse
// @Router /api/orders [get]
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	var req dto.ListOrdersReq
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数无效", "code": "INVALID_PARAMS"})
		return
	}

	callerID := middleware.GetUserID(c)
	callerRole := middleware.GetUserRole(c)
	resp, err := ctrl.orderService.ListOrders(c.Request.Context(), callerID, callerRole, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, resp)
}

// GetOrder 订单详情
// @Summary 订单详情（本人或管理员）
// @Tags Order
// @Param id path int true "订单 ID"
// @Success 200 {object} dto.OrderDetailResponse
// @Router /api/orders/{id} [get]
func (ctrl *OrderController) GetOrder(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || orderID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的订单 ID", "code": "INVALID_PARAMS"})
		return
	}

	callerID := middleware.GetUserID(c)
	callerRole := middleware.GetUserRole(c)
	resp, err := ctrl.orderService.GetOrderDetail(c.Request.Context(), orderID, callerID, callerRole)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, resp)
}

// ==================== 管理接口 ====================

// UpdateOrder 更新订单状态/备注/运单号
// @Summary 更新订单（仅管理员）
// @Tags Order
// @Param id path int true "订单 ID"
// @Success 200 {object} dto.OrderDetailResponse
// @Router /api/orders/{id} [patch]
func (ctrl *OrderController) UpdateOrder(c *gin.Context) {
	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || orderID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的订单 ID", "code": "INVALID_PARAMS"})
		return
	}

	var req dto.UpdateOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数无效", "code": "INVALID_PARAMS"})
		return
	}

	adminID := middleware.GetUserID(c)
	resp, err := ctrl.orderService.UpdateOrder(c.Request.Context(), orderID, adminID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, resp)
}
