package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/api/dto"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/middleware"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/service"
)

type CartController struct {
	cartService *service.CartService
}

func NewCartController(cartService *service.CartService) *CartController {
	return &CartController{cartService: cartService}
}

// ==================== 查询 ====================

// GetCart 当前购物车
func (ctrl *CartController) GetCart(c *gin.Context) {
	owner := middleware.GetCartOwner(c)
	resp, err := ctrl.cartService.GetCart(c.Request.Context(), owner)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, resp)
}

// ==================== 变更 ====================

// AddItem 加入购物车
// 请求体里带 userId/sessionId 一律拒绝，归属只信中间件
func (ctrl *CartController) AddItem(c *gin.Context) {
	var req dto.AddCartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数无效", "code": "INVALID_PARAMS"})
		return
	}
	if req.TamperFields() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求体不允许指定归属", "code": "USER_ID_NOT_ALLOWED"})
		return
	}

	owner := middleware.GetCartOwner(c)
	resp, err := ctrl.cartService.AddItem(c.Request.Context(), owner, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, resp)
}

// UpdateItem 修改购物车项数量
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || itemID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的购物车项 ID", "code": "INVALID_PARAMS"})
		return
	}

	var req dto.UpdateCartItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数无效", "code": "INVALID_PARAMS"})
		return
	}

	owner := middleware.GetCartOwner(c)
	resp, err := ctrl.cartService.UpdateQuantity(c.Request.Context(), owner, itemID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, resp)
}

// RemoveItem 删除购物车项
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || itemID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的购物车项 ID", "code": "INVALID_PARAMS"})
		return
	}

	owner := middleware.GetCartOwner(c)
	resp, err := ctrl.cartService.RemoveItem(c.Request.Context(), owner, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, resp)
}
