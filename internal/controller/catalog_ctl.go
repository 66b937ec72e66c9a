package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/api/dto"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/service"
)

type CatalogController struct {
	catalogService *service.CatalogService
}

func NewCatalogController(catalogService *service.CatalogService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

// ==================== 分类 ====================

// GetCategories 获取分类树
// @Summary 获取分类树（带商品数）
// @Tags Catalog
// @Param includeInactive query bool false "包含停用分类"
// @Success 200 {array} dto.CategoryNode
// @Router /api/categories [get]
func (ctrl *CatalogController) GetCategories(c *gin.Context) {
	var req dto.CategoryTreeReq
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数无效", "code": "INVALID_PARAMS"})
		return
	}

	tree, err := ctrl.catalogService.GetCategoryTree(c.Request.Context(), req.IncludeInactive)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, tree)
}

// ==================== 商品 ====================

// GetProducts 商品列表
// @Summary 商品列表（筛选 + 分页）
// @Tags Catalog
// @Param q query string false "关键词"
// @Param category query string false "分类 slug 或 ID"
// @Param page query int false "页码" default(1)
// @Param pageSize query int false "每页数量" default(12)
// @Success 200 {object} dto.ProductListResponse
// @Router /api/products [get]
func (ctrl *CatalogController) GetProducts(c *gin.Context) {
	var req dto.ProductListReq
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数无效", "code": "INVALID_PARAMS"})
		return
	}

	resp, err := ctrl.catalogService.ListProducts(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, resp)
}

// GetProductDetail 商品详情
// @Summary 按 slug 获取商品详情，附同类推荐
// @Tags Catalog
// @Param slug path string true "商品 slug"
// @Success 200 {object} dto.ProductDetailResponse
// @Router /api/products/{slug} [get]
func (ctrl *CatalogController) GetProductDetail(c *gin.Context) {
	slug := c.Param("slug")
	resp, err := ctrl.catalogService.GetProductDetail(c.Request.Context(), slug)
	if err != nil {
		respondError(c, err)
		return
	}
	respondData(c, http.StatusOK, resp)
}
