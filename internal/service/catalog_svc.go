package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/api/dto"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/model"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/repository"
	"github.com/sumesh-singh/srimalli-traders-e-commerce/pkg/utils"
)

// 分页默认值
const (
	defaultPageSize = 12
	maxPageSize     = 100
)

// 分类树缓存
const (
	categoryTreeCacheKey    = "category_tree"
	categoryTreeCacheKeyAll = "category_tree_all"
	categoryTreeCacheTTL    = 60 * time.Second
)

// ==================== CatalogService 目录服务 ====================

// CatalogService 目录服务（分类树 + 商品列表 + 商品详情）
type CatalogService struct {
	categoryRepo repository.CategoryRepository
	productRepo  repository.ProductRepository
}

// NewCatalogService 创建目录服务
func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	productRepo repository.ProductRepository,
) *CatalogService {
	return &CatalogService{
		categoryRepo: categoryRepo,
		productRepo:  productRepo,
	}
}

// ==================== 分类树 ====================

// GetCategoryTree 获取分类树（带商品数），结果缓存 60 秒
func (s *CatalogService) GetCategoryTree(ctx context.Context, includeInactive bool) ([]dto.CategoryNode, error) {
	cacheKey := categoryTreeCacheKey
	if includeInactive {
		cacheKey = categoryTreeCacheKeyAll
	}
	if cached, ok := utils.GetCache(cacheKey); ok {
		if tree, ok := cached.([]dto.CategoryNode); ok {
			return tree, nil
		}
	}

	categories, err := s.categoryRepo.List(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("查询分类列表失败: %w", err)
	}

	counts, err := s.categoryRepo.CountProductsByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("统计分类商品数失败: %w", err)
	}
	countMap := make(map[int64]int64, len(counts))
	for _, c := range counts {
		countMap[c.CategoryID] = c.Count
	}

	tree := buildCategoryTree(categories, countMap)
	utils.SetCache(cacheKey, tree, categoryTreeCacheTTL)
	return tree, nil
}

// buildCategoryTree 由扁平列表构建树
// 列表已按 sort_order, name 排序，按序挂载即可保持顺序
func buildCategoryTree(categories []model.Category, counts map[int64]int64) []dto.CategoryNode {
	known := make(map[int64]bool, len(categories))
	children := make(map[int64][]model.Category)
	var rootList []model.Category
	for _, c := range categories {
		known[c.ID] = true
	}
	for _, c := range categories {
		// 父节点被停用过滤掉时，子节点提升为根
		if c.ParentID != nil && known[*c.ParentID] {
			children[*c.ParentID] = append(children[*c.ParentID], c)
		} else {
			rootList = append(rootList, c)
		}
	}

	var build func(list []model.Category) []dto.CategoryNode
	build = func(list []model.Category) []dto.CategoryNode {
		nodes := make([]dto.CategoryNode, 0, len(list))
		for _, c := range list {
			nodes = append(nodes, dto.CategoryNode{
				ID:                      c.ID,
				Slug:                    c.Slug,
				Name:                    c.Name,
				Description:             c.Description,
				SortOrder:               c.SortOrder,
				IsActive:                c.IsActive,
				RequiresAgeVerification: c.RequiresAgeVerification,
				ProductCount:            counts[c.ID],
				Children:                build(children[c.ID]),
			})
		}
		return nodes
	}
	return build(rootList)
}

// ==================== 商品列表 ====================

// ListProducts 商品列表，带筛选与分页
// 未知分类返回空页而不是报错，前端当作无结果处理
func (s *CatalogService) ListProducts(ctx context.Context, req *dto.ProductListReq) (*dto.ProductListResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filter := &repository.ProductFilter{
		Search:        req.Q,
		InStock:       req.InStock,
		WholesaleOnly: req.WholesaleOnly,
		Page:          page,
		PageSize:      pageSize,
		SortBy:        req.Sort,
		SortOrder:     req.Order,
	}
	if filter.SortOrder == "" {
		filter.SortOrder = "desc"
	}
	if req.MinPrice != nil {
		v := int64(*req.MinPrice * 100)
		filter.MinPricePaise = &v
	}
	if req.MaxPrice != nil {
		v := int64(*req.MaxPrice * 100)
		filter.MaxPricePaise = &v
	}

	if req.Category != "" {
		categoryID, ok, err := s.resolveCategory(ctx, req.Category)
		if err != nil {
			return nil, fmt.Errorf("查询分类失败: %w", err)
		}
		if !ok {
			return &dto.ProductListResponse{
				Total:    0,
				Page:     page,
				PageSize: pageSize,
				List:     []dto.ProductListItem{},
			}, nil
		}
		filter.CategoryID = &categoryID
	}

	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("查询商品列表失败: %w", err)
	}

	list := make([]dto.ProductListItem, len(products))
	for i := range products {
		list[i] = toProductListItem(&products[i])
	}

	return &dto.ProductListResponse{
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		List:     list,
	}, nil
}

// resolveCategory 分类参数兼容 slug 和数字 ID
func (s *CatalogService) resolveCategory(ctx context.Context, ref string) (int64, bool, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		category, err := s.categoryRepo.GetByID(ctx, id)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return 0, false, nil
			}
			return 0, false, err
		}
		return category.ID, true, nil
	}

	category, err := s.categoryRepo.GetBySlug(ctx, ref)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, false, nil
		}
		return 0, false, err
	}
	return category.ID, true, nil
}

// ==================== 商品详情 ====================

// GetProductDetail 按 slug 查询商品详情，附最多 4 个同类推荐
func (s *CatalogService) GetProductDetail(ctx context.Context, slug string) (*dto.ProductDetailResponse, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil || !product.IsActive() {
		return nil, errNotFound("PRODUCT_NOT_FOUND", "商品不存在")
	}

	detail := &dto.ProductDetailVO{
		ID:                      product.ID,
		Slug:                    product.Slug,
		Name:                    product.Name,
		Description:             product.Description,
		SKU:                     product.SKU,
		CategoryID:              product.CategoryID,
		CategoryName:            product.Category.Name,
		CategorySlug:            product.Category.Slug,
		RequiresAgeVerification: product.Category.RequiresAgeVerification,
		Stock:                   product.Stock,
		Unit:                    product.Unit,
		Tags:                    product.ParseTags(),
		Images:                  make([]dto.ProductImageVO, 0, len(product.Images)),
		MinWholesaleQty:         1,
		TaxRate:                 model.DefaultTaxRate,
	}
	if product.Price != nil {
		detail.RetailPrice = product.Price.GetRetailPrice()
		detail.WholesalePrice = product.Price.GetWholesalePrice()
		detail.MinWholesaleQty = product.Price.MinWholesaleQty
		detail.TaxRate = product.Price.GetTaxRate()
	}
	for _, img := range product.Images {
		detail.Images = append(detail.Images, dto.ProductImageVO{
			URL:       img.URL,
			Alt:       img.Alt,
			SortOrder: img.SortOrder,
		})
	}
	for _, v := range product.Variants {
		detail.Variants = append(detail.Variants, dto.ProductVariantVO{
			ID:            v.ID,
			Name:          v.Name,
			Value:         v.Value,
			SKU:           v.SKU,
			PriceModifier: float64(v.PriceModifier) / 100,
			StockModifier: v.StockModifier,
		})
	}

	related, err := s.productRepo.ListRelated(ctx, product.CategoryID, product.ID, 4)
	if err != nil {
		return nil, fmt.Errorf("查询相关商品失败: %w", err)
	}
	relatedList := make([]dto.ProductListItem, len(related))
	for i := range related {
		relatedList[i] = toProductListItem(&related[i])
	}

	return &dto.ProductDetailResponse{
		Product: detail,
		Related: relatedList,
	}, nil
}

// ==================== 辅助方法 ====================

// toProductListItem 列表项转换，取排序最靠前的图片为主图
func toProductListItem(p *model.Product) dto.ProductListItem {
	item := dto.ProductListItem{
		ID:           p.ID,
		Slug:         p.Slug,
		Name:         p.Name,
		SKU:          p.SKU,
		CategoryID:   p.CategoryID,
		CategoryName: p.Category.Name,
		Stock:        p.Stock,
		Unit:         p.Unit,
		Tags:         p.ParseTags(),
	}
	if p.Price != nil {
		item.RetailPrice = p.Price.GetRetailPrice()
		item.WholesalePrice = p.Price.GetWholesalePrice()
		item.MinWholesaleQty = p.Price.MinWholesaleQty
	}
	if len(p.Images) > 0 {
		item.ImageURL = p.Images[0].URL
	}
	return item
}
