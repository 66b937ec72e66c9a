package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/model"
)

// ==================== ProductRepository 商品仓库 ====================

// ProductFilter 商品列表筛选条件
// 价格条件以派萨为单位，调用方负责卢比换算
type ProductFilter struct {
	CategoryID    *int64
	Search        string // 按名称/描述/SKU 模糊匹配
	Status        string // 为空时仅返回上架商品
	MinPricePaise *int64
	MaxPricePaise *int64
	InStock       bool
	WholesaleOnly bool
	Page          int
	PageSize      int
	SortBy        string // name, price, created
	SortOrder     string // asc, desc
}

// ProductRepository 商品仓库接口
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)
	GetWithPrice(ctx context.Context, id int64) (*model.Product, error)
	List(ctx context.Context, filter *ProductFilter) ([]model.Product, int64, error)
	ListRelated(ctx context.Context, categoryID, excludeID int64, limit int) ([]model.Product, error)

	// DecrementStock 条件扣减库存，库存不足时返回 false，不报错
	DecrementStock(ctx context.Context, productID int64, quantity int) (bool, error)
	// RestoreStock 回补库存（网关下单失败的补偿动作）
	RestoreStock(ctx context.Context, productID int64, quantity int) error
}

// ==================== 实现 ====================

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓库
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Price").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Variants").
		Where("slug = ?", slug).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) GetWithPrice(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).Preload("Price").First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, filter *ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	// 价格筛选和价格排序都要联价格表，统一联上
	db := r.db.WithContext(ctx).Model(&model.Product{}).
		Joins("LEFT JOIN product_prices ON product_prices.product_id = products.id")

	if filter.Status != "" {
		db = db.Where("products.status = ?", filter.Status)
	} else {
		db = db.Where("products.status = ?", model.ProductStatusActive)
	}
	if filter.CategoryID != nil {
		db = db.Where("products.category_id = ?", *filter.CategoryID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		db = db.Where("products.name LIKE ? OR products.description LIKE ? OR products.sku LIKE ?", like, like, like)
	}
	if filter.MinPricePaise != nil {
		db = db.Where("product_prices.retail_price >= ?", *filter.MinPricePaise)
	}
	if filter.MaxPricePaise != nil {
		db = db.Where("product_prices.retail_price <= ?", *filter.MaxPricePaise)
	}
	if filter.InStock {
		db = db.Where("products.stock > 0")
	}
	if filter.WholesaleOnly {
		db = db.Where("product_prices.wholesale_price IS NOT NULL")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	dir := "ASC"
	if filter.SortOrder == "desc" {
		dir = "DESC"
	}
	switch filter.SortBy {
	case "price":
		db = db.Order("product_prices.retail_price " + dir)
	case "name":
		db = db.Order("products.name " + dir)
	default:
		db = db.Order("products.created_at " + dir)
	}

	offset := (filter.Page - 1) * filter.PageSize
	err := db.Preload("Price").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Category").
		Offset(offset).Limit(filter.PageSize).
		Find(&products).Error
	return products, total, err
}

func (r *productRepository) ListRelated(ctx context.Context, categoryID, excludeID int64, limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Preload("Price").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("category_id = ? AND id <> ? AND status = ?", categoryID, excludeID, model.ProductStatusActive).
		Order("id DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *productRepository) DecrementStock(ctx context.Context, productID int64, quantity int) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *productRepository) RestoreStock(ctx context.Context, productID int64, quantity int) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock", gorm.Expr("stock + ?", quantity)).Error
}
