package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/model"
)

// ==================== CategoryRepository 分类仓库 ====================

// CategoryCount 分类商品数
type CategoryCount struct {
	CategoryID int64
	Count      int64
}

// CategoryRepository 分类仓库接口
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id int64) (*model.Category, error)
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)
	List(ctx context.Context, includeInactive bool) ([]model.Category, error)
	CountProductsByCategory(ctx context.Context) ([]CategoryCount, error)
}

// ==================== 实现 ====================

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).First(&category, id).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var category model.Category
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context, includeInactive bool) ([]model.Category, error) {
	var categories []model.Category
	db := r.db.WithContext(ctx).Model(&model.Category{})
	if !includeInactive {
		db = db.Where("is_active = ?", true)
	}
	err := db.Order("sort_order ASC, name ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) CountProductsByCategory(ctx context.Context) ([]CategoryCount, error) {
	var counts []CategoryCount
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Select("category_id, COUNT(*) as count").
		Group("category_id").
		Scan(&counts).Error
	return counts, err
}
