package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/model"
)

// ==================== WholesaleRepository 批发申请仓库 ====================

// WholesaleFilter 批发申请筛选条件
type WholesaleFilter struct {
	Status   string
	Page     int
	PageSize int
}

// WholesaleRepository 批发申请仓库接口
type WholesaleRepository interface {
	Create(ctx context.Context, profile *model.WholesaleProfile) error
	Update(ctx context.Context, profile *model.WholesaleProfile) error
	GetByID(ctx context.Context, id int64) (*model.WholesaleProfile, error)
	GetByUserID(ctx context.Context, userID int64) (*model.WholesaleProfile, error)
	List(ctx context.Context, filter *WholesaleFilter) ([]model.WholesaleProfile, int64, error)
}

// ==================== 实现 ====================

type wholesaleRepository struct {
	db *gorm.DB
}

// NewWholesaleRepository 创建批发申请仓库
func NewWholesaleRepository(db *gorm.DB) WholesaleRepository {
	return &wholesaleRepository{db: db}
}

func (r *wholesaleRepository) Create(ctx context.Context, profile *model.WholesaleProfile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *wholesaleRepository) Update(ctx context.Context, profile *model.WholesaleProfile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *wholesaleRepository) GetByID(ctx context.Context, id int64) (*model.WholesaleProfile, error) {
	var profile model.WholesaleProfile
	err := r.db.WithContext(ctx).First(&profile, id).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *wholesaleRepository) GetByUserID(ctx context.Context, userID int64) (*model.WholesaleProfile, error) {
	var profile model.WholesaleProfile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *wholesaleRepository) List(ctx context.Context, filter *WholesaleFilter) ([]model.WholesaleProfile, int64, error) {
	var profiles []model.WholesaleProfile
	var total int64

	db := r.db.WithContext(ctx).Model(&model.WholesaleProfile{})
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize
	err := db.Order("created_at DESC").
		Offset(offset).Limit(filter.PageSize).
		Find(&profiles).Error
	return profiles, total, err
}
