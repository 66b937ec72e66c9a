package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/model"
)

// ==================== CartRepository 购物车仓库 ====================

// CartRepository 购物车仓库接口
type CartRepository interface {
	Create(ctx context.Context, cart *model.Cart) error
	GetByID(ctx context.Context, id int64) (*model.Cart, error)
	GetByUserID(ctx context.Context, userID int64) (*model.Cart, error)
	GetBySessionID(ctx context.Context, sessionID string) (*model.Cart, error)
	GetWithItems(ctx context.Context, id int64) (*model.Cart, error)
	Delete(ctx context.Context, id int64) error

	// FindStaleGuestCarts 查找超过 cutoff 未更新的游客购物车（定时清理用）
	FindStaleGuestCarts(ctx context.Context, cutoff time.Time, limit int) ([]model.Cart, error)
}

// CartItemRepository 购物车项仓库接口
type CartItemRepository interface {
	Create(ctx context.Context, item *model.CartItem) error
	Update(ctx context.Context, item *model.CartItem) error
	GetByID(ctx context.Context, id int64) (*model.CartItem, error)
	GetByCartProductType(ctx context.Context, cartID, productID int64, priceType string) (*model.CartItem, error)
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	Delete(ctx context.Context, id int64) error
	DeleteByCartID(ctx context.Context, cartID int64) error
}

// ==================== 实现 ====================

type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Create(ctx context.Context, cart *model.Cart) error {
	return r.db.WithContext(ctx).Create(cart).Error
}

func (r *cartRepository) GetByID(ctx context.Context, id int64) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).First(&cart, id).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) GetByUserID(ctx context.Context, userID int64) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) GetBySessionID(ctx context.Context, sessionID string) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) GetWithItems(ctx context.Context, id int64) (*model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Items.Product").
		Preload("Items.Product.Price").
		Preload("Items.Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&cart, id).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) Delete(ctx context.Context, id int64) error {
	// 先删项再删车，避免悬挂记录
	if err := r.db.WithContext(ctx).Where("cart_id = ?", id).Delete(&model.CartItem{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&model.Cart{}, id).Error
}

func (r *cartRepository) FindStaleGuestCarts(ctx context.Context, cutoff time.Time, limit int) ([]model.Cart, error) {
	var carts []model.Cart
	err := r.db.WithContext(ctx).
		Where("session_id IS NOT NULL AND user_id IS NULL AND updated_at < ?", cutoff).
		Limit(limit).
		Find(&carts).Error
	return carts, err
}

type cartItemRepository struct {
	db *gorm.DB
}

// NewCartItemRepository 创建购物车项仓库
func NewCartItemRepository(db *gorm.DB) CartItemRepository {
	return &cartItemRepository{db: db}
}

func (r *cartItemRepository) Create(ctx context.Context, item *model.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *cartItemRepository) Update(ctx context.Context, item *model.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *cartItemRepository) GetByID(ctx context.Context, id int64) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartItemRepository) GetByCartProductType(ctx context.Context, cartID, productID int64, priceType string) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ? AND price_type = ?", cartID, productID, priceType).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartItemRepository) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Price").
		Where("cart_id = ?", cartID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *cartItemRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.CartItem{}, id).Error
}

func (r *cartItemRepository) DeleteByCartID(ctx context.Context, cartID int64) error {
	return r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&model.CartItem{}).Error
}
