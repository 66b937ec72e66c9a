package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/model"
)

// ==================== OrderRepository 订单仓库 ====================

// OrderFilter 订单列表筛选条件
type OrderFilter struct {
	UserID      *int64 // 普通用户只能查自己的订单
	Status      string
	IsWholesale *bool
	StartDate   *time.Time
	EndDate     *time.Time
	Page        int
	PageSize    int
}

// OrderRepository 订单仓库接口
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	Update(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*model.Order, error)
	GetDetail(ctx context.Context, id int64) (*model.Order, error)
	List(ctx context.Context, filter *OrderFilter) ([]model.Order, int64, error)
	UpdateStatus(ctx context.Context, id int64, status string) error
}

// OrderItemRepository 订单项仓库接口
type OrderItemRepository interface {
	BatchCreate(ctx context.Context, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
}

// ==================== 实现 ====================

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) Update(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Save(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetByOrderNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Where("order_number = ?", orderNumber).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) GetDetail(ctx context.Context, id int64) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Preload("Items.Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Shipment").
		First(&order, id).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) List(ctx context.Context, filter *OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Order{})
	if filter.UserID != nil {
		db = db.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.IsWholesale != nil {
		db = db.Where("is_wholesale = ?", *filter.IsWholesale)
	}
	if filter.StartDate != nil {
		db = db.Where("created_at >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		db = db.Where("created_at <= ?", *filter.EndDate)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize
	err := db.Preload("Items").
		Preload("Items.Product").
		Preload("Items.Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Payments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Order("created_at DESC").
		Offset(offset).Limit(filter.PageSize).
		Find(&orders).Error
	return orders, total, err
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

type orderItemRepository struct {
	db *gorm.DB
}

// NewOrderItemRepository 创建订单项仓库
func NewOrderItemRepository(db *gorm.DB) OrderItemRepository {
	return &orderItemRepository{db: db}
}

func (r *orderItemRepository) BatchCreate(ctx context.Context, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *orderItemRepository) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	var items []model.OrderItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("order_id = ?", orderID).
		Find(&items).Error
	return items, err
}

// ==================== CheckoutUnitOfWork 下单工作单元 ====================

// CheckoutUnitOfWork 下单工作单元
// 把下单涉及的多个仓库绑到同一事务上：扣库存、建订单、写订单项、
// 建支付记录、清购物车，要么全成要么全回滚
type CheckoutUnitOfWork struct {
	db *gorm.DB

	Orders     OrderRepository
	OrderItems OrderItemRepository
	Products   ProductRepository
	Payments   PaymentRepository
	Carts      CartRepository
	AuditLogs  AuditLogRepository
}

// NewCheckoutUnitOfWork 创建下单工作单元
func NewCheckoutUnitOfWork(db *gorm.DB) *CheckoutUnitOfWork {
	return &CheckoutUnitOfWork{
		db:         db,
		Orders:     NewOrderRepository(db),
		OrderItems: NewOrderItemRepository(db),
		Products:   NewProductRepository(db),
		Payments:   NewPaymentRepository(db),
		Carts:      NewCartRepository(db),
		AuditLogs:  NewAuditLogRepository(db),
	}
}

// Transaction 在事务中执行 fn，fn 拿到的是绑定了事务连接的工作单元
func (u *CheckoutUnitOfWork) Transaction(ctx context.Context, fn func(uow *CheckoutUnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txUow := NewCheckoutUnitOfWork(tx)
		return fn(txUow)
	})
}
