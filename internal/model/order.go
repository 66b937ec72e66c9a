package model

import (
	"time"

	"gorm.io/gorm"
)

// ==================== 订单状态常量 ====================

// OrderStatus 订单状态
const (
	OrderStatusPending   = "pending"   // 待支付
	OrderStatusPaid      = "paid"      // 已支付
	OrderStatusShipped   = "shipped"   // 已发货
	OrderStatusDelivered = "delivered" // 已签收（终态）
	OrderStatusCancelled = "cancelled" // 已取消（终态）
)

// orderStatusTransitions 状态流转表
// pending → paid/cancelled, paid → shipped/cancelled, shipped → delivered
var orderStatusTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:      {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// ValidOrderStatus 校验状态值
func ValidOrderStatus(s string) bool {
	_, ok := orderStatusTransitions[s]
	return ok
}

// ==================== Order 订单主表 ====================

// Order 订单
// 金额字段支付后不可变，状态只能沿流转表前进
type Order struct {
	ID     int64 `gorm:"primaryKey;autoIncrement"`
	UserID int64 `gorm:"index;not null"`

	// 人读订单号，如 ORD-12345678-A1B2
	OrderNumber string `gorm:"size:32;uniqueIndex;not null"`

	// 状态
	Status string `gorm:"size:20;index;default:pending"`

	// 金额（派萨为单位存储）
	Subtotal    int64
	Tax         int64
	ShippingFee int64
	Discount    int64
	Total       int64

	IsWholesale bool `gorm:"default:false"`
	AgeVerified bool `gorm:"default:false"`

	// 地址
	ShippingAddressID *int64
	BillingAddressID  *int64

	Notes string `gorm:"type:text"`

	// 审计字段
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`

	// 关联
	Items    []OrderItem `gorm:"foreignKey:OrderID"`
	Payments []Payment   `gorm:"foreignKey:OrderID"`
	Shipment *Shipment   `gorm:"foreignKey:OrderID"`
}

func (*Order) TableName() string {
	return "orders"
}

// GetSubtotal 获取小计（卢比）
func (o *Order) GetSubtotal() float64 {
	return float64(o.Subtotal) / 100
}

// GetTax 获取税费（卢比）
func (o *Order) GetTax() float64 {
	return float64(o.Tax) / 100
}

// GetShippingFee 获取运费（卢比）
func (o *Order) GetShippingFee() float64 {
	return float64(o.ShippingFee) / 100
}

// GetDiscount 获取折扣（卢比）
func (o *Order) GetDiscount() float64 {
	return float64(o.Discount) / 100
}

// GetTotal 获取总金额（卢比）
func (o *Order) GetTotal() float64 {
	return float64(o.Total) / 100
}

// CanTransitionTo 检查状态流转是否合法
func (o *Order) CanTransitionTo(newStatus string) bool {
	next, ok := orderStatusTransitions[o.Status]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == newStatus {
			return true
		}
	}
	return false
}

// IsTerminal 是否终态
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled
}

// ==================== OrderItem 订单项 ====================

// OrderItem 订单项
// 下单时的行快照，与在售商品/价格解耦，目录改价不影响历史订单
type OrderItem struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	OrderID   int64 `gorm:"index;not null"`
	ProductID int64 `gorm:"index;not null"`

	Quantity  int   `gorm:"not null"`
	UnitPrice int64 `gorm:"not null"`
	LineTotal int64 `gorm:"not null"`

	// retail | wholesale
	PriceType string `gorm:"size:20;not null"`

	CreatedAt time.Time

	// 关联
	Product Product `gorm:"foreignKey:ProductID"`
}

func (*OrderItem) TableName() string {
	return "order_items"
}

// GetUnitPrice 获取单价（卢比）
func (i *OrderItem) GetUnitPrice() float64 {
	return float64(i.UnitPrice) / 100
}

// GetLineTotal 获取行小计（卢比）
func (i *OrderItem) GetLineTotal() float64 {
	return float64(i.LineTotal) / 100
}

// ==================== Shipment 发货记录 ====================

// ShipmentStatus 发货状态
const (
	ShipmentStatusPending   = "pending"    // 待揽收
	ShipmentStatusShipped   = "shipped"    // 已发出
	ShipmentStatusInTransit = "in_transit" // 运输中
	ShipmentStatusDelivered = "delivered"  // 已签收
)

// Shipment 发货记录（订单一对一，状态流转到 shipped 时懒创建）
type Shipment struct {
	ID      int64 `gorm:"primaryKey;autoIncrement"`
	OrderID int64 `gorm:"uniqueIndex;not null"`

	Carrier        string `gorm:"size:64"`
	TrackingNumber string `gorm:"size:64;uniqueIndex;not null"`
	Status         string `gorm:"size:20;index;default:pending"`

	EstimatedDeliveryDate *time.Time
	ActualDeliveryDate    *time.Time

	Notes string `gorm:"type:text"`

	// 审计字段
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*Shipment) TableName() string {
	return "shipments"
}
