package model

import (
	"time"
)

// ==================== 价格类型常量 ====================

// PriceType 购买价格类型
const (
	PriceTypeRetail    = "retail"    // 零售价
	PriceTypeWholesale = "wholesale" // 批发价
)

// ValidPriceType 校验价格类型
func ValidPriceType(t string) bool {
	return t == PriceTypeRetail || t == PriceTypeWholesale
}

// ==================== Cart 购物车 ====================

// Cart 购物车
// 归属二选一：登录用户用 UserID，游客用 SessionID
// 不变量：同一用户/同一会话最多一个购物车
type Cart struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`

	UserID    *int64  `gorm:"uniqueIndex"`
	SessionID *string `gorm:"size:64;uniqueIndex"`

	// 审计字段
	CreatedAt time.Time
	UpdatedAt time.Time

	// 关联
	Items []CartItem `gorm:"foreignKey:CartID"`
}

func (*Cart) TableName() string {
	return "carts"
}

// ==================== CartItem 购物车项 ====================

// CartItem 购物车项
// 不变量：(cart_id, product_id, price_type) 唯一，重复加购累加数量
type CartItem struct {
	ID        int64 `gorm:"primaryKey;autoIncrement"`
	CartID    int64 `gorm:"index:idx_cart_product_type,unique;not null"`
	ProductID int64 `gorm:"index:idx_cart_product_type,unique;not null"`

	Quantity int `gorm:"not null"`

	// 加购时的价格快照（派萨）
	UnitPrice int64 `gorm:"not null"`

	// retail | wholesale
	PriceType string `gorm:"size:20;index:idx_cart_product_type,unique;not null"`

	// 审计字段
	CreatedAt time.Time
	UpdatedAt time.Time

	// 关联
	Product Product `gorm:"foreignKey:ProductID"`
}

func (*CartItem) TableName() string {
	return "cart_items"
}

// GetUnitPrice 获取单价（卢比）
func (i *CartItem) GetUnitPrice() float64 {
	return float64(i.UnitPrice) / 100
}

// GetLineTotal 获取行小计（卢比）
func (i *CartItem) GetLineTotal() float64 {
	return float64(i.UnitPrice*int64(i.Quantity)) / 100
}

// LineTotalPaise 行小计（派萨）
func (i *CartItem) LineTotalPaise() int64 {
	return i.UnitPrice * int64(i.Quantity)
}
