package model

import (
	"time"

	"gorm.io/datatypes"
)

// ==================== 支付状态常量 ====================

// PaymentStatus 支付状态
const (
	PaymentStatusCreated    = "created"    // 已创建支付意向
	PaymentStatusAuthorized = "authorized" // 已授权
	PaymentStatusCaptured   = "captured"   // 已捕获（回调验签通过）
	PaymentStatusFailed     = "failed"     // 失败
)

// PaymentProviderRazorpay 支付网关
const PaymentProviderRazorpay = "razorpay"

// ==================== Payment 支付记录 ====================

// Payment 支付记录
// 一个订单可能有多条（重试），取最近创建的一条为准
type Payment struct {
	ID      int64 `gorm:"primaryKey;autoIncrement"`
	OrderID int64 `gorm:"index;not null"`

	Provider string `gorm:"size:32;default:razorpay"`
	Status   string `gorm:"size:20;index;default:created"`

	// 金额（派萨）
	Amount   int64  `gorm:"not null"`
	Currency string `gorm:"size:10;default:INR"`

	// 网关侧标识
	TransactionID   string `gorm:"size:64"`       // 网关支付 ID（验签通过后写入）
	RazorpayOrderID string `gorm:"size:64;index"` // 网关订单 ID，回调据此关联

	// 网关原始返回
	PayloadJSON datatypes.JSON `gorm:"type:jsonb"`

	// 审计字段
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*Payment) TableName() string {
	return "payments"
}

// GetAmount 获取金额（卢比）
func (p *Payment) GetAmount() float64 {
	return float64(p.Amount) / 100
}

// IsCaptured 是否已捕获
func (p *Payment) IsCaptured() bool {
	return p.Status == PaymentStatusCaptured
}
