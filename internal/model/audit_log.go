package model

import (
	"time"

	"gorm.io/datatypes"
)

// ==================== 审计动作常量 ====================

// AuditAction 审计动作
const (
	AuditActionPaymentCaptured     = "payment_captured"
	AuditActionUpdateOrderStatus   = "update_order_status"
	AuditActionUpdateWholesaleApp  = "update_wholesale_application"
	AuditActionPromoteUserRole     = "promote_user_role"
	AuditActionCancelOrderOnFailed = "cancel_order_gateway_failed"
)

// ==================== AuditLog 审计日志 ====================

// AuditLog 审计日志
// 只追加，不更新不删除
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement"`

	// 操作人，系统动作（如支付回调）为空
	UserID *int64 `gorm:"index"`

	Action   string `gorm:"size:64;index;not null"`
	Table    string `gorm:"column:table_name;size:64;index;not null"`
	RecordID int64  `gorm:"index"`

	// 变更前后快照
	OldValues datatypes.JSON `gorm:"type:jsonb"`
	NewValues datatypes.JSON `gorm:"type:jsonb"`

	IPAddress string `gorm:"size:64"`
	UserAgent string `gorm:"size:255"`

	CreatedAt time.Time
}

func (*AuditLog) TableName() string {
	return "audit_logs"
}
