package model

import (
	"time"
)

// ==================== 批发申请状态常量 ====================

// WholesaleStatus 批发申请状态
const (
	WholesaleStatusPending  = "pending"  // 待审核
	WholesaleStatusApproved = "approved" // 已通过（用户角色同步提升为 wholesale）
	WholesaleStatusRejected = "rejected" // 已驳回（允许重新提交，提交后回到 pending）
)

// ==================== WholesaleProfile 批发资质申请 ====================

// WholesaleProfile 批发资质申请（与用户一对一）
type WholesaleProfile struct {
	ID     int64 `gorm:"primaryKey;autoIncrement"`
	UserID int64 `gorm:"uniqueIndex;not null"`

	BusinessName string `gorm:"size:255;not null"`

	// GST 税号，固定 15 位
	GSTNumber string `gorm:"size:15;not null"`

	// 烟花爆竹经营许可证号（合规要求，可选）
	LicenseNumber string `gorm:"size:64"`

	Address string `gorm:"type:text;not null"`

	Status string `gorm:"size:20;index;default:pending"`
	Notes  string `gorm:"type:text"`

	// 审计字段
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (*WholesaleProfile) TableName() string {
	return "wholesale_profiles"
}

// IsPending 是否待审核
func (w *WholesaleProfile) IsPending() bool {
	return w.Status == WholesaleStatusPending
}

// IsApproved 是否已通过
func (w *WholesaleProfile) IsApproved() bool {
	return w.Status == WholesaleStatusApproved
}
