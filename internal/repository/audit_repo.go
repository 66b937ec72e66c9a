package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sumesh-singh/srimalli-traders-e-commerce/internal/model"
)

// ==================== AuditLogRepository 审计日志仓库 ====================

// AuditLogRepository 审计日志仓库接口
// 只追加，没有更新和删除
type AuditLogRepository interface {
	Create(ctx context.Context, log *model.AuditLog) error
	ListByRecord(ctx context.Context, table string, recordID int64, limit int) ([]model.AuditLog, error)
}

// ==================== 实现 ====================

type auditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository 创建审计日志仓库
func NewAuditLogRepository(db *gorm.DB) AuditLogRepository {
	return &auditLogRepository{db: db}
}

func (r *auditLogRepository) Create(ctx context.Context, log *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *auditLogRepository) ListByRecord(ctx context.Context, table string, recordID int64, limit int) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	err := r.db.WithContext(ctx).
		Where("table_name = ? AND record_id = ?", table, recordID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
