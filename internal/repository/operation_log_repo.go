package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-booking-backend/internal/models"
)

// OperationLogRepository 操作日志仓储
type OperationLogRepository struct {
	db *gorm.DB
}

// NewOperationLogRepository 创建操作日志仓储
func NewOperationLogRepository(db *gorm.DB) *OperationLogRepository {
	return &OperationLogRepository{db: db}
}

// Create 写入一条操作日志
func (r *OperationLogRepository) Create(ctx context.Context, log *models.OperationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// List 分页查询操作日志
// filters 支持 operator_id、module、action 精确匹配
func (r *OperationLogRepository) List(ctx context.Context, filters map[string]interface{}, offset, limit int) ([]*models.OperationLog, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.OperationLog{})

	if v, ok := filters["operator_id"]; ok {
		query = query.Where("operator_id = ?", v)
	}
	if v, ok := filters["module"]; ok {
		query = query.Where("module = ?", v)
	}
	if v, ok := filters["action"]; ok {
		query = query.Where("action = ?", v)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []*models.OperationLog
	err := query.
		Preload("Operator").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// DeleteBefore 清理指定时间之前的日志，返回删除条数
func (r *OperationLogRepository) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&models.OperationLog{})
	return result.RowsAffected, result.Error
}
