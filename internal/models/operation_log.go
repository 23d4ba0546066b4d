package models

import (
	"time"
)

// OperationLog 管理端操作审计日志
type OperationLog struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OperatorID  int64     `gorm:"index;not null" json:"operator_id"`
	Module      string    `gorm:"type:varchar(50);not null" json:"module"`
	Action      string    `gorm:"type:varchar(50);not null" json:"action"`
	TargetType  *string   `gorm:"type:varchar(50)" json:"target_type,omitempty"`
	TargetID    *int64    `json:"target_id,omitempty"`
	IP          string    `gorm:"type:varchar(45)" json:"ip"`
	UserAgent   *string   `gorm:"type:varchar(255)" json:"user_agent,omitempty"`
	RequestData JSON      `gorm:"type:jsonb" json:"request_data,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	// 关联
	Operator *User `gorm:"foreignKey:OperatorID" json:"operator,omitempty"`
}

// TableName 表名
func (OperationLog) TableName() string {
	return "operation_logs"
}
