// Package models 定义数据模型
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// User 用户模型
type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Password     string    `gorm:"type:varchar(255);not null" json:"-"`
	Phone        string    `gorm:"type:varchar(20);not null" json:"phoneNumber"`
	Avatar       *string   `gorm:"type:varchar(255)" json:"avatar,omitempty"`
	Role         string    `gorm:"type:varchar(20);not null;default:'user';index" json:"role"`
	RefreshToken *string   `gorm:"type:varchar(512)" json:"-"`
	IsBan        bool      `gorm:"not null;default:false" json:"is_ban"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Bookings []Booking `gorm:"foreignKey:UserID" json:"bookings,omitempty"`
	Ratings  []Rating  `gorm:"foreignKey:UserID" json:"ratings,omitempty"`
}

// TableName 表名
func (User) TableName() string {
	return "users"
}

// UserRole 用户角色
const (
	RoleUser       = "user"       // 普通用户
	RoleHotelOwner = "hotelOwner" // 酒店业主
	RoleAdmin      = "admin"      // 管理员
)

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsHotelOwner 是否酒店业主
func (u *User) IsHotelOwner() bool {
	return u.Role == RoleHotelOwner
}

// StringList 字符串数组 JSON 类型（图片地址、设施列表等）
type StringList []string

// Scan 实现 sql.Scanner 接口
func (s *StringList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if str, ok := value.(string); ok {
			bytes = []byte(str)
		} else {
			return nil
		}
	}
	return json.Unmarshal(bytes, s)
}

// Value 实现 driver.Valuer 接口
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// JSON 自定义 JSON 类型
type JSON map[string]interface{}

// Scan 实现 sql.Scanner 接口
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, j)
}

// Value 实现 driver.Valuer 接口
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}
