package models

import (
	"time"
)

// Rating 酒店评分模型
type Rating struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_ratings_user_hotel" json:"user_id"`
	HotelID   int64     `gorm:"not null;uniqueIndex:idx_ratings_user_hotel;index" json:"hotel_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// 关联
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Hotel *Hotel `gorm:"foreignKey:HotelID" json:"hotel,omitempty"`
}

// TableName 表名
func (Rating) TableName() string {
	return "ratings"
}

// 评分取值范围
const (
	RatingMin = 1
	RatingMax = 5
)
