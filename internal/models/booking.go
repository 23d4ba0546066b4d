package models

import (
	"time"
)

// Booking 预订模型
type Booking struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingNo    string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"booking_no"`
	UserID       int64     `gorm:"index;not null" json:"user_id"`
	RoomID       int64     `gorm:"index;not null" json:"room_id"`
	HotelID      int64     `gorm:"index;not null" json:"hotel_id"`
	CheckInDate  time.Time `gorm:"not null;index" json:"checkInDate"`
	CheckOutDate time.Time `gorm:"not null" json:"checkOutDate"`
	TotalPrice   float64   `gorm:"type:decimal(10,2);not null" json:"totalPrice"`
	Status       string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedBy    *string   `gorm:"type:varchar(50)" json:"created_by,omitempty"`
	QRCode       *string   `gorm:"type:text" json:"qr_code,omitempty"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Room  *Room  `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Hotel *Hotel `gorm:"foreignKey:HotelID" json:"hotel,omitempty"`
}

// TableName 表名
func (Booking) TableName() string {
	return "bookings"
}

// BookingStatus 预订状态
const (
	BookingStatusPending   = "pending"   // 待确认
	BookingStatusConfirmed = "confirmed" // 已确认
	BookingStatusCancelled = "cancelled" // 已取消
	BookingStatusCompleted = "completed" // 已完成
)

// ValidBookingStatus 预订状态是否合法
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// OccupiesRoom 该状态是否占用房间
func OccupiesRoom(status string) bool {
	return status != BookingStatusCancelled
}
