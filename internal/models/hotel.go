package models

import (
	"time"
)

// Hotel 酒店模型
type Hotel struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Location      string     `gorm:"type:varchar(255);not null" json:"location"`
	Description   *string    `gorm:"type:text" json:"description,omitempty"`
	Phone         string     `gorm:"type:varchar(20);not null" json:"phoneNumber"`
	Email         string     `gorm:"type:varchar(100);not null" json:"email"`
	OwnerID       int64      `gorm:"uniqueIndex;not null" json:"owner_id"`
	Images        StringList `gorm:"type:jsonb" json:"images,omitempty"`
	AverageRating float64    `gorm:"type:decimal(3,2);not null;default:0" json:"averageRating"`
	RatingCount   int        `gorm:"not null;default:0" json:"rating_count"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Owner   *User    `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Rooms   []Room   `gorm:"foreignKey:HotelID" json:"rooms,omitempty"`
	Ratings []Rating `gorm:"foreignKey:HotelID" json:"ratings,omitempty"`
}

// TableName 表名
func (Hotel) TableName() string {
	return "hotels"
}

// Room 房间模型
type Room struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	HotelID     int64      `gorm:"index;not null" json:"hotel_id"`
	RoomNumber  string     `gorm:"type:varchar(20);not null" json:"roomNumber"`
	Type        string     `gorm:"type:varchar(20);not null" json:"type"`
	Price       float64    `gorm:"type:decimal(10,2);not null" json:"price"`
	Capacity    int        `gorm:"not null;default:2" json:"capacity"`
	Description *string    `gorm:"type:text" json:"description,omitempty"`
	Amenities   StringList `gorm:"type:jsonb" json:"amenities,omitempty"`
	Images      StringList `gorm:"type:jsonb" json:"images,omitempty"`
	IsBooked    bool       `gorm:"not null;default:false" json:"isBooked"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// 关联
	Hotel    *Hotel    `gorm:"foreignKey:HotelID" json:"hotel,omitempty"`
	Bookings []Booking `gorm:"foreignKey:RoomID" json:"bookings,omitempty"`
}

// TableName 表名
func (Room) TableName() string {
	return "rooms"
}

// RoomType 房型
const (
	RoomTypeSingle   = "Single"   // 单人间
	RoomTypeDeluxe   = "Deluxe"   // 豪华间
	RoomTypeSuperior = "Superior" // 高级间
)

// ValidRoomType 房型是否合法
func ValidRoomType(t string) bool {
	switch t {
	case RoomTypeSingle, RoomTypeDeluxe, RoomTypeSuperior:
		return true
	}
	return false
}
