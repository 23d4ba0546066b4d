package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-booking-backend/internal/models"
)

// RoomRepository 房间仓储
type RoomRepository struct {
	db *gorm.DB
}

// NewRoomRepository 创建房间仓储
func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// Create 创建房间
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

// GetByID 根据 ID 获取房间
func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).First(&room, id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetByIDWithHotel 根据 ID 获取房间（包含所属酒店）
func (r *RoomRepository) GetByIDWithHotel(ctx context.Context, id int64) (*models.Room, error) {
	var room models.Room
	err := r.db.WithContext(ctx).
		Preload("Hotel").
		First(&room, id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// Update 更新房间
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

// UpdateFields 更新指定字段
func (r *RoomRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Room{}).Where("id = ?", id).Updates(fields).Error
}

// SetBooked 更新 is_booked 投影
func (r *RoomRepository) SetBooked(ctx context.Context, id int64, booked bool) error {
	return r.db.WithContext(ctx).Model(&models.Room{}).Where("id = ?", id).Update("is_booked", booked).Error
}

// Delete 删除房间
func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Room{}, id).Error
}

// ListByHotel 获取酒店的房间列表
func (r *RoomRepository) ListByHotel(ctx context.Context, hotelID int64) ([]*models.Room, error) {
	var rooms []*models.Room
	err := r.db.WithContext(ctx).
		Where("hotel_id = ?", hotelID).
		Order("room_number ASC").
		Find(&rooms).Error
	return rooms, err
}

// ListAll 获取全部房间（管理端，按创建时间倒序）
func (r *RoomRepository) ListAll(ctx context.Context) ([]*models.Room, error) {
	var rooms []*models.Room
	err := r.db.WithContext(ctx).
		Preload("Hotel").
		Order("created_at DESC").
		Find(&rooms).Error
	return rooms, err
}

// ExistsByHotelAndNumber 检查酒店内房间号是否已存在
func (r *RoomRepository) ExistsByHotelAndNumber(ctx context.Context, hotelID int64, roomNumber string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Room{}).
		Where("hotel_id = ?", hotelID).
		Where("room_number = ?", roomNumber).
		Count(&count).Error
	return count > 0, err
}
