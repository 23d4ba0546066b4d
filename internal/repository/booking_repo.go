// Package repository 提供数据访问层
package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-booking-backend/internal/models"
)

// BookingRepository 预订仓储
type BookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository 创建预订仓储
func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create 创建预订
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

// GetByID 根据 ID 获取预订
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetByIDWithDetails 根据 ID 获取预订（包含关联信息）
func (r *BookingRepository) GetByIDWithDetails(ctx context.Context, id int64) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Hotel").
		Preload("Room").
		First(&booking, id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetByBookingNo 根据预订号获取预订
func (r *BookingRepository) GetByBookingNo(ctx context.Context, bookingNo string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Where("booking_no = ?", bookingNo).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// Update 更新预订
func (r *BookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Save(booking).Error
}

// UpdateFields 更新指定字段
func (r *BookingRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Booking{}).Where("id = ?", id).Updates(fields).Error
}

// UpdateStatus 更新预订状态
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	return r.db.WithContext(ctx).Model(&models.Booking{}).Where("id = ?", id).Update("status", status).Error
}

// Delete 删除预订（物理删除）
func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Booking{}, id).Error
}

// List 获取预订列表
func (r *BookingRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Booking, int64, error) {
	var bookings []*models.Booking
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Booking{})

	// 应用过滤条件
	if userID, ok := filters["user_id"].(int64); ok && userID > 0 {
		query = query.Where("user_id = ?", userID)
	}
	if hotelID, ok := filters["hotel_id"].(int64); ok && hotelID > 0 {
		query = query.Where("hotel_id = ?", hotelID)
	}
	if roomID, ok := filters["room_id"].(int64); ok && roomID > 0 {
		query = query.Where("room_id = ?", roomID)
	}
	if status, ok := filters["status"].(string); ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if startDate, ok := filters["start_date"].(time.Time); ok {
		query = query.Where("check_in_date >= ?", startDate)
	}
	if endDate, ok := filters["end_date"].(time.Time); ok {
		query = query.Where("check_in_date <= ?", endDate)
	}

	// 统计总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 查询列表
	q := query.
		Preload("Hotel").
		Preload("Room").
		Order("created_at DESC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	if err := q.Find(&bookings).Error; err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

// ListByUser 获取用户的全部预订（按创建时间倒序）
func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := r.db.WithContext(ctx).
		Preload("Hotel").
		Preload("Room").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// ListByHotel 获取酒店的全部预订（按创建时间倒序）
func (r *BookingRepository) ListByHotel(ctx context.Context, hotelID int64) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Room").
		Where("hotel_id = ?", hotelID).
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// ListAll 获取全部预订（管理端，按创建时间倒序）
func (r *BookingRepository) ListAll(ctx context.Context) ([]*models.Booking, error) {
	var bookings []*models.Booking
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Hotel").
		Preload("Room").
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

// ExistsConflict 检查房间在 [checkIn, checkOut) 区间内是否已有未取消的预订
// 区间重叠判定为半开区间：退房当天可再次入住
func (r *BookingRepository) ExistsConflict(ctx context.Context, roomID int64, checkIn, checkOut time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("room_id = ?", roomID).
		Where("status <> ?", models.BookingStatusCancelled).
		Where("check_in_date < ? AND check_out_date > ?", checkOut, checkIn).
		Count(&count).Error
	return count > 0, err
}

// CountActiveForRoom 统计房间当前未取消且尚未退房的预订数量
// 用于维护 rooms.is_booked 投影
func (r *BookingRepository) CountActiveForRoom(ctx context.Context, roomID int64, now time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("room_id = ?", roomID).
		Where("status <> ?", models.BookingStatusCancelled).
		Where("check_out_date > ?", now).
		Count(&count).Error
	return count, err
}

// HasCompletedStay 检查用户在酒店是否有已完成的入住
func (r *BookingRepository) HasCompletedStay(ctx context.Context, userID, hotelID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("user_id = ?", userID).
		Where("hotel_id = ?", hotelID).
		Where("status = ?", models.BookingStatusCompleted).
		Count(&count).Error
	return count > 0, err
}

// CountByUserAndStatus 统计用户指定状态的预订数量
func (r *BookingRepository) CountByUserAndStatus(ctx context.Context, userID int64, statuses []string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("user_id = ?", userID).
		Where("status IN ?", statuses).
		Count(&count).Error
	return count, err
}

// CountByHotel 统计酒店的预订总数
func (r *BookingRepository) CountByHotel(ctx context.Context, hotelID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("hotel_id = ?", hotelID).
		Count(&count).Error
	return count, err
}

// CountTodayBookings 统计酒店今日新增预订数量
func (r *BookingRepository) CountTodayBookings(ctx context.Context, hotelID int64) (int64, error) {
	var count int64
	today := time.Now().Truncate(24 * time.Hour)
	tomorrow := today.Add(24 * time.Hour)
	err := r.db.WithContext(ctx).Model(&models.Booking{}).
		Where("hotel_id = ?", hotelID).
		Where("created_at >= ? AND created_at < ?", today, tomorrow).
		Count(&count).Error
	return count, err
}
