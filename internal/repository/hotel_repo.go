// Package repository 提供数据访问层
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-booking-backend/internal/models"
)

// HotelRepository 酒店仓储
type HotelRepository struct {
	db *gorm.DB
}

// NewHotelRepository 创建酒店仓储
func NewHotelRepository(db *gorm.DB) *HotelRepository {
	return &HotelRepository{db: db}
}

// Create 创建酒店
func (r *HotelRepository) Create(ctx context.Context, hotel *models.Hotel) error {
	return r.db.WithContext(ctx).Create(hotel).Error
}

// GetByID 根据 ID 获取酒店
func (r *HotelRepository) GetByID(ctx context.Context, id int64) (*models.Hotel, error) {
	var hotel models.Hotel
	err := r.db.WithContext(ctx).First(&hotel, id).Error
	if err != nil {
		return nil, err
	}
	return &hotel, nil
}

// GetByIDWithRooms 根据 ID 获取酒店（包含房间）
func (r *HotelRepository) GetByIDWithRooms(ctx context.Context, id int64) (*models.Hotel, error) {
	var hotel models.Hotel
	err := r.db.WithContext(ctx).
		Preload("Rooms", func(db *gorm.DB) *gorm.DB {
			return db.Order("room_number ASC")
		}).
		First(&hotel, id).Error
	if err != nil {
		return nil, err
	}
	return &hotel, nil
}

// GetByIDFull 根据 ID 获取酒店（包含业主和房间）
func (r *HotelRepository) GetByIDFull(ctx context.Context, id int64) (*models.Hotel, error) {
	var hotel models.Hotel
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Preload("Rooms", func(db *gorm.DB) *gorm.DB {
			return db.Order("room_number ASC")
		}).
		First(&hotel, id).Error
	if err != nil {
		return nil, err
	}
	return &hotel, nil
}

// GetByName 根据名称获取酒店
func (r *HotelRepository) GetByName(ctx context.Context, name string) (*models.Hotel, error) {
	var hotel models.Hotel
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&hotel).Error
	if err != nil {
		return nil, err
	}
	return &hotel, nil
}

// GetByOwner 根据业主 ID 获取酒店
func (r *HotelRepository) GetByOwner(ctx context.Context, ownerID int64) (*models.Hotel, error) {
	var hotel models.Hotel
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		First(&hotel).Error
	if err != nil {
		return nil, err
	}
	return &hotel, nil
}

// Update 更新酒店
func (r *HotelRepository) Update(ctx context.Context, hotel *models.Hotel) error {
	return r.db.WithContext(ctx).Save(hotel).Error
}

// UpdateFields 更新指定字段
func (r *HotelRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Hotel{}).Where("id = ?", id).Updates(fields).Error
}

// Delete 删除酒店
func (r *HotelRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&models.Hotel{}, id).Error
}

// List 获取酒店列表
func (r *HotelRepository) List(ctx context.Context, offset, limit int, filters map[string]interface{}) ([]*models.Hotel, int64, error) {
	var hotels []*models.Hotel
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Hotel{})

	// 应用过滤条件
	if name, ok := filters["name"].(string); ok && name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}
	if location, ok := filters["location"].(string); ok && location != "" {
		query = query.Where("location LIKE ?", "%"+location+"%")
	}

	// 统计总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 查询列表
	q := query.Order("created_at DESC")
	if limit > 0 {
		q = q.Offset(offset).Limit(limit)
	}
	if err := q.Find(&hotels).Error; err != nil {
		return nil, 0, err
	}

	return hotels, total, nil
}

// ExistsByName 检查酒店名称是否已存在
func (r *HotelRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Hotel{}).
		Where("name = ?", name).
		Count(&count).Error
	return count > 0, err
}

// ExistsByOwner 检查业主是否已有酒店
func (r *HotelRepository) ExistsByOwner(ctx context.Context, ownerID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Hotel{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	return count > 0, err
}
