package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-booking-backend/internal/models"
)

// RatingRepository 评分仓储
type RatingRepository struct {
	db *gorm.DB
}

// NewRatingRepository 创建评分仓储
func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Create 创建评分
func (r *RatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

// GetByID 根据 ID 获取评分
func (r *RatingRepository) GetByID(ctx context.Context, id int64) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).First(&rating, id).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// GetByUserAndHotel 获取用户对酒店的评分
func (r *RatingRepository) GetByUserAndHotel(ctx context.Context, userID, hotelID int64) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND hotel_id = ?", userID, hotelID).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// ExistsByUserAndHotel 检查用户是否已评价过酒店
func (r *RatingRepository) ExistsByUserAndHotel(ctx context.Context, userID, hotelID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Rating{}).
		Where("user_id = ? AND hotel_id = ?", userID, hotelID).
		Count(&count).Error
	return count > 0, err
}

// ListByHotel 获取酒店的全部评分（含评分人信息，按创建时间倒序）
func (r *RatingRepository) ListByHotel(ctx context.Context, hotelID int64) ([]*models.Rating, error) {
	var ratings []*models.Rating
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("hotel_id = ?", hotelID).
		Order("created_at DESC").
		Find(&ratings).Error
	return ratings, err
}

// RatingStats 评分统计
type RatingStats struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// StatsByHotel 从评分明细实时计算酒店的平均分和数量
func (r *RatingRepository) StatsByHotel(ctx context.Context, hotelID int64) (*RatingStats, error) {
	var stats RatingStats
	err := r.db.WithContext(ctx).Model(&models.Rating{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("hotel_id = ?", hotelID).
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
