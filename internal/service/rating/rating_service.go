// Package rating 提供酒店评分服务
package rating

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-booking-backend/internal/common/cache"
	apperrors "github.com/dumeirei/hotel-booking-backend/internal/common/errors"
	"github.com/dumeirei/hotel-booking-backend/internal/common/metrics"
	"github.com/dumeirei/hotel-booking-backend/internal/models"
	"github.com/dumeirei/hotel-booking-backend/internal/repository"
)

// RatingService 评分服务
type RatingService struct {
	db          *gorm.DB
	ratingRepo  *repository.RatingRepository
	bookingRepo *repository.BookingRepository
	hotelRepo   *repository.HotelRepository
	locker      *cache.Locker
}

// NewRatingService 创建评分服务
func NewRatingService(
	db *gorm.DB,
	ratingRepo *repository.RatingRepository,
	bookingRepo *repository.BookingRepository,
	hotelRepo *repository.HotelRepository,
	locker *cache.Locker,
) *RatingService {
	return &RatingService{
		db:          db,
		ratingRepo:  ratingRepo,
		bookingRepo: bookingRepo,
		hotelRepo:   hotelRepo,
		locker:      locker,
	}
}

// RatingInfo 评分信息
type RatingInfo struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"userName,omitempty"`
	HotelID   int64     `json:"hotel_id"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// HotelRatings 酒店评分汇总
type HotelRatings struct {
	HotelID       int64         `json:"hotel_id"`
	AverageRating float64       `json:"averageRating"`
	RatingCount   int64         `json:"rating_count"`
	Ratings       []*RatingInfo `json:"ratings"`
}

// RateHotel 用户评分
// 前提：用户在该酒店有已完成的入住，且尚未评价过该酒店
// 同一酒店的评分写入通过酒店级互斥锁串行化，保证缓存均值不丢更新
func (s *RatingService) RateHotel(ctx context.Context, userID, hotelID int64, value int) (*RatingInfo, error) {
	if value < models.RatingMin || value > models.RatingMax {
		return nil, apperrors.ErrRatingOutOfRange
	}

	release, err := s.locker.Acquire(ctx, cache.HotelRatingLockKey(hotelID))
	if err != nil {
		if errors.Is(err, cache.ErrLockNotAcquired) {
			return nil, apperrors.ErrOperationFailed.WithMessage("评分繁忙，请稍后重试")
		}
		return nil, apperrors.ErrCacheError.WithError(err)
	}
	defer release()

	var rating *models.Rating
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var hotel models.Hotel
		if err := tx.First(&hotel, hotelID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrHotelNotFound
			}
			return err
		}

		// 完成入住门槛
		var stays int64
		if err := tx.Model(&models.Booking{}).
			Where("user_id = ? AND hotel_id = ?", userID, hotelID).
			Where("status = ?", models.BookingStatusCompleted).
			Count(&stays).Error; err != nil {
			return err
		}
		if stays == 0 {
			return apperrors.ErrRatingNotEligible
		}

		// 每个用户对每家酒店只能评一次
		var existing int64
		if err := tx.Model(&models.Rating{}).
			Where("user_id = ? AND hotel_id = ?", userID, hotelID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return apperrors.ErrRatingExists
		}

		rating = &models.Rating{
			UserID:  userID,
			HotelID: hotelID,
			Rating:  value,
		}
		if err := tx.Create(rating).Error; err != nil {
			return err
		}

		// 基于本事务读到的酒店行做增量更新
		newCount := hotel.RatingCount + 1
		newAverage := (hotel.AverageRating*float64(hotel.RatingCount) + float64(value)) / float64(newCount)
		return tx.Model(&models.Hotel{}).
			Where("id = ?", hotelID).
			Updates(map[string]interface{}{
				"average_rating": newAverage,
				"rating_count":   newCount,
			}).Error
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	metrics.GetMetrics().RecordRating()

	return &RatingInfo{
		ID:        rating.ID,
		UserID:    rating.UserID,
		HotelID:   rating.HotelID,
		Rating:    rating.Rating,
		CreatedAt: rating.CreatedAt,
	}, nil
}

// GetHotelRatings 获取酒店的全部评分和实时计算的平均分
func (s *RatingService) GetHotelRatings(ctx context.Context, hotelID int64) (*HotelRatings, error) {
	if _, err := s.hotelRepo.GetByID(ctx, hotelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHotelNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	ratings, err := s.ratingRepo.ListByHotel(ctx, hotelID)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	// 没有评分是正常状态，返回空列表和零统计
	result := &HotelRatings{
		HotelID: hotelID,
		Ratings: make([]*RatingInfo, 0, len(ratings)),
	}
	if len(ratings) == 0 {
		return result, nil
	}

	stats, err := s.ratingRepo.StatsByHotel(ctx, hotelID)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	result.AverageRating = stats.Average
	result.RatingCount = stats.Count
	for _, r := range ratings {
		info := &RatingInfo{
			ID:        r.ID,
			UserID:    r.UserID,
			HotelID:   r.HotelID,
			Rating:    r.Rating,
			CreatedAt: r.CreatedAt,
		}
		if r.User != nil {
			info.UserName = r.User.Name
		}
		result.Ratings = append(result.Ratings, info)
	}
	return result, nil
}
