// Package booking 提供预订生命周期服务
package booking

import (
	"math"
	"time"

	"github.com/dumeirei/hotel-booking-backend/internal/common/errors"
)

// CalculateNights 计算间夜数，不足一天按一天计
func CalculateNights(checkIn, checkOut time.Time) (int, error) {
	if !checkOut.After(checkIn) {
		return 0, errors.ErrInvalidDateRange
	}
	hours := checkOut.Sub(checkIn).Hours()
	return int(math.Ceil(hours / 24)), nil
}

// CalculateTotalPrice 计算预订总价：间夜数 × 每晚价格
func CalculateTotalPrice(nightlyPrice float64, checkIn, checkOut time.Time) (float64, error) {
	nights, err := CalculateNights(checkIn, checkOut)
	if err != nil {
		return 0, err
	}
	return float64(nights) * nightlyPrice, nil
}
