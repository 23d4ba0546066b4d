package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-booking-backend/internal/common/cache"
	apperrors "github.com/dumeirei/hotel-booking-backend/internal/common/errors"
	"github.com/dumeirei/hotel-booking-backend/internal/common/logger"
	"github.com/dumeirei/hotel-booking-backend/internal/common/metrics"
	"github.com/dumeirei/hotel-booking-backend/internal/common/qrcode"
	"github.com/dumeirei/hotel-booking-backend/internal/common/utils"
	"github.com/dumeirei/hotel-booking-backend/internal/models"
	"github.com/dumeirei/hotel-booking-backend/internal/repository"
	"github.com/dumeirei/hotel-booking-backend/pkg/sms"
)

// BookingService 预订服务
type BookingService struct {
	db          *gorm.DB
	bookingRepo *repository.BookingRepository
	roomRepo    *repository.RoomRepository
	hotelRepo   *repository.HotelRepository
	userRepo    *repository.UserRepository
	locker      *cache.Locker
	qrGenerator *qrcode.Generator
	smsSender   sms.Sender
}

// NewBookingService 创建预订服务
func NewBookingService(
	db *gorm.DB,
	bookingRepo *repository.BookingRepository,
	roomRepo *repository.RoomRepository,
	hotelRepo *repository.HotelRepository,
	userRepo *repository.UserRepository,
	locker *cache.Locker,
	smsSender sms.Sender,
) *BookingService {
	return &BookingService{
		db:          db,
		bookingRepo: bookingRepo,
		roomRepo:    roomRepo,
		hotelRepo:   hotelRepo,
		userRepo:    userRepo,
		locker:      locker,
		qrGenerator: qrcode.NewGenerator(qrcode.WithSize(256)),
		smsSender:   smsSender,
	}
}

// CreateBookingRequest 创建预订请求
type CreateBookingRequest struct {
	CheckInDate  time.Time `json:"checkInDate" binding:"required"`
	CheckOutDate time.Time `json:"checkOutDate" binding:"required"`
}

// BookingInfo 预订信息
type BookingInfo struct {
	ID           int64     `json:"id"`
	BookingNo    string    `json:"booking_no"`
	UserID       int64     `json:"user_id"`
	RoomID       int64     `json:"room_id"`
	HotelID      int64     `json:"hotel_id"`
	HotelName    string    `json:"hotelName,omitempty"`
	RoomNumber   string    `json:"roomNumber,omitempty"`
	CheckInDate  time.Time `json:"checkInDate"`
	CheckOutDate time.Time `json:"checkOutDate"`
	TotalPrice   float64   `json:"totalPrice"`
	Status       string    `json:"status"`
	QRCode       string    `json:"qr_code,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateBooking 创建预订
// 同一房间的「查冲突-写入」通过房间级互斥锁串行化，并发请求只有一个能成功
func (s *BookingService) CreateBooking(ctx context.Context, userID, roomID int64, req *CreateBookingRequest) (*BookingInfo, error) {
	if !req.CheckOutDate.After(req.CheckInDate) {
		return nil, apperrors.ErrInvalidDateRange
	}

	release, err := s.locker.Acquire(ctx, cache.RoomLockKey(roomID))
	if err != nil {
		if errors.Is(err, cache.ErrLockNotAcquired) {
			return nil, apperrors.ErrBookingConflict
		}
		return nil, apperrors.ErrCacheError.WithError(err)
	}
	defer release()

	// 1. 获取房间及所属酒店
	room, err := s.roomRepo.GetByIDWithHotel(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRoomNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	// 2. 可用性检查：与未取消预订的 [入住, 退房) 区间不得重叠
	exists, err := s.bookingRepo.ExistsConflict(ctx, roomID, req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	if exists {
		metrics.GetMetrics().RecordBookingConflict()
		return nil, apperrors.ErrBookingConflict
	}

	// 3. 计价
	totalPrice, err := CalculateTotalPrice(room.Price, req.CheckInDate, req.CheckOutDate)
	if err != nil {
		return nil, err
	}

	bookingNo := utils.GenerateOrderNo("B")
	booking := &models.Booking{
		BookingNo:    bookingNo,
		UserID:       userID,
		RoomID:       roomID,
		HotelID:      room.HotelID,
		CheckInDate:  req.CheckInDate,
		CheckOutDate: req.CheckOutDate,
		TotalPrice:   totalPrice,
		Status:       models.BookingStatusPending,
	}

	// 入住二维码生成失败不阻塞预订
	if dataURL, qrErr := s.qrGenerator.GenerateDataURL(bookingNo); qrErr == nil {
		booking.QRCode = &dataURL
	} else {
		logger.Warn(fmt.Sprintf("生成预订二维码失败: booking_no=%s, err=%v", bookingNo, qrErr))
	}

	// 4. 事务内写入预订并维护房间占用标记
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(booking).Error; err != nil {
			return err
		}
		return tx.Model(&models.Room{}).
			Where("id = ?", roomID).
			Update("is_booked", true).Error
	})
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	booking.Room = room
	booking.Hotel = room.Hotel
	metrics.GetMetrics().RecordBooking(booking.Status)

	// 5. 预订确认通知，尽力而为
	s.notifyBookingCreated(userID, booking)

	return s.convertBookingInfo(booking), nil
}

// GetBooking 获取预订详情（本人或管理员）
func (s *BookingService) GetBooking(ctx context.Context, bookingID, userID int64, role string) (*BookingInfo, error) {
	booking, err := s.bookingRepo.GetByIDWithDetails(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	if booking.UserID != userID && role != models.RoleAdmin {
		return nil, apperrors.ErrBookingNotOwned
	}

	return s.convertBookingInfo(booking), nil
}

// CancelBooking 取消预订：在单个事务内完成查找、鉴权、物理删除和房间标记维护
// 删除按影响行数判定，并发的第二次取消落空时返回预订不存在
func (s *BookingService) CancelBooking(ctx context.Context, bookingID, userID int64, role string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.First(&booking, bookingID).Error; err != nil {
			return err
		}

		if booking.UserID != userID && role != models.RoleAdmin {
			return apperrors.ErrBookingNotOwned
		}

		// 读已提交隔离下 First 可能读到竞争者即将删除的行，以删除行数为准
		result := tx.Delete(&models.Booking{}, bookingID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return apperrors.ErrBookingNotFound
		}

		return reconcileRoomBooked(tx, booking.RoomID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrBookingNotFound
		}
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperrors.ErrDatabaseError.WithError(err)
	}
	return nil
}

// UpdateBookingStatus 更新预订状态（管理员或酒店业主）
// 只校验取值合法性，不限制状态迁移顺序
func (s *BookingService) UpdateBookingStatus(ctx context.Context, bookingID, actorID int64, role, status string) (*BookingInfo, error) {
	if !models.ValidBookingStatus(status) {
		return nil, apperrors.ErrBookingStatusInvalid
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	// 管理员放行；酒店业主只能操作自己酒店的预订
	if role != models.RoleAdmin {
		hotel, err := s.hotelRepo.GetByID(ctx, booking.HotelID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrHotelNotFound
			}
			return nil, apperrors.ErrDatabaseError.WithError(err)
		}
		if hotel.OwnerID != actorID {
			return nil, apperrors.ErrBookingNotOwned
		}
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Booking{}).
			Where("id = ?", bookingID).
			Update("status", status).Error; err != nil {
			return err
		}
		return reconcileRoomBooked(tx, booking.RoomID)
	})
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	booking, err = s.bookingRepo.GetByIDWithDetails(ctx, bookingID)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return s.convertBookingInfo(booking), nil
}

// GetUserBookings 获取当前用户全部预订（按创建时间倒序）
func (s *BookingService) GetUserBookings(ctx context.Context, userID int64) ([]*BookingInfo, error) {
	bookings, err := s.bookingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return s.convertBookingList(bookings), nil
}

// GetHotelBookings 获取业主名下酒店的全部预订
func (s *BookingService) GetHotelBookings(ctx context.Context, ownerID int64) ([]*BookingInfo, error) {
	hotel, err := s.hotelRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoHotelForUser
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	bookings, err := s.bookingRepo.ListByHotel(ctx, hotel.ID)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return s.convertBookingList(bookings), nil
}

// ListAllBookings 获取全部预订（管理端）
func (s *BookingService) ListAllBookings(ctx context.Context) ([]*BookingInfo, error) {
	bookings, err := s.bookingRepo.ListAll(ctx)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return s.convertBookingList(bookings), nil
}

// reconcileRoomBooked 重算房间占用标记：存在未取消且尚未退房的预订则占用
func reconcileRoomBooked(tx *gorm.DB, roomID int64) error {
	var count int64
	if err := tx.Model(&models.Booking{}).
		Where("room_id = ?", roomID).
		Where("status <> ?", models.BookingStatusCancelled).
		Where("check_out_date > ?", time.Now()).
		Count(&count).Error; err != nil {
		return err
	}
	return tx.Model(&models.Room{}).
		Where("id = ?", roomID).
		Update("is_booked", count > 0).Error
}

// notifyBookingCreated 发送预订确认短信，失败仅记录日志
func (s *BookingService) notifyBookingCreated(userID int64, booking *models.Booking) {
	if s.smsSender == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil || user.Phone == "" {
			return
		}
		params := map[string]string{
			"booking_no":  booking.BookingNo,
			"check_in":    booking.CheckInDate.Format("2006-01-02"),
			"total_price": utils.FormatMoney(int64(math.Round(booking.TotalPrice * 100))),
		}
		if err := s.smsSender.Send(ctx, user.Phone, sms.TemplateBookingConfirm, params); err != nil {
			logger.Warn(fmt.Sprintf("预订确认短信发送失败: booking_no=%s, err=%v", booking.BookingNo, err))
		}
	}()
}

// convertBookingInfo 转换预订信息
func (s *BookingService) convertBookingInfo(booking *models.Booking) *BookingInfo {
	info := &BookingInfo{
		ID:           booking.ID,
		BookingNo:    booking.BookingNo,
		UserID:       booking.UserID,
		RoomID:       booking.RoomID,
		HotelID:      booking.HotelID,
		CheckInDate:  booking.CheckInDate,
		CheckOutDate: booking.CheckOutDate,
		TotalPrice:   booking.TotalPrice,
		Status:       booking.Status,
		CreatedAt:    booking.CreatedAt,
	}
	if booking.QRCode != nil {
		info.QRCode = *booking.QRCode
	}
	if booking.Hotel != nil {
		info.HotelName = booking.Hotel.Name
	}
	if booking.Room != nil {
		info.RoomNumber = booking.Room.RoomNumber
	}
	return info
}

func (s *BookingService) convertBookingList(bookings []*models.Booking) []*BookingInfo {
	result := make([]*BookingInfo, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, s.convertBookingInfo(b))
	}
	return result
}
