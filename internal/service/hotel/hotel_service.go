// Package hotel 提供酒店和房间管理服务
package hotel

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-booking-backend/internal/common/crypto"
	apperrors "github.com/dumeirei/hotel-booking-backend/internal/common/errors"
	"github.com/dumeirei/hotel-booking-backend/internal/common/logger"
	"github.com/dumeirei/hotel-booking-backend/internal/common/utils"
	"github.com/dumeirei/hotel-booking-backend/internal/models"
	"github.com/dumeirei/hotel-booking-backend/internal/repository"
)

// HotelService 酒店服务
type HotelService struct {
	db          *gorm.DB
	hotelRepo   *repository.HotelRepository
	roomRepo    *repository.RoomRepository
	userRepo    *repository.UserRepository
	bookingRepo *repository.BookingRepository
}

// NewHotelService 创建酒店服务
func NewHotelService(
	db *gorm.DB,
	hotelRepo *repository.HotelRepository,
	roomRepo *repository.RoomRepository,
	userRepo *repository.UserRepository,
	bookingRepo *repository.BookingRepository,
) *HotelService {
	return &HotelService{
		db:          db,
		hotelRepo:   hotelRepo,
		roomRepo:    roomRepo,
		userRepo:    userRepo,
		bookingRepo: bookingRepo,
	}
}

// CreateHotelRequest 创建酒店请求
// 创建酒店的同时为其开通业主账号
type CreateHotelRequest struct {
	Name          string   `json:"name" binding:"required"`
	Location      string   `json:"location" binding:"required"`
	Description   string   `json:"description"`
	Phone         string   `json:"phoneNumber"`
	Email         string   `json:"email"`
	Images        []string `json:"images"`
	OwnerName     string   `json:"ownerName" binding:"required"`
	OwnerEmail    string   `json:"ownerEmail" binding:"required"`
	OwnerPassword string   `json:"ownerPassword" binding:"required"`
}

// UpdateHotelRequest 更新酒店请求
type UpdateHotelRequest struct {
	Name        *string  `json:"name"`
	Location    *string  `json:"location"`
	Description *string  `json:"description"`
	Phone       *string  `json:"phoneNumber"`
	Email       *string  `json:"email"`
	Images      []string `json:"images"`
}

// HotelListRequest 酒店列表请求
type HotelListRequest struct {
	Page     int    `form:"page" json:"page"`
	PageSize int    `form:"page_size" json:"page_size"`
	Name     string `form:"name" json:"name"`
	Location string `form:"location" json:"location"`
}

// HotelInfo 酒店信息
type HotelInfo struct {
	ID            int64       `json:"id"`
	Name          string      `json:"name"`
	Location      string      `json:"location"`
	Description   string      `json:"description"`
	Phone         string      `json:"phoneNumber"`
	Email         string      `json:"email"`
	Images        []string    `json:"images"`
	OwnerID       int64       `json:"owner_id"`
	OwnerName     string      `json:"ownerName,omitempty"`
	AverageRating float64     `json:"averageRating"`
	RatingCount   int64       `json:"rating_count"`
	RoomCount     int64       `json:"room_count"`
	MinPrice      float64     `json:"min_price"`
	Rooms         []*RoomInfo `json:"rooms,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// RoomInfo 房间信息
type RoomInfo struct {
	ID          int64     `json:"id"`
	HotelID     int64     `json:"hotel_id"`
	HotelName   string    `json:"hotelName,omitempty"`
	RoomNumber  string    `json:"roomNumber"`
	Type        string    `json:"type"`
	Price       float64   `json:"price"`
	Capacity    int       `json:"capacity"`
	Description string    `json:"description"`
	Amenities   []string  `json:"amenities"`
	Images      []string  `json:"images"`
	IsBooked    bool      `json:"isBooked"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateHotel 管理员创建酒店并开通业主账号
// 业主账号与酒店在同一事务内落库，任一步失败整体回滚
func (s *HotelService) CreateHotel(ctx context.Context, req *CreateHotelRequest) (*HotelInfo, error) {
	if !utils.ValidateEmail(req.OwnerEmail) {
		return nil, apperrors.ErrEmailInvalid
	}
	if len(req.OwnerPassword) < 8 {
		return nil, apperrors.ErrPasswordWeak
	}

	exists, err := s.hotelRepo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, apperrors.ErrHotelExists
	}

	hashed, err := crypto.HashPassword(req.OwnerPassword)
	if err != nil {
		return nil, apperrors.ErrInternalError.WithError(err)
	}

	var hotel *models.Hotel
	var owner *models.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 业主账号：邮箱已注册则复用并升级角色，否则新建
		var existing models.User
		findErr := tx.Where("email = ?", req.OwnerEmail).First(&existing).Error
		switch {
		case findErr == nil:
			var owned int64
			if err := tx.Model(&models.Hotel{}).Where("owner_id = ?", existing.ID).Count(&owned).Error; err != nil {
				return err
			}
			if owned > 0 {
				return apperrors.ErrOwnerHasHotel
			}
			if err := tx.Model(&models.User{}).Where("id = ?", existing.ID).
				Update("role", models.RoleHotelOwner).Error; err != nil {
				return err
			}
			existing.Role = models.RoleHotelOwner
			owner = &existing
		case errors.Is(findErr, gorm.ErrRecordNotFound):
			owner = &models.User{
				Name:     req.OwnerName,
				Username: usernameFromEmail(req.OwnerEmail),
				Email:    req.OwnerEmail,
				Password: hashed,
				Role:     models.RoleHotelOwner,
			}
			if err := tx.Create(owner).Error; err != nil {
				return err
			}
		default:
			return findErr
		}

		hotel = &models.Hotel{
			Name:        req.Name,
			Location:    req.Location,
			Description: utils.StringPtr(req.Description),
			Phone:       req.Phone,
			Email:       req.Email,
			Images:      models.StringList(req.Images),
			OwnerID:     owner.ID,
		}
		return tx.Create(hotel).Error
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	logger.Infof("酒店创建成功: hotel_id=%d, owner_id=%d, name=%s", hotel.ID, owner.ID, hotel.Name)

	info := s.convertHotelInfo(hotel)
	info.OwnerName = owner.Name
	return info, nil
}

// GetHotelList 获取酒店列表
func (s *HotelService) GetHotelList(ctx context.Context, req *HotelListRequest) ([]*HotelInfo, int64, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 10
	}
	if req.PageSize > 50 {
		req.PageSize = 50
	}

	filters := map[string]interface{}{}
	if req.Name != "" {
		filters["name"] = req.Name
	}
	if req.Location != "" {
		filters["location"] = req.Location
	}

	offset := (req.Page - 1) * req.PageSize
	hotels, total, err := s.hotelRepo.List(ctx, offset, req.PageSize, filters)
	if err != nil {
		return nil, 0, apperrors.ErrDatabaseError.WithError(err)
	}

	result := make([]*HotelInfo, 0, len(hotels))
	for _, h := range hotels {
		result = append(result, s.convertHotelInfo(h))
	}
	return result, total, nil
}

// GetHotelDetail 获取酒店详情（含房间）
func (s *HotelService) GetHotelDetail(ctx context.Context, hotelID int64) (*HotelInfo, error) {
	hotel, err := s.hotelRepo.GetByIDWithRooms(ctx, hotelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHotelNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return s.convertHotelInfo(hotel), nil
}

// HotelAdminInfo 管理端酒店视图，附带业主账号和预订统计
type HotelAdminInfo struct {
	HotelInfo
	OwnerUsername string `json:"ownerUsername,omitempty"`
	OwnerEmail    string `json:"ownerEmail,omitempty"`
	BookingCount  int64  `json:"booking_count"`
}

// GetHotelAdminInfo 管理员查看酒店全量信息（业主账号、房间、预订统计）
func (s *HotelService) GetHotelAdminInfo(ctx context.Context, hotelID int64) (*HotelAdminInfo, error) {
	hotel, err := s.hotelRepo.GetByIDFull(ctx, hotelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHotelNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	info := &HotelAdminInfo{HotelInfo: *s.convertHotelInfo(hotel)}
	if hotel.Owner != nil {
		info.OwnerUsername = hotel.Owner.Username
		info.OwnerEmail = hotel.Owner.Email
	}

	bookings, err := s.bookingRepo.CountByHotel(ctx, hotelID)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	info.BookingCount = bookings

	return info, nil
}

// UpdateHotel 更新酒店信息，管理员或酒店业主可操作
func (s *HotelService) UpdateHotel(ctx context.Context, hotelID, actorID int64, role string, req *UpdateHotelRequest) (*HotelInfo, error) {
	hotel, err := s.hotelRepo.GetByID(ctx, hotelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHotelNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	if role != models.RoleAdmin && hotel.OwnerID != actorID {
		return nil, apperrors.ErrHotelNotOwned
	}

	fields := map[string]interface{}{}
	if req.Name != nil && *req.Name != hotel.Name {
		exists, err := s.hotelRepo.ExistsByName(ctx, *req.Name)
		if err != nil {
			return nil, apperrors.ErrDatabaseError.WithError(err)
		}
		if exists {
			return nil, apperrors.ErrHotelExists
		}
		fields["name"] = *req.Name
	}
	if req.Location != nil {
		fields["location"] = *req.Location
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Phone != nil {
		fields["phone"] = *req.Phone
	}
	if req.Email != nil {
		fields["email"] = *req.Email
	}
	if req.Images != nil {
		fields["images"] = models.StringList(req.Images)
	}

	if len(fields) > 0 {
		if err := s.hotelRepo.UpdateFields(ctx, hotelID, fields); err != nil {
			return nil, apperrors.ErrDatabaseError.WithError(err)
		}
	}

	updated, err := s.hotelRepo.GetByID(ctx, hotelID)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return s.convertHotelInfo(updated), nil
}

// DeleteHotel 管理员删除酒店，连带删除房间、预订和评分
func (s *HotelService) DeleteHotel(ctx context.Context, hotelID int64) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var hotel models.Hotel
		if err := tx.First(&hotel, hotelID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrHotelNotFound
			}
			return err
		}
		if err := tx.Where("hotel_id = ?", hotelID).Delete(&models.Booking{}).Error; err != nil {
			return err
		}
		if err := tx.Where("hotel_id = ?", hotelID).Delete(&models.Rating{}).Error; err != nil {
			return err
		}
		if err := tx.Where("hotel_id = ?", hotelID).Delete(&models.Room{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Hotel{}, hotelID).Error
	})
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			return appErr
		}
		return apperrors.ErrDatabaseError.WithError(err)
	}

	logger.Infof("酒店已删除: hotel_id=%d", hotelID)
	return nil
}

// GetMyHotel 业主查询自己的酒店
func (s *HotelService) GetMyHotel(ctx context.Context, ownerID int64) (*HotelInfo, error) {
	hotel, err := s.hotelRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoHotelForUser
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	full, err := s.hotelRepo.GetByIDWithRooms(ctx, hotel.ID)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return s.convertHotelInfo(full), nil
}

// convertHotelInfo 转换酒店信息
func (s *HotelService) convertHotelInfo(hotel *models.Hotel) *HotelInfo {
	info := &HotelInfo{
		ID:            hotel.ID,
		Name:          hotel.Name,
		Location:      hotel.Location,
		Description:   utils.SafeString(hotel.Description),
		Phone:         hotel.Phone,
		Email:         hotel.Email,
		Images:        hotel.Images,
		OwnerID:       hotel.OwnerID,
		AverageRating: hotel.AverageRating,
		RatingCount:   int64(hotel.RatingCount),
		CreatedAt:     hotel.CreatedAt,
	}
	if hotel.Owner != nil {
		info.OwnerName = hotel.Owner.Name
	}
	if len(hotel.Rooms) > 0 {
		info.RoomCount = int64(len(hotel.Rooms))
		minPrice := hotel.Rooms[0].Price
		for _, room := range hotel.Rooms {
			if room.Price < minPrice {
				minPrice = room.Price
			}
			info.Rooms = append(info.Rooms, convertRoomInfo(&room, hotel.Name))
		}
		info.MinPrice = minPrice
	}
	return info
}

// convertRoomInfo 转换房间信息
func convertRoomInfo(room *models.Room, hotelName string) *RoomInfo {
	return &RoomInfo{
		ID:          room.ID,
		HotelID:     room.HotelID,
		HotelName:   hotelName,
		RoomNumber:  room.RoomNumber,
		Type:        room.Type,
		Price:       room.Price,
		Capacity:    room.Capacity,
		Description: utils.SafeString(room.Description),
		Amenities:   room.Amenities,
		Images:      room.Images,
		IsBooked:    room.IsBooked,
		CreatedAt:   room.CreatedAt,
	}
}

// usernameFromEmail 从邮箱推导用户名
func usernameFromEmail(email string) string {
	if idx := strings.Index(email, "@"); idx > 0 {
		return email[:idx]
	}
	return email
}
