package hotel

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/dumeirei/hotel-booking-backend/internal/common/errors"
	"github.com/dumeirei/hotel-booking-backend/internal/common/logger"
	"github.com/dumeirei/hotel-booking-backend/internal/common/utils"
	"github.com/dumeirei/hotel-booking-backend/internal/models"
	"github.com/dumeirei/hotel-booking-backend/internal/repository"
)

// RoomService 房间管理服务
type RoomService struct {
	db          *gorm.DB
	roomRepo    *repository.RoomRepository
	hotelRepo   *repository.HotelRepository
	bookingRepo *repository.BookingRepository
}

// NewRoomService 创建房间管理服务
func NewRoomService(
	db *gorm.DB,
	roomRepo *repository.RoomRepository,
	hotelRepo *repository.HotelRepository,
	bookingRepo *repository.BookingRepository,
) *RoomService {
	return &RoomService{
		db:          db,
		roomRepo:    roomRepo,
		hotelRepo:   hotelRepo,
		bookingRepo: bookingRepo,
	}
}

// CreateRoomRequest 创建房间请求
type CreateRoomRequest struct {
	RoomNumber  string   `json:"roomNumber" binding:"required"`
	Type        string   `json:"type" binding:"required"`
	Price       float64  `json:"price" binding:"required,gt=0"`
	Capacity    int      `json:"capacity" binding:"required,gt=0"`
	Description string   `json:"description"`
	Amenities   []string `json:"amenities"`
	Images      []string `json:"images"`
}

// UpdateRoomRequest 更新房间请求
type UpdateRoomRequest struct {
	RoomNumber  *string  `json:"roomNumber"`
	Type        *string  `json:"type"`
	Price       *float64 `json:"price"`
	Capacity    *int     `json:"capacity"`
	Description *string  `json:"description"`
	Amenities   []string `json:"amenities"`
	Images      []string `json:"images"`
}

// AddRoom 业主为自己的酒店添加房间，管理员可指定酒店
func (s *RoomService) AddRoom(ctx context.Context, hotelID, actorID int64, role string, req *CreateRoomRequest) (*RoomInfo, error) {
	hotel, err := s.authorizeHotel(ctx, hotelID, actorID, role)
	if err != nil {
		return nil, err
	}

	if !models.ValidRoomType(req.Type) {
		return nil, apperrors.ErrRoomTypeInvalid
	}

	exists, err := s.roomRepo.ExistsByHotelAndNumber(ctx, hotel.ID, req.RoomNumber)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, apperrors.ErrRoomExists
	}

	room := &models.Room{
		HotelID:     hotel.ID,
		RoomNumber:  req.RoomNumber,
		Type:        req.Type,
		Price:       req.Price,
		Capacity:    req.Capacity,
		Description: utils.StringPtr(req.Description),
		Amenities:   models.StringList(req.Amenities),
		Images:      models.StringList(req.Images),
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	logger.Infof("房间创建成功: room_id=%d, hotel_id=%d, number=%s", room.ID, hotel.ID, room.RoomNumber)
	return convertRoomInfo(room, hotel.Name), nil
}

// GetRoom 获取房间详情
func (s *RoomService) GetRoom(ctx context.Context, roomID int64) (*RoomInfo, error) {
	room, err := s.roomRepo.GetByIDWithHotel(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRoomNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	hotelName := ""
	if room.Hotel != nil {
		hotelName = room.Hotel.Name
	}
	return convertRoomInfo(room, hotelName), nil
}

// ListRooms 获取酒店的房间列表
func (s *RoomService) ListRooms(ctx context.Context, hotelID int64) ([]*RoomInfo, error) {
	hotel, err := s.hotelRepo.GetByID(ctx, hotelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrHotelNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	rooms, err := s.roomRepo.ListByHotel(ctx, hotelID)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	result := make([]*RoomInfo, 0, len(rooms))
	for _, room := range rooms {
		result = append(result, convertRoomInfo(room, hotel.Name))
	}
	return result, nil
}

// ListAllRooms 管理端获取全部房间
func (s *RoomService) ListAllRooms(ctx context.Context) ([]*RoomInfo, error) {
	rooms, err := s.roomRepo.ListAll(ctx)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	result := make([]*RoomInfo, 0, len(rooms))
	for _, room := range rooms {
		hotelName := ""
		if room.Hotel != nil {
			hotelName = room.Hotel.Name
		}
		result = append(result, convertRoomInfo(room, hotelName))
	}
	return result, nil
}

// ListMyRooms 业主查询自己酒店的房间
func (s *RoomService) ListMyRooms(ctx context.Context, ownerID int64) ([]*RoomInfo, error) {
	hotel, err := s.hotelRepo.GetByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNoHotelForUser
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return s.ListRooms(ctx, hotel.ID)
}

// UpdateRoom 更新房间信息
func (s *RoomService) UpdateRoom(ctx context.Context, roomID, actorID int64, role string, req *UpdateRoomRequest) (*RoomInfo, error) {
	room, err := s.roomRepo.GetByIDWithHotel(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrRoomNotFound
		}
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	hotel, err := s.authorizeHotel(ctx, room.HotelID, actorID, role)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.RoomNumber != nil && *req.RoomNumber != room.RoomNumber {
		exists, err := s.roomRepo.ExistsByHotelAndNumber(ctx, room.HotelID, *req.RoomNumber)
		if err != nil {
			return nil, apperrors.ErrDatabaseError.WithError(err)
		}
		if exists {
			return nil, apperrors.ErrRoomExists
		}
		fields["room_number"] = *req.RoomNumber
	}
	if req.Type != nil {
		if !models.ValidRoomType(*req.Type) {
			return nil, apperrors.ErrRoomTypeInvalid
		}
		fields["type"] = *req.Type
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return nil, apperrors.ErrInvalidParams.WithMessage("价格必须大于零")
		}
		fields["price"] = *req.Price
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			return nil, apperrors.ErrInvalidParams.WithMessage("容量必须大于零")
		}
		fields["capacity"] = *req.Capacity
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Amenities != nil {
		fields["amenities"] = models.StringList(req.Amenities)
	}
	if req.Images != nil {
		fields["images"] = models.StringList(req.Images)
	}

	if len(fields) > 0 {
		if err := s.roomRepo.UpdateFields(ctx, roomID, fields); err != nil {
			return nil, apperrors.ErrDatabaseError.WithError(err)
		}
	}

	updated, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return convertRoomInfo(updated, hotel.Name), nil
}

// DeleteRoom 删除房间，存在未退房的预订时拒绝
func (s *RoomService) DeleteRoom(ctx context.Context, roomID, actorID int64, role string) error {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrRoomNotFound
		}
		return apperrors.ErrDatabaseError.WithError(err)
	}

	if _, err := s.authorizeHotel(ctx, room.HotelID, actorID, role); err != nil {
		return err
	}

	active, err := s.bookingRepo.CountActiveForRoom(ctx, roomID, time.Now())
	if err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	if active > 0 {
		return apperrors.ErrRoomHasBookings
	}

	if err := s.roomRepo.Delete(ctx, roomID); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}

	logger.Infof("房间已删除: room_id=%d", roomID)
	return nil
}

// authorizeHotel 校验操作者是管理员或该酒店业主
func (s *RoomService) authorizeHotel(ctx context.Context, hotelID, actorID int64, role string) (*models.Hotel, error) {
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
	return hotel, nil
}
