// Package booking 提供预订相关的 HTTP Handler
package booking

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-booking-backend/internal/common/handler"
	"github.com/dumeirei/hotel-booking-backend/internal/common/response"
	"github.com/dumeirei/hotel-booking-backend/internal/middleware"
	bookingService "github.com/dumeirei/hotel-booking-backend/internal/service/booking"
)

// Handler 预订处理器
type Handler struct {
	bookingService *bookingService.BookingService
}

// NewHandler 创建预订处理器
func NewHandler(bookingSvc *bookingService.BookingService) *Handler {
	return &Handler{
		bookingService: bookingSvc,
	}
}

// CreateBookingRequest 创建预订请求
type CreateBookingRequest struct {
	CheckInDate  string `json:"checkInDate" binding:"required"`
	CheckOutDate string `json:"checkOutDate" binding:"required"`
}

// UpdateBookingRequest 更新预订状态请求
type UpdateBookingRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateBooking 创建预订
// @Summary 预订房间
// @Tags 预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param roomId path int true "房间ID"
// @Param request body CreateBookingRequest true "入住和退房日期"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /api/v1/booking/{roomId} [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	userID, roomID, ok := handler.RequireUserAndParseID(c, "roomId", "房间")
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请提供入住和退房日期")
		return
	}

	checkIn, err := handler.ParseDateTime(req.CheckInDate)
	if err != nil {
		response.BadRequest(c, "入住日期格式错误")
		return
	}
	checkOut, err := handler.ParseDateTime(req.CheckOutDate)
	if err != nil {
		response.BadRequest(c, "退房日期格式错误")
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), userID, roomID, &bookingService.CreateBookingRequest{
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
	})
	if handler.HandleError(c, err) {
		return
	}
	// 酒店名称同时放在顶层，方便客户端直接展示
	response.Created(c, response.H{
		"booking":   booking,
		"hotelName": booking.HotelName,
	})
}

// GetBooking 获取预订详情
// @Summary 获取预订详情
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param bookingId path int true "预订ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/booking/getroom/{bookingId} [get]
func (h *Handler) GetBooking(c *gin.Context) {
	userID, bookingID, ok := handler.RequireUserAndParseID(c, "bookingId", "预订")
	if !ok {
		return
	}

	booking, err := h.bookingService.GetBooking(c.Request.Context(), bookingID, userID, middleware.GetRole(c))
	handler.MustSucceed(c, err, response.H{"booking": booking})
}

// CancelBooking 取消预订
// @Summary 取消预订
// @Tags 预订
// @Produce json
// @Security Bearer
// @Param bookingId path int true "预订ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/booking/cancel-booking/{bookingId} [delete]
func (h *Handler) CancelBooking(c *gin.Context) {
	userID, bookingID, ok := handler.RequireUserAndParseID(c, "bookingId", "预订")
	if !ok {
		return
	}

	err := h.bookingService.CancelBooking(c.Request.Context(), bookingID, userID, middleware.GetRole(c))
	handler.MustSucceedWithMessage(c, err, "预订已取消", nil)
}

// UpdateBooking 更新预订状态
// @Summary 更新预订状态
// @Tags 预订
// @Accept json
// @Produce json
// @Security Bearer
// @Param bookingId path int true "预订ID"
// @Param request body UpdateBookingRequest true "目标状态"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/booking/update-booking/{bookingId} [put]
func (h *Handler) UpdateBooking(c *gin.Context) {
	userID, bookingID, ok := handler.RequireUserAndParseID(c, "bookingId", "预订")
	if !ok {
		return
	}

	var req UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请提供预订状态")
		return
	}

	booking, err := h.bookingService.UpdateBookingStatus(c.Request.Context(), bookingID, userID, middleware.GetRole(c), req.Status)
	handler.MustSucceed(c, err, response.H{"booking": booking})
}

// GetUserBookings 获取当前用户的预订列表
// @Summary 获取我的预订
// @Tags 预订
// @Produce json
// @Security Bearer
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/booking/get [get]
func (h *Handler) GetUserBookings(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	bookings, err := h.bookingService.GetUserBookings(c.Request.Context(), userID)
	handler.MustSucceed(c, err, response.H{"bookings": bookings})
}

// GetHotelBookings 获取业主名下酒店的预订列表
// @Summary 获取酒店预订
// @Tags 预订
// @Produce json
// @Security Bearer
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/booking/hotel/bookings [get]
func (h *Handler) GetHotelBookings(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	bookings, err := h.bookingService.GetHotelBookings(c.Request.Context(), userID)
	handler.MustSucceed(c, err, response.H{"bookings": bookings})
}

// RegisterRoutes 注册预订路由
func (h *Handler) RegisterRoutes(group *gin.RouterGroup, auth gin.HandlerFunc) {
	booking := group.Group("/booking")
	booking.Use(auth)
	{
		booking.POST("/:roomId", h.CreateBooking)
		booking.GET("/getroom/:bookingId", h.GetBooking)
		booking.DELETE("/cancel-booking/:bookingId", h.CancelBooking)
		booking.PUT("/update-booking/:bookingId", h.UpdateBooking)
		booking.GET("/get", h.GetUserBookings)
		booking.GET("/hotel/bookings", h.GetHotelBookings)
	}
}
