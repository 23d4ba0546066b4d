// Package room 提供房间相关的 HTTP Handler
package room

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-booking-backend/internal/common/handler"
	"github.com/dumeirei/hotel-booking-backend/internal/common/response"
	"github.com/dumeirei/hotel-booking-backend/internal/middleware"
	hotelService "github.com/dumeirei/hotel-booking-backend/internal/service/hotel"
)

// Handler 房间处理器
type Handler struct {
	roomService *hotelService.RoomService
}

// NewHandler 创建房间处理器
func NewHandler(roomSvc *hotelService.RoomService) *Handler {
	return &Handler{
		roomService: roomSvc,
	}
}

// AddRoom 添加房间
// @Summary 添加房间
// @Tags 房间
// @Accept json
// @Produce json
// @Security Bearer
// @Param hotelId path int true "酒店ID"
// @Param request body hotelService.CreateRoomRequest true "房间信息"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /api/v1/room/{hotelId}/add [post]
func (h *Handler) AddRoom(c *gin.Context) {
	userID, hotelID, ok := handler.RequireUserAndParseID(c, "hotelId", "酒店")
	if !ok {
		return
	}

	var req hotelService.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	room, err := h.roomService.AddRoom(c.Request.Context(), hotelID, userID, middleware.GetRole(c), &req)
	if handler.HandleError(c, err) {
		return
	}
	response.Created(c, response.H{"room": room})
}

// GetRoom 获取房间详情
// @Summary 获取房间详情
// @Tags 房间
// @Produce json
// @Param roomId path int true "房间ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/room/get/{roomId} [get]
func (h *Handler) GetRoom(c *gin.Context) {
	roomID, ok := handler.ParseParamID(c, "roomId", "房间")
	if !ok {
		return
	}

	room, err := h.roomService.GetRoom(c.Request.Context(), roomID)
	handler.MustSucceed(c, err, response.H{"room": room})
}

// ListRooms 获取酒店的房间列表
// @Summary 获取酒店房间列表
// @Tags 房间
// @Produce json
// @Param hotelId path int true "酒店ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/room/hotel/{hotelId} [get]
func (h *Handler) ListRooms(c *gin.Context) {
	hotelID, ok := handler.ParseParamID(c, "hotelId", "酒店")
	if !ok {
		return
	}

	rooms, err := h.roomService.ListRooms(c.Request.Context(), hotelID)
	handler.MustSucceed(c, err, response.H{"rooms": rooms})
}

// ListMyRooms 业主获取自己酒店的房间
// @Summary 获取我的房间
// @Tags 房间
// @Produce json
// @Security Bearer
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/room/my-rooms [get]
func (h *Handler) ListMyRooms(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	rooms, err := h.roomService.ListMyRooms(c.Request.Context(), userID)
	handler.MustSucceed(c, err, response.H{"rooms": rooms})
}

// UpdateRoom 更新房间信息
// @Summary 更新房间信息
// @Tags 房间
// @Accept json
// @Produce json
// @Security Bearer
// @Param roomId path int true "房间ID"
// @Param request body hotelService.UpdateRoomRequest true "更新字段"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/room/update/{roomId} [put]
func (h *Handler) UpdateRoom(c *gin.Context) {
	userID, roomID, ok := handler.RequireUserAndParseID(c, "roomId", "房间")
	if !ok {
		return
	}

	var req hotelService.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	room, err := h.roomService.UpdateRoom(c.Request.Context(), roomID, userID, middleware.GetRole(c), &req)
	handler.MustSucceed(c, err, response.H{"room": room})
}

// DeleteRoom 删除房间
// @Summary 删除房间
// @Tags 房间
// @Produce json
// @Security Bearer
// @Param roomId path int true "房间ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /api/v1/room/delete/{roomId} [delete]
func (h *Handler) DeleteRoom(c *gin.Context) {
	userID, roomID, ok := handler.RequireUserAndParseID(c, "roomId", "房间")
	if !ok {
		return
	}

	err := h.roomService.DeleteRoom(c.Request.Context(), roomID, userID, middleware.GetRole(c))
	handler.MustSucceedWithMessage(c, err, "房间已删除", nil)
}

// RegisterRoutes 注册房间路由
func (h *Handler) RegisterRoutes(group *gin.RouterGroup, auth gin.HandlerFunc) {
	room := group.Group("/room")
	{
		room.GET("/get/:roomId", h.GetRoom)
		room.GET("/hotel/:hotelId", h.ListRooms)
		room.GET("/my-rooms", auth, h.ListMyRooms)
		room.POST("/:hotelId/add", auth, h.AddRoom)
		room.PUT("/update/:roomId", auth, h.UpdateRoom)
		room.DELETE("/delete/:roomId", auth, h.DeleteRoom)
	}
}
