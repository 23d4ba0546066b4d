// Package hotel 提供酒店和房间相关的 HTTP Handler
package hotel

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-booking-backend/internal/common/handler"
	"github.com/dumeirei/hotel-booking-backend/internal/common/response"
	"github.com/dumeirei/hotel-booking-backend/internal/middleware"
	hotelService "github.com/dumeirei/hotel-booking-backend/internal/service/hotel"
)

// Handler 酒店处理器
type Handler struct {
	hotelService *hotelService.HotelService
}

// NewHandler 创建酒店处理器
func NewHandler(hotelSvc *hotelService.HotelService) *Handler {
	return &Handler{
		hotelService: hotelSvc,
	}
}

// CreateHotel 管理员创建酒店并开通业主账号
// @Summary 创建酒店
// @Tags 酒店
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body hotelService.CreateHotelRequest true "酒店信息和业主账号"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /api/v1/hotel/create [post]
func (h *Handler) CreateHotel(c *gin.Context) {
	var req hotelService.CreateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	hotel, err := h.hotelService.CreateHotel(c.Request.Context(), &req)
	if handler.HandleError(c, err) {
		return
	}
	response.Created(c, response.H{"hotel": hotel})
}

// GetHotelList 获取酒店列表
// @Summary 获取酒店列表
// @Tags 酒店
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param name query string false "名称"
// @Param location query string false "地址"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/hotel/get [get]
func (h *Handler) GetHotelList(c *gin.Context) {
	var req hotelService.HotelListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	hotels, total, err := h.hotelService.GetHotelList(c.Request.Context(), &req)
	handler.MustSucceed(c, err, response.H{
		"hotels": hotels,
		"total":  total,
	})
}

// GetHotelDetail 获取酒店详情
// @Summary 获取酒店详情
// @Tags 酒店
// @Produce json
// @Param hotelId path int true "酒店ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/hotel/get/{hotelId} [get]
func (h *Handler) GetHotelDetail(c *gin.Context) {
	hotelID, ok := handler.ParseParamID(c, "hotelId", "酒店")
	if !ok {
		return
	}

	hotel, err := h.hotelService.GetHotelDetail(c.Request.Context(), hotelID)
	handler.MustSucceed(c, err, response.H{"hotel": hotel})
}

// UpdateHotel 更新酒店信息
// @Summary 更新酒店信息
// @Tags 酒店
// @Accept json
// @Produce json
// @Security Bearer
// @Param hotelId path int true "酒店ID"
// @Param request body hotelService.UpdateHotelRequest true "更新字段"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/hotel/update/{hotelId} [put]
func (h *Handler) UpdateHotel(c *gin.Context) {
	userID, hotelID, ok := handler.RequireUserAndParseID(c, "hotelId", "酒店")
	if !ok {
		return
	}

	var req hotelService.UpdateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	hotel, err := h.hotelService.UpdateHotel(c.Request.Context(), hotelID, userID, middleware.GetRole(c), &req)
	handler.MustSucceed(c, err, response.H{"hotel": hotel})
}

// DeleteHotel 删除酒店
// @Summary 删除酒店
// @Tags 酒店
// @Produce json
// @Security Bearer
// @Param hotelId path int true "酒店ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/hotel/delete/{hotelId} [delete]
func (h *Handler) DeleteHotel(c *gin.Context) {
	hotelID, ok := handler.ParseParamID(c, "hotelId", "酒店")
	if !ok {
		return
	}

	err := h.hotelService.DeleteHotel(c.Request.Context(), hotelID)
	handler.MustSucceedWithMessage(c, err, "酒店已删除", nil)
}

// GetMyHotel 业主获取自己的酒店
// @Summary 获取我的酒店
// @Tags 酒店
// @Produce json
// @Security Bearer
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/hotel/my-hotel [get]
func (h *Handler) GetMyHotel(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	hotel, err := h.hotelService.GetMyHotel(c.Request.Context(), userID)
	handler.MustSucceed(c, err, response.H{"hotel": hotel})
}

// GetHotelAdminInfo 管理员查看酒店全量信息
// @Summary 获取酒店全量信息
// @Tags 酒店
// @Produce json
// @Security Bearer
// @Param hotelId path int true "酒店ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/hotel/{hotelId}/info [get]
func (h *Handler) GetHotelAdminInfo(c *gin.Context) {
	hotelID, ok := handler.ParseParamID(c, "hotelId", "酒店")
	if !ok {
		return
	}

	hotel, err := h.hotelService.GetHotelAdminInfo(c.Request.Context(), hotelID)
	handler.MustSucceed(c, err, response.H{"hotel": hotel})
}

// RegisterRoutes 注册酒店路由
func (h *Handler) RegisterRoutes(group *gin.RouterGroup, auth, adminOnly, ownerOnly gin.HandlerFunc) {
	hotel := group.Group("/hotel")
	{
		hotel.GET("/get", h.GetHotelList)
		hotel.GET("/get/:hotelId", h.GetHotelDetail)
		hotel.POST("/create", adminOnly, h.CreateHotel)
		hotel.PUT("/update/:hotelId", auth, h.UpdateHotel)
		hotel.DELETE("/delete/:hotelId", adminOnly, h.DeleteHotel)
		hotel.GET("/my-hotel", auth, ownerOnly, h.GetMyHotel)
		hotel.GET("/:hotelId/info", adminOnly, h.GetHotelAdminInfo)
	}
}
