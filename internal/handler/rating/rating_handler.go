// Package rating 提供评分相关的 HTTP Handler
package rating

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-booking-backend/internal/common/handler"
	"github.com/dumeirei/hotel-booking-backend/internal/common/response"
	ratingService "github.com/dumeirei/hotel-booking-backend/internal/service/rating"
)

// Handler 评分处理器
type Handler struct {
	ratingService *ratingService.RatingService
}

// NewHandler 创建评分处理器
func NewHandler(ratingSvc *ratingService.RatingService) *Handler {
	return &Handler{
		ratingService: ratingSvc,
	}
}

// RateHotelRequest 评分请求
type RateHotelRequest struct {
	Rating int `json:"rating" binding:"required"`
}

// RateHotel 评价酒店
// @Summary 评价酒店
// @Tags 评分
// @Accept json
// @Produce json
// @Security Bearer
// @Param hotelId path int true "酒店ID"
// @Param request body RateHotelRequest true "评分 1-5"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /api/v1/rating/{hotelId}/rate [post]
func (h *Handler) RateHotel(c *gin.Context) {
	userID, hotelID, ok := handler.RequireUserAndParseID(c, "hotelId", "酒店")
	if !ok {
		return
	}

	var req RateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请提供评分")
		return
	}

	rating, err := h.ratingService.RateHotel(c.Request.Context(), userID, hotelID, req.Rating)
	if handler.HandleError(c, err) {
		return
	}
	response.CreatedWithMessage(c, "评分成功", response.H{"data": rating})
}

// GetHotelRatings 获取酒店评分列表
// @Summary 获取酒店评分
// @Tags 评分
// @Produce json
// @Param hotelId path int true "酒店ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/rating/{hotelId}/ratings [get]
func (h *Handler) GetHotelRatings(c *gin.Context) {
	hotelID, ok := handler.ParseParamID(c, "hotelId", "酒店")
	if !ok {
		return
	}

	ratings, err := h.ratingService.GetHotelRatings(c.Request.Context(), hotelID)
	if handler.HandleError(c, err) {
		return
	}
	response.Success(c, response.H{
		"data": response.H{
			"totalRatings":  ratings.RatingCount,
			"averageRating": ratings.AverageRating,
			"ratings":       ratings.Ratings,
		},
	})
}

// RegisterRoutes 注册评分路由
func (h *Handler) RegisterRoutes(group *gin.RouterGroup, auth gin.HandlerFunc) {
	rating := group.Group("/rating")
	{
		rating.POST("/:hotelId/rate", auth, h.RateHotel)
		rating.GET("/:hotelId/ratings", h.GetHotelRatings)
	}
}
