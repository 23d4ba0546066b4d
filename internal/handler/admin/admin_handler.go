// Package admin 提供管理端的 HTTP Handler
package admin

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/dumeirei/hotel-booking-backend/internal/common/errors"
	"github.com/dumeirei/hotel-booking-backend/internal/common/handler"
	"github.com/dumeirei/hotel-booking-backend/internal/common/response"
	"github.com/dumeirei/hotel-booking-backend/internal/common/utils"
	"github.com/dumeirei/hotel-booking-backend/internal/repository"
	bookingService "github.com/dumeirei/hotel-booking-backend/internal/service/booking"
	hotelService "github.com/dumeirei/hotel-booking-backend/internal/service/hotel"
	userService "github.com/dumeirei/hotel-booking-backend/internal/service/user"
)

// Handler 管理端处理器
type Handler struct {
	bookingService *bookingService.BookingService
	userService    *userService.UserService
	roomService    *hotelService.RoomService
	opLogRepo      *repository.OperationLogRepository
}

// NewHandler 创建管理端处理器
func NewHandler(
	bookingSvc *bookingService.BookingService,
	userSvc *userService.UserService,
	roomSvc *hotelService.RoomService,
	opLogRepo *repository.OperationLogRepository,
) *Handler {
	return &Handler{
		bookingService: bookingSvc,
		userService:    userSvc,
		roomService:    roomSvc,
		opLogRepo:      opLogRepo,
	}
}

// SetRoleRequest 调整角色请求
type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// SetBanRequest 封禁请求
type SetBanRequest struct {
	IsBan bool `json:"is_ban"`
}

// ListBookings 获取全部预订
// @Summary 获取全部预订
// @Tags 管理端
// @Produce json
// @Security Bearer
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/admin/bookings [get]
func (h *Handler) ListBookings(c *gin.Context) {
	bookings, err := h.bookingService.ListAllBookings(c.Request.Context())
	handler.MustSucceed(c, err, response.H{"bookings": bookings})
}

// ListRooms 获取全部房间
// @Summary 获取全部房间
// @Tags 管理端
// @Produce json
// @Security Bearer
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/admin/rooms [get]
func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.roomService.ListAllRooms(c.Request.Context())
	handler.MustSucceed(c, err, response.H{"rooms": rooms})
}

// ListOperationLogsRequest 操作日志查询参数
type ListOperationLogsRequest struct {
	utils.Pagination
	OperatorID int64  `form:"operator_id"`
	Module     string `form:"module"`
	Action     string `form:"action"`
}

// ListOperationLogs 分页查询操作日志
// @Summary 分页查询操作日志
// @Tags 管理端
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param operator_id query int false "操作人ID"
// @Param module query string false "模块"
// @Param action query string false "动作"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/admin/logs [get]
func (h *Handler) ListOperationLogs(c *gin.Context) {
	var req ListOperationLogsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}
	req.Normalize()

	filters := map[string]interface{}{}
	if req.OperatorID > 0 {
		filters["operator_id"] = req.OperatorID
	}
	if req.Module != "" {
		filters["module"] = req.Module
	}
	if req.Action != "" {
		filters["action"] = req.Action
	}

	logs, total, err := h.opLogRepo.List(c.Request.Context(), filters, req.GetOffset(), req.GetLimit())
	if err != nil {
		err = apperrors.ErrDatabaseError.WithError(err)
	}
	handler.MustSucceed(c, err, response.H{
		"logs":  logs,
		"total": total,
	})
}

// ListUsers 获取用户列表
// @Summary 获取用户列表
// @Tags 管理端
// @Produce json
// @Security Bearer
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Param username query string false "用户名"
// @Param email query string false "邮箱"
// @Param role query string false "角色"
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/admin/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	var req userService.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	users, total, err := h.userService.ListUsers(c.Request.Context(), &req)
	handler.MustSucceed(c, err, response.H{
		"users": users,
		"total": total,
	})
}

// SetUserRole 调整用户角色
// @Summary 调整用户角色
// @Tags 管理端
// @Accept json
// @Produce json
// @Security Bearer
// @Param userId path int true "用户ID"
// @Param request body SetRoleRequest true "目标角色"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/admin/users/{userId}/role [put]
func (h *Handler) SetUserRole(c *gin.Context) {
	userID, ok := handler.ParseParamID(c, "userId", "用户")
	if !ok {
		return
	}

	var req SetRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请提供角色")
		return
	}

	err := h.userService.SetUserRole(c.Request.Context(), userID, req.Role)
	handler.MustSucceedWithMessage(c, err, "角色已更新", nil)
}

// SetUserBan 封禁或解封用户
// @Summary 封禁或解封用户
// @Tags 管理端
// @Accept json
// @Produce json
// @Security Bearer
// @Param userId path int true "用户ID"
// @Param request body SetBanRequest true "封禁状态"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/admin/users/{userId}/ban [put]
func (h *Handler) SetUserBan(c *gin.Context) {
	userID, ok := handler.ParseParamID(c, "userId", "用户")
	if !ok {
		return
	}

	var req SetBanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	err := h.userService.SetUserBan(c.Request.Context(), userID, req.IsBan)
	handler.MustSucceedWithMessage(c, err, "操作成功", nil)
}

// DeleteUser 删除用户
// @Summary 删除用户
// @Tags 管理端
// @Produce json
// @Security Bearer
// @Param userId path int true "用户ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorBody
// @Router /api/v1/admin/users/{userId} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	userID, ok := handler.ParseParamID(c, "userId", "用户")
	if !ok {
		return
	}

	err := h.userService.DeleteUser(c.Request.Context(), userID)
	handler.MustSucceedWithMessage(c, err, "用户已删除", nil)
}

// RegisterRoutes 注册管理端路由，整组要求管理员角色
func (h *Handler) RegisterRoutes(group *gin.RouterGroup, adminOnly gin.HandlerFunc) {
	admin := group.Group("/admin")
	admin.Use(adminOnly)
	{
		admin.GET("/bookings", h.ListBookings)
		admin.GET("/rooms", h.ListRooms)
		admin.GET("/logs", h.ListOperationLogs)
		admin.GET("/users", h.ListUsers)
		admin.PUT("/users/:userId/role", h.SetUserRole)
		admin.PUT("/users/:userId/ban", h.SetUserBan)
		admin.DELETE("/users/:userId", h.DeleteUser)
	}
}
