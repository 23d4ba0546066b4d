// Package user 提供用户相关的 HTTP Handler
package user

import (
	"github.com/gin-gonic/gin"

	apperrors "github.com/dumeirei/hotel-booking-backend/internal/common/errors"
	"github.com/dumeirei/hotel-booking-backend/internal/common/handler"
	"github.com/dumeirei/hotel-booking-backend/internal/common/response"
	"github.com/dumeirei/hotel-booking-backend/internal/common/utils"
	authService "github.com/dumeirei/hotel-booking-backend/internal/service/auth"
	userService "github.com/dumeirei/hotel-booking-backend/internal/service/user"
)

// Handler 用户处理器
type Handler struct {
	authService *authService.AuthService
	userService *userService.UserService
	codeService *authService.CodeService
}

// NewHandler 创建用户处理器
func NewHandler(authSvc *authService.AuthService, userSvc *userService.UserService, codeSvc *authService.CodeService) *Handler {
	return &Handler{
		authService: authSvc,
		userService: userSvc,
		codeService: codeSvc,
	}
}

// RefreshTokenRequest 刷新令牌请求
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// SendCodeRequest 发送验证码请求
type SendCodeRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
}

// BindPhoneRequest 绑定手机号请求
type BindPhoneRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Code        string `json:"code" binding:"required"`
}

// Register 注册
// @Summary 用户注册
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body authService.RegisterRequest true "注册信息"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 409 {object} response.ErrorBody
// @Router /api/v1/user/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req authService.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if handler.HandleError(c, err) {
		return
	}
	response.Created(c, response.H{"user": user})
}

// Login 登录
// @Summary 用户登录
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body authService.LoginRequest true "登录凭证"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /api/v1/user/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req authService.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if handler.HandleError(c, err) {
		return
	}
	response.Success(c, response.H{
		"user":  resp.User,
		"token": resp.TokenPair,
	})
}

// Logout 退出登录
// @Summary 退出登录
// @Tags 用户
// @Produce json
// @Security Bearer
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/user/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	err := h.authService.Logout(c.Request.Context(), userID)
	handler.MustSucceedWithMessage(c, err, "已退出登录", nil)
}

// RefreshToken 刷新令牌
// @Summary 刷新令牌
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body RefreshTokenRequest true "刷新令牌"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} response.ErrorBody
// @Router /api/v1/user/refresh [post]
func (h *Handler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请提供刷新令牌")
		return
	}

	pair, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	handler.MustSucceed(c, err, response.H{"token": pair})
}

// GetProfile 获取个人信息
// @Summary 获取个人信息
// @Tags 用户
// @Produce json
// @Security Bearer
// @Success 200 {object} map[string]interface{}
// @Router /api/v1/user/profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	handler.MustSucceed(c, err, response.H{"user": profile})
}

// UpdateProfile 更新个人信息
// @Summary 更新个人信息
// @Tags 用户
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body userService.UpdateProfileRequest true "更新字段"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Router /api/v1/user/profile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req userService.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), userID, &req)
	handler.MustSucceed(c, err, response.H{"user": profile})
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Tags 用户
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body userService.ChangePasswordRequest true "新旧密码"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Router /api/v1/user/password [put]
func (h *Handler) ChangePassword(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req userService.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	err := h.userService.ChangePassword(c.Request.Context(), userID, &req)
	handler.MustSucceedWithMessage(c, err, "密码修改成功", nil)
}

// SendCode 发送手机绑定验证码
// @Summary 发送手机绑定验证码
// @Tags 用户
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body SendCodeRequest true "手机号"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 429 {object} response.ErrorBody
// @Router /api/v1/user/send-code [post]
func (h *Handler) SendCode(c *gin.Context) {
	var req SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}
	if !utils.ValidatePhone(req.PhoneNumber) {
		handler.HandleError(c, apperrors.ErrPhoneInvalid)
		return
	}

	err := h.codeService.SendCode(c.Request.Context(), req.PhoneNumber, authService.CodeTypeBind)
	handler.MustSucceedWithMessage(c, err, "验证码已发送", nil)
}

// BindPhone 绑定手机号
// @Summary 验证短信验证码并绑定手机号
// @Tags 用户
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body BindPhoneRequest true "手机号和验证码"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Router /api/v1/user/phone [put]
func (h *Handler) BindPhone(c *gin.Context) {
	userID, ok := handler.RequireUserID(c)
	if !ok {
		return
	}

	var req BindPhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	valid, err := h.codeService.VerifyCode(c.Request.Context(), req.PhoneNumber, req.Code, authService.CodeTypeBind)
	if handler.HandleError(c, err) {
		return
	}
	if !valid {
		handler.HandleError(c, apperrors.ErrCodeInvalid)
		return
	}

	profile, err := h.userService.UpdateProfile(c.Request.Context(), userID, &userService.UpdateProfileRequest{
		Phone: &req.PhoneNumber,
	})
	handler.MustSucceed(c, err, response.H{"user": profile})
}

// RegisterRoutes 注册用户路由
func (h *Handler) RegisterRoutes(group *gin.RouterGroup, auth gin.HandlerFunc) {
	user := group.Group("/user")
	{
		user.POST("/register", h.Register)
		user.POST("/login", h.Login)
		user.POST("/refresh", h.RefreshToken)
		user.POST("/logout", auth, h.Logout)
		user.GET("/profile", auth, h.GetProfile)
		user.PUT("/profile", auth, h.UpdateProfile)
		user.PUT("/password", auth, h.ChangePassword)
		user.POST("/send-code", auth, h.SendCode)
		user.PUT("/phone", auth, h.BindPhone)
	}
}
