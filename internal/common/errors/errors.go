// Package errors 定义业务错误码和错误处理
package errors

import (
	"fmt"
	"net/http"
)

// AppError 应用错误
type AppError struct {
	Code    int    `json:"code"`
	Status  int    `json:"-"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新的应用错误
func New(code, status int, message string) *AppError {
	return &AppError{
		Code:    code,
		Status:  status,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(code, status int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Status:  status,
		Message: message,
		Err:     err,
	}
}

// WithMessage 修改错误消息
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		Code:    e.Code,
		Status:  e.Status,
		Message: message,
		Err:     e.Err,
	}
}

// WithError 添加原始错误
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Status:  e.Status,
		Message: e.Message,
		Err:     err,
	}
}

// 通用错误码 (1000-1999)
var (
	ErrUnknown         = New(1000, http.StatusInternalServerError, "未知错误")
	ErrInvalidParams   = New(1001, http.StatusBadRequest, "参数错误")
	ErrNotFound        = New(1002, http.StatusNotFound, "资源不存在")
	ErrAlreadyExists   = New(1003, http.StatusConflict, "资源已存在")
	ErrDatabaseError   = New(1004, http.StatusInternalServerError, "数据库错误")
	ErrCacheError      = New(1005, http.StatusInternalServerError, "缓存错误")
	ErrInternalError   = New(1006, http.StatusInternalServerError, "内部错误")
	ErrExternalService = New(1007, http.StatusInternalServerError, "外部服务错误")
	ErrRateLimitExceed = New(1008, http.StatusTooManyRequests, "请求过于频繁")
	ErrOperationFailed = New(1009, http.StatusInternalServerError, "操作失败")
)

// 认证错误码 (2000-2999)
var (
	ErrUnauthorized     = New(2000, http.StatusUnauthorized, "未登录")
	ErrTokenExpired     = New(2001, http.StatusUnauthorized, "登录已过期")
	ErrTokenInvalid     = New(2002, http.StatusUnauthorized, "无效的令牌")
	ErrTokenRefreshFail = New(2003, http.StatusUnauthorized, "刷新令牌失败")
	ErrPermissionDenied = New(2004, http.StatusForbidden, "权限不足")
	ErrAccountDisabled  = New(2005, http.StatusForbidden, "账号已禁用")
	ErrPasswordError    = New(2006, http.StatusBadRequest, "密码错误")
	ErrSMSTooFrequent   = New(2007, http.StatusTooManyRequests, "短信发送过于频繁，请稍后再试")
	ErrSMSDailyLimit    = New(2008, http.StatusTooManyRequests, "今日短信发送次数已达上限")
	ErrCodeInvalid      = New(2009, http.StatusBadRequest, "验证码错误或已过期")
)

// 用户错误码 (3000-3999)
var (
	ErrUserNotFound     = New(3000, http.StatusNotFound, "用户不存在")
	ErrUserExists       = New(3001, http.StatusConflict, "用户已存在")
	ErrEmailExists      = New(3002, http.StatusConflict, "邮箱已被注册")
	ErrUsernameExists   = New(3003, http.StatusConflict, "用户名已被使用")
	ErrNameTooShort     = New(3004, http.StatusBadRequest, "姓名至少5个字符")
	ErrUsernameTooShort = New(3008, http.StatusBadRequest, "用户名至少3个字符")
	ErrLoginFailed      = New(3009, http.StatusBadRequest, "邮箱或密码错误")
	ErrEmailInvalid     = New(3005, http.StatusBadRequest, "无效的邮箱格式")
	ErrPasswordWeak     = New(3006, http.StatusBadRequest, "密码至少8位")
	ErrPhoneInvalid     = New(3007, http.StatusBadRequest, "无效的手机号")
)

// 酒店错误码 (4000-4999)
var (
	ErrHotelNotFound  = New(4000, http.StatusNotFound, "酒店不存在")
	ErrHotelExists    = New(4001, http.StatusConflict, "酒店已存在")
	ErrHotelNotOwned  = New(4002, http.StatusForbidden, "无权操作该酒店")
	ErrOwnerHasHotel  = New(4003, http.StatusConflict, "该业主已有酒店")
	ErrNoHotelForUser = New(4004, http.StatusNotFound, "当前用户名下无酒店")
)

// 房间错误码 (5000-5999)
var (
	ErrRoomNotFound    = New(5000, http.StatusNotFound, "房间不存在")
	ErrRoomTypeInvalid = New(5001, http.StatusBadRequest, "无效的房型")
	ErrRoomNotOwned    = New(5002, http.StatusForbidden, "无权操作该房间")
	ErrRoomExists      = New(5003, http.StatusConflict, "房间号已存在")
	ErrRoomHasBookings = New(5004, http.StatusConflict, "房间存在未结束的预订")
)

// 预订错误码 (6000-6999)
var (
	ErrBookingNotFound      = New(6000, http.StatusNotFound, "预订不存在")
	ErrBookingConflict      = New(6001, http.StatusConflict, "该时段房间已被预订")
	ErrInvalidDateRange     = New(6002, http.StatusBadRequest, "退房日期必须晚于入住日期")
	ErrBookingStatusInvalid = New(6003, http.StatusBadRequest, "无效的预订状态")
	ErrBookingNotOwned      = New(6004, http.StatusForbidden, "无权操作该预订")
	ErrRoomNotAvailable     = New(6005, http.StatusConflict, "房间不可用")
)

// 评分错误码 (7000-7999)
var (
	ErrRatingOutOfRange  = New(7000, http.StatusBadRequest, "评分必须在1到5之间")
	ErrRatingNotEligible = New(7001, http.StatusForbidden, "完成入住后才能评分")
	ErrRatingExists      = New(7002, http.StatusConflict, "您已评价过该酒店")
)

// 上传错误码 (8000-8999)
var (
	ErrUploadFailed    = New(8000, http.StatusInternalServerError, "上传失败")
	ErrFileTypeInvalid = New(8001, http.StatusBadRequest, "不支持的文件类型")
	ErrFileTooLarge    = New(8002, http.StatusBadRequest, "文件过大")
)

// IsAppError 判断是否为应用错误
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetAppError 获取应用错误
func GetAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrUnknown.WithError(err)
}
