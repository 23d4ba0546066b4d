// Package response 提供统一的 API 响应格式
//
// 成功响应形如 {"success": true, ...}，错误响应形如 {"success": false, "message": "..."}，
// 错误类型通过 HTTP 状态码区分（400 参数错误、403 无权限、404 不存在、409 冲突、500 内部错误）。
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// H 响应负载，success 字段由各辅助函数注入
type H = gin.H

// ErrorBody 错误响应结构 (Swagger文档使用)
type ErrorBody struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message"`
}

// Success 成功响应，payload 的键值并入响应体
func Success(c *gin.Context, payload H) {
	c.JSON(http.StatusOK, withSuccess(payload))
}

// Created 创建成功响应 (201)
func Created(c *gin.Context, payload H) {
	c.JSON(http.StatusCreated, withSuccess(payload))
}

// SuccessWithMessage 成功响应（带消息）
func SuccessWithMessage(c *gin.Context, message string, payload H) {
	body := withSuccess(payload)
	body["message"] = message
	c.JSON(http.StatusOK, body)
}

// CreatedWithMessage 创建成功响应（带消息，201）
func CreatedWithMessage(c *gin.Context, message string, payload H) {
	body := withSuccess(payload)
	body["message"] = message
	c.JSON(http.StatusCreated, body)
}

// Fail 错误响应
func Fail(c *gin.Context, status int, message string) {
	c.JSON(status, H{
		"success": false,
		"message": message,
	})
}

// BadRequest 请求参数错误
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "参数错误"
	}
	Fail(c, http.StatusBadRequest, message)
}

// Unauthorized 未授权
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "未登录"
	}
	Fail(c, http.StatusUnauthorized, message)
}

// Forbidden 禁止访问
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "权限不足"
	}
	Fail(c, http.StatusForbidden, message)
}

// NotFound 资源不存在
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "资源不存在"
	}
	Fail(c, http.StatusNotFound, message)
}

// Conflict 资源冲突
func Conflict(c *gin.Context, message string) {
	if message == "" {
		message = "资源冲突"
	}
	Fail(c, http.StatusConflict, message)
}

// InternalError 服务器内部错误
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "内部错误"
	}
	Fail(c, http.StatusInternalServerError, message)
}

// TooManyRequests 请求过于频繁
func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = "请求过于频繁"
	}
	Fail(c, http.StatusTooManyRequests, message)
}

func withSuccess(payload H) H {
	body := H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	return body
}
