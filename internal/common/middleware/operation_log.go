package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-booking-backend/internal/models"
	"github.com/dumeirei/hotel-booking-backend/internal/repository"
)

// OperationLogger 操作日志中间件，记录管理员与业主的写操作
type OperationLogger struct {
	repo *repository.OperationLogRepository
}

// NewOperationLogger 创建操作日志中间件
func NewOperationLogger(repo *repository.OperationLogRepository) *OperationLogger {
	return &OperationLogger{repo: repo}
}

// OperationConfig 操作配置
type OperationConfig struct {
	Module      string
	Action      string
	TargetType  string
	GetTargetID func(*gin.Context) *int64
}

// moduleActionMap 路由到操作的映射
var moduleActionMap = map[string]OperationConfig{
	"POST /hotel/create": {
		Module:     "hotel",
		Action:     "create",
		TargetType: "hotel",
	},
	"PUT /hotel/update/:hotelId": {
		Module:     "hotel",
		Action:     "update",
		TargetType: "hotel",
	},
	"DELETE /hotel/delete/:hotelId": {
		Module:     "hotel",
		Action:     "delete",
		TargetType: "hotel",
	},
	"POST /room/:hotelId/add": {
		Module:     "room",
		Action:     "create",
		TargetType: "hotel",
	},
	"PUT /room/update/:roomId": {
		Module:     "room",
		Action:     "update",
		TargetType: "room",
	},
	"DELETE /room/delete/:roomId": {
		Module:     "room",
		Action:     "delete",
		TargetType: "room",
	},
	"PUT /booking/update-booking/:bookingId": {
		Module:     "booking",
		Action:     "update_status",
		TargetType: "booking",
	},
	"PUT /admin/users/:userId/role": {
		Module:     "user",
		Action:     "update_role",
		TargetType: "user",
	},
	"PUT /admin/users/:userId/ban": {
		Module:     "user",
		Action:     "update_ban",
		TargetType: "user",
	},
	"DELETE /admin/users/:userId": {
		Module:     "user",
		Action:     "delete",
		TargetType: "user",
	},
}

// targetParams 路径参数到目标 ID 的候选名
var targetParams = []string{"hotelId", "roomId", "bookingId", "userId", "id"}

// Log 操作日志中间件处理函数
func (l *OperationLogger) Log() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 只记录写操作
		if !l.shouldLog(c) {
			c.Next()
			return
		}

		// 读取请求体
		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		// 执行处理
		c.Next()

		// 记录日志（异步）
		go l.logOperation(c, requestBody)
	}
}

// shouldLog 判断是否需要记录日志
func (l *OperationLogger) shouldLog(c *gin.Context) bool {
	method := c.Request.Method
	// 只记录写操作
	return method == "POST" || method == "PUT" || method == "DELETE" || method == "PATCH"
}

// logOperation 记录操作日志
func (l *OperationLogger) logOperation(c *gin.Context, requestBody []byte) {
	if l.repo == nil {
		return
	}

	// 获取路由配置
	path := c.FullPath()
	routeKey := c.Request.Method + " " + path
	config, ok := moduleActionMap[routeKey]
	if !ok && strings.HasPrefix(path, "/api/") {
		// 路由组带 /api/v1 前缀，映射表里的键不带
		trimmed := strings.TrimPrefix(strings.TrimPrefix(path, "/api"), "/v1")
		config, ok = moduleActionMap[c.Request.Method+" "+trimmed]
	}
	if !ok {
		// 未映射的路由走通用推断
		config = l.getDefaultConfig(c)
	}

	// 只审计管理员和业主的操作
	operatorID, ok := l.getOperatorID(c)
	if !ok {
		return
	}

	log := &models.OperationLog{
		OperatorID: operatorID,
		Module:     config.Module,
		Action:     config.Action,
		IP:         c.ClientIP(),
	}

	userAgent := c.Request.UserAgent()
	if userAgent != "" {
		log.UserAgent = &userAgent
	}

	if config.TargetType != "" {
		targetType := config.TargetType
		log.TargetType = &targetType
	}
	if config.GetTargetID != nil {
		log.TargetID = config.GetTargetID(c)
	} else if targetID := l.getTargetID(c); targetID != nil {
		log.TargetID = targetID
	}

	// 请求体过滤敏感字段后作为操作内容保存
	if len(requestBody) > 0 {
		var data interface{}
		if err := json.Unmarshal(requestBody, &data); err == nil {
			filteredData := l.filterSensitiveData(data)
			if mapData, ok := filteredData.(map[string]interface{}); ok {
				log.RequestData = models.JSON(mapData)
			}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = l.repo.Create(ctx, log)
}

// getOperatorID 获取操作人 ID，仅管理员和业主的操作会被审计
func (l *OperationLogger) getOperatorID(c *gin.Context) (int64, bool) {
	role, _ := c.Get("role")
	roleStr, ok := role.(string)
	if !ok {
		return 0, false
	}
	if roleStr != models.RoleAdmin && roleStr != models.RoleHotelOwner {
		return 0, false
	}

	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(int64); ok {
			return id, true
		}
	}
	return 0, false
}

// getDefaultConfig 获取默认配置
func (l *OperationLogger) getDefaultConfig(c *gin.Context) OperationConfig {
	path := c.FullPath()
	method := c.Request.Method

	// 从路径推断模块
	module := "unknown"
	switch {
	case strings.Contains(path, "/hotel"):
		module = "hotel"
	case strings.Contains(path, "/room"):
		module = "room"
	case strings.Contains(path, "/booking"):
		module = "booking"
	case strings.Contains(path, "/rating"):
		module = "rating"
	case strings.Contains(path, "/users"):
		module = "user"
	case strings.Contains(path, "/upload"):
		module = "upload"
	}

	// 从方法推断操作
	action := "unknown"
	switch method {
	case "POST":
		action = "create"
	case "PUT", "PATCH":
		action = "update"
	case "DELETE":
		action = "delete"
	}

	return OperationConfig{
		Module: module,
		Action: action,
	}
}

// getTargetID 从路径参数获取目标 ID
func (l *OperationLogger) getTargetID(c *gin.Context) *int64 {
	for _, name := range targetParams {
		idStr := c.Param(name)
		if idStr == "" {
			continue
		}
		if id, err := json.Number(idStr).Int64(); err == nil {
			return &id
		}
	}
	return nil
}

// filterSensitiveData 过滤敏感数据
func (l *OperationLogger) filterSensitiveData(data interface{}) interface{} {
	sensitiveFields := []string{
		"password", "old_password", "new_password", "confirm_password",
		"token", "access_token", "refresh_token",
		"secret", "api_key", "api_secret",
	}

	switch v := data.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{})
		for key, value := range v {
			lowerKey := strings.ToLower(key)
			isSensitive := false
			for _, sf := range sensitiveFields {
				if strings.Contains(lowerKey, sf) {
					isSensitive = true
					break
				}
			}
			if isSensitive {
				result[key] = "***"
			} else {
				result[key] = l.filterSensitiveData(value)
			}
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = l.filterSensitiveData(item)
		}
		return result
	default:
		return data
	}
}

// LogWithConfig 使用自定义配置记录操作日志
func (l *OperationLogger) LogWithConfig(config OperationConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var requestBody []byte
		if c.Request.Body != nil {
			requestBody, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(requestBody))
		}

		c.Next()

		go l.logOperationWithConfig(c, requestBody, config)
	}
}

// logOperationWithConfig 使用自定义配置记录操作日志
func (l *OperationLogger) logOperationWithConfig(c *gin.Context, requestBody []byte, config OperationConfig) {
	if l.repo == nil {
		return
	}

	operatorID, ok := l.getOperatorID(c)
	if !ok {
		return
	}

	log := &models.OperationLog{
		OperatorID: operatorID,
		Module:     config.Module,
		Action:     config.Action,
		IP:         c.ClientIP(),
	}

	userAgent := c.Request.UserAgent()
	if userAgent != "" {
		log.UserAgent = &userAgent
	}

	if config.TargetType != "" {
		targetType := config.TargetType
		log.TargetType = &targetType
	}
	if config.GetTargetID != nil {
		log.TargetID = config.GetTargetID(c)
	} else if targetID := l.getTargetID(c); targetID != nil {
		log.TargetID = targetID
	}

	if len(requestBody) > 0 {
		var data interface{}
		if err := json.Unmarshal(requestBody, &data); err == nil {
			filteredData := l.filterSensitiveData(data)
			if mapData, ok := filteredData.(map[string]interface{}); ok {
				log.RequestData = models.JSON(mapData)
			}
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = l.repo.Create(ctx, log)
}
