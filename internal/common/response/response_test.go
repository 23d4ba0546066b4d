package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func createTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	return c, w
}

func parseBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// ==================== 成功响应测试 ====================

func TestSuccess(t *testing.T) {
	c, w := createTestContext()

	Success(c, H{"user": map[string]interface{}{"id": 1, "username": "alice"}})

	assert.Equal(t, http.StatusOK, w.Code)
	body := parseBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.NotNil(t, body["user"])
	_, hasMessage := body["message"]
	assert.False(t, hasMessage)
}

func TestSuccess_NilPayload(t *testing.T) {
	c, w := createTestContext()

	Success(c, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := parseBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body, 1)
}

func TestSuccess_MergesPayloadKeys(t *testing.T) {
	c, w := createTestContext()

	Success(c, H{
		"bookings": []string{},
		"total":    0,
		"page":     1,
	})

	body := parseBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Contains(t, body, "bookings")
	assert.Contains(t, body, "total")
	assert.Contains(t, body, "page")
}

func TestCreated(t *testing.T) {
	c, w := createTestContext()

	Created(c, H{"booking": map[string]interface{}{"id": 100}})

	assert.Equal(t, http.StatusCreated, w.Code)
	body := parseBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.NotNil(t, body["booking"])
}

func TestSuccessWithMessage(t *testing.T) {
	c, w := createTestContext()

	SuccessWithMessage(c, "预订已取消", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := parseBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "预订已取消", body["message"])
}

func TestSuccessWithMessage_WithPayload(t *testing.T) {
	c, w := createTestContext()

	SuccessWithMessage(c, "评分已提交", H{"averageRating": 4.5})

	body := parseBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "评分已提交", body["message"])
	assert.Equal(t, 4.5, body["averageRating"])
}

// ==================== 错误响应测试 ====================

func TestFail(t *testing.T) {
	c, w := createTestContext()

	Fail(c, http.StatusTeapot, "自定义错误")

	assert.Equal(t, http.StatusTeapot, w.Code)
	body := parseBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "自定义错误", body["message"])
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name        string
		fn          func(c *gin.Context, message string)
		message     string
		wantStatus  int
		wantMessage string
	}{
		{"BadRequest", BadRequest, "日期格式无效", http.StatusBadRequest, "日期格式无效"},
		{"BadRequest默认消息", BadRequest, "", http.StatusBadRequest, "参数错误"},
		{"Unauthorized", Unauthorized, "令牌已过期", http.StatusUnauthorized, "令牌已过期"},
		{"Unauthorized默认消息", Unauthorized, "", http.StatusUnauthorized, "未登录"},
		{"Forbidden", Forbidden, "仅限管理员", http.StatusForbidden, "仅限管理员"},
		{"Forbidden默认消息", Forbidden, "", http.StatusForbidden, "权限不足"},
		{"NotFound", NotFound, "酒店不存在", http.StatusNotFound, "酒店不存在"},
		{"NotFound默认消息", NotFound, "", http.StatusNotFound, "资源不存在"},
		{"Conflict", Conflict, "该时段房间已被预订", http.StatusConflict, "该时段房间已被预订"},
		{"Conflict默认消息", Conflict, "", http.StatusConflict, "资源冲突"},
		{"InternalError", InternalError, "数据库连接失败", http.StatusInternalServerError, "数据库连接失败"},
		{"InternalError默认消息", InternalError, "", http.StatusInternalServerError, "内部错误"},
		{"TooManyRequests", TooManyRequests, "短信发送过于频繁", http.StatusTooManyRequests, "短信发送过于频繁"},
		{"TooManyRequests默认消息", TooManyRequests, "", http.StatusTooManyRequests, "请求过于频繁"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := createTestContext()

			tt.fn(c, tt.message)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := parseBody(t, w)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMessage, body["message"])
		})
	}
}

// ==================== 结构测试 ====================

func TestErrorBody_JSONShape(t *testing.T) {
	data, err := json.Marshal(ErrorBody{Success: false, Message: "参数错误"})
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "参数错误", body["message"])
}
