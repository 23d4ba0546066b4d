// Package middleware 中间件单元测试
package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dumeirei/hotel-booking-backend/internal/common/jwt"
	"github.com/dumeirei/hotel-booking-backend/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTManager() *jwt.Manager {
	return jwt.NewManager(&jwt.Config{
		Secret:            "middleware-test-secret",
		AccessExpireTime:  time.Hour,
		RefreshExpireTime: 24 * time.Hour,
		Issuer:            "test",
	})
}

// newAuthRouter 注册一条受保护路由，返回登录用户信息
func newAuthRouter(jwtManager *jwt.Manager) *gin.Engine {
	r := gin.New()
	r.GET("/me", Auth(jwtManager), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": GetUserID(c),
			"role":    GetRole(c),
		})
	})
	return r
}

func parseJSONBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestAuth_ValidToken(t *testing.T) {
	jwtManager := newTestJWTManager()
	r := newAuthRouter(jwtManager)

	token, _, err := jwtManager.GenerateAccessToken(42, models.RoleUser)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := parseJSONBody(t, w)
	assert.Equal(t, float64(42), body["user_id"])
	assert.Equal(t, models.RoleUser, body["role"])
}

func TestAuth_MissingToken(t *testing.T) {
	r := newAuthRouter(newTestJWTManager())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := parseJSONBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "请先登录", body["message"])
}

func TestAuth_InvalidToken(t *testing.T) {
	r := newAuthRouter(newTestJWTManager())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := parseJSONBody(t, w)
	assert.Equal(t, "无效的令牌", body["message"])
}

func TestAuth_ExpiredToken(t *testing.T) {
	jwtManager := jwt.NewManager(&jwt.Config{
		Secret:            "middleware-test-secret",
		AccessExpireTime:  time.Millisecond,
		RefreshExpireTime: time.Millisecond,
		Issuer:            "test",
	})
	r := newAuthRouter(jwtManager)

	token, _, err := jwtManager.GenerateAccessToken(1, models.RoleUser)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := parseJSONBody(t, w)
	assert.Equal(t, "登录已过期，请重新登录", body["message"])
}

func TestAuth_TokenFromQueryParam(t *testing.T) {
	jwtManager := newTestJWTManager()
	r := newAuthRouter(jwtManager)

	token, _, err := jwtManager.GenerateAccessToken(7, models.RoleHotelOwner)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me?token="+token, nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := parseJSONBody(t, w)
	assert.Equal(t, float64(7), body["user_id"])
}

func TestAuth_TokenFromCookie(t *testing.T) {
	jwtManager := newTestJWTManager()
	r := newAuthRouter(jwtManager)

	token, _, err := jwtManager.GenerateAccessToken(8, models.RoleUser)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalAuth(t *testing.T) {
	jwtManager := newTestJWTManager()
	r := gin.New()
	r.GET("/public", OptionalAuth(jwtManager), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"logged_in": IsLoggedIn(c), "user_id": GetUserID(c)})
	})

	t.Run("无令牌也放行", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/public", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		body := parseJSONBody(t, w)
		assert.Equal(t, false, body["logged_in"])
		assert.Equal(t, float64(0), body["user_id"])
	})

	t.Run("有令牌则写入身份", func(t *testing.T) {
		token, _, err := jwtManager.GenerateAccessToken(9, models.RoleUser)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/public", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		body := parseJSONBody(t, w)
		assert.Equal(t, true, body["logged_in"])
		assert.Equal(t, float64(9), body["user_id"])
	})

	t.Run("无效令牌当作未登录", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/public", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		body := parseJSONBody(t, w)
		assert.Equal(t, false, body["logged_in"])
	})
}

func TestAdminAuth(t *testing.T) {
	jwtManager := newTestJWTManager()
	r := gin.New()
	r.GET("/admin", AdminAuth(jwtManager), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	t.Run("管理员放行", func(t *testing.T) {
		token, _, err := jwtManager.GenerateAccessToken(1, models.RoleAdmin)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("普通用户拒绝", func(t *testing.T) {
		token, _, err := jwtManager.GenerateAccessToken(2, models.RoleUser)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		body := parseJSONBody(t, w)
		assert.Equal(t, "需要管理员权限", body["message"])
	})

	t.Run("未登录拒绝", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// 非管理员请求管理端写接口时，处理器不得执行，响应体只含一个 403 信封
func TestAdminAuth_NonAdminNeverReachesHandler(t *testing.T) {
	jwtManager := newTestJWTManager()

	handlerExecuted := false
	r := gin.New()
	r.DELETE("/admin/users/:userId", AdminAuth(jwtManager), func(c *gin.Context) {
		handlerExecuted = true
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "用户已删除"})
	})

	token, _, err := jwtManager.GenerateAccessToken(2, models.RoleUser)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/admin/users/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.False(t, handlerExecuted)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 响应体必须是单个 JSON 对象，不能拼接处理器的输出
	body := parseJSONBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "需要管理员权限", body["message"])
}

func TestRequireRoles(t *testing.T) {
	newRouter := func(mw gin.HandlerFunc, role string) *gin.Engine {
		r := gin.New()
		r.GET("/resource", func(c *gin.Context) {
			if role != "" {
				c.Set(ContextKeyUserID, int64(1))
				c.Set(ContextKeyRole, role)
			}
		}, mw, func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})
		return r
	}

	tests := []struct {
		name       string
		mw         gin.HandlerFunc
		role       string
		wantStatus int
	}{
		{"管理员访问管理接口", RequireAdmin(), models.RoleAdmin, http.StatusOK},
		{"业主访问管理接口", RequireAdmin(), models.RoleHotelOwner, http.StatusForbidden},
		{"业主访问业主接口", RequireHotelOwner(), models.RoleHotelOwner, http.StatusOK},
		{"用户访问业主接口", RequireHotelOwner(), models.RoleUser, http.StatusForbidden},
		{"业主访问业主或管理员接口", RequireOwnerOrAdmin(), models.RoleHotelOwner, http.StatusOK},
		{"管理员访问业主或管理员接口", RequireOwnerOrAdmin(), models.RoleAdmin, http.StatusOK},
		{"用户访问业主或管理员接口", RequireOwnerOrAdmin(), models.RoleUser, http.StatusForbidden},
		{"未登录访问", RequireOwnerOrAdmin(), "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(tt.mw, tt.role)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/resource", nil)
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
