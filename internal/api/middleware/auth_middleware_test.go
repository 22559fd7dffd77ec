package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VinhT3rb0/parking-lot-fe-sub000/internal/directory"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, expiresIn time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":      "15",
		"role":     "operator",
		"username": "operator1",
		"exp":      time.Now().Add(expiresIn).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func authTestRouter(m *AuthMiddleware, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", m.Authenticate(), handler)
	return router
}

func TestAuthenticate_ValidToken(t *testing.T) {
	m := NewAuthMiddleware(testSecret)
	token := signToken(t, testSecret, time.Hour)

	var gotRole, gotUsername, forwarded string
	router := authTestRouter(m, func(c *gin.Context) {
		gotRole = c.GetString(UserRoleKey)
		gotUsername = c.GetString(UsernameKey)
		// Token phải được gắn vào context để client Directory chuyển tiếp.
		forwarded = directory.TokenFrom(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthorizationHeaderKey, "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "operator", gotRole)
	assert.Equal(t, "operator1", gotUsername)
	assert.Equal(t, token, forwarded)
}

func TestAuthenticate_Rejections(t *testing.T) {
	m := NewAuthMiddleware(testSecret)

	tests := []struct {
		name   string
		header string
	}{
		{"thiếu header", ""},
		{"sai định dạng", "chỉ-một-trường"},
		{"token rác", "Bearer không-phải-jwt"},
		{"token hết hạn", "Bearer " + signToken(t, testSecret, -time.Hour)},
		{"sai secret", "Bearer " + signToken(t, "secret-khác", time.Hour)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			router := authTestRouter(m, func(c *gin.Context) {
				called = true
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set(AuthorizationHeaderKey, tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.False(t, called)
		})
	}
}

func TestAuthorizeRole(t *testing.T) {
	m := NewAuthMiddleware(testSecret)
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		role     string
		required []string
		want     int
	}{
		{"đúng vai trò", "admin", []string{"admin"}, http.StatusOK},
		{"một trong nhiều vai trò", "operator", []string{"admin", "operator"}, http.StatusOK},
		{"sai vai trò", "operator", []string{"admin"}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/reports",
				func(c *gin.Context) { c.Set(UserRoleKey, tt.role) },
				m.AuthorizeRole(tt.required...),
				func(c *gin.Context) { c.Status(http.StatusOK) },
			)

			req := httptest.NewRequest(http.MethodGet, "/reports", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
		})
	}
}
