package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homehub/internal/pkg/apperr"
	"homehub/internal/pkg/jwt"
)

type stubActive struct {
	disabled map[int64]bool
}

func (s stubActive) EnsureActive(_ context.Context, userID int64) error {
	if s.disabled[userID] {
		return apperr.Auth("ACCOUNT_DISABLED", "account is disabled")
	}
	return nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func echoRouter(mw ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(mw...)
	router.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetInt64("user_id"),
			"role":    c.GetString("role"),
		})
	})
	return router
}

func get(router http.Handler, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_ValidToken(t *testing.T) {
	jwtService := jwt.New("test-secret-123", time.Hour)
	token, err := jwtService.GenerateToken(42, "landlord")
	require.NoError(t, err)

	w := get(echoRouter(JWTAuth(jwtService, stubActive{})), "Bearer "+token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":42,"role":"landlord"}`, w.Body.String())
}

func TestJWTAuth_Rejections(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour)
	other := jwt.New("other-secret", time.Hour)
	foreign, _ := other.GenerateToken(1, "tenant")
	disabled, _ := jwtService.GenerateToken(7, "tenant")

	router := echoRouter(JWTAuth(jwtService, stubActive{disabled: map[int64]bool{7: true}}))

	for name, tc := range map[string]struct {
		header string
		code   string
	}{
		"missing":     {"", "AUTH_HEADER_MISSING"},
		"basic":       {"Basic dGVzdA==", "INVALID_AUTH_FORMAT"},
		"empty token": {"Bearer ", "INVALID_AUTH_FORMAT"},
		"garbage":     {"Bearer invalid-jwt-here", "INVALID_TOKEN"},
		"wrong key":   {"Bearer " + foreign, "INVALID_TOKEN"},
		"deactivated": {"Bearer " + disabled, "ACCOUNT_DISABLED"},
	} {
		t.Run(name, func(t *testing.T) {
			w := get(router, tc.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tc.code)
		})
	}
}

func TestJWTAuth_ExpiredToken(t *testing.T) {
	jwtService := jwt.New("secret", -time.Minute)
	token, err := jwtService.GenerateToken(1, "tenant")
	require.NoError(t, err)

	w := get(echoRouter(JWTAuth(jwtService, nil)), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestOptionalAuth(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour)
	token, _ := jwtService.GenerateToken(5, "tenant")
	router := echoRouter(OptionalAuth(jwtService, nil))

	w := get(router, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":0,"role":""}`, w.Body.String())

	w = get(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user_id":5,"role":"tenant"}`, w.Body.String())

	w = get(router, "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRole(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour)
	admin, _ := jwtService.GenerateToken(1, "admin")
	tenant, _ := jwtService.GenerateToken(2, "tenant")
	router := echoRouter(JWTAuth(jwtService, nil), AdminOnly())

	assert.Equal(t, http.StatusOK, get(router, "Bearer "+admin).Code)

	w := get(router, "Bearer "+tenant)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"FORBIDDEN"`)

	w = get(echoRouter(RequireRole("landlord", "admin")), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestInternalTokenAuth(t *testing.T) {
	router := echoRouter(InternalTokenAuth("s3cret"))

	assert.Equal(t, http.StatusOK, get(router, "Bearer s3cret").Code)
	assert.Equal(t, http.StatusUnauthorized, get(router, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(router, "s3cret").Code)
	assert.Equal(t, http.StatusForbidden, get(router, "Bearer wrong").Code)

	closed := echoRouter(InternalTokenAuth(""))
	assert.Equal(t, http.StatusForbidden, get(closed, "Bearer ").Code)
}

func TestRequestIDAndCORS(t *testing.T) {
	router := echoRouter(RequestID(), CORS([]string{"http://localhost:5173"}))

	w := get(router, "")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("X-Request-ID", "abc")
	req.Header.Set("Origin", "http://localhost:5173")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/protected", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	check := OriginChecker([]string{"http://localhost:5173"})
	assert.True(t, check("http://localhost:5173"))
	assert.True(t, check(""))
	assert.False(t, check("http://evil.example"))
}
