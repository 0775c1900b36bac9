package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*gin.Engine, *fixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := setup(t, nil)
	h := NewHandler(f.svc)

	r := gin.New()
	api := r.Group("/api")
	h.RegisterPublicRoutes(api)

	protected := api.Group("")
	protected.Use(func(c *gin.Context) {
		id, err := strconv.ParseInt(c.GetHeader("X-Test-User-ID"), 10, 64)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Set("user_id", id)
		c.Set("role", c.GetHeader("X-Test-Role"))
		c.Next()
	})
	h.RegisterProtectedRoutes(protected)
	return r, f
}

func doJSON(r http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHandler_RegisterAndLogin(t *testing.T) {
	r, _ := setupRouter(t)

	rr := doJSON(r, http.MethodPost, "/api/auth/register", map[string]any{
		"full_name": "Jane Tenant", "email": "jane@example.com", "password": "secret123", "role": "tenant", "phone": "0711000000",
	}, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = doJSON(r, http.MethodPost, "/api/auth/register", map[string]any{
		"full_name": "Jane Again", "email": "jane@example.com", "password": "secret123",
	}, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), `"message":"email already registered"`)

	rr = doJSON(r, http.MethodPost, "/api/auth/login", map[string]any{"email": "jane@example.com", "password": "secret123"}, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var login struct {
		AccessToken string `json:"access_token"`
		User        struct {
			ID       int64  `json:"id"`
			Role     string `json:"role"`
			FullName string `json:"full_name"`
			Email    string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &login))
	assert.NotEmpty(t, login.AccessToken)
	assert.Equal(t, "tenant", login.User.Role)
	assert.Equal(t, "Jane Tenant", login.User.FullName)
	assert.Equal(t, "jane@example.com", login.User.Email)

	rr = doJSON(r, http.MethodPost, "/api/auth/login", map[string]any{"email": "jane@example.com", "password": "nope-nope"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestHandler_ProfileFlow(t *testing.T) {
	r, f := setupRouter(t)
	u := register(t, f.svc, "me@example.com", RoleLandlord)
	headers := map[string]string{"X-Test-User-ID": strconv.FormatInt(u.ID, 10), "X-Test-Role": "landlord"}

	rr := doJSON(r, http.MethodGet, "/api/users/profile", nil, headers)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "password")

	rr = doJSON(r, http.MethodPut, "/api/users/profile", map[string]any{"phone": "0722000000"}, headers)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "0722000000")

	rr = doJSON(r, http.MethodPost, "/api/users/verify-upload", map[string]any{"national_id": "123", "kra_pin": "P0001"}, headers)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"verification_status":"pending"`)

	rr = doJSON(r, http.MethodDelete, "/api/users/profile", nil, headers)
	assert.Equal(t, http.StatusOK, rr.Code)
}
