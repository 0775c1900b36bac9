package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _ := setupService(t)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User-ID"); id != "" {
			v, _ := strconv.ParseInt(id, 10, 64)
			c.Set("user_id", v)
		}
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api"))
	return r, svc
}

func doRequest(r http.Handler, method, path string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("X-Test-User-ID", strconv.FormatInt(userID, 10))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHandler_ListAndAlias(t *testing.T) {
	r, svc := setupRouter(t)
	require.NoError(t, svc.Push(context.Background(), 3, TypeLeaseApproved, "Your lease is active"))

	for _, path := range []string{"/api/notifications", "/api/users/notifications"} {
		rr := doRequest(r, http.MethodGet, path, 3)
		require.Equal(t, http.StatusOK, rr.Code, path)

		var items []Notification
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &items))
		require.Len(t, items, 1)
		assert.Equal(t, "Your lease is active", items[0].Message)
	}
}

func TestHandler_UnreadMarkReadAndClear(t *testing.T) {
	r, svc := setupRouter(t)
	ctx := context.Background()
	require.NoError(t, svc.Push(ctx, 3, TypeLeaseApplied, "one"))
	require.NoError(t, svc.Push(ctx, 3, TypeLeaseApplied, "two"))
	items, err := svc.List(ctx, 3, 0, 0)
	require.NoError(t, err)

	rr := doRequest(r, http.MethodGet, "/api/notifications/unread", 3)
	require.Equal(t, http.StatusOK, rr.Code)
	var unread UnreadResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &unread))
	assert.Equal(t, int64(2), unread.UnreadCount)

	rr = doRequest(r, http.MethodPatch, fmt.Sprintf("/api/notifications/%d/read", items[0].ID), 3)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(r, http.MethodPatch, fmt.Sprintf("/api/notifications/%d/read", items[1].ID), 4)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "NOTIFICATION_NOT_FOUND")

	rr = doRequest(r, http.MethodPatch, "/api/notifications/abc/read", 3)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(r, http.MethodDelete, "/api/notifications/clear", 3)
	require.Equal(t, http.StatusOK, rr.Code)
	var cleared ClearResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &cleared))
	assert.Equal(t, int64(2), cleared.Deleted)
}
