package notification

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homehub/internal/pkg/apperr"
	"homehub/internal/pkg/jwt"
)

// activeUsers treats every id in the set as disabled.
type activeUsers map[int64]bool

func (a activeUsers) EnsureActive(_ context.Context, userID int64) error {
	if a[userID] {
		return apperr.Auth("ACCOUNT_DISABLED", "account is disabled")
	}
	return nil
}

func TestStream_RejectsMissingOrInvalidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, repo := setupService(t)
	h := NewStreamHandler(repo, jwt.New("secret", time.Hour), nil, nil)

	r := gin.New()
	h.RegisterStreamRoute(r.Group("/api"))

	for _, path := range []string{"/api/notifications/stream", "/api/notifications/stream?token=garbage"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
}

func TestStream_RejectsDisabledAccount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, repo := setupService(t)
	jwtService := jwt.New("secret", time.Hour)
	h := NewStreamHandler(repo, jwtService, activeUsers{21: true}, nil)

	r := gin.New()
	h.RegisterStreamRoute(r.Group("/api"))

	token, err := jwtService.GenerateToken(21, "tenant")
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/notifications/stream?token="+token, nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "ACCOUNT_DISABLED")
}

func TestStream_PushesNewNotifications(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, repo := setupService(t)
	jwtService := jwt.New("secret", time.Hour)
	h := NewStreamHandler(repo, jwtService, activeUsers{}, nil)
	h.interval = 20 * time.Millisecond

	ctx := context.Background()
	require.NoError(t, svc.Push(ctx, 11, TypeLeaseApplied, "already there"))

	r := gin.New()
	h.RegisterStreamRoute(r.Group("/api"))
	srv := httptest.NewServer(r)
	defer srv.Close()

	token, err := jwtService.GenerateToken(11, "landlord")
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/notifications/stream?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var first StreamEvent
	require.NoError(t, conn.ReadJSON(&first))
	assert.Equal(t, "unread_count", first.Type)
	require.NotNil(t, first.UnreadCount)
	assert.Equal(t, int64(1), *first.UnreadCount)

	require.NoError(t, svc.Push(ctx, 11, TypeMaintenanceFiled, "Leaking sink"))

	var next StreamEvent
	require.NoError(t, conn.ReadJSON(&next))
	assert.Equal(t, "notification", next.Type)
	require.NotNil(t, next.Notification)
	assert.Equal(t, "Leaking sink", next.Notification.Message)
}
