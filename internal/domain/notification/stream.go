package notification

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"homehub/internal/pkg/jwt"
	"homehub/internal/pkg/logger"
	"homehub/internal/pkg/response"
)

const (
	streamPollInterval = 2 * time.Second
	streamPingInterval = 30 * time.Second
	streamPongWait     = 60 * time.Second
	streamWriteWait    = 10 * time.Second
	streamBatch        = 50
)

// ActiveChecker rejects users whose account was disabled after their token
// was issued.
type ActiveChecker interface {
	EnsureActive(ctx context.Context, userID int64) error
}

// StreamHandler pushes new notifications over a websocket. Each connection
// polls the store on its own; nothing is shared between connections.
type StreamHandler struct {
	repo       *Repository
	jwtService *jwt.Service
	users      ActiveChecker
	upgrader   websocket.Upgrader
	interval   time.Duration
}

// NewStreamHandler builds the websocket handler. allowOrigin decides whether a
// browser origin may connect.
func NewStreamHandler(repo *Repository, jwtService *jwt.Service, users ActiveChecker, allowOrigin func(origin string) bool) *StreamHandler {
	return &StreamHandler{
		repo:       repo,
		jwtService: jwtService,
		users:      users,
		interval:   streamPollInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowOrigin == nil || allowOrigin(origin)
			},
		},
	}
}

// Stream handles GET /notifications/stream?token=JWT
func (s *StreamHandler) Stream(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.CustomError(c, http.StatusUnauthorized, "AUTH_TOKEN_MISSING", "Token is required")
		return
	}
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		response.CustomError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}
	userID := claims.UserID
	if s.users != nil {
		if err := s.users.EnsureActive(c.Request.Context(), userID); err != nil {
			response.HandleError(c, err)
			return
		}
	}

	lastID, err := s.repo.LatestID(c.Request.Context(), userID)
	if err != nil {
		response.HandleError(c, err)
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	log := logger.Log.WithField("user_id", userID)
	log.Info("notification stream connected")
	defer log.Info("notification stream disconnected")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.WithError(err).Debug("notification stream read failed")
				}
				return
			}
		}
	}()

	if unread, err := s.repo.CountUnread(ctx, userID); err == nil {
		if err := s.write(conn, StreamEvent{Type: "unread_count", UnreadCount: &unread}); err != nil {
			return
		}
	}

	poll := time.NewTicker(s.interval)
	defer poll.Stop()
	ping := time.NewTicker(streamPingInterval)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-poll.C:
			items, err := s.repo.ListAfter(ctx, userID, lastID, streamBatch)
			if err != nil {
				log.WithError(err).Warn("notification stream poll failed")
				continue
			}
			for i := range items {
				if err := s.write(conn, StreamEvent{Type: "notification", Notification: &items[i]}); err != nil {
					return
				}
				lastID = items[i].ID
			}
		}
	}
}

func (s *StreamHandler) write(conn *websocket.Conn, ev StreamEvent) error {
	conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
	return conn.WriteJSON(ev)
}
