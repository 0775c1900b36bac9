package notification

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
	unreadLimit      = 50
)

type Service struct {
	repo *Repository
}

func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Push stores a notification for userID. When ctx carries a transaction the
// notification commits or rolls back with it.
func (s *Service) Push(ctx context.Context, userID int64, t Type, message string) error {
	if userID <= 0 {
		return ErrInvalidRecipient
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return ErrEmptyMessage
	}

	return s.repo.Create(ctx, &Notification{
		UserID:  userID,
		Type:    t,
		Message: message,
	})
}

func (s *Service) List(ctx context.Context, userID int64, limit, offset int) ([]Notification, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) Unread(ctx context.Context, userID int64) (*UnreadResponse, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListUnread(ctx, userID, unreadLimit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Notification{}
	}
	return &UnreadResponse{UnreadCount: count, Notifications: items}, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID int64) error {
	err := s.repo.MarkAsRead(ctx, notificationID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

func (s *Service) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *Service) Clear(ctx context.Context, userID int64) (int64, error) {
	return s.repo.DeleteByUser(ctx, userID)
}
