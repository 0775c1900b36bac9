package notification

import "homehub/internal/pkg/apperr"

var (
	ErrNotificationNotFound = apperr.NotFound("NOTIFICATION_NOT_FOUND", "notification not found")
	ErrInvalidRecipient     = apperr.Validation("INVALID_RECIPIENT", "notification recipient is required")
	ErrEmptyMessage         = apperr.Validation("EMPTY_MESSAGE", "notification message is required")
)
