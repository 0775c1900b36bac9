package auth

import (
	"context"

	"homehub/internal/domain/notification"
)

// Notifier delivers user notifications; calls inside a transaction join it.
type Notifier interface {
	Push(ctx context.Context, userID int64, t notification.Type, message string) error
}

type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type TokenIssuer interface {
	GenerateToken(userID int64, role string) (string, error)
}

// LeaseChecker reports whether a user is bound by an active lease, as tenant
// or as owner of the leased property.
type LeaseChecker interface {
	HasActiveLeaseForUser(ctx context.Context, userID int64) (bool, error)
}
