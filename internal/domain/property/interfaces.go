package property

import (
	"context"

	"homehub/internal/domain/auth"
	"homehub/internal/domain/notification"
)

type Notifier interface {
	Push(ctx context.Context, userID int64, t notification.Type, message string) error
}

type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*auth.User, error)
	Contacts(ctx context.Context, ids []int64) (map[int64]auth.Contact, error)
}

// LeaseGuard is the slice of the lease store the catalog needs to keep
// occupied properties intact.
type LeaseGuard interface {
	HasActiveLease(ctx context.Context, propertyID int64) (bool, error)
	ActiveLeaseProperties(ctx context.Context, propertyIDs []int64) (map[int64]bool, error)
	// RejectPending rejects every pending application on the property and
	// returns the affected tenant ids.
	RejectPending(ctx context.Context, propertyID int64) ([]int64, error)
}
