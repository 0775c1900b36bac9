package maintenance

import (
	"context"

	"homehub/internal/domain/auth"
	"homehub/internal/domain/lease"
	"homehub/internal/domain/notification"
	"homehub/internal/domain/property"
)

type Notifier interface {
	Push(ctx context.Context, userID int64, t notification.Type, message string) error
}

type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type ContactReader interface {
	Contacts(ctx context.Context, ids []int64) (map[int64]auth.Contact, error)
}

// LeaseReader resolves the lease a ticket is filed against.
type LeaseReader interface {
	GetByID(ctx context.Context, id int64) (*lease.Lease, error)
	ActiveForTenant(ctx context.Context, tenantID, propertyID int64) ([]lease.Lease, error)
}

type PropertyReader interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*property.Property, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]property.Property, error)
	IDsByOwner(ctx context.Context, ownerID int64) ([]int64, error)
}
