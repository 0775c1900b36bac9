package lease

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

type ContactReader interface {
	Contacts(ctx context.Context, ids []int64) (map[int64]auth.Contact, error)
}
