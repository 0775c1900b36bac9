package admin

import (
	"context"

	"homehub/internal/domain/auth"
	"homehub/internal/domain/lease"
	"homehub/internal/domain/property"
)

type UserDirectory interface {
	ListPendingLandlords(ctx context.Context) ([]auth.User, error)
	ListUsers(ctx context.Context, role auth.Role) ([]auth.User, error)
	SetVerification(ctx context.Context, actor auth.Actor, userID int64, status auth.VerificationStatus) (*auth.User, error)
	CountByRole(ctx context.Context) ([]auth.RoleCount, error)
}

type PropertyCounter interface {
	CountByStatus(ctx context.Context) ([]property.StatusCount, error)
}

type LeaseCounter interface {
	CountByStatus(ctx context.Context) ([]lease.StatusCount, error)
}
