package admin

import (
	"context"
	"fmt"
	"strings"

	"homehub/internal/domain/auth"
)

// Service backs the admin console. It only composes the owning components;
// every state change goes through them.
type Service struct {
	users      UserDirectory
	properties PropertyCounter
	leases     LeaseCounter
}

func NewService(users UserDirectory, properties PropertyCounter, leases LeaseCounter) *Service {
	return &Service{users: users, properties: properties, leases: leases}
}

func (s *Service) PendingLandlords(ctx context.Context, actor auth.Actor) ([]auth.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	return s.users.ListPendingLandlords(ctx)
}

func (s *Service) VerifyLandlord(ctx context.Context, actor auth.Actor, userID int64, action string) (*auth.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	status, err := auth.ParseVerificationAction(action)
	if err != nil {
		return nil, err
	}
	return s.users.SetVerification(ctx, actor, userID, status)
}

// Users lists accounts, optionally restricted to one role.
func (s *Service) Users(ctx context.Context, actor auth.Actor, role string) ([]auth.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	var r auth.Role
	if role = strings.ToLower(strings.TrimSpace(role)); role != "" {
		parsed, ok := auth.ParseRole(role)
		if !ok {
			return nil, ErrInvalidRole
		}
		r = parsed
	}
	return s.users.ListUsers(ctx, r)
}

func (s *Service) Stats(ctx context.Context, actor auth.Actor) (*Stats, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	out := &Stats{
		Users:      map[string]int64{},
		Properties: map[string]int64{},
		Leases:     map[string]int64{},
	}

	roles, err := s.users.CountByRole(ctx)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	for _, rc := range roles {
		out.Users[string(rc.Role)] = rc.Count
		out.TotalUsers += rc.Count
	}

	props, err := s.properties.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count properties: %w", err)
	}
	for _, sc := range props {
		out.Properties[string(sc.Status)] = sc.Count
	}

	leases, err := s.leases.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count leases: %w", err)
	}
	for _, sc := range leases {
		out.Leases[string(sc.Status)] = sc.Count
	}
	return out, nil
}
