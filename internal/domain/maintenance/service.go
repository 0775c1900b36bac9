package maintenance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"homehub/internal/domain/auth"
	"homehub/internal/domain/lease"
	"homehub/internal/domain/notification"
	"homehub/internal/domain/property"
	"homehub/internal/pkg/logger"
	"homehub/internal/pkg/utils"
	"homehub/internal/pkg/validator"
)

type Service struct {
	requests   *Repository
	leases     LeaseReader
	properties PropertyReader
	users      ContactReader
	tx         TxRunner
	notifier   Notifier
}

func NewService(requests *Repository, leases LeaseReader, properties PropertyReader, users ContactReader, tx TxRunner, notifier Notifier) *Service {
	return &Service{
		requests:   requests,
		leases:     leases,
		properties: properties,
		users:      users,
		tx:         tx,
		notifier:   notifier,
	}
}

// File opens a ticket for the tenant. The tenant must hold the referenced
// lease and it must be active; the lease is picked here, never guessed by the
// client.
func (s *Service) File(ctx context.Context, actor auth.Actor, req FileRequest) (*View, error) {
	if !actor.IsTenant() {
		return nil, ErrTenantOnly
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Description = strings.TrimSpace(req.Description)
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	priority, err := ParsePriority(req.Priority)
	if err != nil {
		return nil, err
	}

	var created *Request
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		l, err := s.resolveLease(ctx, actor.ID, int64(req.LeaseID), int64(req.UnitID))
		if err != nil {
			return err
		}
		p, err := s.properties.GetByIDForUpdate(ctx, l.PropertyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNoActiveLease
			}
			return err
		}
		// re-read under the property lock; termination holds the same lock
		if l, err = s.leases.GetByID(ctx, l.ID); err != nil {
			return err
		}
		if l.TenantID != actor.ID || l.Status != lease.StatusActive {
			return ErrNoActiveLease
		}

		r := &Request{
			LeaseID:     l.ID,
			PropertyID:  l.PropertyID,
			TenantID:    actor.ID,
			Title:       req.Title,
			Description: req.Description,
			Priority:    priority,
			Status:      StatusPending,
		}
		if err := s.requests.Create(ctx, r); err != nil {
			return fmt.Errorf("create maintenance request: %w", err)
		}

		msg := fmt.Sprintf("New %s priority maintenance request for %q: %s", priority, p.Title, r.Title)
		if err := s.notifier.Push(ctx, p.OwnerID, notification.TypeMaintenanceFiled, msg); err != nil {
			return fmt.Errorf("notify landlord: %w", err)
		}
		created = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"request_id": created.ID,
		"lease_id":   created.LeaseID,
		"tenant_id":  created.TenantID,
	}).Info("maintenance request filed")

	views, err := s.views(ctx, []Request{*created})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *Service) resolveLease(ctx context.Context, tenantID, leaseID, unitID int64) (*lease.Lease, error) {
	if leaseID > 0 {
		l, err := s.leases.GetByID(ctx, leaseID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNoActiveLease
			}
			return nil, err
		}
		if l.TenantID != tenantID || l.Status != lease.StatusActive {
			return nil, ErrNoActiveLease
		}
		if unitID > 0 && l.PropertyID != unitID {
			return nil, ErrNoActiveLease
		}
		return l, nil
	}

	active, err := s.leases.ActiveForTenant(ctx, tenantID, unitID)
	if err != nil {
		return nil, err
	}
	switch len(active) {
	case 0:
		return nil, ErrNoActiveLease
	case 1:
		return &active[0], nil
	default:
		return nil, ErrAmbiguousLease
	}
}

// UpdateStatus lets the landlord owning the property move a ticket forward.
func (s *Service) UpdateStatus(ctx context.Context, actor auth.Actor, id int64, status string) (*View, error) {
	if !actor.IsLandlord() {
		return nil, ErrLandlordOnly
	}
	target, err := ParseStatus(status)
	if err != nil {
		return nil, err
	}

	var updated *Request
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		r, err := s.requests.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRequestNotFound
			}
			return err
		}
		props, err := s.properties.GetByIDs(ctx, []int64{r.PropertyID})
		if err != nil {
			return err
		}
		p, ok := props[r.PropertyID]
		if !ok || p.OwnerID != actor.ID {
			return ErrNotPropertyOwner
		}

		if r.Status == StatusCompleted {
			return ErrRequestClosed
		}
		if !CanTransition(r.Status, target) {
			return ErrInvalidTransition
		}

		fields := map[string]any{"status": target}
		if target == StatusCompleted {
			now := time.Now().UTC()
			fields["completed_at"] = now
			r.CompletedAt = &now
		}
		ok, err = s.requests.UpdateStatus(ctx, r.ID, r.Status, fields)
		if err != nil {
			return fmt.Errorf("update maintenance request: %w", err)
		}
		if !ok {
			return ErrInvalidTransition
		}
		r.Status = target

		msg := fmt.Sprintf("Your maintenance request %q is now %s.", r.Title, strings.ReplaceAll(string(target), "_", " "))
		if err := s.notifier.Push(ctx, r.TenantID, notification.TypeMaintenanceUpdated, msg); err != nil {
			return fmt.Errorf("notify tenant: %w", err)
		}
		updated = r
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"request_id":  id,
		"landlord_id": actor.ID,
		"status":      target,
	}).Info("maintenance request updated")

	views, err := s.views(ctx, []Request{*updated})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// List returns tickets the actor may see: tenants their own, landlords those
// on their properties, admins all.
func (s *Service) List(ctx context.Context, actor auth.Actor, status string) ([]View, error) {
	var f ListFilter
	if status != "" {
		st, err := ParseStatus(status)
		if err != nil {
			return nil, err
		}
		f.Status = st
	}

	switch {
	case actor.IsAdmin():
	case actor.IsLandlord():
		ids, err := s.properties.IDsByOwner(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		f.ByProperty = true
		f.PropertyIDs = ids
	case actor.IsTenant():
		f.TenantID = actor.ID
	default:
		return []View{}, nil
	}

	items, err := s.requests.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list maintenance requests: %w", err)
	}
	return s.views(ctx, items)
}

func (s *Service) Get(ctx context.Context, actor auth.Actor, id int64) (*View, error) {
	r, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	views, err := s.views(ctx, []Request{*r})
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.ID != r.TenantID {
		props, err := s.properties.GetByIDs(ctx, []int64{r.PropertyID})
		if err != nil {
			return nil, err
		}
		if props[r.PropertyID].OwnerID != actor.ID {
			return nil, ErrRequestNotFound
		}
	}
	return &views[0], nil
}

func (s *Service) views(ctx context.Context, items []Request) ([]View, error) {
	out := make([]View, 0, len(items))
	if len(items) == 0 {
		return out, nil
	}

	propertyIDs := make([]int64, 0, len(items))
	tenantIDs := make([]int64, 0, len(items))
	for _, r := range items {
		propertyIDs = append(propertyIDs, r.PropertyID)
		tenantIDs = append(tenantIDs, r.TenantID)
	}
	props, err := s.properties.GetByIDs(ctx, propertyIDs)
	if err != nil {
		return nil, fmt.Errorf("load properties: %w", err)
	}
	tenants, err := s.users.Contacts(ctx, tenantIDs)
	if err != nil {
		return nil, fmt.Errorf("load tenants: %w", err)
	}

	for _, r := range items {
		p := props[r.PropertyID]
		out = append(out, View{
			Request:       r,
			TenantName:    tenants[r.TenantID].FullName,
			TenantPhone:   tenants[r.TenantID].Phone,
			PropertyName:  p.Title,
			PropertyTitle: p.Title,
			UnitNumber:    unitLabel(p),
			Date:          r.CreatedAt.UTC().Format(utils.DateLayout),
		})
	}
	return out, nil
}

func unitLabel(p property.Property) string {
	if p.UnitNumber != "" {
		return p.UnitNumber
	}
	return p.Title
}
