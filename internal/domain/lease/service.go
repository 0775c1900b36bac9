package lease

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"homehub/internal/database"
	"homehub/internal/domain/auth"
	"homehub/internal/domain/notification"
	"homehub/internal/domain/property"
	"homehub/internal/pkg/logger"
	"homehub/internal/pkg/utils"
	"homehub/internal/pkg/validator"
)

const DefaultTermMonths = 12

// Service runs the lease state machine. Every transition locks the property
// row first and bumps its lease version, so transitions on one property are
// serialized and a lost race surfaces as a conflict.
type Service struct {
	leases     *Repository
	properties *property.Repository
	users      ContactReader
	tx         TxRunner
	notifier   Notifier
	termMonths int
	now        func() time.Time
}

func NewService(leases *Repository, properties *property.Repository, users ContactReader, tx TxRunner, notifier Notifier, termMonths int) *Service {
	if termMonths < 1 {
		termMonths = DefaultTermMonths
	}
	return &Service{
		leases:     leases,
		properties: properties,
		users:      users,
		tx:         tx,
		notifier:   notifier,
		termMonths: termMonths,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Apply files a tenant's application on an approved property. The rent is
// frozen at the current price.
func (s *Service) Apply(ctx context.Context, actor auth.Actor, req ApplyRequest) (*Lease, error) {
	if !actor.IsTenant() {
		return nil, ErrTenantOnly
	}
	req.Message = strings.TrimSpace(req.Message)
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	var created *Lease
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.lockProperty(ctx, req.PropertyID)
		if err != nil {
			return err
		}
		listable, err := s.properties.IsPubliclyListable(ctx, p)
		if err != nil {
			return err
		}
		if !listable {
			return ErrPropertyNotFound
		}

		dup, err := s.leases.OpenApplicationExists(ctx, actor.ID, p.ID)
		if err != nil {
			return err
		}
		if dup {
			return ErrDuplicateApplication
		}
		occupied, err := s.leases.HasActiveLease(ctx, p.ID)
		if err != nil {
			return err
		}
		if occupied {
			return ErrPropertyOccupied
		}

		if err := s.bumpVersion(ctx, p); err != nil {
			return err
		}

		l := &Lease{
			PropertyID: p.ID,
			TenantID:   actor.ID,
			Status:     StatusPending,
			RentAmount: p.Price,
			StartDate:  start,
			EndDate:    end,
			Message:    req.Message,
		}
		if err := s.leases.Create(ctx, l); err != nil {
			if database.IsUniqueViolation(err) {
				return ErrDuplicateApplication
			}
			return fmt.Errorf("create lease: %w", err)
		}

		tenantName := s.contactName(ctx, actor.ID, "A tenant")
		msg := fmt.Sprintf("%s applied to rent %q.", tenantName, p.Title)
		if err := s.notifier.Push(ctx, p.OwnerID, notification.TypeLeaseApplied, msg); err != nil {
			return fmt.Errorf("notify landlord: %w", err)
		}
		created = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"lease_id":    created.ID,
		"property_id": created.PropertyID,
		"tenant_id":   created.TenantID,
	}).Info("lease application filed")
	return created, nil
}

// Decide applies the owning landlord's decision to a pending lease. Approval
// activates the lease and rejects every other pending application on the
// property in the same transaction.
func (s *Service) Decide(ctx context.Context, actor auth.Actor, leaseID int64, req DecideRequest) (*View, error) {
	if !actor.IsLandlord() {
		return nil, ErrLandlordOnly
	}
	target, err := ParseDecision(req.decision())
	if err != nil {
		return nil, err
	}
	start, end, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	var cascaded int
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		l, p, err := s.lockForOwner(ctx, actor, leaseID)
		if err != nil {
			return err
		}

		if target == StatusRejected {
			if l.Status != StatusPending {
				return ErrLeaseNotPending
			}
			if err := s.bumpVersion(ctx, p); err != nil {
				return err
			}
			if err := s.transition(ctx, l, StatusRejected, map[string]any{"decided_at": s.now()}); err != nil {
				return err
			}
			msg := fmt.Sprintf("Your application for %q was rejected.", p.Title)
			return s.notify(ctx, l.TenantID, notification.TypeLeaseRejected, msg)
		}

		// Occupancy is checked before the lease status so that losing an
		// approval race reports the conflict rather than the cascade result.
		occupied, err := s.leases.HasActiveLease(ctx, p.ID)
		if err != nil {
			return err
		}
		if occupied && l.Status != StatusActive {
			return ErrPropertyOccupied
		}
		if l.Status != StatusPending {
			return ErrLeaseNotPending
		}
		if err := s.bumpVersion(ctx, p); err != nil {
			return err
		}

		now := s.now()
		startDate := utils.StartOfDay(now)
		switch {
		case start != nil:
			startDate = *start
		case l.StartDate != nil:
			startDate = *l.StartDate
		}
		endDate := startDate.AddDate(0, s.termMonths, 0)
		switch {
		case end != nil:
			endDate = *end
		case l.EndDate != nil && start == nil:
			endDate = *l.EndDate
		}
		if !endDate.After(startDate) {
			return ErrInvalidDateRange
		}

		if err := s.transition(ctx, l, StatusActive, map[string]any{
			"start_date": startDate,
			"end_date":   endDate,
			"decided_at": now,
		}); err != nil {
			return err
		}

		others, err := s.leases.RejectPendingExcept(ctx, p.ID, l.ID, now)
		if err != nil {
			return fmt.Errorf("reject competing applications: %w", err)
		}
		cascaded = len(others)

		msg := fmt.Sprintf("Your application for %q was approved. Your lease starts on %s.", p.Title, startDate.Format(utils.DateLayout))
		if err := s.notify(ctx, l.TenantID, notification.TypeLeaseApproved, msg); err != nil {
			return err
		}
		rejectMsg := fmt.Sprintf("Your application for %q was rejected because the property has been leased.", p.Title)
		for _, other := range others {
			if err := s.notify(ctx, other.TenantID, notification.TypeLeaseRejected, rejectMsg); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"lease_id":    leaseID,
		"landlord_id": actor.ID,
		"status":      target,
		"cascaded":    cascaded,
	}).Info("lease decided")
	return s.Get(ctx, actor, leaseID)
}

// Terminate ends an active lease early and frees the property.
func (s *Service) Terminate(ctx context.Context, actor auth.Actor, leaseID int64) (*View, error) {
	if !actor.IsLandlord() {
		return nil, ErrLandlordOnly
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		l, p, err := s.lockForOwner(ctx, actor, leaseID)
		if err != nil {
			return err
		}
		if l.Status != StatusActive {
			return ErrLeaseNotActive
		}
		return s.end(ctx, l, p, fmt.Sprintf("Your lease for %q was terminated by the landlord.", p.Title), "")
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"lease_id":    leaseID,
		"landlord_id": actor.ID,
	}).Info("lease terminated")
	return s.Get(ctx, actor, leaseID)
}

// SweepExpired ends every active lease whose end date has passed. Each lease
// is ended in its own transaction; failures are logged and counted.
func (s *Service) SweepExpired(ctx context.Context, now time.Time) (SweepResult, error) {
	var res SweepResult
	ids, err := s.leases.ExpiredIDs(ctx, now.UTC())
	if err != nil {
		return res, fmt.Errorf("list expired leases: %w", err)
	}

	for _, id := range ids {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		ended := false
		err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
			l, err := s.find(ctx, id)
			if err != nil {
				return err
			}
			p, err := s.lockProperty(ctx, l.PropertyID)
			if err != nil {
				return err
			}
			if l, err = s.findForUpdate(ctx, id); err != nil {
				return err
			}
			if l.Status != StatusActive || l.EndDate == nil || !l.EndDate.Before(now) {
				return nil
			}
			tenantMsg := fmt.Sprintf("Your lease for %q has ended.", p.Title)
			ownerMsg := fmt.Sprintf("The lease on %q has ended and the property is available again.", p.Title)
			if err := s.end(ctx, l, p, tenantMsg, ownerMsg); err != nil {
				return err
			}
			ended = true
			return nil
		})
		if err != nil {
			res.Failed++
			logger.Log.WithError(err).WithField("lease_id", id).Warn("failed to end expired lease")
			continue
		}
		if ended {
			res.Ended++
		}
	}

	if res.Ended > 0 || res.Failed > 0 {
		logger.Log.WithFields(logrus.Fields{
			"ended":  res.Ended,
			"failed": res.Failed,
		}).Info("lease expiry sweep finished")
	}
	return res, nil
}

// Get returns a lease to its tenant, the owning landlord or an admin.
func (s *Service) Get(ctx context.Context, actor auth.Actor, leaseID int64) (*View, error) {
	l, err := s.find(ctx, leaseID)
	if err != nil {
		return nil, err
	}
	views, err := s.views(ctx, []Lease{*l})
	if err != nil {
		return nil, err
	}
	v := views[0]
	if !actor.IsAdmin() && actor.ID != v.TenantID && actor.ID != v.LandlordID {
		return nil, ErrLeaseNotFound
	}
	return &v, nil
}

// List returns the leases the actor is party to: tenants their own, landlords
// those on their properties, admins all.
func (s *Service) List(ctx context.Context, actor auth.Actor, status string) ([]View, error) {
	var f ListFilter
	if status != "" {
		st, ok := ParseStatus(strings.ToLower(status))
		if !ok {
			return nil, ErrInvalidStatusFilter
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

	leases, err := s.leases.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list leases: %w", err)
	}
	return s.views(ctx, leases)
}

func (s *Service) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	return s.leases.CountByStatus(ctx)
}

func (s *Service) end(ctx context.Context, l *Lease, p *property.Property, tenantMsg, ownerMsg string) error {
	if err := s.bumpVersion(ctx, p); err != nil {
		return err
	}

	now := s.now()
	endDate := utils.StartOfDay(now)
	if l.EndDate != nil && l.EndDate.Before(endDate) {
		endDate = *l.EndDate
	}
	if err := s.transition(ctx, l, StatusEnded, map[string]any{
		"end_date": endDate,
		"ended_at": now,
	}); err != nil {
		return err
	}

	if err := s.notify(ctx, l.TenantID, notification.TypeLeaseEnded, tenantMsg); err != nil {
		return err
	}
	if ownerMsg != "" {
		return s.notify(ctx, p.OwnerID, notification.TypeLeaseEnded, ownerMsg)
	}
	return nil
}

// lockForOwner locks the lease's property, checks the actor owns it and
// re-reads the lease under the lock.
func (s *Service) lockForOwner(ctx context.Context, actor auth.Actor, leaseID int64) (*Lease, *property.Property, error) {
	l, err := s.find(ctx, leaseID)
	if err != nil {
		return nil, nil, err
	}
	p, err := s.lockProperty(ctx, l.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	if p.OwnerID != actor.ID {
		return nil, nil, ErrNotPropertyOwner
	}
	l, err = s.findForUpdate(ctx, leaseID)
	if err != nil {
		return nil, nil, err
	}
	return l, p, nil
}

func (s *Service) lockProperty(ctx context.Context, id int64) (*property.Property, error) {
	p, err := s.properties.GetByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) bumpVersion(ctx context.Context, p *property.Property) error {
	ok, err := s.properties.BumpLeaseVersion(ctx, p.ID, p.LeaseVersion)
	if err != nil {
		return fmt.Errorf("bump lease version: %w", err)
	}
	if !ok {
		return ErrConcurrentDecision
	}
	p.LeaseVersion++
	return nil
}

func (s *Service) transition(ctx context.Context, l *Lease, to Status, fields map[string]any) error {
	if !CanTransition(l.Status, to) {
		return ErrLeaseNotPending
	}
	ok, err := s.leases.Transition(ctx, l.ID, l.Status, to, fields)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return ErrPropertyOccupied
		}
		return fmt.Errorf("update lease: %w", err)
	}
	if !ok {
		return ErrConcurrentDecision
	}
	l.Status = to
	return nil
}

func (s *Service) notify(ctx context.Context, userID int64, t notification.Type, msg string) error {
	if err := s.notifier.Push(ctx, userID, t, msg); err != nil {
		return fmt.Errorf("notify user %d: %w", userID, err)
	}
	return nil
}

func (s *Service) find(ctx context.Context, id int64) (*Lease, error) {
	l, err := s.leases.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaseNotFound
		}
		return nil, err
	}
	return l, nil
}

func (s *Service) findForUpdate(ctx context.Context, id int64) (*Lease, error) {
	l, err := s.leases.GetByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaseNotFound
		}
		return nil, err
	}
	return l, nil
}

func (s *Service) contactName(ctx context.Context, userID int64, fallback string) string {
	contacts, err := s.users.Contacts(ctx, []int64{userID})
	if err != nil || contacts[userID].FullName == "" {
		return fallback
	}
	return contacts[userID].FullName
}

func (s *Service) views(ctx context.Context, leases []Lease) ([]View, error) {
	out := make([]View, 0, len(leases))
	if len(leases) == 0 {
		return out, nil
	}

	propertyIDs := make([]int64, 0, len(leases))
	tenantIDs := make([]int64, 0, len(leases))
	for _, l := range leases {
		propertyIDs = append(propertyIDs, l.PropertyID)
		tenantIDs = append(tenantIDs, l.TenantID)
	}
	props, err := s.properties.GetByIDs(ctx, propertyIDs)
	if err != nil {
		return nil, fmt.Errorf("load properties: %w", err)
	}
	tenants, err := s.users.Contacts(ctx, tenantIDs)
	if err != nil {
		return nil, fmt.Errorf("load tenants: %w", err)
	}

	for _, l := range leases {
		p := props[l.PropertyID]
		t := tenants[l.TenantID]
		out = append(out, View{
			Lease:           l,
			PropertyTitle:   p.Title,
			PropertyName:    p.Title,
			PropertyCity:    p.City,
			PropertyAddress: p.Address,
			LandlordID:      p.OwnerID,
			TenantName:      t.FullName,
			TenantEmail:     t.Email,
			TenantPhone:     t.Phone,
			MonthlyRent:     l.RentAmount,
		})
	}
	return out, nil
}

func parseRange(startRaw, endRaw string) (*time.Time, *time.Time, error) {
	start, err := utils.ParseOptionalDate(startRaw)
	if err != nil {
		return nil, nil, ErrInvalidDate
	}
	end, err := utils.ParseOptionalDate(endRaw)
	if err != nil {
		return nil, nil, ErrInvalidDate
	}
	if start != nil && end != nil && !end.After(*start) {
		return nil, nil, ErrInvalidDateRange
	}
	return start, end, nil
}
