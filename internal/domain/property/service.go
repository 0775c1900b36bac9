package property

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"homehub/internal/domain/auth"
	"homehub/internal/domain/notification"
	"homehub/internal/pkg/logger"
	"homehub/internal/pkg/validator"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

type Service struct {
	repo     *Repository
	users    UserReader
	leases   LeaseGuard
	tx       TxRunner
	notifier Notifier
}

func NewService(repo *Repository, users UserReader, leases LeaseGuard, tx TxRunner, notifier Notifier) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		leases:   leases,
		tx:       tx,
		notifier: notifier,
	}
}

// Create lists a new property in pending state. Only verified landlords may
// publish.
func (s *Service) Create(ctx context.Context, actor auth.Actor, req CreateRequest) (*View, error) {
	if !actor.IsLandlord() {
		return nil, ErrLandlordOnly
	}
	owner, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	if !owner.CanPublish() {
		return nil, ErrVerificationRequired
	}

	req.normalize()
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	p := &Property{
		OwnerID:      owner.ID,
		Title:        req.Title,
		Description:  strings.TrimSpace(req.Description),
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		ZipCode:      strings.TrimSpace(req.ZipCode),
		UnitNumber:   strings.TrimSpace(req.UnitNumber),
		Price:        req.Price,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		SquareFeet:   req.SquareFeet,
		PropertyType: req.PropertyType,
		Amenities:    toJSONSlice(req.Amenities),
		ImageURL:     strings.TrimSpace(req.ImageURL),
		Images:       toJSONSlice(req.Images),
		Status:       StatusPending,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create property: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"property_id": p.ID,
		"owner_id":    p.OwnerID,
	}).Info("property submitted for approval")

	return &View{Property: *p, Name: p.Title, OwnerName: owner.FullName}, nil
}

// List returns every property to admins and the public catalog to everyone
// else.
func (s *Service) List(ctx context.Context, actor auth.Actor, f Filters) ([]View, error) {
	if actor.IsAdmin() {
		return s.ListAll(ctx, f)
	}
	return s.ListPublic(ctx, f)
}

// ListPublic returns approved properties of verified, active landlords.
func (s *Service) ListPublic(ctx context.Context, f Filters) ([]View, error) {
	f.PublicOnly = true
	f.Status = ""
	return s.list(ctx, f)
}

func (s *Service) ListAll(ctx context.Context, f Filters) ([]View, error) {
	f.PublicOnly = false
	return s.list(ctx, f)
}

func (s *Service) ListPending(ctx context.Context) ([]View, error) {
	return s.ListAll(ctx, Filters{Status: StatusPending})
}

// ListByOwner shows the owner (and admins) every listing, others only the
// publicly listable ones.
func (s *Service) ListByOwner(ctx context.Context, actor auth.Actor, ownerID int64, f Filters) ([]View, error) {
	f.OwnerID = ownerID
	if actor.IsAdmin() || actor.ID == ownerID {
		f.PublicOnly = false
	} else {
		f.PublicOnly = true
		f.Status = ""
	}
	return s.list(ctx, f)
}

func (s *Service) ListMine(ctx context.Context, actor auth.Actor, f Filters) ([]View, error) {
	if !actor.IsLandlord() {
		return nil, ErrLandlordOnly
	}
	return s.ListByOwner(ctx, actor, actor.ID, f)
}

func (s *Service) list(ctx context.Context, f Filters) ([]View, error) {
	if f.MinPrice > 0 && f.MaxPrice > 0 && f.MinPrice > f.MaxPrice {
		return nil, ErrPriceRange
	}
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	props, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	return s.views(ctx, props)
}

// Get returns a property the actor is allowed to see. Anything else looks
// like a missing property.
func (s *Service) Get(ctx context.Context, actor auth.Actor, id int64) (*View, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.ID != p.OwnerID {
		ok, err := s.repo.IsPubliclyListable(ctx, p)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrPropertyNotFound
		}
	}

	views, err := s.views(ctx, []Property{*p})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Update edits descriptive fields of the owner's listing. Existing leases keep
// the rent they were signed at.
func (s *Service) Update(ctx context.Context, actor auth.Actor, id int64, req UpdateRequest) (*View, error) {
	if !actor.IsLandlord() {
		return nil, ErrLandlordOnly
	}
	req.normalize()
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != actor.ID {
		return nil, ErrNotOwner
	}

	if fields := req.fields(); len(fields) > 0 {
		if err := s.repo.UpdateFields(ctx, id, fields); err != nil {
			return nil, fmt.Errorf("update property: %w", err)
		}
	}
	return s.Get(ctx, actor, id)
}

// Resubmit sends a rejected listing back to the approval queue.
func (s *Service) Resubmit(ctx context.Context, actor auth.Actor, id int64) (*View, error) {
	if !actor.IsLandlord() {
		return nil, ErrLandlordOnly
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.findForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p.OwnerID != actor.ID {
			return ErrNotOwner
		}
		if p.Status != StatusRejected {
			return ErrNotRejected
		}
		return s.repo.UpdateFields(ctx, id, map[string]any{
			"status":         StatusPending,
			"review_comment": "",
			"reviewed_at":    nil,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, actor, id)
}

// ParseAction maps an admin decision to the target status.
func ParseAction(action string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case "approve", "approved":
		return StatusApproved, nil
	case "reject", "rejected":
		return StatusRejected, nil
	}
	return "", ErrInvalidAction
}

// SetApproval records an admin decision on a pending listing and tells the
// owner. Repeating the decision already in effect is a no-op.
func (s *Service) SetApproval(ctx context.Context, actor auth.Actor, id int64, target Status, comment string) (*View, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if target != StatusApproved && target != StatusRejected {
		return nil, ErrInvalidAction
	}
	comment = strings.TrimSpace(comment)
	if len(comment) > 500 {
		return nil, validator.Check(DecisionRequest{Comment: comment})
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.findForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p.Status == target {
			return nil
		}
		if p.Status != StatusPending {
			return ErrInvalidTransition
		}

		now := time.Now().UTC()
		if err := s.repo.UpdateFields(ctx, id, map[string]any{
			"status":         target,
			"review_comment": comment,
			"reviewed_at":    now,
		}); err != nil {
			return err
		}

		kind := notification.TypePropertyApproved
		msg := fmt.Sprintf("Your property %q was approved and is now listed.", p.Title)
		if target == StatusRejected {
			kind = notification.TypePropertyRejected
			msg = fmt.Sprintf("Your property %q was rejected.", p.Title)
		}
		if comment != "" {
			msg += " Comment: " + comment
		}
		if err := s.notifier.Push(ctx, p.OwnerID, kind, msg); err != nil {
			return fmt.Errorf("notify owner: %w", err)
		}

		logger.Log.WithFields(logrus.Fields{
			"property_id": id,
			"admin_id":    actor.ID,
			"status":      target,
		}).Info("property reviewed")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, actor, id)
}

// Delete soft-deletes a listing that is not currently leased. Pending
// applications on it are rejected.
func (s *Service) Delete(ctx context.Context, actor auth.Actor, id int64) error {
	if !actor.IsLandlord() && !actor.IsAdmin() {
		return ErrLandlordOnly
	}
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.findForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !actor.IsAdmin() && p.OwnerID != actor.ID {
			return ErrNotOwner
		}

		active, err := s.leases.HasActiveLease(ctx, id)
		if err != nil {
			return err
		}
		if active {
			return ErrActiveLease
		}

		bumped, err := s.repo.BumpLeaseVersion(ctx, id, p.LeaseVersion)
		if err != nil {
			return err
		}
		if !bumped {
			return ErrConcurrentUpdate
		}

		tenants, err := s.leases.RejectPending(ctx, id)
		if err != nil {
			return err
		}
		msg := fmt.Sprintf("Your application for %q was rejected because the listing was removed.", p.Title)
		for _, tenantID := range tenants {
			if err := s.notifier.Push(ctx, tenantID, notification.TypeLeaseRejected, msg); err != nil {
				return fmt.Errorf("notify tenant: %w", err)
			}
		}

		if err := s.repo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete property: %w", err)
		}

		logger.Log.WithFields(logrus.Fields{
			"property_id":      id,
			"actor_id":         actor.ID,
			"rejected_pending": len(tenants),
		}).Info("property deleted")
		return nil
	})
}

func (s *Service) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	return s.repo.CountByStatus(ctx)
}

func (s *Service) find(ctx context.Context, id int64) (*Property, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) findForUpdate(ctx context.Context, id int64) (*Property, error) {
	p, err := s.repo.GetByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) views(ctx context.Context, props []Property) ([]View, error) {
	out := make([]View, 0, len(props))
	if len(props) == 0 {
		return out, nil
	}

	ownerIDs := make([]int64, 0, len(props))
	propertyIDs := make([]int64, 0, len(props))
	for _, p := range props {
		ownerIDs = append(ownerIDs, p.OwnerID)
		propertyIDs = append(propertyIDs, p.ID)
	}
	owners, err := s.users.Contacts(ctx, ownerIDs)
	if err != nil {
		return nil, fmt.Errorf("load owners: %w", err)
	}
	leased, err := s.leases.ActiveLeaseProperties(ctx, propertyIDs)
	if err != nil {
		return nil, fmt.Errorf("load lease state: %w", err)
	}

	for _, p := range props {
		out = append(out, View{
			Property:       p,
			Name:           p.Title,
			OwnerName:      owners[p.OwnerID].FullName,
			HasActiveLease: leased[p.ID],
		})
	}
	return out, nil
}
