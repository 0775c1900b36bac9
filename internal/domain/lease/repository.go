package lease

import (
	"context"
	"time"

	"gorm.io/gorm"

	"homehub/internal/database"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) conn(ctx context.Context) *gorm.DB {
	return database.Conn(ctx, r.db)
}

func (r *Repository) Create(ctx context.Context, l *Lease) error {
	return r.conn(ctx).Create(l).Error
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Lease, error) {
	var l Lease
	if err := r.conn(ctx).First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*Lease, error) {
	var l Lease
	if err := database.ForUpdate(r.conn(ctx)).First(&l, id).Error; err != nil {
		return nil, err
	}
	return &l, nil
}

type ListFilter struct {
	TenantID    int64
	PropertyIDs []int64
	// ByProperty limits the result to PropertyIDs even when it is empty.
	ByProperty bool
	Status     Status
}

func (r *Repository) List(ctx context.Context, f ListFilter) ([]Lease, error) {
	q := r.conn(ctx).Model(&Lease{})
	if f.TenantID > 0 {
		q = q.Where("tenant_id = ?", f.TenantID)
	}
	if f.ByProperty {
		if len(f.PropertyIDs) == 0 {
			return []Lease{}, nil
		}
		q = q.Where("property_id IN ?", f.PropertyIDs)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var out []Lease
	if err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// OpenApplicationExists reports whether the tenant has a pending or active
// lease on the property.
func (r *Repository) OpenApplicationExists(ctx context.Context, tenantID, propertyID int64) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Lease{}).
		Where("tenant_id = ? AND property_id = ? AND status IN ?", tenantID, propertyID, []Status{StatusPending, StatusActive}).
		Count(&count).Error
	return count > 0, err
}

func (r *Repository) HasActiveLease(ctx context.Context, propertyID int64) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Lease{}).
		Where("property_id = ? AND status = ?", propertyID, StatusActive).
		Count(&count).Error
	return count > 0, err
}

// ActiveLeaseProperties returns which of the given properties are leased.
func (r *Repository) ActiveLeaseProperties(ctx context.Context, propertyIDs []int64) (map[int64]bool, error) {
	out := make(map[int64]bool)
	if len(propertyIDs) == 0 {
		return out, nil
	}
	var ids []int64
	err := r.conn(ctx).
		Model(&Lease{}).
		Where("property_id IN ? AND status = ?", propertyIDs, StatusActive).
		Pluck("property_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// HasActiveLeaseForUser reports whether the user rents under an active lease
// or owns a property that does.
func (r *Repository) HasActiveLeaseForUser(ctx context.Context, userID int64) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&Lease{}).
		Where("status = ?", StatusActive).
		Where("tenant_id = ? OR property_id IN (SELECT id FROM properties WHERE owner_id = ?)", userID, userID).
		Count(&count).Error
	return count > 0, err
}

// ActiveForTenant lists the tenant's active leases, optionally on one property.
func (r *Repository) ActiveForTenant(ctx context.Context, tenantID, propertyID int64) ([]Lease, error) {
	q := r.conn(ctx).Where("tenant_id = ? AND status = ?", tenantID, StatusActive)
	if propertyID > 0 {
		q = q.Where("property_id = ?", propertyID)
	}
	var out []Lease
	if err := q.Order("id").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Transition moves a lease between statuses only if it is still in from.
// It reports false when the lease was changed concurrently.
func (r *Repository) Transition(ctx context.Context, id int64, from, to Status, fields map[string]any) (bool, error) {
	updates := map[string]any{"status": to}
	for k, v := range fields {
		updates[k] = v
	}
	res := r.conn(ctx).
		Model(&Lease{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// RejectPendingExcept rejects the pending applications on a property other
// than keep and returns them as they were before the update.
func (r *Repository) RejectPendingExcept(ctx context.Context, propertyID, keep int64, now time.Time) ([]Lease, error) {
	var pending []Lease
	err := r.conn(ctx).
		Where("property_id = ? AND status = ? AND id <> ?", propertyID, StatusPending, keep).
		Order("id").
		Find(&pending).Error
	if err != nil || len(pending) == 0 {
		return pending, err
	}

	ids := make([]int64, len(pending))
	for i, l := range pending {
		ids[i] = l.ID
	}
	err = r.conn(ctx).
		Model(&Lease{}).
		Where("id IN ? AND status = ?", ids, StatusPending).
		Updates(map[string]any{"status": StatusRejected, "decided_at": now}).Error
	if err != nil {
		return nil, err
	}
	return pending, nil
}

// RejectPending rejects every pending application on the property and returns
// the tenants affected.
func (r *Repository) RejectPending(ctx context.Context, propertyID int64) ([]int64, error) {
	rejected, err := r.RejectPendingExcept(ctx, propertyID, 0, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	tenants := make([]int64, len(rejected))
	for i, l := range rejected {
		tenants[i] = l.TenantID
	}
	return tenants, nil
}

// ExpiredIDs lists active leases whose end date is before now.
func (r *Repository) ExpiredIDs(ctx context.Context, now time.Time) ([]int64, error) {
	var ids []int64
	err := r.conn(ctx).
		Model(&Lease{}).
		Where("status = ? AND end_date IS NOT NULL AND end_date < ?", StatusActive, now).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *Repository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var out []StatusCount
	err := r.conn(ctx).
		Model(&Lease{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&out).Error
	return out, err
}
