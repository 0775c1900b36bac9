package property

import (
	"context"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"homehub/internal/database"
	"homehub/internal/domain/auth"
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

func (r *Repository) Create(ctx context.Context, p *Property) error {
	return r.conn(ctx).Create(p).Error
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Property, error) {
	var p Property
	if err := r.conn(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByIDForUpdate locks the property row. Lease transitions take this lock
// before touching any lease of the property.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*Property, error) {
	var p Property
	if err := database.ForUpdate(r.conn(ctx)).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByIDs loads properties including soft-deleted ones, keyed by id.
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) (map[int64]Property, error) {
	out := make(map[int64]Property, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []Property
	if err := r.conn(ctx).Unscoped().Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, p := range rows {
		out[p.ID] = p
	}
	return out, nil
}

// IDsByOwner returns ids of every property the owner has listed, deleted ones
// included, so history stays visible to the landlord.
func (r *Repository) IDsByOwner(ctx context.Context, ownerID int64) ([]int64, error) {
	var ids []int64
	err := r.conn(ctx).
		Unscoped().
		Model(&Property{}).
		Where("owner_id = ?", ownerID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *Repository) List(ctx context.Context, f Filters) ([]Property, error) {
	q := r.conn(ctx).Model(&Property{})

	if f.PublicOnly {
		q = q.Where("status = ?", StatusApproved).
			Where("owner_id IN (?)", r.conn(ctx).
				Model(&auth.User{}).
				Select("id").
				Where("verification_status = ? AND is_active = ?", auth.VerificationActive, true))
	} else if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.OwnerID > 0 {
		q = q.Where("owner_id = ?", f.OwnerID)
	}
	if city := strings.ToLower(strings.TrimSpace(f.City)); city != "" {
		q = q.Where("LOWER(city) LIKE ?", "%"+city+"%")
	}
	if f.MinPrice > 0 {
		q = q.Where("price >= ?", f.MinPrice)
	}
	if f.MaxPrice > 0 {
		q = q.Where("price <= ?", f.MaxPrice)
	}
	if t := strings.ToLower(strings.TrimSpace(f.PropertyType)); t != "" {
		q = q.Where("property_type = ?", t)
	}
	if f.Bedrooms > 0 {
		q = q.Where("bedrooms >= ?", f.Bedrooms)
	}

	q = q.Order("created_at DESC").Order("id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	var out []Property
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// IsPubliclyListable reports whether anyone may see the property.
func (r *Repository) IsPubliclyListable(ctx context.Context, p *Property) (bool, error) {
	if p.Status != StatusApproved {
		return false, nil
	}
	var count int64
	err := r.conn(ctx).
		Model(&auth.User{}).
		Where("id = ? AND verification_status = ? AND is_active = ?", p.OwnerID, auth.VerificationActive, true).
		Count(&count).Error
	return count > 0, err
}

// UpdateFields writes the given columns; a map keeps zero values.
func (r *Repository) UpdateFields(ctx context.Context, id int64, fields map[string]any) error {
	res := r.conn(ctx).Model(&Property{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// BumpLeaseVersion advances the lease version only if it still equals
// expected. It reports false when another transaction got there first.
func (r *Repository) BumpLeaseVersion(ctx context.Context, id, expected int64) (bool, error) {
	res := r.conn(ctx).
		Model(&Property{}).
		Where("id = ? AND lease_version = ?", id, expected).
		Update("lease_version", gorm.Expr("lease_version + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.conn(ctx).Delete(&Property{}, id).Error
}

func (r *Repository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	var out []StatusCount
	err := r.conn(ctx).
		Model(&Property{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("status").
		Scan(&out).Error
	return out, err
}

func toJSONSlice(in []string) datatypes.JSONSlice[string] {
	if in == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](in)
}
