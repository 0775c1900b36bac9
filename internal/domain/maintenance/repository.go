package maintenance

import (
	"context"

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

func (r *Repository) Create(ctx context.Context, req *Request) error {
	return r.conn(ctx).Create(req).Error
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Request, error) {
	var out Request
	if err := r.conn(ctx).First(&out, id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*Request, error) {
	var out Request
	if err := database.ForUpdate(r.conn(ctx)).First(&out, id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

type ListFilter struct {
	TenantID    int64
	PropertyIDs []int64
	ByProperty  bool
	Status      Status
}

func (r *Repository) List(ctx context.Context, f ListFilter) ([]Request, error) {
	q := r.conn(ctx).Model(&Request{})
	if f.TenantID > 0 {
		q = q.Where("tenant_id = ?", f.TenantID)
	}
	if f.ByProperty {
		if len(f.PropertyIDs) == 0 {
			return []Request{}, nil
		}
		q = q.Where("property_id IN ?", f.PropertyIDs)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var out []Request
	if err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateStatus moves the request only if it is still in from.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, from Status, fields map[string]any) (bool, error) {
	res := r.conn(ctx).
		Model(&Request{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
