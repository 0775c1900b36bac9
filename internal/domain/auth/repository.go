package auth

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

func (r *Repository) Create(ctx context.Context, u *User) error {
	return r.conn(ctx).Create(u).Error
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	var u User
	if err := r.conn(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByIDForUpdate locks the user row for the rest of the transaction.
func (r *Repository) GetByIDForUpdate(ctx context.Context, id int64) (*User, error) {
	var u User
	if err := database.ForUpdate(r.conn(ctx)).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	if err := r.conn(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// UpdateFields writes the given columns; a map keeps zero values.
func (r *Repository) UpdateFields(ctx context.Context, id int64, fields map[string]any) error {
	res := r.conn(ctx).Model(&User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) List(ctx context.Context, role Role, status VerificationStatus) ([]User, error) {
	var out []User
	q := r.conn(ctx).Order("created_at DESC").Order("id DESC")
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if status != "" {
		q = q.Where("verification_status = ?", status)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repository) ActiveAdminIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.conn(ctx).
		Model(&User{}).
		Where("role = ? AND is_active = ?", RoleAdmin, true).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

type RoleCount struct {
	Role  Role  `json:"role"`
	Count int64 `json:"count"`
}

func (r *Repository) CountByRole(ctx context.Context) ([]RoleCount, error) {
	var out []RoleCount
	err := r.conn(ctx).
		Model(&User{}).
		Select("role, COUNT(*) AS count").
		Group("role").
		Order("role").
		Scan(&out).Error
	return out, err
}

// Contact is the public part of a user shown next to the records they own.
type Contact struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// Contacts loads contact details for the given users keyed by id. Unknown ids
// are absent from the result.
func (r *Repository) Contacts(ctx context.Context, ids []int64) (map[int64]Contact, error) {
	out := make(map[int64]Contact, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []Contact
	err := r.conn(ctx).
		Model(&User{}).
		Select("id, full_name, email, phone").
		Where("id IN ?", ids).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, c := range rows {
		out[c.ID] = c
	}
	return out, nil
}
