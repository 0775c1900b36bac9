package auth

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleTenant   Role = "tenant"
	RoleLandlord Role = "landlord"
	RoleAdmin    Role = "admin"
)

// ParseRole normalizes a role name; the empty string means tenant.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case "", RoleTenant:
		return RoleTenant, true
	case RoleLandlord, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// VerificationStatus gates what a landlord may publish. Tenants and admins are
// always active.
type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "unverified"
	VerificationPending    VerificationStatus = "pending"
	VerificationActive     VerificationStatus = "active"
	VerificationRejected   VerificationStatus = "rejected"
)

var verificationTransitions = map[VerificationStatus][]VerificationStatus{
	VerificationPending:  {VerificationActive, VerificationRejected},
	VerificationRejected: {VerificationPending},
}

// CanTransition reports whether an admin may move a landlord from one
// verification status to another.
func CanTransition(from, to VerificationStatus) bool {
	for _, next := range verificationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type User struct {
	ID                      int64              `gorm:"primaryKey" json:"id"`
	FullName                string             `gorm:"size:120;not null" json:"full_name"`
	Email                   string             `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash            string             `gorm:"size:255;not null" json:"-"`
	Role                    Role               `gorm:"size:20;not null;index" json:"role"`
	Phone                   string             `gorm:"size:32" json:"phone"`
	Gender                  string             `gorm:"size:20" json:"gender,omitempty"`
	DateOfBirth             string             `gorm:"column:dob;size:20" json:"dob,omitempty"`
	VerificationStatus      VerificationStatus `gorm:"size:20;not null;index" json:"verification_status"`
	NationalID              string             `gorm:"size:40" json:"national_id,omitempty"`
	KRAPin                  string             `gorm:"column:kra_pin;size:40" json:"kra_pin,omitempty"`
	IdentityDocument        string             `gorm:"size:512" json:"identity_document,omitempty"`
	VerificationSubmittedAt *time.Time         `json:"verification_submitted_at,omitempty"`
	VerifiedAt              *time.Time         `json:"verified_at,omitempty"`
	IsActive                bool               `gorm:"not null" json:"is_active"`
	CreatedAt               time.Time          `json:"created_at"`
	UpdatedAt               time.Time          `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// CanPublish reports whether the user may create listings.
func (u *User) CanPublish() bool {
	return u.Role == RoleLandlord && u.VerificationStatus == VerificationActive
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&User{})
}
