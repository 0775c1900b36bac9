package property

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Status is the approval state of a listing.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ParseStatus accepts the canonical names only.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return Status(s), true
	}
	return "", false
}

type Property struct {
	ID            int64                       `gorm:"primaryKey" json:"id"`
	OwnerID       int64                       `gorm:"not null;index" json:"owner_id"`
	Title         string                      `gorm:"size:200;not null" json:"title"`
	Description   string                      `gorm:"type:text" json:"description"`
	Address       string                      `gorm:"size:255;not null" json:"address"`
	City          string                      `gorm:"size:100;not null;index" json:"city"`
	State         string                      `gorm:"size:100" json:"state"`
	ZipCode       string                      `gorm:"size:20" json:"zip_code"`
	UnitNumber    string                      `gorm:"size:40" json:"unit_number"`
	Price         float64                     `gorm:"type:decimal(12,2);not null" json:"price"`
	Bedrooms      int                         `gorm:"not null" json:"bedrooms"`
	Bathrooms     int                         `gorm:"not null" json:"bathrooms"`
	SquareFeet    int                         `json:"square_feet"`
	PropertyType  string                      `gorm:"size:40;index" json:"property_type"`
	Amenities     datatypes.JSONSlice[string] `json:"amenities"`
	ImageURL      string                      `gorm:"size:512" json:"image_url"`
	Images        datatypes.JSONSlice[string] `json:"images"`
	Status        Status                      `gorm:"size:20;not null;index" json:"status"`
	ReviewComment string                      `gorm:"size:500" json:"review_comment,omitempty"`
	ReviewedAt    *time.Time                  `json:"reviewed_at,omitempty"`
	// LeaseVersion is bumped by every lease transition on the property.
	LeaseVersion int64          `gorm:"not null" json:"-"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func (Property) TableName() string {
	return "properties"
}

// View is a property as returned to clients.
type View struct {
	Property
	Name           string `json:"name"`
	OwnerName      string `json:"owner_name"`
	HasActiveLease bool   `json:"has_active_lease"`
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Property{})
}
