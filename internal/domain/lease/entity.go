package lease

import (
	"time"

	"gorm.io/gorm"
)

// Status of a lease. Rejected and ended are terminal.
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusRejected Status = "rejected"
	StatusEnded    Status = "ended"
)

var transitions = map[Status][]Status{
	StatusPending: {StatusActive, StatusRejected},
	StatusActive:  {StatusEnded},
}

// CanTransition reports whether a lease may move from one status to another.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ParseStatus accepts the canonical names only.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusActive, StatusRejected, StatusEnded:
		return Status(s), true
	}
	return "", false
}

type Lease struct {
	ID         int64  `gorm:"primaryKey" json:"id"`
	PropertyID int64  `gorm:"not null;index" json:"property_id"`
	TenantID   int64  `gorm:"not null;index" json:"tenant_id"`
	Status     Status `gorm:"size:20;not null;index" json:"status"`
	// RentAmount is the property price when the tenant applied. It never
	// follows later price edits.
	RentAmount float64    `gorm:"type:decimal(12,2);not null" json:"rent_amount"`
	StartDate  *time.Time `json:"start_date"`
	EndDate    *time.Time `json:"end_date"`
	Message    string     `gorm:"size:1000" json:"message,omitempty"`
	DecidedAt  *time.Time `json:"decided_at,omitempty"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (Lease) TableName() string {
	return "leases"
}

// View is a lease with the property and tenant details the dashboards show.
type View struct {
	Lease
	PropertyTitle   string  `json:"property_title"`
	PropertyName    string  `json:"property_name"`
	PropertyCity    string  `json:"property_city"`
	PropertyAddress string  `json:"property_address"`
	LandlordID      int64   `json:"landlord_id"`
	TenantName      string  `json:"tenant_name"`
	TenantEmail     string  `json:"tenant_email"`
	TenantPhone     string  `json:"tenant_phone"`
	MonthlyRent     float64 `json:"monthly_rent"`
}

// Partial unique indexes backing the single-tenancy and single-application
// rules. Both SQLite and PostgreSQL accept this syntax.
var indexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_leases_active_property ON leases (property_id) WHERE status = 'active'`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_leases_open_application ON leases (tenant_id, property_id) WHERE status IN ('pending', 'active')`,
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&Lease{}); err != nil {
		return err
	}
	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
