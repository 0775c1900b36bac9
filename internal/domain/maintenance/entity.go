package maintenance

import (
	"time"

	"gorm.io/gorm"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Forward-only; a landlord may resolve a pending request directly.
var transitions = map[Status][]Status{
	StatusPending:    {StatusInProgress, StatusCompleted},
	StatusInProgress: {StatusCompleted},
}

func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Request is a maintenance ticket filed against an active lease. PropertyID
// and TenantID are copied from the lease for filtering.
type Request struct {
	ID          int64      `gorm:"primaryKey" json:"id"`
	LeaseID     int64      `gorm:"not null;index" json:"lease_id"`
	PropertyID  int64      `gorm:"not null;index" json:"property_id"`
	TenantID    int64      `gorm:"not null;index" json:"tenant_id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Priority    Priority   `gorm:"size:10;not null" json:"priority"`
	Status      Status     `gorm:"size:20;not null;index" json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (Request) TableName() string {
	return "maintenance_requests"
}

// View adds the names the landlord and tenant dashboards display.
type View struct {
	Request
	TenantName    string `json:"tenant_name"`
	TenantPhone   string `json:"tenant_phone"`
	PropertyName  string `json:"property_name"`
	PropertyTitle string `json:"property_title"`
	UnitNumber    string `json:"unit_number"`
	Date          string `json:"date"`
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Request{})
}
