package notification

import (
	"time"

	"gorm.io/gorm"
)

// Type represents notification type
type Type string

const (
	// Identity
	TypeVerificationSubmitted Type = "verification_submitted" // Admin: landlord sent documents
	TypeVerificationUpdated   Type = "verification_updated"   // Landlord: admin decision

	// Listings
	TypePropertyApproved Type = "property_approved"
	TypePropertyRejected Type = "property_rejected"

	// Leases
	TypeLeaseApplied  Type = "lease_applied"  // Landlord: new application
	TypeLeaseApproved Type = "lease_approved" // Tenant
	TypeLeaseRejected Type = "lease_rejected" // Tenant, also cascade rejections
	TypeLeaseEnded    Type = "lease_ended"    // Both

	// Maintenance
	TypeMaintenanceFiled   Type = "maintenance_filed"
	TypeMaintenanceUpdated Type = "maintenance_updated"

	// Billing
	TypeInvoiceCreated Type = "invoice_created"
	TypeInvoicePaid    Type = "invoice_paid"
)

// Notification is a message addressed to one user.
type Notification struct {
	ID        int64      `gorm:"primaryKey" json:"id"`
	UserID    int64      `gorm:"not null;index:idx_notifications_user_read,priority:1" json:"user_id"`
	Type      Type       `gorm:"size:40;not null" json:"type"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	IsRead    bool       `gorm:"not null;index:idx_notifications_user_read,priority:2" json:"is_read"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `gorm:"index" json:"created_at"`
}

// TableName specifies table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Notification{})
}
