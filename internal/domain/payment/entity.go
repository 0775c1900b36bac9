package payment

import (
	"time"

	"gorm.io/gorm"
)

type InvoiceStatus string

const (
	InvoiceUnpaid InvoiceStatus = "unpaid"
	InvoicePaid   InvoiceStatus = "paid"
)

// Invoice is a rent or service charge against an active lease. The lease,
// property and party ids are copied at creation for filtering.
type Invoice struct {
	ID               int64         `gorm:"primaryKey" json:"id"`
	LeaseID          int64         `gorm:"not null;index" json:"lease_id"`
	PropertyID       int64         `gorm:"not null;index" json:"property_id"`
	TenantID         int64         `gorm:"not null;index" json:"tenant_id"`
	LandlordID       int64         `gorm:"not null;index" json:"landlord_id"`
	Amount           float64       `gorm:"type:decimal(12,2);not null" json:"amount"`
	Description      string        `gorm:"size:500" json:"description"`
	DueDate          time.Time     `gorm:"not null" json:"due_date"`
	Status           InvoiceStatus `gorm:"size:20;not null;index" json:"status"`
	PaymentReference string        `gorm:"size:100" json:"payment_reference,omitempty"`
	PaidAt           *time.Time    `json:"paid_at,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

func (Invoice) TableName() string {
	return "invoices"
}

type PaymentStatus string

const (
	PaymentInitiated PaymentStatus = "initiated"
	PaymentSucceeded PaymentStatus = "succeeded"
	PaymentFailed    PaymentStatus = "failed"
)

// Payment is one checkout attempt sent to the gateway for an invoice.
type Payment struct {
	ID                int64         `gorm:"primaryKey" json:"id"`
	InvoiceID         int64         `gorm:"not null;index" json:"invoice_id"`
	CheckoutReference string        `gorm:"size:100;not null;uniqueIndex" json:"checkout_reference"`
	PhoneNumber       string        `gorm:"size:20;not null" json:"phone_number"`
	Amount            float64       `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status            PaymentStatus `gorm:"size:20;not null" json:"status"`
	ResultDescription string        `gorm:"size:500" json:"result_description,omitempty"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}

type InvoiceView struct {
	Invoice
	PropertyTitle string `json:"property_title"`
	PropertyName  string `json:"property_name"`
	TenantName    string `json:"tenant_name"`
	TenantPhone   string `json:"tenant_phone"`
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Invoice{}, &Payment{})
}
