package payment

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

func (r *Repository) CreateInvoice(ctx context.Context, inv *Invoice) error {
	return r.conn(ctx).Create(inv).Error
}

func (r *Repository) GetInvoice(ctx context.Context, id int64) (*Invoice, error) {
	var inv Invoice
	if err := r.conn(ctx).First(&inv, id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *Repository) GetInvoiceForUpdate(ctx context.Context, id int64) (*Invoice, error) {
	var inv Invoice
	if err := database.ForUpdate(r.conn(ctx)).First(&inv, id).Error; err != nil {
		return nil, err
	}
	return &inv, nil
}

type InvoiceFilter struct {
	TenantID   int64
	LandlordID int64
	Status     InvoiceStatus
}

func (r *Repository) ListInvoices(ctx context.Context, f InvoiceFilter) ([]Invoice, error) {
	q := r.conn(ctx).Model(&Invoice{})
	if f.TenantID > 0 {
		q = q.Where("tenant_id = ?", f.TenantID)
	}
	if f.LandlordID > 0 {
		q = q.Where("landlord_id = ?", f.LandlordID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var out []Invoice
	if err := q.Order("due_date DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// MarkPaid flips an unpaid invoice to paid. It reports false when the invoice
// was already paid.
func (r *Repository) MarkPaid(ctx context.Context, id int64, reference string, paidAt time.Time) (bool, error) {
	res := r.conn(ctx).
		Model(&Invoice{}).
		Where("id = ? AND status = ?", id, InvoiceUnpaid).
		Updates(map[string]any{
			"status":            InvoicePaid,
			"payment_reference": reference,
			"paid_at":           paidAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *Repository) CreatePayment(ctx context.Context, p *Payment) error {
	return r.conn(ctx).Create(p).Error
}

func (r *Repository) GetPaymentByReference(ctx context.Context, reference string) (*Payment, error) {
	var p Payment
	if err := database.ForUpdate(r.conn(ctx)).Where("checkout_reference = ?", reference).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// SettlePayment moves an attempt from one status to another. It reports false
// when the row is no longer in the expected status.
func (r *Repository) SettlePayment(ctx context.Context, id int64, from, status PaymentStatus, description string) (bool, error) {
	res := r.conn(ctx).
		Model(&Payment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{
			"status":             status,
			"result_description": description,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
