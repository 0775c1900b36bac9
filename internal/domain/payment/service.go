package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"homehub/internal/domain/auth"
	"homehub/internal/domain/lease"
	"homehub/internal/domain/notification"
	"homehub/internal/pkg/logger"
	"homehub/internal/pkg/utils"
	"homehub/internal/pkg/validator"
)

// amountTolerance absorbs decimal(12,2) rounding when comparing amounts.
const amountTolerance = 0.005

type Service struct {
	repo       *Repository
	leases     LeaseReader
	properties PropertyReader
	users      ContactReader
	gateway    Gateway
	tx         TxRunner
	notifier   Notifier
}

func NewService(repo *Repository, leases LeaseReader, properties PropertyReader, users ContactReader, gateway Gateway, tx TxRunner, notifier Notifier) *Service {
	return &Service{
		repo:       repo,
		leases:     leases,
		properties: properties,
		users:      users,
		gateway:    gateway,
		tx:         tx,
		notifier:   notifier,
	}
}

// CreateInvoice bills the tenant of an active lease on one of the landlord's
// properties. The property row is locked so the lease cannot end underneath.
func (s *Service) CreateInvoice(ctx context.Context, actor auth.Actor, req CreateInvoiceRequest) (*InvoiceView, error) {
	if !actor.IsLandlord() {
		return nil, ErrLandlordOnly
	}
	req.Description = strings.TrimSpace(req.Description)
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	due, err := utils.ParseDate(req.DueDate)
	if err != nil {
		return nil, ErrInvalidDueDate
	}

	var created *Invoice
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		l, err := s.lease(ctx, req.LeaseID)
		if err != nil {
			return err
		}
		p, err := s.properties.GetByIDForUpdate(ctx, l.PropertyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLeaseNotFound
			}
			return err
		}
		if p.OwnerID != actor.ID {
			return ErrNotPropertyOwner
		}
		// re-read under the property lock
		if l, err = s.lease(ctx, req.LeaseID); err != nil {
			return err
		}
		if l.Status != lease.StatusActive {
			return ErrLeaseNotActive
		}

		inv := &Invoice{
			LeaseID:     l.ID,
			PropertyID:  p.ID,
			TenantID:    l.TenantID,
			LandlordID:  p.OwnerID,
			Amount:      math.Round(req.Amount*100) / 100,
			Description: req.Description,
			DueDate:     due,
			Status:      InvoiceUnpaid,
		}
		if err := s.repo.CreateInvoice(ctx, inv); err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}

		msg := fmt.Sprintf("New invoice of %.2f for %q is due on %s.", inv.Amount, p.Title, due.Format(utils.DateLayout))
		if err := s.notifier.Push(ctx, l.TenantID, notification.TypeInvoiceCreated, msg); err != nil {
			return fmt.Errorf("notify tenant: %w", err)
		}
		created = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"invoice_id":  created.ID,
		"lease_id":    created.LeaseID,
		"landlord_id": actor.ID,
		"amount":      created.Amount,
	}).Info("invoice created")

	views, err := s.views(ctx, []Invoice{*created})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListInvoices returns invoices the actor may see: tenants their own,
// landlords those they issued, admins all.
func (s *Service) ListInvoices(ctx context.Context, actor auth.Actor) ([]InvoiceView, error) {
	var f InvoiceFilter
	switch {
	case actor.IsAdmin():
	case actor.IsLandlord():
		f.LandlordID = actor.ID
	case actor.IsTenant():
		f.TenantID = actor.ID
	default:
		return []InvoiceView{}, nil
	}

	items, err := s.repo.ListInvoices(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return s.views(ctx, items)
}

// InitiatePayment asks the gateway to collect an unpaid invoice from the
// tenant's phone. The invoice stays unpaid until the callback confirms it.
func (s *Service) InitiatePayment(ctx context.Context, actor auth.Actor, req PayRequest) (*PayResponse, error) {
	if !actor.IsTenant() {
		return nil, ErrTenantOnly
	}
	req.normalize()
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	inv, err := s.repo.GetInvoice(ctx, req.InvoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	if inv.TenantID != actor.ID {
		return nil, ErrInvoiceNotFound
	}
	if inv.Status == InvoicePaid {
		return nil, ErrInvoiceAlreadyPaid
	}

	ref, err := s.gateway.Initiate(ctx, Checkout{
		InvoiceID:   inv.ID,
		Amount:      inv.Amount,
		PhoneNumber: req.PhoneNumber,
		Description: inv.Description,
	})
	if err != nil {
		logger.Log.WithError(err).WithField("invoice_id", inv.ID).Warn("payment gateway call failed")
		return nil, ErrGatewayUnavailable
	}

	p := &Payment{
		InvoiceID:         inv.ID,
		CheckoutReference: ref,
		PhoneNumber:       req.PhoneNumber,
		Amount:            inv.Amount,
		Status:            PaymentInitiated,
	}
	if err := s.repo.CreatePayment(ctx, p); err != nil {
		return nil, fmt.Errorf("store payment attempt: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"invoice_id":         inv.ID,
		"tenant_id":          actor.ID,
		"checkout_reference": ref,
	}).Info("payment initiated")

	return &PayResponse{
		InvoiceID:         inv.ID,
		CheckoutReference: ref,
		Status:            PaymentInitiated,
		Message:           "Payment request sent. Confirm it on your phone.",
	}, nil
}

// HandleCallback records the gateway outcome of a checkout. Failed results are
// acknowledged without touching the invoice. A replayed outcome returns the
// recorded status, a failure reported after a success is InvalidState, and a
// success after a failure settles the checkout and the invoice together.
func (s *Service) HandleCallback(ctx context.Context, req CallbackRequest) (*CallbackResponse, error) {
	req.CheckoutReference = strings.TrimSpace(req.CheckoutReference)
	if err := validator.Check(req); err != nil {
		return nil, err
	}
	result, err := parseResult(req.Result)
	if err != nil {
		return nil, err
	}

	var out *CallbackResponse
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := s.repo.GetPaymentByReference(ctx, req.CheckoutReference)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}

		if p.Status == result {
			inv, err := s.repo.GetInvoice(ctx, p.InvoiceID)
			if err != nil {
				return err
			}
			out = &CallbackResponse{Status: p.Status, Invoice: inv}
			return nil
		}
		if p.Status == PaymentSucceeded {
			return ErrPaymentSettled
		}

		if result == PaymentFailed {
			ok, err := s.repo.SettlePayment(ctx, p.ID, p.Status, PaymentFailed, req.Description)
			if err != nil {
				return fmt.Errorf("settle payment: %w", err)
			}
			if !ok {
				return ErrPaymentSettled
			}
			inv, err := s.repo.GetInvoice(ctx, p.InvoiceID)
			if err != nil {
				return err
			}
			logger.Log.WithFields(logrus.Fields{
				"invoice_id":         p.InvoiceID,
				"checkout_reference": p.CheckoutReference,
				"description":        req.Description,
			}).Warn("payment failed")
			out = &CallbackResponse{Status: PaymentFailed, Invoice: inv}
			return nil
		}

		// A late success after a reported failure still settles the invoice.
		if req.Amount > 0 && math.Abs(req.Amount-p.Amount) > amountTolerance {
			return ErrAmountMismatch
		}
		ok, err := s.repo.SettlePayment(ctx, p.ID, p.Status, PaymentSucceeded, req.Description)
		if err != nil {
			return fmt.Errorf("settle payment: %w", err)
		}
		if !ok {
			return ErrPaymentSettled
		}
		reference := req.PaymentReference
		if reference == "" {
			reference = p.CheckoutReference
		}
		inv, err := s.recordPayment(ctx, p.InvoiceID, reference)
		if err != nil {
			return err
		}
		out = &CallbackResponse{Status: PaymentSucceeded, Invoice: inv}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RecordPayment marks an invoice paid. Confirming an already paid invoice
// returns it unchanged.
func (s *Service) RecordPayment(ctx context.Context, invoiceID int64, reference string) (*Invoice, error) {
	var inv *Invoice
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		inv, err = s.recordPayment(ctx, invoiceID, reference)
		return err
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *Service) recordPayment(ctx context.Context, invoiceID int64, reference string) (*Invoice, error) {
	inv, err := s.repo.GetInvoiceForUpdate(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	if inv.Status == InvoicePaid {
		return inv, nil
	}

	now := time.Now().UTC()
	ok, err := s.repo.MarkPaid(ctx, inv.ID, reference, now)
	if err != nil {
		return nil, fmt.Errorf("mark invoice paid: %w", err)
	}
	if !ok {
		// paid by a concurrent confirmation
		return s.repo.GetInvoice(ctx, inv.ID)
	}
	inv.Status = InvoicePaid
	inv.PaymentReference = reference
	inv.PaidAt = &now

	msg := fmt.Sprintf("Invoice #%d of %.2f has been paid.", inv.ID, inv.Amount)
	if err := s.notifier.Push(ctx, inv.LandlordID, notification.TypeInvoicePaid, msg); err != nil {
		return nil, fmt.Errorf("notify landlord: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"invoice_id": inv.ID,
		"reference":  reference,
	}).Info("invoice paid")
	return inv, nil
}

func (s *Service) lease(ctx context.Context, id int64) (*lease.Lease, error) {
	l, err := s.leases.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaseNotFound
		}
		return nil, err
	}
	return l, nil
}

func (s *Service) views(ctx context.Context, items []Invoice) ([]InvoiceView, error) {
	out := make([]InvoiceView, 0, len(items))
	if len(items) == 0 {
		return out, nil
	}

	propertyIDs := make([]int64, 0, len(items))
	tenantIDs := make([]int64, 0, len(items))
	for _, inv := range items {
		propertyIDs = append(propertyIDs, inv.PropertyID)
		tenantIDs = append(tenantIDs, inv.TenantID)
	}
	props, err := s.properties.GetByIDs(ctx, propertyIDs)
	if err != nil {
		return nil, fmt.Errorf("load properties: %w", err)
	}
	tenants, err := s.users.Contacts(ctx, tenantIDs)
	if err != nil {
		return nil, fmt.Errorf("load tenants: %w", err)
	}

	for _, inv := range items {
		p := props[inv.PropertyID]
		out = append(out, InvoiceView{
			Invoice:       inv,
			PropertyTitle: p.Title,
			PropertyName:  p.Title,
			TenantName:    tenants[inv.TenantID].FullName,
			TenantPhone:   tenants[inv.TenantID].Phone,
		})
	}
	return out, nil
}
