package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"homehub/internal/pkg/logger"
)

// Checkout is a collection request for one invoice.
type Checkout struct {
	InvoiceID   int64
	Amount      float64
	PhoneNumber string
	Description string
}

// Gateway starts a mobile-money collection. The outcome arrives later through
// the payment callback.
type Gateway interface {
	Initiate(ctx context.Context, checkout Checkout) (reference string, err error)
}

// SandboxGateway accepts every request without contacting a provider.
type SandboxGateway struct{}

func NewSandboxGateway() *SandboxGateway {
	return &SandboxGateway{}
}

func (SandboxGateway) Initiate(_ context.Context, checkout Checkout) (string, error) {
	ref := uuid.NewString()
	logger.Log.WithFields(logrus.Fields{
		"invoice_id":         checkout.InvoiceID,
		"amount":             checkout.Amount,
		"checkout_reference": ref,
	}).Info("sandbox payment initiated")
	return ref, nil
}
