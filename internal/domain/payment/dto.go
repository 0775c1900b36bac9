package payment

import "strings"

type CreateInvoiceRequest struct {
	LeaseID     int64   `json:"lease_id" validate:"required,gt=0"`
	Amount      float64 `json:"amount" validate:"gt=0"`
	DueDate     string  `json:"due_date" validate:"required"`
	Description string  `json:"description" validate:"max=500"`
}

type PayRequest struct {
	InvoiceID   int64  `json:"invoice_id" validate:"required,gt=0"`
	PhoneNumber string `json:"phone_number" validate:"required,min=9,max=15,numeric"`
}

// normalize strips spaces and a leading + from the phone number.
func (r *PayRequest) normalize() {
	r.PhoneNumber = strings.TrimPrefix(strings.ReplaceAll(strings.TrimSpace(r.PhoneNumber), " ", ""), "+")
}

type PayResponse struct {
	InvoiceID         int64         `json:"invoice_id"`
	CheckoutReference string        `json:"checkout_reference"`
	Status            PaymentStatus `json:"status"`
	Message           string        `json:"message"`
}

// CallbackRequest is the confirmation posted by the payment collaborator.
type CallbackRequest struct {
	CheckoutReference string  `json:"checkout_reference" validate:"required"`
	Result            string  `json:"result" validate:"required"`
	PaymentReference  string  `json:"payment_reference" validate:"max=100"`
	Amount            float64 `json:"amount" validate:"gte=0"`
	Description       string  `json:"description" validate:"max=500"`
}

type CallbackResponse struct {
	Status  PaymentStatus `json:"status"`
	Invoice *Invoice      `json:"invoice"`
}

func parseResult(s string) (PaymentStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "success", "succeeded", "paid", "0":
		return PaymentSucceeded, nil
	case "failed", "failure", "cancelled", "canceled":
		return PaymentFailed, nil
	}
	return "", ErrInvalidResult
}
