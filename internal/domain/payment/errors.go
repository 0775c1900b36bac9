package payment

import "homehub/internal/pkg/apperr"

var (
	ErrInvoiceNotFound    = apperr.NotFound("INVOICE_NOT_FOUND", "invoice not found")
	ErrPaymentNotFound    = apperr.NotFound("PAYMENT_NOT_FOUND", "payment not found")
	ErrLeaseNotFound      = apperr.NotFound("LEASE_NOT_FOUND", "lease not found")
	ErrLandlordOnly       = apperr.Forbidden("LANDLORD_ONLY", "only landlords can issue invoices")
	ErrTenantOnly         = apperr.Forbidden("TENANT_ONLY", "only tenants can pay invoices")
	ErrNotPropertyOwner   = apperr.Forbidden("NOT_PROPERTY_OWNER", "you do not own this property")
	ErrLeaseNotActive     = apperr.InvalidState("LEASE_NOT_ACTIVE", "invoices can only be issued against active leases")
	ErrInvoiceAlreadyPaid = apperr.InvalidState("INVOICE_PAID", "invoice is already paid")
	ErrPaymentSettled     = apperr.InvalidState("PAYMENT_SETTLED", "payment already succeeded")
	ErrInvalidDueDate     = apperr.Validation("INVALID_DUE_DATE", "due_date must be YYYY-MM-DD or RFC3339")
	ErrAmountMismatch     = apperr.Validation("AMOUNT_MISMATCH", "paid amount does not match the invoice")
	ErrInvalidResult      = apperr.Validation("INVALID_RESULT", "result must be success or failed")
	ErrGatewayUnavailable = apperr.Unavailable("GATEWAY_UNAVAILABLE", "payment service is unavailable, try again later")
)
