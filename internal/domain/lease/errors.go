package lease

import "homehub/internal/pkg/apperr"

var (
	ErrLeaseNotFound        = apperr.NotFound("LEASE_NOT_FOUND", "lease not found")
	ErrPropertyNotFound     = apperr.NotFound("PROPERTY_NOT_FOUND", "property not found or not open for applications")
	ErrTenantOnly           = apperr.Forbidden("TENANT_ONLY", "only tenants can apply for leases")
	ErrLandlordOnly         = apperr.Forbidden("LANDLORD_ONLY", "only landlords can decide on leases")
	ErrNotPropertyOwner     = apperr.Forbidden("NOT_PROPERTY_OWNER", "you do not own this property")
	ErrDuplicateApplication = apperr.Conflict("DUPLICATE_APPLICATION", "you already have a pending or active lease for this property")
	ErrPropertyOccupied     = apperr.Conflict("PROPERTY_OCCUPIED", "property already has an active lease")
	ErrConcurrentDecision   = apperr.Conflict("CONCURRENT_DECISION", "another decision on this property was made at the same time, retry")
	ErrLeaseNotPending      = apperr.InvalidState("LEASE_NOT_PENDING", "only pending leases can be decided")
	ErrLeaseNotActive       = apperr.InvalidState("LEASE_NOT_ACTIVE", "only active leases can be terminated")
	ErrInvalidDecision      = apperr.Validation("INVALID_STATUS", "status must be approved or rejected")
	ErrInvalidStatusFilter  = apperr.Validation("INVALID_STATUS", "status must be pending, active, rejected or ended")
	ErrInvalidDate          = apperr.Validation("INVALID_DATE", "dates must be YYYY-MM-DD or RFC3339")
	ErrInvalidDateRange     = apperr.Validation("INVALID_DATE_RANGE", "end_date must be after start_date")
)
