package maintenance

import "homehub/internal/pkg/apperr"

var (
	ErrRequestNotFound   = apperr.NotFound("MAINTENANCE_NOT_FOUND", "maintenance request not found")
	ErrTenantOnly        = apperr.Forbidden("TENANT_ONLY", "only tenants can file maintenance requests")
	ErrLandlordOnly      = apperr.Forbidden("LANDLORD_ONLY", "only landlords can update maintenance requests")
	ErrNoActiveLease     = apperr.Forbidden("NO_ACTIVE_LEASE", "you need an active lease on this unit to file a maintenance request")
	ErrAmbiguousLease    = apperr.Validation("LEASE_REQUIRED", "you have several active leases, choose the unit")
	ErrNotPropertyOwner  = apperr.Forbidden("NOT_PROPERTY_OWNER", "you do not own this property")
	ErrInvalidPriority   = apperr.Validation("INVALID_PRIORITY", "priority must be low, medium or high")
	ErrInvalidStatus     = apperr.Validation("INVALID_STATUS", "status must be pending, in_progress or completed")
	ErrRequestClosed     = apperr.InvalidState("REQUEST_COMPLETED", "completed requests cannot change")
	ErrInvalidTransition = apperr.InvalidState("INVALID_TRANSITION", "maintenance status can only move forward")
)
