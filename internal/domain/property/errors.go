package property

import "homehub/internal/pkg/apperr"

var (
	ErrPropertyNotFound     = apperr.NotFound("PROPERTY_NOT_FOUND", "property not found")
	ErrLandlordOnly         = apperr.Forbidden("LANDLORD_ONLY", "only landlords can manage listings")
	ErrAdminOnly            = apperr.Forbidden("ADMIN_ONLY", "admin access required")
	ErrNotOwner             = apperr.Forbidden("NOT_OWNER", "you do not own this property")
	ErrVerificationRequired = apperr.VerificationRequired("VERIFICATION_REQUIRED", "your landlord account must be verified before publishing properties")
	ErrInvalidAction        = apperr.Validation("INVALID_ACTION", "action must be approve or reject")
	ErrInvalidStatus        = apperr.Validation("INVALID_STATUS", "status must be pending, approved or rejected")
	ErrInvalidTransition    = apperr.InvalidState("INVALID_TRANSITION", "property status cannot change that way")
	ErrNotRejected          = apperr.InvalidState("NOT_REJECTED", "only rejected properties can be resubmitted")
	ErrActiveLease          = apperr.Conflict("ACTIVE_LEASE", "property has an active lease")
	ErrPriceRange           = apperr.Validation("VALIDATION_ERROR", "min_price must not exceed max_price")
	ErrConcurrentUpdate     = apperr.Conflict("CONCURRENT_UPDATE", "property was changed by another request, retry")
)
