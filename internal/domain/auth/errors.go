package auth

import "homehub/internal/pkg/apperr"

var (
	ErrInvalidCredentials            = apperr.Auth("INVALID_CREDENTIALS", "invalid email or password")
	ErrAccountDisabled               = apperr.Auth("ACCOUNT_DISABLED", "account is disabled")
	ErrEmailAlreadyExists            = apperr.Conflict("EMAIL_EXISTS", "email already registered")
	ErrInvalidRole                   = apperr.Validation("INVALID_ROLE", "role must be tenant, landlord or admin")
	ErrAdminSecretRequired           = apperr.Forbidden("ADMIN_SECRET_REQUIRED", "admin registration requires the admin secret")
	ErrInvalidAdminSecret            = apperr.Forbidden("INVALID_ADMIN_SECRET", "invalid admin secret")
	ErrUserNotFound                  = apperr.NotFound("USER_NOT_FOUND", "user not found")
	ErrAdminOnly                     = apperr.Forbidden("ADMIN_ONLY", "admin access required")
	ErrLandlordOnly                  = apperr.Forbidden("LANDLORD_ONLY", "only landlords can do this")
	ErrNotLandlord                   = apperr.Validation("NOT_A_LANDLORD", "verification applies to landlord accounts only")
	ErrInvalidVerificationStatus     = apperr.Validation("INVALID_VERIFICATION_STATUS", "unknown verification status")
	ErrInvalidVerificationAction     = apperr.Validation("INVALID_ACTION", "action must be approve, reject or reset")
	ErrInvalidVerificationTransition = apperr.InvalidState("INVALID_VERIFICATION_TRANSITION", "verification status cannot change that way")
	ErrAlreadyVerified               = apperr.InvalidState("ALREADY_VERIFIED", "account is already verified")
	ErrEmptyFullName                 = apperr.Validation("VALIDATION_ERROR", "full_name must not be empty")
	ErrActiveLeaseExists             = apperr.Conflict("ACTIVE_LEASE_EXISTS", "account cannot be closed while a lease is active")
)
