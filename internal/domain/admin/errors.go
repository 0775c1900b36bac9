package admin

import "homehub/internal/pkg/apperr"

var (
	ErrAdminOnly   = apperr.Forbidden("ADMIN_ONLY", "admin access required")
	ErrInvalidRole = apperr.Validation("INVALID_ROLE", "role must be tenant, landlord or admin")
)
