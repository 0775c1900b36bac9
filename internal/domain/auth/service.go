package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"homehub/internal/database"
	"homehub/internal/domain/notification"
	"homehub/internal/pkg/logger"
	"homehub/internal/pkg/validator"
)

type Service struct {
	users       *Repository
	tx          TxRunner
	tokens      TokenIssuer
	tokenTTL    time.Duration
	notifier    Notifier
	leases      LeaseChecker
	adminSecret string
}

type Options struct {
	TokenTTL    time.Duration
	AdminSecret string
	Leases      LeaseChecker
}

func NewService(users *Repository, tx TxRunner, tokens TokenIssuer, notifier Notifier, opts Options) *Service {
	return &Service{
		users:       users,
		tx:          tx,
		tokens:      tokens,
		tokenTTL:    opts.TokenTTL,
		notifier:    notifier,
		leases:      opts.Leases,
		adminSecret: opts.AdminSecret,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	req.normalize()
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	role, ok := ParseRole(req.Role)
	if !ok {
		return nil, ErrInvalidRole
	}
	// The secret only matters for admin signups; tenants and landlords ignore it.
	if role == RoleAdmin || (req.Role == "" && req.AdminSecret != "") {
		if req.AdminSecret == "" {
			return nil, ErrAdminSecretRequired
		}
		if !s.adminSecretMatches(req.AdminSecret) {
			return nil, ErrInvalidAdminSecret
		}
		role = RoleAdmin
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	status := VerificationActive
	if role == RoleLandlord {
		status = VerificationPending
	}

	u := &User{
		FullName:           req.FullName,
		Email:              req.Email,
		PasswordHash:       hash,
		Role:               role,
		Phone:              req.Phone,
		VerificationStatus: status,
		IsActive:           true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{"user_id": u.ID, "role": u.Role}).Info("user registered")
	return u, nil
}

func (s *Service) adminSecretMatches(secret string) bool {
	if s.adminSecret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(s.adminSecret)) == 1
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if err := CheckPassword(req.Password, u.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(u.ID, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokenTTL.Seconds()),
		User:        SummaryOf(u),
	}, nil
}

// EnsureActive fails with ErrAccountDisabled unless userID names an active account.
func (s *Service) EnsureActive(ctx context.Context, userID int64) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAccountDisabled
		}
		return err
	}
	if !u.IsActive {
		return ErrAccountDisabled
	}
	return nil
}

func (s *Service) GetUser(ctx context.Context, userID int64) (*User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*User, error) {
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return nil, ErrEmptyFullName
		}
		fields["full_name"] = name
	}
	if req.Phone != nil {
		fields["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Gender != nil {
		fields["gender"] = strings.TrimSpace(*req.Gender)
	}
	if req.DateOfBirth != nil {
		fields["dob"] = strings.TrimSpace(*req.DateOfBirth)
	}

	if len(fields) > 0 {
		if err := s.users.UpdateFields(ctx, userID, fields); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
	}
	return s.GetUser(ctx, userID)
}

// Deactivate soft-disables the account. Data is kept; the user can no longer
// sign in.
func (s *Service) Deactivate(ctx context.Context, userID int64) error {
	if s.leases != nil {
		busy, err := s.leases.HasActiveLeaseForUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("check leases: %w", err)
		}
		if busy {
			return ErrActiveLeaseExists
		}
	}

	if err := s.users.UpdateFields(ctx, userID, map[string]any{"is_active": false}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	logger.Log.WithField("user_id", userID).Info("account deactivated")
	return nil
}

// SetVerification applies an admin decision to a landlord's verification status.
func (s *Service) SetVerification(ctx context.Context, actor Actor, userID int64, status VerificationStatus) (*User, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	switch status {
	case VerificationPending, VerificationActive, VerificationRejected:
	default:
		return nil, ErrInvalidVerificationStatus
	}

	var updated *User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.users.GetByIDForUpdate(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if u.Role != RoleLandlord {
			return ErrNotLandlord
		}
		if !CanTransition(u.VerificationStatus, status) {
			return ErrInvalidVerificationTransition
		}

		fields := map[string]any{"verification_status": status}
		if status == VerificationActive {
			now := time.Now().UTC()
			fields["verified_at"] = now
			u.VerifiedAt = &now
		}
		if err := s.users.UpdateFields(ctx, u.ID, fields); err != nil {
			return err
		}
		u.VerificationStatus = status

		if err := s.notifier.Push(ctx, u.ID, notification.TypeVerificationUpdated, verificationMessage(status)); err != nil {
			return fmt.Errorf("notify landlord: %w", err)
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Log.WithFields(logrus.Fields{
		"user_id":  userID,
		"admin_id": actor.ID,
		"status":   status,
	}).Info("landlord verification updated")
	return updated, nil
}

func verificationMessage(status VerificationStatus) string {
	switch status {
	case VerificationActive:
		return "Your landlord account has been verified. You can now publish properties."
	case VerificationRejected:
		return "Your landlord verification was rejected. Please review your documents and resubmit."
	default:
		return "Your landlord verification is pending review."
	}
}

// SubmitVerification stores a landlord's identity documents and queues the
// account for admin review.
func (s *Service) SubmitVerification(ctx context.Context, actor Actor, req SubmitVerificationRequest) (*User, error) {
	if !actor.IsLandlord() {
		return nil, ErrLandlordOnly
	}
	req.NationalID = strings.TrimSpace(req.NationalID)
	req.KRAPin = strings.ToUpper(strings.TrimSpace(req.KRAPin))
	req.DocumentRef = strings.TrimSpace(req.DocumentRef)
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	var updated *User
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		u, err := s.users.GetByIDForUpdate(ctx, actor.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		if u.VerificationStatus == VerificationActive {
			return ErrAlreadyVerified
		}

		now := time.Now().UTC()
		fields := map[string]any{
			"national_id":               req.NationalID,
			"kra_pin":                   req.KRAPin,
			"verification_status":       VerificationPending,
			"verification_submitted_at": now,
		}
		if req.DocumentRef != "" {
			fields["identity_document"] = req.DocumentRef
			u.IdentityDocument = req.DocumentRef
		}
		if err := s.users.UpdateFields(ctx, u.ID, fields); err != nil {
			return err
		}
		u.NationalID = req.NationalID
		u.KRAPin = req.KRAPin
		u.VerificationStatus = VerificationPending
		u.VerificationSubmittedAt = &now

		admins, err := s.users.ActiveAdminIDs(ctx)
		if err != nil {
			return err
		}
		msg := fmt.Sprintf("Landlord %s submitted verification documents.", u.FullName)
		for _, adminID := range admins {
			if err := s.notifier.Push(ctx, adminID, notification.TypeVerificationSubmitted, msg); err != nil {
				return fmt.Errorf("notify admin: %w", err)
			}
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) ListPendingLandlords(ctx context.Context) ([]User, error) {
	return s.users.List(ctx, RoleLandlord, VerificationPending)
}

func (s *Service) ListUsers(ctx context.Context, role Role) ([]User, error) {
	return s.users.List(ctx, role, "")
}

func (s *Service) CountByRole(ctx context.Context) ([]RoleCount, error) {
	return s.users.CountByRole(ctx)
}

// PromoteToAdmin turns an existing account into an admin. Used by the CLI.
func (s *Service) PromoteToAdmin(ctx context.Context, email string) (*User, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	fields := map[string]any{"role": RoleAdmin, "verification_status": VerificationActive}
	if err := s.users.UpdateFields(ctx, u.ID, fields); err != nil {
		return nil, err
	}
	u.Role = RoleAdmin
	u.VerificationStatus = VerificationActive
	return u, nil
}

// ParseVerificationAction maps admin console actions onto target statuses.
func ParseVerificationAction(action string) (VerificationStatus, error) {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case "approve", "approved", "verify", "active":
		return VerificationActive, nil
	case "reject", "rejected":
		return VerificationRejected, nil
	case "reset", "pending":
		return VerificationPending, nil
	}
	return "", ErrInvalidVerificationAction
}
