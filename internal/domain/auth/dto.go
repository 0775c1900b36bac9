package auth

import "strings"

type RegisterRequest struct {
	FullName    string `json:"full_name" validate:"required,max=120"`
	Email       string `json:"email" validate:"required,email,max=255"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	Role        string `json:"role"`
	Phone       string `json:"phone" validate:"max=32"`
	AdminSecret string `json:"admin_secret"`
}

func (r *RegisterRequest) normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = normalizeEmail(r.Email)
	r.Role = strings.ToLower(strings.TrimSpace(r.Role))
	r.Phone = strings.TrimSpace(r.Phone)
	r.AdminSecret = strings.TrimSpace(r.AdminSecret)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int64       `json:"expires_in"`
	User        UserSummary `json:"user"`
}

type UserSummary struct {
	ID                 int64              `json:"id"`
	Role               Role               `json:"role"`
	FullName           string             `json:"full_name"`
	Name               string             `json:"name"`
	Email              string             `json:"email"`
	VerificationStatus VerificationStatus `json:"verification_status"`
}

func SummaryOf(u *User) UserSummary {
	return UserSummary{
		ID:                 u.ID,
		Role:               u.Role,
		FullName:           u.FullName,
		Name:               u.FullName,
		Email:              u.Email,
		VerificationStatus: u.VerificationStatus,
	}
}

type RegisterResponse struct {
	Message string      `json:"message"`
	User    UserSummary `json:"user"`
}

type UpdateProfileRequest struct {
	FullName    *string `json:"full_name" validate:"omitempty,min=1,max=120"`
	Phone       *string `json:"phone" validate:"omitempty,max=32"`
	Gender      *string `json:"gender" validate:"omitempty,max=20"`
	DateOfBirth *string `json:"dob" validate:"omitempty,max=20"`
}

type SubmitVerificationRequest struct {
	NationalID  string `json:"national_id" form:"national_id" validate:"required,max=40"`
	KRAPin      string `json:"kra_pin" form:"kra_pin" validate:"required,max=40"`
	DocumentRef string `json:"document_ref" form:"document_ref" validate:"max=512"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
