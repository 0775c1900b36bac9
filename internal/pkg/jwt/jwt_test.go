package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := New("test-secret", time.Hour)

	token, err := svc.GenerateToken(42, "landlord")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "landlord", claims.Role)
	assert.Equal(t, Issuer, claims.Issuer)
	assert.Equal(t, "42", claims.Subject)
}

func TestGenerate_RejectsAnonymousClaims(t *testing.T) {
	svc := New("test-secret", time.Hour)

	_, err := svc.GenerateToken(0, "tenant")
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = svc.GenerateToken(7, " ")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_WrongSecret(t *testing.T) {
	token, err := New("secret-a", time.Hour).GenerateToken(1, "tenant")
	require.NoError(t, err)

	_, err = New("secret-b", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidate_Expired(t *testing.T) {
	svc := New("secret", time.Hour)
	token, err := svc.GenerateToken(1, "tenant")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidate_RejectsForeignTokens(t *testing.T) {
	secret := []byte("secret")
	sign := func(c Claims) string {
		s, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, c).SignedString(secret)
		require.NoError(t, err)
		return s
	}
	exp := jwtlib.NewNumericDate(time.Now().Add(time.Hour))

	cases := map[string]string{
		"other issuer":  sign(Claims{UserID: 1, Role: "tenant", RegisteredClaims: jwtlib.RegisteredClaims{Issuer: "elsewhere", Subject: "1", ExpiresAt: exp}}),
		"no expiry":     sign(Claims{UserID: 1, Role: "tenant", RegisteredClaims: jwtlib.RegisteredClaims{Issuer: Issuer, Subject: "1"}}),
		"subject drift": sign(Claims{UserID: 1, Role: "admin", RegisteredClaims: jwtlib.RegisteredClaims{Issuer: Issuer, Subject: "2", ExpiresAt: exp}}),
		"no role":       sign(Claims{UserID: 1, RegisteredClaims: jwtlib.RegisteredClaims{Issuer: Issuer, Subject: "1", ExpiresAt: exp}}),
	}
	svc := New(string(secret), time.Hour)
	for name, token := range cases {
		_, err := svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}
