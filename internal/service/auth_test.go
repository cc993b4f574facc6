package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/suryapradipta/promo-tourism-system-sub000/internal/apperr"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/jwtutil"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/model"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)
	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "test-secret", ExpirationHours: 1})
	return NewAuthService(db, jwt)
}

func TestAuthRegister(t *testing.T) {
	svc := newAuthService(t)

	user, err := svc.Register(&RegisterUserInput{
		Email:    "Clerk@Example.com",
		Password: "supersecret",
		Role:     jwtutil.RoleCustomer,
	})
	require.NoError(t, err)
	assert.Equal(t, "clerk@example.com", user.Email)
	assert.False(t, user.IsFirstLogin)
	// stored as a hash, never the plaintext
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("supersecret")))
}

func TestAuthRegisterValidation(t *testing.T) {
	svc := newAuthService(t)

	cases := []struct {
		name  string
		input RegisterUserInput
	}{
		{"bad email", RegisterUserInput{Email: "nope", Password: "supersecret", Role: "customer"}},
		{"short password", RegisterUserInput{Email: "a@b.com", Password: "short", Role: "customer"}},
		{"unknown role", RegisterUserInput{Email: "a@b.com", Password: "supersecret", Role: "admin"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(&tc.input)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestAuthRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(t)

	in := RegisterUserInput{Email: "a@b.com", Password: "supersecret", Role: "customer"}
	_, err := svc.Register(&in)
	require.NoError(t, err)

	_, err = svc.Register(&in)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestAuthRegisterMerchantFirstLogin(t *testing.T) {
	svc := newAuthService(t)
	merchant := seedMerchant(t, svc.db, model.MerchantApproved)

	// the merchant account reuses the registry email and starts flagged
	// for a forced password change
	user, err := svc.Register(&RegisterUserInput{
		Email:    merchant.Email,
		Password: "supersecret",
		Role:     jwtutil.RoleMerchant,
	})
	require.NoError(t, err)
	assert.True(t, user.IsFirstLogin)

	// any other role colliding with a registry email conflicts
	_, err = svc.Register(&RegisterUserInput{
		Email:    merchant.Email,
		Password: "supersecret",
		Role:     jwtutil.RoleCustomer,
	})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestAuthLogin(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Register(&RegisterUserInput{Email: "a@b.com", Password: "supersecret", Role: "ministry"})
	require.NoError(t, err)

	token, user, err := svc.Login("A@B.com", "supersecret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, jwtutil.RoleMinistry, user.Role)

	claims, err := svc.jwt.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, jwtutil.RoleMinistry, claims.Role)
}

func TestAuthLoginBadCredentials(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Register(&RegisterUserInput{Email: "a@b.com", Password: "supersecret", Role: "customer"})
	require.NoError(t, err)

	_, _, err = svc.Login("a@b.com", "wrong-password")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, _, err = svc.Login("missing@b.com", "supersecret")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestAuthChangePassword(t *testing.T) {
	svc := newAuthService(t)

	user, err := svc.Register(&RegisterUserInput{Email: "m@b.com", Password: "supersecret", Role: "merchant"})
	require.NoError(t, err)
	require.True(t, user.IsFirstLogin)

	require.NoError(t, svc.ChangePassword(user.ID, "supersecret", "evenmoresecret"))

	var reloaded model.User
	require.NoError(t, svc.db.First(&reloaded, user.ID).Error)
	assert.False(t, reloaded.IsFirstLogin)

	_, _, err = svc.Login("m@b.com", "supersecret")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	_, _, err = svc.Login("m@b.com", "evenmoresecret")
	assert.NoError(t, err)
}

func TestAuthChangePasswordRejections(t *testing.T) {
	svc := newAuthService(t)

	user, err := svc.Register(&RegisterUserInput{Email: "m@b.com", Password: "supersecret", Role: "customer"})
	require.NoError(t, err)

	err = svc.ChangePassword(user.ID, "supersecret", "short")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	err = svc.ChangePassword(user.ID, "wrong-current", "evenmoresecret")
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	err = svc.ChangePassword(9999, "supersecret", "evenmoresecret")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
