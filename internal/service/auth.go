package service

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/suryapradipta/promo-tourism-system-sub000/internal/apperr"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/jwtutil"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/metrics"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/model"
)

// AuthService is the identity gate: it registers accounts, verifies
// credentials and issues tokens. Nothing else in the system issues identity.
type AuthService struct {
	db  *gorm.DB
	jwt *jwtutil.JWTUtil
}

// NewAuthService creates the identity gate component
func NewAuthService(db *gorm.DB, jwt *jwtutil.JWTUtil) *AuthService {
	return &AuthService{db: db, jwt: jwt}
}

// RegisterUserInput is the payload for account registration
type RegisterUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"required,oneof=ministry merchant customer"`
}

// Register creates an account with a bcrypt-hashed password. Merchant
// accounts start with the first-login flag set so the UI can force a
// password change.
func (s *AuthService) Register(in *RegisterUserInput) (*model.User, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))

	var count int64
	if err := s.db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, apperr.Internal(err, "failed to check user email")
	}
	if count > 0 {
		return nil, apperr.Conflict("email %s is already registered", email)
	}
	// a merchant account is created against its registry email after
	// approval; every other role must not collide with a merchant either
	if in.Role != jwtutil.RoleMerchant {
		if err := s.db.Model(&model.Merchant{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return nil, apperr.Internal(err, "failed to check merchant email")
		}
		if count > 0 {
			return nil, apperr.Conflict("email %s is already registered", email)
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Internal(err, "failed to hash password")
	}

	user := model.User{
		Email:        email,
		Password:     string(hashed),
		Role:         in.Role,
		IsFirstLogin: in.Role == jwtutil.RoleMerchant,
	}

	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("email %s is already registered", email)
		}
		return nil, apperr.Internal(err, "failed to create user")
	}

	return &user, nil
}

// Login verifies credentials and returns a signed identity token
func (s *AuthService) Login(email, password string) (string, *model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user model.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		metrics.RecordAuthError("user_not_found")
		return "", nil, apperr.Validation("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		metrics.RecordAuthError("invalid_password")
		return "", nil, apperr.Validation("invalid credentials")
	}

	token, err := s.jwt.GenerateToken(user.Email, user.ID, user.Role, user.IsFirstLogin)
	if err != nil {
		metrics.RecordAuthError("token_generation_failed")
		return "", nil, apperr.Internal(err, "failed to issue token")
	}

	return token, &user, nil
}

// ChangePassword rotates the password and clears the first-login flag
func (s *AuthService) ChangePassword(userID uint, currentPassword, newPassword string) error {
	if len(newPassword) < 8 {
		return apperr.Validation("new password must be at least 8 characters")
	}

	var user model.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("user %d not found", userID)
		}
		return apperr.Internal(err, "failed to load user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		metrics.RecordAuthError("invalid_password")
		return apperr.Validation("current password is incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperr.Internal(err, "failed to hash password")
	}

	updates := map[string]interface{}{
		"password":       string(hashed),
		"is_first_login": false,
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return apperr.Internal(err, "failed to update password")
	}

	return nil
}
