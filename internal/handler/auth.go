package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/suryapradipta/promo-tourism-system-sub000/internal/logger"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/middleware"
	"github.com/suryapradipta/promo-tourism-system-sub000/internal/service"
)

// AuthHandler exposes the identity gate over HTTP
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates the auth endpoints handler
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register handles account creation
func (h *AuthHandler) Register(c echo.Context) error {
	log := logger.FromEcho(c)

	var req service.RegisterUserInput
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse registration request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	user, err := h.auth.Register(&req)
	if err != nil {
		return respondError(c, err)
	}

	log.Info("User registered", zap.String("email", user.Email), zap.String("role", user.Role))
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user": echo.Map{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// Login handles credential verification and token issuance
func (h *AuthHandler) Login(c echo.Context) error {
	log := logger.FromEcho(c)

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	token, user, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		log.Warn("Login failed", zap.String("email", req.Email))
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	log.Info("User logged in", zap.String("email", user.Email), zap.String("role", user.Role))
	return c.JSON(http.StatusOK, echo.Map{
		"token": token,
		"user": echo.Map{
			"id":             user.ID,
			"email":          user.Email,
			"role":           user.Role,
			"is_first_login": user.IsFirstLogin,
		},
	})
}

// ChangePassword rotates the caller's password
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	log := logger.FromEcho(c)

	claims, ok := middleware.ClaimsFromEcho(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse password change request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if err := h.auth.ChangePassword(claims.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}

	log.Info("Password changed", zap.Uint("user_id", claims.UserID))
	return c.JSON(http.StatusOK, echo.Map{"message": "Password changed successfully"})
}
