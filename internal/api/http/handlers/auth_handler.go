package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fairgrounds/registration-service/internal/api/dto"
	"github.com/fairgrounds/registration-service/internal/service"
	apperrors "github.com/fairgrounds/registration-service/pkg/util"
)

// AuthHandler exposes back-office login.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return dto.AsDomainError(err)
	}

	user, token, exp, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AuthResponse{
		Token:     token,
		ExpiresAt: exp,
		User:      dto.FromUser(user),
	}})
}
