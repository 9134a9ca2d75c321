package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fairgrounds/registration-service/internal/api/dto"
	"github.com/fairgrounds/registration-service/internal/auth"
	"github.com/fairgrounds/registration-service/internal/service"
	apperrors "github.com/fairgrounds/registration-service/pkg/util"
)

// UsersHandler manages back-office account endpoints. All of them are
// admin-only.
type UsersHandler struct {
	service *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{service: userService}
}

// Create POST /api/users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	principal, err := auth.Require(c, auth.ActionManageUsers)
	if err != nil {
		return err
	}
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return dto.AsDomainError(err)
	}

	user, err := h.service.Create(c.UserContext(), principal, req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromUser(user)})
}

// List GET /api/users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	if _, err := auth.Require(c, auth.ActionManageUsers); err != nil {
		return err
	}
	filter := service.UserListFilter{
		Page:  parsePositiveInt(c.Query("page"), 1),
		Limit: parsePositiveInt(c.Query("limit"), 0),
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		filter.Search = &search
	}

	users, page, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromUsers(users, page)})
}

// Get GET /api/users/:id.
func (h *UsersHandler) Get(c *fiber.Ctx) error {
	if _, err := auth.Require(c, auth.ActionManageUsers); err != nil {
		return err
	}
	user, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromUser(user)})
}

// Update PUT /api/users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	principal, err := auth.Require(c, auth.ActionManageUsers)
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return dto.AsDomainError(err)
	}

	user, err := h.service.Update(c.UserContext(), principal, c.Params("id"), req.ToInput())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromUser(user)})
}

// Delete DELETE /api/users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	principal, err := auth.Require(c, auth.ActionManageUsers)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), principal, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
