package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/fairgrounds/registration-service/internal/api/dto"
	"github.com/fairgrounds/registration-service/internal/auth"
	"github.com/fairgrounds/registration-service/internal/domain"
	"github.com/fairgrounds/registration-service/internal/service"
	apperrors "github.com/fairgrounds/registration-service/pkg/util"
)

// RegistrationsHandler manages booth registration endpoints.
type RegistrationsHandler struct {
	service *service.RegistrationService
}

// NewRegistrationsHandler constructs handler.
func NewRegistrationsHandler(registrationService *service.RegistrationService) *RegistrationsHandler {
	return &RegistrationsHandler{service: registrationService}
}

// Create POST /api/registrations. This is the public submission endpoint.
func (h *RegistrationsHandler) Create(c *fiber.Ctx) error {
	principal, err := auth.Require(c, auth.ActionCreateRegistration)
	if err != nil {
		return err
	}
	var req dto.CreateRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return dto.AsDomainError(err)
	}

	reg, err := h.service.Create(c.UserContext(), service.PrincipalActor(principal), req.ToInput())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromRegistration(reg)})
}

// List GET /api/registrations.
func (h *RegistrationsHandler) List(c *fiber.Ctx) error {
	if _, err := auth.Require(c, auth.ActionListRegistrations); err != nil {
		return err
	}
	filter, err := parseRegistrationQuery(c)
	if err != nil {
		return err
	}
	regs, page, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromRegistrations(regs, page)})
}

// Get GET /api/registrations/:id.
func (h *RegistrationsHandler) Get(c *fiber.Ctx) error {
	if _, err := auth.Require(c, auth.ActionReadRegistration); err != nil {
		return err
	}
	reg, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromRegistration(reg)})
}

// Update PUT /api/registrations/:id.
func (h *RegistrationsHandler) Update(c *fiber.Ctx) error {
	principal, err := auth.Require(c, auth.ActionUpdateRegistration)
	if err != nil {
		return err
	}
	var req dto.UpdateRegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := req.Validate(); err != nil {
		return dto.AsDomainError(err)
	}

	reg, err := h.service.Update(c.UserContext(), service.PrincipalActor(principal), c.Params("id"), req.ToUpdate())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromRegistration(reg)})
}

// Delete DELETE /api/registrations/:id.
func (h *RegistrationsHandler) Delete(c *fiber.Ctx) error {
	principal, err := auth.Require(c, auth.ActionDeleteRegistration)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), service.PrincipalActor(principal), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseRegistrationQuery(c *fiber.Ctx) (service.RegistrationListFilter, error) {
	filter := service.RegistrationListFilter{
		Page:  parsePositiveInt(c.Query("page"), 1),
		Limit: parsePositiveInt(c.Query("limit"), 0),
	}

	// "all" is accepted as an explicit no-filter sentinel.
	if raw := strings.TrimSpace(c.Query("status")); raw != "" && raw != "all" {
		status := domain.RegistrationStatus(raw)
		switch status {
		case domain.StatusPending, domain.StatusApproved, domain.StatusRejected, domain.StatusPaid:
			filter.Status = &status
		default:
			return filter, apperrors.NewValidationError("invalid status filter", map[string]any{
				"status": "must be one of pending, approved, rejected, paid",
			})
		}
	}

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		filter.Search = &search
	}
	return filter, nil
}

func parsePositiveInt(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < 1 {
		return fallback
	}
	return val
}
