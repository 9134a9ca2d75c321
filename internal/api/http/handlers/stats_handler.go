package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fairgrounds/registration-service/internal/auth"
	"github.com/fairgrounds/registration-service/internal/service"
)

// StatsHandler exposes aggregated registration statistics.
type StatsHandler struct {
	service *service.StatsService
}

// NewStatsHandler constructs handler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{service: statsService}
}

// Dashboard GET /api/dashboard/stats.
func (h *StatsHandler) Dashboard(c *fiber.Ctx) error {
	if _, err := auth.Require(c, auth.ActionReadDashboardStats); err != nil {
		return err
	}
	stats, err := h.service.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}

// Treasury GET /api/treasury/stats.
func (h *StatsHandler) Treasury(c *fiber.Ctx) error {
	if _, err := auth.Require(c, auth.ActionReadDashboardStats); err != nil {
		return err
	}
	stats, err := h.service.Treasury(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": stats})
}
