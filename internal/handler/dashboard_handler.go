package handler

import (
	"strconv"

	"github.com/mazenibra89-oss/Omni-POS/internal/service"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := h.service.GetDashboardStats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(stats)
}

func (h *DashboardHandler) GetStockMovement(c *fiber.Ctx) error {
	days := queryDays(c, 7)

	movement, err := h.service.GetStockMovement(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(movement)
}

func (h *DashboardHandler) GetSalesSummary(c *fiber.Ctx) error {
	days := queryDays(c, 30)

	summary, err := h.service.GetSalesSummary(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(summary)
}

func queryDays(c *fiber.Ctx, def int) int {
	days, err := strconv.Atoi(c.Query("days", strconv.Itoa(def)))
	if err != nil || days <= 0 {
		return def
	}
	return days
}
