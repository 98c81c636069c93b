package handler

import (
	"github.com/mazenibra89-oss/Omni-POS/internal/service"

	"github.com/gofiber/fiber/v2"
)

type PurchasingHandler struct {
	service service.PurchasingService
}

func NewPurchasingHandler(s service.PurchasingService) *PurchasingHandler {
	return &PurchasingHandler{service: s}
}

func (h *PurchasingHandler) CreatePurchase(c *fiber.Ctx) error {
	var req service.PurchaseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	order, err := h.service.RecordPurchase(&req, getActor(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Purchase order recorded", "data": order})
}

func (h *PurchasingHandler) ReceivePurchase(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid purchase order ID"})
	}

	order, err := h.service.ReceivePurchase(id, getActor(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"message": "Purchase order received", "data": order})
}

func (h *PurchasingHandler) CancelPurchase(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid purchase order ID"})
	}

	order, err := h.service.CancelPurchase(id, getActor(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"message": "Purchase order cancelled", "data": order})
}

func (h *PurchasingHandler) GetPurchases(c *fiber.Ctx) error {
	orders, err := h.service.GetAllPurchases()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(orders)
}

func (h *PurchasingHandler) GetPurchase(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid purchase order ID"})
	}

	order, err := h.service.GetPurchaseByID(id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(order)
}
