package handler

import (
	"github.com/mazenibra89-oss/Omni-POS/internal/model"
	"github.com/mazenibra89-oss/Omni-POS/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type OpnameHandler struct {
	service service.OpnameService
}

func NewOpnameHandler(s service.OpnameService) *OpnameHandler {
	return &OpnameHandler{service: s}
}

// GetTemplate returns an unsaved count sheet seeded from current stock.
func (h *OpnameHandler) GetTemplate(c *fiber.Ctx) error {
	details, err := h.service.Template()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(details)
}

func (h *OpnameHandler) SaveSession(c *fiber.Ctx) error {
	var req struct {
		Counts map[uuid.UUID]int `json:"counts"`
		Notes  string            `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	session, err := h.service.SaveSession(req.Counts, req.Notes, getActor(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Opname session saved", "data": session})
}

func (h *OpnameHandler) EditDetail(c *fiber.Ctx) error {
	sessionID, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid session ID"})
	}
	productID, err := parseUUID(c.Params("productId"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
	}

	var req struct {
		PhysicalStock int `json:"physical_stock"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	session, err := h.service.EditDetail(sessionID, productID, req.PhysicalStock, getActor(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"message": "Count updated", "data": session})
}

func (h *OpnameHandler) Propose(c *fiber.Ctx) error {
	return h.transition(c, h.service.Propose, "Opname session proposed")
}

func (h *OpnameHandler) Approve(c *fiber.Ctx) error {
	return h.transition(c, h.service.Approve, "Opname session approved, stock synced")
}

func (h *OpnameHandler) Reject(c *fiber.Ctx) error {
	return h.transition(c, h.service.Reject, "Opname session rejected")
}

func (h *OpnameHandler) transition(c *fiber.Ctx, fn func(uuid.UUID, service.Actor) (*model.OpnameSession, error), message string) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid session ID"})
	}

	session, err := fn(id, getActor(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(fiber.Map{"message": message, "data": session})
}

func (h *OpnameHandler) GetSessions(c *fiber.Ctx) error {
	sessions, err := h.service.GetAllSessions()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(sessions)
}

func (h *OpnameHandler) GetSession(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid session ID"})
	}

	session, err := h.service.GetSessionByID(id)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(session)
}
