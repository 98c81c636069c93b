package handler

import (
	"github.com/mazenibra89-oss/Omni-POS/internal/apperr"
	"github.com/mazenibra89-oss/Omni-POS/internal/model"
	"github.com/mazenibra89-oss/Omni-POS/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// getActor builds the acting user from JWT context (set by RequireAuth).
func getActor(c *fiber.Ctx) service.Actor {
	actor := service.Actor{ID: "system", Name: "Unknown"}
	if v, ok := c.Locals("user_id").(string); ok {
		actor.ID = v
	}
	if v, ok := c.Locals("user_name").(string); ok {
		actor.Name = v
	}
	if v, ok := c.Locals("user_role").(string); ok {
		actor.Role = model.Role(v)
	}
	return actor
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// respondErr maps service errors onto HTTP responses through the error
// taxonomy; anything untyped is a 500.
func respondErr(c *fiber.Ctx, err error) error {
	status := apperr.HTTPStatus(err)
	if status == 500 {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
