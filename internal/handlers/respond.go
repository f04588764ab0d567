package handlers

import (
	"errors"
	"hosteldesk/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// respondError translates a service error into an HTTP response. Expected
// failures carry a kind chosen by the service layer; anything else is a 500
// with the detail kept out of the response body.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *services.AppError
	if errors.As(err, &appErr) {
		status := fiber.StatusInternalServerError
		switch appErr.Kind {
		case services.KindValidation:
			status = fiber.StatusBadRequest
		case services.KindNotFound:
			status = fiber.StatusNotFound
		case services.KindConflict:
			status = fiber.StatusConflict
		}

		body := fiber.Map{"error": appErr.Message, "code": appErr.Code}
		if appErr.Kind == services.KindInternal {
			body = fiber.Map{"error": "internal server error", "code": appErr.Code}
		}
		return c.Status(status).JSON(body)
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal server error",
		"code":  "internal",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
		"code":  "validation",
	})
}

// parseUUIDParam parses a path parameter as a UUID. On failure it writes the
// 400 response itself and reports ok=false; the handler just returns.
func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		_ = badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// parseUUIDQuery parses an optional query parameter as a UUID. A missing
// parameter yields (nil, true).
func parseUUIDQuery(c *fiber.Ctx, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		_ = badRequest(c, "invalid "+name)
		return nil, false
	}
	return &id, true
}
