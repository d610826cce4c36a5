package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/bimodwien/full-ecommerce-new/internal/apperr"
	applog "github.com/bimodwien/full-ecommerce-new/internal/log"
)

// ErrorHandler is the app-level error mapper: typed service errors become
// their status code and message, everything else is logged and hidden behind
// a generic 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}

	var status int
	switch apperr.KindOf(err) {
	case apperr.Unauthorized:
		status = fiber.StatusUnauthorized
	case apperr.Forbidden:
		status = fiber.StatusForbidden
	case apperr.Validation:
		status = fiber.StatusBadRequest
	case apperr.NotFound:
		status = fiber.StatusNotFound
	case apperr.Conflict:
		status = fiber.StatusConflict
	default:
		applog.Error(c, "server.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Internal server error"})
	}
	return c.Status(status).JSON(fiber.Map{"message": err.Error()})
}
