package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/bimodwien/full-ecommerce-new/internal/apperr"
	"github.com/bimodwien/full-ecommerce-new/internal/domain"
	applog "github.com/bimodwien/full-ecommerce-new/internal/log"
	"github.com/bimodwien/full-ecommerce-new/internal/services"
)

func bearerToken(c *fiber.Ctx) string {
	h := c.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// RequireUser verifies the bearer token and attaches {userId, role} to the
// request context.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return apperr.New(apperr.Unauthorized, "Unauthorized")
		}
		id, err := auth.Verify(token)
		if err != nil {
			applog.Security(c, "access.denied", nil)
			return err
		}
		c.Locals("userId", id.UserID)
		c.Locals("role", id.Role)
		return c.Next()
	}
}

// RequireSeller gates product and category mutation to seller accounts.
func RequireSeller(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return apperr.New(apperr.Unauthorized, "Unauthorized")
		}
		id, err := auth.Verify(token)
		if err != nil {
			applog.Security(c, "access.denied", nil)
			return err
		}
		if id.Role != domain.RoleSeller {
			applog.Security(c, "access.denied.seller", nil)
			return apperr.New(apperr.Forbidden, "Seller role required")
		}
		c.Locals("userId", id.UserID)
		c.Locals("role", id.Role)
		return c.Next()
	}
}

func callerID(c *fiber.Ctx) string {
	id, _ := c.Locals("userId").(string)
	return id
}
