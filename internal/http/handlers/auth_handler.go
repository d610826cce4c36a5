package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bimodwien/full-ecommerce-new/internal/apperr"
	applog "github.com/bimodwien/full-ecommerce-new/internal/log"
	"github.com/bimodwien/full-ecommerce-new/internal/services"
)

type AuthHandler struct {
	Auth *services.AuthService
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := c.BodyParser(&body); err != nil {
		return apperr.New(apperr.Validation, "Invalid request body")
	}
	user, err := h.Auth.Register(body.Name, body.Email, body.Password, body.Role)
	if err != nil {
		return err
	}
	applog.Audit(c, "auth.register", map[string]any{"user": user.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "register success", "user": user})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return apperr.New(apperr.Validation, "Invalid request body")
	}
	token, user, err := h.Auth.Login(body.Email, body.Password)
	if err != nil {
		applog.Security(c, "auth.login_failed", map[string]any{"email": body.Email})
		return err
	}
	applog.Audit(c, "auth.login", map[string]any{"user": user.ID})
	return c.JSON(fiber.Map{"message": "login success", "token": token, "user": user})
}
