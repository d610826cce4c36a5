package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bimodwien/full-ecommerce-new/internal/apperr"
	applog "github.com/bimodwien/full-ecommerce-new/internal/log"
	"github.com/bimodwien/full-ecommerce-new/internal/services"
	"github.com/bimodwien/full-ecommerce-new/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

func (h *CartHandler) List(c *fiber.Ctx) error {
	page, err := h.Cart.List(callerID(c), validate.Page(c.Query("page")), validate.Limit(c.Query("limit")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":    "Get carts success",
		"carts":      page.Carts,
		"total":      page.Total,
		"page":       page.Page,
		"totalPages": page.TotalPages,
	})
}

func (h *CartHandler) Create(c *fiber.Ctx) error {
	var body struct {
		ProductID string `json:"productId"`
		VariantID string `json:"variantId"`
		Quantity  *int   `json:"quantity"`
	}
	if err := c.BodyParser(&body); err != nil {
		return apperr.New(apperr.Validation, "Invalid request body")
	}
	line, err := h.Cart.Create(callerID(c), services.CreateCartInput{
		ProductID: body.ProductID,
		VariantID: body.VariantID,
		Quantity:  body.Quantity,
	})
	if err != nil {
		return err
	}
	applog.Audit(c, "cart.create", map[string]any{"product": body.ProductID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "create cart success", "cart": line})
}

func (h *CartHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.New(apperr.NotFound, "Cart item not found")
	}
	var body struct {
		Quantity *int `json:"quantity"`
		Delta    *int `json:"delta"`
	}
	if err := c.BodyParser(&body); err != nil {
		return apperr.New(apperr.Validation, "Quantity must be a non-negative integer")
	}
	line, err := h.Cart.Update(callerID(c), id, services.UpdateCartInput{
		Quantity: body.Quantity,
		Delta:    body.Delta,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "update cart success", "cart": line})
}

func (h *CartHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.New(apperr.NotFound, "Cart item not found")
	}
	line, err := h.Cart.Delete(callerID(c), id)
	if err != nil {
		return err
	}
	applog.Audit(c, "cart.delete", map[string]any{"cart": id})
	return c.JSON(fiber.Map{"message": "delete cart success", "cart": line})
}
