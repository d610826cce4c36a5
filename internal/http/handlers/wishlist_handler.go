package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bimodwien/full-ecommerce-new/internal/apperr"
	applog "github.com/bimodwien/full-ecommerce-new/internal/log"
	"github.com/bimodwien/full-ecommerce-new/internal/services"
	"github.com/bimodwien/full-ecommerce-new/internal/validate"
)

type WishlistHandler struct {
	Wishlist *services.WishlistService
}

type wishlistBody struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
}

func (h *WishlistHandler) List(c *fiber.Ctx) error {
	page, err := h.Wishlist.List(callerID(c), validate.Page(c.Query("page")), validate.Limit(c.Query("limit")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":    "Get wishlists success",
		"wishlists":  page.Wishlists,
		"total":      page.Total,
		"page":       page.Page,
		"totalPages": page.TotalPages,
	})
}

func (h *WishlistHandler) Create(c *fiber.Ctx) error {
	var body wishlistBody
	if err := c.BodyParser(&body); err != nil {
		return apperr.New(apperr.Validation, "Invalid request body")
	}
	line, err := h.Wishlist.Create(callerID(c), body.ProductID, body.VariantID)
	if err != nil {
		return err
	}
	applog.Audit(c, "wishlist.create", map[string]any{"product": body.ProductID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "create wishlist success", "wishlist": line})
}

func (h *WishlistHandler) Toggle(c *fiber.Ctx) error {
	var body wishlistBody
	if err := c.BodyParser(&body); err != nil {
		return apperr.New(apperr.Validation, "Invalid request body")
	}
	res, err := h.Wishlist.Toggle(callerID(c), body.ProductID, body.VariantID)
	if err != nil {
		return err
	}
	applog.Audit(c, "wishlist.toggle", map[string]any{"product": body.ProductID, "action": res.Action})
	status := fiber.StatusOK
	if res.Action == "created" {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(fiber.Map{
		"message":  "toggle wishlist success",
		"action":   res.Action,
		"wishlist": res.Wishlist,
	})
}

func (h *WishlistHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.New(apperr.NotFound, "Wishlist not found")
	}
	line, err := h.Wishlist.Delete(callerID(c), id)
	if err != nil {
		return err
	}
	applog.Audit(c, "wishlist.delete", map[string]any{"wishlist": id})
	return c.JSON(fiber.Map{"message": "delete wishlist success", "wishlist": line})
}
