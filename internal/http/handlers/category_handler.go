package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bimodwien/full-ecommerce-new/internal/apperr"
	applog "github.com/bimodwien/full-ecommerce-new/internal/log"
	"github.com/bimodwien/full-ecommerce-new/internal/services"
	"github.com/bimodwien/full-ecommerce-new/internal/validate"
)

type CategoryHandler struct {
	Categories *services.CategoryService
}

type categoryBody struct {
	Name string `json:"name"`
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	page, err := h.Categories.List(c.Query("name"), validate.Page(c.Query("page")), validate.Limit(c.Query("limit")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":    "Get categories success",
		"categories": page.Categories,
		"total":      page.Total,
		"page":       page.Page,
		"totalPages": page.TotalPages,
	})
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var body categoryBody
	if err := c.BodyParser(&body); err != nil {
		return apperr.New(apperr.Validation, "Invalid request body")
	}
	cat, err := h.Categories.Create(body.Name)
	if err != nil {
		return err
	}
	applog.Audit(c, "category.create", map[string]any{"category": cat.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "create category success", "category": cat})
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.New(apperr.NotFound, "Category not found")
	}
	var body categoryBody
	if err := c.BodyParser(&body); err != nil {
		return apperr.New(apperr.Validation, "Invalid request body")
	}
	cat, err := h.Categories.Edit(id, body.Name)
	if err != nil {
		return err
	}
	applog.Audit(c, "category.update", map[string]any{"category": id})
	return c.JSON(fiber.Map{"message": "update category success", "category": cat})
}

func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.New(apperr.NotFound, "Category not found")
	}
	if err := h.Categories.Delete(id); err != nil {
		return err
	}
	applog.Audit(c, "category.delete", map[string]any{"category": id})
	return c.JSON(fiber.Map{"message": "delete category success"})
}
