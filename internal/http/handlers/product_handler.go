package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/bimodwien/full-ecommerce-new/internal/apperr"
	applog "github.com/bimodwien/full-ecommerce-new/internal/log"
	"github.com/bimodwien/full-ecommerce-new/internal/services"
	"github.com/bimodwien/full-ecommerce-new/internal/validate"
)

// Per-file ceiling for uploaded images.
const maxImageSize = 1 << 20 // 1 MiB

type ProductHandler struct {
	Catalog  *services.CatalogService
	Products *services.ProductService
}

func parsePriceFilter(raw string) (*decimal.Decimal, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || d.IsNegative() {
		return nil, apperr.New(apperr.Validation, "Invalid price filter")
	}
	return &d, nil
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	minPrice, err := parsePriceFilter(c.Query("minPrice"))
	if err != nil {
		return err
	}
	maxPrice, err := parsePriceFilter(c.Query("maxPrice"))
	if err != nil {
		return err
	}
	page, err := h.Catalog.List(services.ListParams{
		Page:       validate.Page(c.Query("page")),
		Limit:      validate.Limit(c.Query("limit")),
		Name:       strings.TrimSpace(c.Query("name")),
		CategoryID: strings.TrimSpace(c.Query("categoryId")),
		MinPrice:   minPrice,
		MaxPrice:   maxPrice,
		Sort:       validate.Sort(c.Query("sort")),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":    "Get products success",
		"products":   page.Products,
		"total":      page.Total,
		"page":       page.Page,
		"totalPages": page.TotalPages,
	})
}

func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.New(apperr.NotFound, "Product not found")
	}
	detail, err := h.Catalog.GetByID(id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Get product success", "product": detail})
}

// Image serves raw image bytes with conditional-GET support. The id resolves
// as an image id first, then as a product id (primary or first image).
func (h *ProductHandler) Image(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.New(apperr.NotFound, "Image not found")
	}
	img, err := h.Catalog.RenderImage(id)
	if err != nil {
		return err
	}

	etag := fmt.Sprintf(`"%d"`, img.UpdatedAt.UnixMilli())
	c.Set("ETag", etag)
	c.Set("Last-Modified", img.UpdatedAt.UTC().Format(http.TimeFormat))
	c.Set("Cache-Control", "public, max-age=3600, stale-while-revalidate=86400")
	if c.Get("If-None-Match") == etag {
		return c.SendStatus(fiber.StatusNotModified)
	}
	c.Set("Content-Type", img.ContentType)
	return c.Send(img.Data)
}

// readUploads pulls the uploaded image files out of a multipart form,
// enforcing the image/* MIME filter and the per-file size ceiling.
func readUploads(form *multipart.Form) ([]services.ImageUpload, error) {
	files := form.File["images"]
	if len(files) == 0 {
		files = form.File["image"]
	}
	uploads := make([]services.ImageUpload, 0, len(files))
	for _, fh := range files {
		ct := fh.Header.Get("Content-Type")
		if !strings.HasPrefix(ct, "image/") {
			return nil, apperr.New(apperr.Validation, "Only image files are allowed")
		}
		if fh.Size > maxImageSize {
			return nil, apperr.New(apperr.Validation, "Image exceeds the 1 MiB limit")
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(io.LimitReader(f, maxImageSize+1))
		_ = f.Close()
		if err != nil {
			return nil, err
		}
		if len(data) > maxImageSize {
			return nil, apperr.New(apperr.Validation, "Image exceeds the 1 MiB limit")
		}
		uploads = append(uploads, services.ImageUpload{Data: data, ContentType: ct})
	}
	return uploads, nil
}

// formValue returns the field value and whether the field was present at all,
// so update handlers can distinguish "omitted" from "set to empty".
func formValue(form *multipart.Form, key string) (string, bool) {
	vs, ok := form.Value[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return apperr.New(apperr.Validation, "Expected multipart form data")
	}
	uploads, err := readUploads(form)
	if err != nil {
		return err
	}

	in := services.CreateProductInput{Images: uploads}
	in.Name, _ = formValue(form, "name")
	in.Price, _ = formValue(form, "price")
	in.CategoryID, _ = formValue(form, "categoryId")
	in.VariantJSON, _ = formValue(form, "variant")
	if desc, ok := formValue(form, "description"); ok {
		in.Description = &desc
	}

	product, err := h.Products.Create(callerID(c), in)
	if err != nil {
		return err
	}
	applog.Audit(c, "product.create", map[string]any{"product": product.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "create product success", "product": product})
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.New(apperr.NotFound, "Product not found")
	}
	form, err := c.MultipartForm()
	if err != nil {
		return apperr.New(apperr.Validation, "Expected multipart form data")
	}
	uploads, err := readUploads(form)
	if err != nil {
		return err
	}

	in := services.UpdateProductInput{Images: uploads}
	if v, ok := formValue(form, "name"); ok {
		in.Name = &v
	}
	if v, ok := formValue(form, "description"); ok {
		in.Description = &v
	}
	if v, ok := formValue(form, "price"); ok {
		in.Price = &v
	}
	if v, ok := formValue(form, "categoryId"); ok {
		in.CategoryID = &v
	}
	in.RemoveImageIDs, _ = formValue(form, "removeImageIds")
	in.VariantJSON, _ = formValue(form, "variant")
	in.VariantUpdates, _ = formValue(form, "variantUpdates")
	in.RemoveVariantIDs, _ = formValue(form, "removeVariantIds")

	product, err := h.Products.Update(callerID(c), id, in)
	if err != nil {
		return err
	}
	applog.Audit(c, "product.update", map[string]any{"product": product.ID})
	return c.JSON(fiber.Map{"message": "update product success", "product": product})
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return apperr.New(apperr.NotFound, "Product not found")
	}
	product, err := h.Products.Delete(callerID(c), id)
	if err != nil {
		return err
	}
	applog.Audit(c, "product.delete", map[string]any{"product": id, "name": product.Name})
	return c.JSON(fiber.Map{"message": "delete product success", "product": product})
}
