package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/bimodwien/full-ecommerce-new/internal/apperr"
	"github.com/bimodwien/full-ecommerce-new/internal/domain"
	"github.com/bimodwien/full-ecommerce-new/internal/images"
	"github.com/bimodwien/full-ecommerce-new/internal/markdown"
	"github.com/bimodwien/full-ecommerce-new/internal/repos"
)

// ImageUpload is an uploaded file as received from the transport boundary:
// opaque bytes plus the declared MIME type.
type ImageUpload struct {
	Data        []byte
	ContentType string
}

// ProductService is the write side of the catalog. Every operation runs in a
// single transaction: product, image, and variant changes commit together or
// not at all.
type ProductService struct {
	db      *sqlx.DB
	prods   *repos.ProductRepo
	imgs    *repos.ImageRepo
	vars    *repos.VariantRepo
	cats    *repos.CategoryRepo
	catalog *CatalogService
}

func NewProductService(db *sqlx.DB, prods *repos.ProductRepo, imgs *repos.ImageRepo, vars *repos.VariantRepo, cats *repos.CategoryRepo, catalog *CatalogService) *ProductService {
	return &ProductService{db: db, prods: prods, imgs: imgs, vars: vars, cats: cats, catalog: catalog}
}

type CreateProductInput struct {
	Name        string
	Description *string
	Price       string
	CategoryID  string
	VariantJSON string // raw JSON array of {variant, stock}
	Images      []ImageUpload
}

type UpdateProductInput struct {
	Name             *string
	Description      *string
	Price            *string
	CategoryID       *string
	RemoveImageIDs   string // raw JSON array of image ids
	VariantJSON      string // raw JSON array, full-replace channel
	VariantUpdates   string // raw JSON array of {id?, variant?, stock?}
	RemoveVariantIDs string // raw JSON array of variant ids
	Images           []ImageUpload
}

// variantEntry tolerates both {"variant": ...} and {"name": ...} payload keys.
type variantEntry struct {
	Variant string `json:"variant"`
	Name    string `json:"name"`
	Stock   int    `json:"stock"`
}

func (e variantEntry) name() string {
	if e.Variant != "" {
		return strings.TrimSpace(e.Variant)
	}
	return strings.TrimSpace(e.Name)
}

type variantUpdate struct {
	ID      string  `json:"id"`
	Variant *string `json:"variant"`
	Stock   *int    `json:"stock"`
}

func parseVariantList(raw string) ([]variantEntry, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var entries []variantEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, apperr.New(apperr.Validation, "Invalid variant format; expected JSON array")
	}
	seen := map[string]bool{}
	for _, e := range entries {
		if e.Stock < 0 {
			return nil, apperr.New(apperr.Validation, "Stock must be a non-negative integer")
		}
		name := e.name()
		if seen[name] {
			return nil, apperr.Newf(apperr.Conflict, "Duplicate variant name in payload: %s", name)
		}
		seen[name] = true
	}
	return entries, nil
}

func parseVariantUpdates(raw string) ([]variantUpdate, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var updates []variantUpdate
	if err := json.Unmarshal([]byte(raw), &updates); err != nil {
		return nil, apperr.New(apperr.Validation, "Invalid variantUpdates format; expected JSON array")
	}
	return updates, nil
}

func parseIDList(raw, message string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, apperr.New(apperr.Validation, message)
	}
	return ids, nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || price.IsNegative() {
		return decimal.Zero, apperr.New(apperr.Validation, "Invalid price")
	}
	return price, nil
}

func (s *ProductService) normalizeUploads(uploads []ImageUpload) ([][]byte, error) {
	out := make([][]byte, 0, len(uploads))
	for _, u := range uploads {
		data, err := images.Normalize(u.Data)
		if err != nil {
			return nil, apperr.New(apperr.Validation, "Uploaded file is not a valid image")
		}
		out = append(out, data)
	}
	return out, nil
}

func (s *ProductService) Create(sellerID string, in CreateProductInput) (ProductDetail, error) {
	if sellerID == "" {
		return ProductDetail{}, apperr.New(apperr.Unauthorized, "Unauthorized: Seller ID not found")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return ProductDetail{}, apperr.New(apperr.Validation, "Product name is required")
	}
	price, err := parsePrice(in.Price)
	if err != nil {
		return ProductDetail{}, err
	}
	if len(in.Images) == 0 {
		return ProductDetail{}, apperr.New(apperr.Validation, "Product image is required")
	}
	variants, err := parseVariantList(in.VariantJSON)
	if err != nil {
		return ProductDetail{}, err
	}
	normalized, err := s.normalizeUploads(in.Images)
	if err != nil {
		return ProductDetail{}, err
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return ProductDetail{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := s.prods.GetByName(tx, name); err == nil {
		return ProductDetail{}, apperr.New(apperr.Conflict, "Product already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return ProductDetail{}, err
	}
	if in.CategoryID != "" {
		if _, err := s.cats.Get(tx, in.CategoryID); errors.Is(err, sql.ErrNoRows) {
			return ProductDetail{}, apperr.New(apperr.NotFound, "Category not found")
		} else if err != nil {
			return ProductDetail{}, err
		}
	}

	now := domain.Now()
	product := domain.Product{
		ID:         uuid.NewString(),
		Name:       name,
		Price:      price,
		SellerID:   sellerID,
		CategoryID: in.CategoryID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if in.Description != nil {
		product.Description = *in.Description
		product.DescriptionHTML = markdown.Render(*in.Description)
	}
	if err := s.prods.Insert(tx, product); err != nil {
		if repos.IsUniqueViolation(err) {
			return ProductDetail{}, apperr.New(apperr.Conflict, "Product already exists")
		}
		return ProductDetail{}, err
	}

	// First image in submission order is the primary one.
	for i, data := range normalized {
		img := domain.ProductImage{
			ID:        uuid.NewString(),
			Data:      data,
			IsPrimary: i == 0,
			ProductID: product.ID,
			CreatedAt: domain.Now(),
			UpdatedAt: domain.Now(),
		}
		if err := s.imgs.Insert(tx, img); err != nil {
			return ProductDetail{}, err
		}
	}

	for _, v := range variants {
		variant := domain.ProductVariant{
			ID:        uuid.NewString(),
			Variant:   v.name(),
			Stock:     v.Stock,
			ProductID: product.ID,
			CreatedAt: domain.Now(),
			UpdatedAt: domain.Now(),
		}
		if err := s.vars.Insert(tx, variant); err != nil {
			return ProductDetail{}, err
		}
	}

	detail, err := s.catalog.loadDetail(tx, product.ID)
	if err != nil {
		return ProductDetail{}, err
	}
	return detail, tx.Commit()
}

func (s *ProductService) Update(sellerID, productID string, in UpdateProductInput) (ProductDetail, error) {
	if sellerID == "" {
		return ProductDetail{}, apperr.New(apperr.Unauthorized, "Unauthorized: Seller ID not found")
	}

	// Parse the duck-typed payload channels before touching the store so a
	// malformed request cannot leave a half-applied mutation behind.
	removeImageIDs, err := parseIDList(in.RemoveImageIDs, "Invalid removeImageIds format; expected JSON array of ids")
	if err != nil {
		return ProductDetail{}, err
	}
	replaceVariants, err := parseVariantList(in.VariantJSON)
	if err != nil {
		return ProductDetail{}, err
	}
	variantUpdates, err := parseVariantUpdates(in.VariantUpdates)
	if err != nil {
		return ProductDetail{}, err
	}
	removeVariantIDs, err := parseIDList(in.RemoveVariantIDs, "Invalid removeVariantIds format; expected JSON array of ids")
	if err != nil {
		return ProductDetail{}, err
	}
	var price *decimal.Decimal
	if in.Price != nil {
		p, err := parsePrice(*in.Price)
		if err != nil {
			return ProductDetail{}, err
		}
		price = &p
	}
	normalized, err := s.normalizeUploads(in.Images)
	if err != nil {
		return ProductDetail{}, err
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return ProductDetail{}, err
	}
	defer func() { _ = tx.Rollback() }()

	product, err := s.prods.Get(tx, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return ProductDetail{}, apperr.New(apperr.NotFound, "Product not found")
	}
	if err != nil {
		return ProductDetail{}, err
	}
	if product.SellerID != sellerID {
		return ProductDetail{}, apperr.New(apperr.Forbidden, "Forbidden")
	}
	if in.CategoryID != nil && *in.CategoryID != "" {
		if _, err := s.cats.Get(tx, *in.CategoryID); errors.Is(err, sql.ErrNoRows) {
			return ProductDetail{}, apperr.New(apperr.NotFound, "Category not found")
		} else if err != nil {
			return ProductDetail{}, err
		}
	}

	// Phase 1: image removal, scoped to this product.
	if err := s.imgs.DeleteScoped(tx, productID, removeImageIDs); err != nil {
		return ProductDetail{}, err
	}

	// Phase 2: new images come in non-primary; the self-heal below promotes
	// one if the primary was removed.
	for _, data := range normalized {
		img := domain.ProductImage{
			ID:        uuid.NewString(),
			Data:      data,
			IsPrimary: false,
			ProductID: productID,
			CreatedAt: domain.Now(),
			UpdatedAt: domain.Now(),
		}
		if err := s.imgs.Insert(tx, img); err != nil {
			return ProductDetail{}, err
		}
	}

	// Phase 3a: full replace wipes the variant set up front; the replacement
	// rows are inserted after the per-id channel, preserving the historical
	// ordering of the API.
	if replaceVariants != nil {
		if err := s.vars.DeleteByProduct(tx, productID); err != nil {
			return ProductDetail{}, err
		}
	}

	// Phase 3b: per-id updates and inserts.
	if err := s.applyVariantUpdates(tx, productID, variantUpdates); err != nil {
		return ProductDetail{}, err
	}

	// Phase 3c: explicit removal, scoped to this product.
	if err := s.vars.DeleteScoped(tx, productID, removeVariantIDs); err != nil {
		return ProductDetail{}, err
	}

	// Scalar fields.
	if in.Name != nil {
		if name := strings.TrimSpace(*in.Name); name != "" {
			product.Name = name
		}
	}
	if in.Description != nil {
		product.Description = *in.Description
		product.DescriptionHTML = markdown.Render(*in.Description)
	}
	if price != nil {
		product.Price = *price
	}
	if in.CategoryID != nil && *in.CategoryID != "" {
		product.CategoryID = *in.CategoryID
	}
	product.UpdatedAt = domain.Now()
	if err := s.prods.Update(tx, product); err != nil {
		if repos.IsUniqueViolation(err) {
			return ProductDetail{}, apperr.New(apperr.Conflict, "Product already exists")
		}
		return ProductDetail{}, err
	}

	for _, v := range replaceVariants {
		variant := domain.ProductVariant{
			ID:        uuid.NewString(),
			Variant:   v.name(),
			Stock:     v.Stock,
			ProductID: productID,
			CreatedAt: domain.Now(),
			UpdatedAt: domain.Now(),
		}
		if err := s.vars.Insert(tx, variant); err != nil {
			if repos.IsUniqueViolation(err) {
				return ProductDetail{}, apperr.Newf(apperr.Conflict, "Duplicate variant name in payload: %s", v.name())
			}
			return ProductDetail{}, err
		}
	}

	if err := s.healPrimaryImage(tx, productID); err != nil {
		return ProductDetail{}, err
	}

	detail, err := s.catalog.loadDetail(tx, productID)
	if err != nil {
		return ProductDetail{}, err
	}
	return detail, tx.Commit()
}

func (s *ProductService) applyVariantUpdates(tx *sqlx.Tx, productID string, updates []variantUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	existing, err := s.vars.ByProduct(tx, productID)
	if err != nil {
		return err
	}
	existingByName := map[string]string{}
	for _, v := range existing {
		existingByName[v.Variant] = v.ID
	}

	seen := map[string]bool{}
	for _, u := range updates {
		var name string
		if u.Variant != nil {
			name = strings.TrimSpace(*u.Variant)
		}
		if name != "" {
			if seen[name] {
				return apperr.Newf(apperr.Conflict, "Duplicate variant name in payload: %s", name)
			}
			seen[name] = true
			if id, ok := existingByName[name]; ok && id != u.ID {
				return apperr.Newf(apperr.Conflict, "Variant name already exists for this product: %s", name)
			}
		}
		if u.Stock != nil && *u.Stock < 0 {
			return apperr.New(apperr.Validation, "Stock must be a non-negative integer")
		}

		if u.ID != "" {
			variant, err := s.vars.Get(tx, u.ID)
			if errors.Is(err, sql.ErrNoRows) || (err == nil && variant.ProductID != productID) {
				return apperr.New(apperr.NotFound, "Variant not found for product")
			}
			if err != nil {
				return err
			}
			if name != "" {
				variant.Variant = name
			}
			if u.Stock != nil {
				variant.Stock = *u.Stock
			}
			variant.UpdatedAt = domain.Now()
			if err := s.vars.Update(tx, variant); err != nil {
				return err
			}
			continue
		}

		if name == "" {
			return apperr.New(apperr.Validation, "Variant name is required")
		}
		stock := 0
		if u.Stock != nil {
			stock = *u.Stock
		}
		variant := domain.ProductVariant{
			ID:        uuid.NewString(),
			Variant:   name,
			Stock:     stock,
			ProductID: productID,
			CreatedAt: domain.Now(),
			UpdatedAt: domain.Now(),
		}
		if err := s.vars.Insert(tx, variant); err != nil {
			if repos.IsUniqueViolation(err) {
				return apperr.Newf(apperr.Conflict, "Variant name already exists for this product: %s", name)
			}
			return err
		}
	}
	return nil
}

// healPrimaryImage promotes the oldest remaining image when none is flagged
// primary, keeping the at-most-one-primary invariant self-correcting.
func (s *ProductService) healPrimaryImage(tx *sqlx.Tx, productID string) error {
	has, err := s.imgs.HasPrimary(tx, productID)
	if err != nil || has {
		return err
	}
	oldest, err := s.imgs.OldestID(tx, productID)
	if err != nil || oldest == "" {
		return err
	}
	return s.imgs.SetPrimary(tx, oldest, true)
}

func (s *ProductService) Delete(sellerID, productID string) (ProductDetail, error) {
	if sellerID == "" {
		return ProductDetail{}, apperr.New(apperr.Unauthorized, "Unauthorized: Seller ID not found")
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return ProductDetail{}, err
	}
	defer func() { _ = tx.Rollback() }()

	product, err := s.prods.Get(tx, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return ProductDetail{}, apperr.New(apperr.NotFound, "Product not found")
	}
	if err != nil {
		return ProductDetail{}, err
	}
	if product.SellerID != sellerID {
		return ProductDetail{}, apperr.New(apperr.Forbidden, "Forbidden")
	}

	snapshot, err := s.catalog.loadDetail(tx, productID)
	if err != nil {
		return ProductDetail{}, err
	}
	// Images, variants, and cart/wishlist lines cascade at the store level.
	if err := s.prods.Delete(tx, productID); err != nil {
		return ProductDetail{}, err
	}
	return snapshot, tx.Commit()
}
