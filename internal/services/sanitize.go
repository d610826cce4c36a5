package services

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bimodwien/full-ecommerce-new/internal/domain"
)

// ImageMeta is an image row with the blob replaced by its serving URL.
type ImageMeta struct {
	ID        string `json:"id"`
	IsPrimary bool   `json:"isPrimary"`
	ProductID string `json:"productId"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	ImageURL  string `json:"imageUrl"`
}

// ProductDetail is the full public projection of a product: every image and
// variant, raw and rendered description, and the derived stock fields.
type ProductDetail struct {
	ID              string                  `json:"id"`
	Name            string                  `json:"name"`
	Description     string                  `json:"description,omitempty"`
	DescriptionHTML string                  `json:"descriptionHtml,omitempty"`
	Price           decimal.Decimal         `json:"price"`
	SellerID        string                  `json:"sellerId"`
	CategoryID      string                  `json:"categoryId,omitempty"`
	Category        *domain.Category        `json:"category,omitempty"`
	Images          []ImageMeta             `json:"images"`
	Variants        []domain.ProductVariant `json:"variants"`
	StockTotal      int                     `json:"stockTotal"`
	StockStatus     string                  `json:"stockStatus"`
	CreatedAt       string                  `json:"createdAt"`
	UpdatedAt       string                  `json:"updatedAt"`
}

// ProductSummary is the list projection: one image, no descriptions, no
// variant list, derived stock fields included.
type ProductSummary struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Price       decimal.Decimal  `json:"price"`
	SellerID    string           `json:"sellerId"`
	CategoryID  string           `json:"categoryId,omitempty"`
	Category    *domain.Category `json:"category,omitempty"`
	Image       *ImageMeta       `json:"image,omitempty"`
	StockTotal  int              `json:"stockTotal"`
	StockStatus string           `json:"stockStatus"`
	CreatedAt   string           `json:"createdAt"`
	UpdatedAt   string           `json:"updatedAt"`
}

// Sanitizer projects product records into their public shapes. Binary image
// payloads never pass through it; image rows are reduced to metadata plus a
// deterministic URL under the configured base.
type Sanitizer struct {
	baseURL string
}

func NewSanitizer(baseURL string) *Sanitizer {
	return &Sanitizer{baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *Sanitizer) imageURL(imageID string) string {
	return s.baseURL + "/products/image/" + imageID
}

func (s *Sanitizer) imageMeta(img domain.ProductImage) ImageMeta {
	return ImageMeta{
		ID:        img.ID,
		IsPrimary: img.IsPrimary,
		ProductID: img.ProductID,
		CreatedAt: img.CreatedAt,
		UpdatedAt: img.UpdatedAt,
		ImageURL:  s.imageURL(img.ID),
	}
}

func (s *Sanitizer) Detail(p domain.Product, cat *domain.Category, imgs []domain.ProductImage, variants []domain.ProductVariant) ProductDetail {
	metas := make([]ImageMeta, 0, len(imgs))
	for _, img := range imgs {
		metas = append(metas, s.imageMeta(img))
	}
	if variants == nil {
		variants = []domain.ProductVariant{}
	}
	total := StockTotal(variants)
	return ProductDetail{
		ID:              p.ID,
		Name:            p.Name,
		Description:     p.Description,
		DescriptionHTML: p.DescriptionHTML,
		Price:           p.Price,
		SellerID:        p.SellerID,
		CategoryID:      p.CategoryID,
		Category:        cat,
		Images:          metas,
		Variants:        variants,
		StockTotal:      total,
		StockStatus:     StockStatusFor(total),
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// Summary expects imgs ordered primary-first; it keeps only the first one.
func (s *Sanitizer) Summary(p domain.Product, cat *domain.Category, imgs []domain.ProductImage, variants []domain.ProductVariant) ProductSummary {
	var image *ImageMeta
	if len(imgs) > 0 {
		m := s.imageMeta(imgs[0])
		image = &m
	}
	total := StockTotal(variants)
	return ProductSummary{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		SellerID:    p.SellerID,
		CategoryID:  p.CategoryID,
		Category:    cat,
		Image:       image,
		StockTotal:  total,
		StockStatus: StockStatusFor(total),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
