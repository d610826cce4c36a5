package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/bimodwien/full-ecommerce-new/internal/apperr"
	"github.com/bimodwien/full-ecommerce-new/internal/domain"
	"github.com/bimodwien/full-ecommerce-new/internal/images"
	"github.com/bimodwien/full-ecommerce-new/internal/repos"
)

// CatalogService is the read side of the catalog: listing, detail, and raw
// image retrieval.
type CatalogService struct {
	db    *sqlx.DB
	prods *repos.ProductRepo
	imgs  *repos.ImageRepo
	vars  *repos.VariantRepo
	cats  *repos.CategoryRepo
	san   *Sanitizer
}

func NewCatalogService(db *sqlx.DB, prods *repos.ProductRepo, imgs *repos.ImageRepo, vars *repos.VariantRepo, cats *repos.CategoryRepo, san *Sanitizer) *CatalogService {
	return &CatalogService{db: db, prods: prods, imgs: imgs, vars: vars, cats: cats, san: san}
}

type ListParams struct {
	Page       int
	Limit      int
	Name       string
	CategoryID string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Sort       string
}

type ProductPage struct {
	Products   []ProductSummary `json:"products"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	TotalPages int              `json:"totalPages"`
}

// List returns one page of the catalog. Count and page run inside a single
// transaction so the totals always match the returned rows.
func (s *CatalogService) List(p ListParams) (ProductPage, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	filter := repos.ProductFilter{
		Name:       p.Name,
		CategoryID: p.CategoryID,
		MinPrice:   p.MinPrice,
		MaxPrice:   p.MaxPrice,
		Sort:       p.Sort,
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return ProductPage{}, err
	}
	defer func() { _ = tx.Rollback() }()

	total, err := s.prods.Count(tx, filter)
	if err != nil {
		return ProductPage{}, err
	}
	products, err := s.prods.Page(tx, filter, p.Limit, (p.Page-1)*p.Limit)
	if err != nil {
		return ProductPage{}, err
	}

	ids := make([]string, 0, len(products))
	catIDs := make([]string, 0, len(products))
	for _, prod := range products {
		ids = append(ids, prod.ID)
		if prod.CategoryID != "" {
			catIDs = append(catIDs, prod.CategoryID)
		}
	}

	imgRows, err := s.imgs.MetaByProducts(tx, ids)
	if err != nil {
		return ProductPage{}, err
	}
	varRows, err := s.vars.ByProducts(tx, ids)
	if err != nil {
		return ProductPage{}, err
	}
	catRows, err := s.cats.ByIDs(tx, catIDs)
	if err != nil {
		return ProductPage{}, err
	}
	if err := tx.Commit(); err != nil {
		return ProductPage{}, err
	}

	imgsByProduct := map[string][]domain.ProductImage{}
	for _, img := range imgRows {
		imgsByProduct[img.ProductID] = append(imgsByProduct[img.ProductID], img)
	}
	varsByProduct := map[string][]domain.ProductVariant{}
	for _, v := range varRows {
		varsByProduct[v.ProductID] = append(varsByProduct[v.ProductID], v)
	}
	catsByID := map[string]domain.Category{}
	for _, c := range catRows {
		catsByID[c.ID] = c
	}

	summaries := make([]ProductSummary, 0, len(products))
	for _, prod := range products {
		var cat *domain.Category
		if c, ok := catsByID[prod.CategoryID]; ok {
			cc := c
			cat = &cc
		}
		summaries = append(summaries, s.san.Summary(prod, cat, imgsByProduct[prod.ID], varsByProduct[prod.ID]))
	}

	totalPages := (total + p.Limit - 1) / p.Limit
	if totalPages < 1 {
		totalPages = 1
	}
	return ProductPage{Products: summaries, Total: total, Page: p.Page, TotalPages: totalPages}, nil
}

func (s *CatalogService) GetByID(id string) (ProductDetail, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return ProductDetail{}, err
	}
	defer func() { _ = tx.Rollback() }()

	detail, err := s.loadDetail(tx, id)
	if err != nil {
		return ProductDetail{}, err
	}
	return detail, tx.Commit()
}

// loadDetail assembles the detail projection against the given queryer so
// mutation services can reuse it inside their own transactions.
func (s *CatalogService) loadDetail(q sqlx.Queryer, id string) (ProductDetail, error) {
	prod, err := s.prods.Get(q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ProductDetail{}, apperr.New(apperr.NotFound, "Product not found")
	}
	if err != nil {
		return ProductDetail{}, err
	}
	var cat *domain.Category
	if prod.CategoryID != "" {
		c, err := s.cats.Get(q, prod.CategoryID)
		if err == nil {
			cat = &c
		} else if !errors.Is(err, sql.ErrNoRows) {
			return ProductDetail{}, err
		}
	}
	imgRows, err := s.imgs.MetaByProduct(q, prod.ID)
	if err != nil {
		return ProductDetail{}, err
	}
	varRows, err := s.vars.ByProduct(q, prod.ID)
	if err != nil {
		return ProductDetail{}, err
	}
	return s.san.Detail(prod, cat, imgRows, varRows), nil
}

type RenderedImage struct {
	Data        []byte
	ContentType string
	UpdatedAt   time.Time
}

// RenderImage resolves id first as an image id, then as a product id whose
// primary (or first) image is served.
func (s *CatalogService) RenderImage(id string) (RenderedImage, error) {
	img, err := s.imgs.Get(s.db, id)
	if errors.Is(err, sql.ErrNoRows) {
		img, err = s.imgs.PrimaryOrFirst(s.db, id)
		if errors.Is(err, sql.ErrNoRows) {
			return RenderedImage{}, apperr.New(apperr.NotFound, "Image not found")
		}
	}
	if err != nil {
		return RenderedImage{}, err
	}
	return RenderedImage{
		Data:        img.Data,
		ContentType: images.ContentType,
		UpdatedAt:   domain.ParseTime(img.UpdatedAt),
	}, nil
}
