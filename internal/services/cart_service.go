package services

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bimodwien/full-ecommerce-new/internal/apperr"
	"github.com/bimodwien/full-ecommerce-new/internal/domain"
	"github.com/bimodwien/full-ecommerce-new/internal/repos"
)

// CartService manages per-user cart lines. A line is keyed by the
// (user, product, variant) triple; creating a duplicate merges quantities
// instead of inserting a second row.
type CartService struct {
	db    *sqlx.DB
	carts *repos.CartRepo
	prods *repos.ProductRepo
	imgs  *repos.ImageRepo
	vars  *repos.VariantRepo
	cats  *repos.CategoryRepo
	san   *Sanitizer
}

func NewCartService(db *sqlx.DB, carts *repos.CartRepo, prods *repos.ProductRepo, imgs *repos.ImageRepo, vars *repos.VariantRepo, cats *repos.CategoryRepo, san *Sanitizer) *CartService {
	return &CartService{db: db, carts: carts, prods: prods, imgs: imgs, vars: vars, cats: cats, san: san}
}

// CartLineView is a cart line with its list-projected product attached.
type CartLineView struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"userId"`
	ProductID string                 `json:"productId"`
	VariantID string                 `json:"variantId,omitempty"`
	Quantity  int                    `json:"quantity"`
	CreatedAt string                 `json:"createdAt"`
	UpdatedAt string                 `json:"updatedAt"`
	Product   ProductSummary         `json:"product"`
	Variant   *domain.ProductVariant `json:"variant,omitempty"`
}

type CartPage struct {
	Carts      []CartLineView `json:"carts"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	TotalPages int            `json:"totalPages"`
}

func (s *CartService) lineView(q sqlx.Queryer, l domain.CartLine) (CartLineView, error) {
	prod, err := s.prods.Get(q, l.ProductID)
	if err != nil {
		return CartLineView{}, err
	}
	var cat *domain.Category
	if prod.CategoryID != "" {
		if c, err := s.cats.Get(q, prod.CategoryID); err == nil {
			cat = &c
		} else if !errors.Is(err, sql.ErrNoRows) {
			return CartLineView{}, err
		}
	}
	imgRows, err := s.imgs.MetaByProduct(q, prod.ID)
	if err != nil {
		return CartLineView{}, err
	}
	varRows, err := s.vars.ByProduct(q, prod.ID)
	if err != nil {
		return CartLineView{}, err
	}
	view := CartLineView{
		ID:        l.ID,
		UserID:    l.UserID,
		ProductID: l.ProductID,
		VariantID: l.VariantID,
		Quantity:  l.Quantity,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
		Product:   s.san.Summary(prod, cat, imgRows, varRows),
	}
	if l.VariantID != "" {
		if v, err := s.vars.Get(q, l.VariantID); err == nil {
			view.Variant = &v
		} else if !errors.Is(err, sql.ErrNoRows) {
			return CartLineView{}, err
		}
	}
	return view, nil
}

type CreateCartInput struct {
	ProductID string
	VariantID string
	Quantity  *int
}

// normalizeQuantity mirrors the historical coercion: absent or zero becomes
// 1, negative clamps to 0.
func normalizeQuantity(q *int) int {
	if q == nil || *q == 0 {
		return 1
	}
	if *q < 0 {
		return 0
	}
	return *q
}

func (s *CartService) Create(userID string, in CreateCartInput) (CartLineView, error) {
	if userID == "" {
		return CartLineView{}, apperr.New(apperr.Unauthorized, "Unauthorized")
	}
	if in.ProductID == "" {
		return CartLineView{}, apperr.New(apperr.Validation, "productId is required")
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return CartLineView{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := s.prods.Get(tx, in.ProductID); errors.Is(err, sql.ErrNoRows) {
		return CartLineView{}, apperr.New(apperr.NotFound, "Product not found")
	} else if err != nil {
		return CartLineView{}, err
	}

	qty := normalizeQuantity(in.Quantity)
	if in.VariantID != "" {
		variant, err := s.vars.Get(tx, in.VariantID)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && variant.ProductID != in.ProductID) {
			return CartLineView{}, apperr.New(apperr.NotFound, "Variant not found for product")
		}
		if err != nil {
			return CartLineView{}, err
		}
		if qty <= 0 {
			return CartLineView{}, apperr.New(apperr.Validation, "Quantity must be at least 1")
		}
		if qty > variant.Stock {
			return CartLineView{}, apperr.New(apperr.Conflict, "Requested quantity exceeds available stock")
		}
	}

	existing, err := s.carts.FindTriple(tx, userID, in.ProductID, in.VariantID)
	switch {
	case err == nil:
		newQty := existing.Quantity + qty
		if in.VariantID != "" {
			// Re-read the variant row inside this transaction right before
			// the write so the merged total is checked against current stock.
			variant, err := s.vars.Get(tx, in.VariantID)
			if err != nil {
				return CartLineView{}, err
			}
			if newQty > variant.Stock {
				return CartLineView{}, apperr.New(apperr.Conflict, "Requested quantity exceeds available stock")
			}
		}
		if err := s.carts.UpdateQuantity(tx, existing.ID, newQty); err != nil {
			return CartLineView{}, err
		}
		existing.Quantity = newQty
	case errors.Is(err, sql.ErrNoRows):
		existing = domain.CartLine{
			ID:        uuid.NewString(),
			UserID:    userID,
			ProductID: in.ProductID,
			VariantID: in.VariantID,
			Quantity:  qty,
			CreatedAt: domain.Now(),
			UpdatedAt: domain.Now(),
		}
		if err := s.carts.Insert(tx, existing); err != nil {
			return CartLineView{}, err
		}
	default:
		return CartLineView{}, err
	}

	view, err := s.lineView(tx, existing)
	if err != nil {
		return CartLineView{}, err
	}
	return view, tx.Commit()
}

type UpdateCartInput struct {
	Quantity *int
	Delta    *int
}

func (s *CartService) Update(userID, lineID string, in UpdateCartInput) (CartLineView, error) {
	if userID == "" {
		return CartLineView{}, apperr.New(apperr.Unauthorized, "Unauthorized")
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return CartLineView{}, err
	}
	defer func() { _ = tx.Rollback() }()

	line, err := s.carts.Get(tx, lineID)
	if errors.Is(err, sql.ErrNoRows) {
		return CartLineView{}, apperr.New(apperr.NotFound, "Cart item not found")
	}
	if err != nil {
		return CartLineView{}, err
	}
	if line.UserID != userID {
		return CartLineView{}, apperr.New(apperr.Forbidden, "Forbidden")
	}

	newQty := line.Quantity
	switch {
	case in.Delta != nil:
		newQty = line.Quantity + *in.Delta
	case in.Quantity != nil:
		newQty = *in.Quantity
	}
	if newQty < 0 {
		newQty = 0
	}

	if line.VariantID != "" {
		variant, err := s.vars.Get(tx, line.VariantID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return CartLineView{}, err
		}
		if err == nil && newQty > variant.Stock {
			return CartLineView{}, apperr.New(apperr.Conflict, "Requested quantity exceeds available stock")
		}
	}

	if err := s.carts.UpdateQuantity(tx, line.ID, newQty); err != nil {
		return CartLineView{}, err
	}
	line.Quantity = newQty

	view, err := s.lineView(tx, line)
	if err != nil {
		return CartLineView{}, err
	}
	return view, tx.Commit()
}

func (s *CartService) Delete(userID, lineID string) (CartLineView, error) {
	if userID == "" {
		return CartLineView{}, apperr.New(apperr.Unauthorized, "Unauthorized")
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return CartLineView{}, err
	}
	defer func() { _ = tx.Rollback() }()

	line, err := s.carts.Get(tx, lineID)
	if errors.Is(err, sql.ErrNoRows) {
		return CartLineView{}, apperr.New(apperr.NotFound, "Cart item not found")
	}
	if err != nil {
		return CartLineView{}, err
	}
	if line.UserID != userID {
		return CartLineView{}, apperr.New(apperr.Forbidden, "Forbidden")
	}

	view, err := s.lineView(tx, line)
	if err != nil {
		return CartLineView{}, err
	}
	if err := s.carts.Delete(tx, line.ID); err != nil {
		return CartLineView{}, err
	}
	return view, tx.Commit()
}

func (s *CartService) List(userID string, page, limit int) (CartPage, error) {
	if userID == "" {
		return CartPage{}, apperr.New(apperr.Unauthorized, "Unauthorized")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return CartPage{}, err
	}
	defer func() { _ = tx.Rollback() }()

	total, err := s.carts.CountByUser(tx, userID)
	if err != nil {
		return CartPage{}, err
	}
	lines, err := s.carts.PageByUser(tx, userID, limit, (page-1)*limit)
	if err != nil {
		return CartPage{}, err
	}
	views := make([]CartLineView, 0, len(lines))
	for _, l := range lines {
		view, err := s.lineView(tx, l)
		if err != nil {
			return CartPage{}, err
		}
		views = append(views, view)
	}
	if err := tx.Commit(); err != nil {
		return CartPage{}, err
	}

	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}
	return CartPage{Carts: views, Total: total, Page: page, TotalPages: totalPages}, nil
}
