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

// WishlistService manages per-user wishlist lines. Unlike the cart, a
// duplicate (user, product, variant) triple is rejected rather than merged;
// Toggle is the add-or-remove primitive the client relies on.
type WishlistService struct {
	db    *sqlx.DB
	wish  *repos.WishlistRepo
	prods *repos.ProductRepo
	imgs  *repos.ImageRepo
	vars  *repos.VariantRepo
	cats  *repos.CategoryRepo
	san   *Sanitizer
}

func NewWishlistService(db *sqlx.DB, wish *repos.WishlistRepo, prods *repos.ProductRepo, imgs *repos.ImageRepo, vars *repos.VariantRepo, cats *repos.CategoryRepo, san *Sanitizer) *WishlistService {
	return &WishlistService{db: db, wish: wish, prods: prods, imgs: imgs, vars: vars, cats: cats, san: san}
}

type WishlistLineView struct {
	ID        string                 `json:"id"`
	UserID    string                 `json:"userId"`
	ProductID string                 `json:"productId"`
	VariantID string                 `json:"variantId,omitempty"`
	CreatedAt string                 `json:"createdAt"`
	UpdatedAt string                 `json:"updatedAt"`
	Product   ProductSummary         `json:"product"`
	Variant   *domain.ProductVariant `json:"variant,omitempty"`
}

type WishlistPage struct {
	Wishlists  []WishlistLineView `json:"wishlists"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	TotalPages int                `json:"totalPages"`
}

// ToggleResult reports which way a Toggle call went.
type ToggleResult struct {
	Action   string           `json:"action"` // "created" | "deleted"
	Wishlist WishlistLineView `json:"wishlist"`
}

func (s *WishlistService) lineView(q sqlx.Queryer, l domain.WishlistLine) (WishlistLineView, error) {
	prod, err := s.prods.Get(q, l.ProductID)
	if err != nil {
		return WishlistLineView{}, err
	}
	var cat *domain.Category
	if prod.CategoryID != "" {
		if c, err := s.cats.Get(q, prod.CategoryID); err == nil {
			cat = &c
		} else if !errors.Is(err, sql.ErrNoRows) {
			return WishlistLineView{}, err
		}
	}
	imgRows, err := s.imgs.MetaByProduct(q, prod.ID)
	if err != nil {
		return WishlistLineView{}, err
	}
	varRows, err := s.vars.ByProduct(q, prod.ID)
	if err != nil {
		return WishlistLineView{}, err
	}
	view := WishlistLineView{
		ID:        l.ID,
		UserID:    l.UserID,
		ProductID: l.ProductID,
		VariantID: l.VariantID,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
		Product:   s.san.Summary(prod, cat, imgRows, varRows),
	}
	if l.VariantID != "" {
		if v, err := s.vars.Get(q, l.VariantID); err == nil {
			view.Variant = &v
		} else if !errors.Is(err, sql.ErrNoRows) {
			return WishlistLineView{}, err
		}
	}
	return view, nil
}

// validateTarget checks the product exists and, when set, the variant belongs
// to it.
func (s *WishlistService) validateTarget(q sqlx.Queryer, productID, variantID string) error {
	if _, err := s.prods.Get(q, productID); errors.Is(err, sql.ErrNoRows) {
		return apperr.New(apperr.NotFound, "Product not found")
	} else if err != nil {
		return err
	}
	if variantID != "" {
		variant, err := s.vars.Get(q, variantID)
		if errors.Is(err, sql.ErrNoRows) || (err == nil && variant.ProductID != productID) {
			return apperr.New(apperr.NotFound, "Variant not found for product")
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *WishlistService) insertLine(tx *sqlx.Tx, userID, productID, variantID string) (domain.WishlistLine, error) {
	line := domain.WishlistLine{
		ID:        uuid.NewString(),
		UserID:    userID,
		ProductID: productID,
		VariantID: variantID,
		CreatedAt: domain.Now(),
		UpdatedAt: domain.Now(),
	}
	return line, s.wish.Insert(tx, line)
}

func (s *WishlistService) Create(userID, productID, variantID string) (WishlistLineView, error) {
	if userID == "" {
		return WishlistLineView{}, apperr.New(apperr.Unauthorized, "Unauthorized")
	}
	if productID == "" {
		return WishlistLineView{}, apperr.New(apperr.Validation, "productId is required")
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return WishlistLineView{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := s.wish.FindTriple(tx, userID, productID, variantID); err == nil {
		return WishlistLineView{}, apperr.New(apperr.Conflict, "Wishlist already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return WishlistLineView{}, err
	}
	if err := s.validateTarget(tx, productID, variantID); err != nil {
		return WishlistLineView{}, err
	}

	line, err := s.insertLine(tx, userID, productID, variantID)
	if err != nil {
		return WishlistLineView{}, err
	}
	view, err := s.lineView(tx, line)
	if err != nil {
		return WishlistLineView{}, err
	}
	return view, tx.Commit()
}

func (s *WishlistService) Toggle(userID, productID, variantID string) (ToggleResult, error) {
	if userID == "" {
		return ToggleResult{}, apperr.New(apperr.Unauthorized, "Unauthorized")
	}
	if productID == "" {
		return ToggleResult{}, apperr.New(apperr.Validation, "productId is required")
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return ToggleResult{}, err
	}
	defer func() { _ = tx.Rollback() }()

	existing, err := s.wish.FindTriple(tx, userID, productID, variantID)
	if err == nil {
		view, err := s.lineView(tx, existing)
		if err != nil {
			return ToggleResult{}, err
		}
		if err := s.wish.Delete(tx, existing.ID); err != nil {
			return ToggleResult{}, err
		}
		return ToggleResult{Action: "deleted", Wishlist: view}, tx.Commit()
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return ToggleResult{}, err
	}

	if err := s.validateTarget(tx, productID, variantID); err != nil {
		return ToggleResult{}, err
	}
	line, err := s.insertLine(tx, userID, productID, variantID)
	if err != nil {
		return ToggleResult{}, err
	}
	view, err := s.lineView(tx, line)
	if err != nil {
		return ToggleResult{}, err
	}
	return ToggleResult{Action: "created", Wishlist: view}, tx.Commit()
}

func (s *WishlistService) Delete(userID, lineID string) (WishlistLineView, error) {
	if userID == "" {
		return WishlistLineView{}, apperr.New(apperr.Unauthorized, "Unauthorized")
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return WishlistLineView{}, err
	}
	defer func() { _ = tx.Rollback() }()

	line, err := s.wish.Get(tx, lineID)
	if errors.Is(err, sql.ErrNoRows) {
		return WishlistLineView{}, apperr.New(apperr.NotFound, "Wishlist not found")
	}
	if err != nil {
		return WishlistLineView{}, err
	}
	if line.UserID != userID {
		return WishlistLineView{}, apperr.New(apperr.Forbidden, "Forbidden")
	}

	view, err := s.lineView(tx, line)
	if err != nil {
		return WishlistLineView{}, err
	}
	if err := s.wish.Delete(tx, line.ID); err != nil {
		return WishlistLineView{}, err
	}
	return view, tx.Commit()
}

func (s *WishlistService) List(userID string, page, limit int) (WishlistPage, error) {
	if userID == "" {
		return WishlistPage{}, apperr.New(apperr.Unauthorized, "Unauthorized")
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
		return WishlistPage{}, err
	}
	defer func() { _ = tx.Rollback() }()

	total, err := s.wish.CountByUser(tx, userID)
	if err != nil {
		return WishlistPage{}, err
	}
	lines, err := s.wish.PageByUser(tx, userID, limit, (page-1)*limit)
	if err != nil {
		return WishlistPage{}, err
	}
	views := make([]WishlistLineView, 0, len(lines))
	for _, l := range lines {
		view, err := s.lineView(tx, l)
		if err != nil {
			return WishlistPage{}, err
		}
		views = append(views, view)
	}
	if err := tx.Commit(); err != nil {
		return WishlistPage{}, err
	}

	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}
	return WishlistPage{Wishlists: views, Total: total, Page: page, TotalPages: totalPages}, nil
}
