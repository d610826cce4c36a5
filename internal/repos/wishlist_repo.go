package repos

import (
	"github.com/jmoiron/sqlx"

	"github.com/bimodwien/full-ecommerce-new/internal/domain"
)

const wishlistCols = `id, user_id, product_id, COALESCE(variant_id,'') AS variant_id, created_at, updated_at`

type WishlistRepo struct{ db *sqlx.DB }

func NewWishlistRepo(db *sqlx.DB) *WishlistRepo { return &WishlistRepo{db: db} }

func (r *WishlistRepo) Get(q sqlx.Queryer, id string) (domain.WishlistLine, error) {
	var l domain.WishlistLine
	err := sqlx.Get(q, &l, `SELECT `+wishlistCols+` FROM wishlist_lines WHERE id = ?`, id)
	return l, err
}

func (r *WishlistRepo) FindTriple(q sqlx.Queryer, userID, productID, variantID string) (domain.WishlistLine, error) {
	var l domain.WishlistLine
	err := sqlx.Get(q, &l, `
	  SELECT `+wishlistCols+`
	  FROM wishlist_lines
	  WHERE user_id = ? AND product_id = ? AND COALESCE(variant_id,'') = ?`,
		userID, productID, variantID)
	return l, err
}

func (r *WishlistRepo) CountByUser(q sqlx.Queryer, userID string) (int, error) {
	var n int
	err := sqlx.Get(q, &n, `SELECT COUNT(*) FROM wishlist_lines WHERE user_id = ?`, userID)
	return n, err
}

func (r *WishlistRepo) PageByUser(q sqlx.Queryer, userID string, limit, offset int) ([]domain.WishlistLine, error) {
	var out []domain.WishlistLine
	err := sqlx.Select(q, &out, `
	  SELECT `+wishlistCols+`
	  FROM wishlist_lines
	  WHERE user_id = ?
	  ORDER BY created_at DESC, id
	  LIMIT ? OFFSET ?`, userID, limit, offset)
	return out, err
}

func (r *WishlistRepo) Insert(q sqlx.Execer, l domain.WishlistLine) error {
	_, err := q.Exec(`
	  INSERT INTO wishlist_lines(id, user_id, product_id, variant_id, created_at, updated_at)
	  VALUES(?,?,?,NULLIF(?,''),?,?)`,
		l.ID, l.UserID, l.ProductID, l.VariantID, l.CreatedAt, l.UpdatedAt)
	return err
}

func (r *WishlistRepo) Delete(q sqlx.Execer, id string) error {
	_, err := q.Exec(`DELETE FROM wishlist_lines WHERE id = ?`, id)
	return err
}
