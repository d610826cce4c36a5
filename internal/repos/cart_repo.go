package repos

import (
	"github.com/jmoiron/sqlx"

	"github.com/bimodwien/full-ecommerce-new/internal/domain"
)

const cartCols = `id, user_id, product_id, COALESCE(variant_id,'') AS variant_id, quantity, created_at, updated_at`

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

func (r *CartRepo) Get(q sqlx.Queryer, id string) (domain.CartLine, error) {
	var l domain.CartLine
	err := sqlx.Get(q, &l, `SELECT `+cartCols+` FROM cart_lines WHERE id = ?`, id)
	return l, err
}

// FindTriple locates the line for (user, product, variant); variantID "" means
// the variant-less line.
func (r *CartRepo) FindTriple(q sqlx.Queryer, userID, productID, variantID string) (domain.CartLine, error) {
	var l domain.CartLine
	err := sqlx.Get(q, &l, `
	  SELECT `+cartCols+`
	  FROM cart_lines
	  WHERE user_id = ? AND product_id = ? AND COALESCE(variant_id,'') = ?`,
		userID, productID, variantID)
	return l, err
}

func (r *CartRepo) CountByUser(q sqlx.Queryer, userID string) (int, error) {
	var n int
	err := sqlx.Get(q, &n, `SELECT COUNT(*) FROM cart_lines WHERE user_id = ?`, userID)
	return n, err
}

func (r *CartRepo) PageByUser(q sqlx.Queryer, userID string, limit, offset int) ([]domain.CartLine, error) {
	var out []domain.CartLine
	err := sqlx.Select(q, &out, `
	  SELECT `+cartCols+`
	  FROM cart_lines
	  WHERE user_id = ?
	  ORDER BY created_at DESC, id
	  LIMIT ? OFFSET ?`, userID, limit, offset)
	return out, err
}

func (r *CartRepo) Insert(q sqlx.Execer, l domain.CartLine) error {
	_, err := q.Exec(`
	  INSERT INTO cart_lines(id, user_id, product_id, variant_id, quantity, created_at, updated_at)
	  VALUES(?,?,?,NULLIF(?,''),?,?,?)`,
		l.ID, l.UserID, l.ProductID, l.VariantID, l.Quantity, l.CreatedAt, l.UpdatedAt)
	return err
}

func (r *CartRepo) UpdateQuantity(q sqlx.Execer, id string, quantity int) error {
	_, err := q.Exec(`UPDATE cart_lines SET quantity = ?, updated_at = ? WHERE id = ?`,
		quantity, domain.Now(), id)
	return err
}

func (r *CartRepo) Delete(q sqlx.Execer, id string) error {
	_, err := q.Exec(`DELETE FROM cart_lines WHERE id = ?`, id)
	return err
}
