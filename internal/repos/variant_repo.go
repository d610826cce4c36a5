package repos

import (
	"github.com/jmoiron/sqlx"

	"github.com/bimodwien/full-ecommerce-new/internal/domain"
)

const variantCols = `id, variant, stock, product_id, created_at, updated_at`

type VariantRepo struct{ db *sqlx.DB }

func NewVariantRepo(db *sqlx.DB) *VariantRepo { return &VariantRepo{db: db} }

func (r *VariantRepo) Get(q sqlx.Queryer, id string) (domain.ProductVariant, error) {
	var v domain.ProductVariant
	err := sqlx.Get(q, &v, `SELECT `+variantCols+` FROM product_variants WHERE id = ?`, id)
	return v, err
}

func (r *VariantRepo) ByProduct(q sqlx.Queryer, productID string) ([]domain.ProductVariant, error) {
	var out []domain.ProductVariant
	err := sqlx.Select(q, &out, `
	  SELECT `+variantCols+`
	  FROM product_variants
	  WHERE product_id = ?
	  ORDER BY created_at ASC, id ASC`, productID)
	return out, err
}

func (r *VariantRepo) ByProducts(q sqlx.Queryer, productIDs []string) ([]domain.ProductVariant, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`
	  SELECT `+variantCols+`
	  FROM product_variants
	  WHERE product_id IN (?)`, productIDs)
	if err != nil {
		return nil, err
	}
	var out []domain.ProductVariant
	err = sqlx.Select(q, &out, query, args...)
	return out, err
}

func (r *VariantRepo) Insert(q sqlx.Execer, v domain.ProductVariant) error {
	_, err := q.Exec(`
	  INSERT INTO product_variants(id, variant, stock, product_id, created_at, updated_at)
	  VALUES(?,?,?,?,?,?)`,
		v.ID, v.Variant, v.Stock, v.ProductID, v.CreatedAt, v.UpdatedAt)
	return err
}

func (r *VariantRepo) Update(q sqlx.Execer, v domain.ProductVariant) error {
	_, err := q.Exec(`UPDATE product_variants SET variant=?, stock=?, updated_at=? WHERE id=?`,
		v.Variant, v.Stock, v.UpdatedAt, v.ID)
	return err
}

func (r *VariantRepo) DeleteByProduct(q sqlx.Execer, productID string) error {
	_, err := q.Exec(`DELETE FROM product_variants WHERE product_id = ?`, productID)
	return err
}

// DeleteScoped removes the given variant ids that belong to the product.
func (r *VariantRepo) DeleteScoped(q sqlx.Execer, productID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM product_variants WHERE product_id = ? AND id IN (?)`, productID, ids)
	if err != nil {
		return err
	}
	_, err = q.Exec(query, args...)
	return err
}
