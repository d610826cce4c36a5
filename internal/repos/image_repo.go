package repos

import (
	"github.com/jmoiron/sqlx"

	"github.com/bimodwien/full-ecommerce-new/internal/domain"
)

// Metadata columns only; callers that need the blob ask for it explicitly.
const imageMetaCols = `id, is_primary, product_id, created_at, updated_at`

type ImageRepo struct{ db *sqlx.DB }

func NewImageRepo(db *sqlx.DB) *ImageRepo { return &ImageRepo{db: db} }

func (r *ImageRepo) Insert(q sqlx.Execer, img domain.ProductImage) error {
	_, err := q.Exec(`
	  INSERT INTO product_images(id, data, is_primary, product_id, created_at, updated_at)
	  VALUES(?,?,?,?,?,?)`,
		img.ID, img.Data, img.IsPrimary, img.ProductID, img.CreatedAt, img.UpdatedAt)
	return err
}

func (r *ImageRepo) Get(q sqlx.Queryer, id string) (domain.ProductImage, error) {
	var img domain.ProductImage
	err := sqlx.Get(q, &img, `SELECT id, data, is_primary, product_id, created_at, updated_at
	  FROM product_images WHERE id = ?`, id)
	return img, err
}

// PrimaryOrFirst returns the product's primary image, or the oldest one when
// none is flagged. Includes the blob, for the render endpoint.
func (r *ImageRepo) PrimaryOrFirst(q sqlx.Queryer, productID string) (domain.ProductImage, error) {
	var img domain.ProductImage
	err := sqlx.Get(q, &img, `
	  SELECT id, data, is_primary, product_id, created_at, updated_at
	  FROM product_images
	  WHERE product_id = ?
	  ORDER BY is_primary DESC, created_at ASC, id ASC
	  LIMIT 1`, productID)
	return img, err
}

func (r *ImageRepo) MetaByProduct(q sqlx.Queryer, productID string) ([]domain.ProductImage, error) {
	var out []domain.ProductImage
	err := sqlx.Select(q, &out, `
	  SELECT `+imageMetaCols+`
	  FROM product_images
	  WHERE product_id = ?
	  ORDER BY is_primary DESC, created_at ASC, id ASC`, productID)
	return out, err
}

// MetaByProducts fetches image metadata for a batch of products, ordered so
// the first row per product is its list-projection image.
func (r *ImageRepo) MetaByProducts(q sqlx.Queryer, productIDs []string) ([]domain.ProductImage, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`
	  SELECT `+imageMetaCols+`
	  FROM product_images
	  WHERE product_id IN (?)
	  ORDER BY product_id, is_primary DESC, created_at ASC, id ASC`, productIDs)
	if err != nil {
		return nil, err
	}
	var out []domain.ProductImage
	err = sqlx.Select(q, &out, query, args...)
	return out, err
}

// DeleteScoped removes the given image ids that belong to the product; ids
// belonging to other products are silently ignored.
func (r *ImageRepo) DeleteScoped(q sqlx.Execer, productID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM product_images WHERE product_id = ? AND id IN (?)`, productID, ids)
	if err != nil {
		return err
	}
	_, err = q.Exec(query, args...)
	return err
}

func (r *ImageRepo) HasPrimary(q sqlx.Queryer, productID string) (bool, error) {
	var n int
	err := sqlx.Get(q, &n, `SELECT COUNT(*) FROM product_images WHERE product_id = ? AND is_primary = 1`, productID)
	return n > 0, err
}

// OldestID returns the id of the oldest remaining image, or "" when the
// product has no images left.
func (r *ImageRepo) OldestID(q sqlx.Queryer, productID string) (string, error) {
	var ids []string
	err := sqlx.Select(q, &ids, `
	  SELECT id FROM product_images
	  WHERE product_id = ?
	  ORDER BY created_at ASC, id ASC
	  LIMIT 1`, productID)
	if err != nil || len(ids) == 0 {
		return "", err
	}
	return ids[0], nil
}

func (r *ImageRepo) SetPrimary(q sqlx.Execer, id string, primary bool) error {
	_, err := q.Exec(`UPDATE product_images SET is_primary = ?, updated_at = ? WHERE id = ?`,
		primary, domain.Now(), id)
	return err
}
