package repos

import (
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/bimodwien/full-ecommerce-new/internal/domain"
)

const productCols = `
    id, name, description, description_html, price, seller_id,
    COALESCE(category_id,'') AS category_id, created_at, updated_at`

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

type ProductFilter struct {
	Name       string
	CategoryID string
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Sort       string // newest | price_asc | price_desc
}

func (f ProductFilter) where() (string, []any) {
	where := `1=1`
	args := []any{}
	if f.Name != "" {
		where += ` AND LOWER(name) LIKE ?`
		args = append(args, "%"+strings.ToLower(f.Name)+"%")
	}
	if f.CategoryID != "" {
		where += ` AND category_id = ?`
		args = append(args, f.CategoryID)
	}
	if f.MinPrice != nil {
		where += ` AND price >= ?`
		args = append(args, f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		where += ` AND price <= ?`
		args = append(args, f.MaxPrice.String())
	}
	return where, args
}

func (f ProductFilter) orderBy() string {
	switch f.Sort {
	case "price_asc":
		return `price ASC, created_at DESC`
	case "price_desc":
		return `price DESC, created_at DESC`
	default:
		return `created_at DESC`
	}
}

// Count and Page take the same queryer so the caller can run both against a
// single transaction snapshot.
func (r *ProductRepo) Count(q sqlx.Queryer, f ProductFilter) (int, error) {
	where, args := f.where()
	var n int
	err := sqlx.Get(q, &n, `SELECT COUNT(*) FROM products WHERE `+where, args...)
	return n, err
}

func (r *ProductRepo) Page(q sqlx.Queryer, f ProductFilter, limit, offset int) ([]domain.Product, error) {
	where, args := f.where()
	args = append(args, limit, offset)
	var out []domain.Product
	err := sqlx.Select(q, &out, `
	  SELECT `+productCols+`
	  FROM products
	  WHERE `+where+`
	  ORDER BY `+f.orderBy()+`
	  LIMIT ? OFFSET ?`, args...)
	return out, err
}

func (r *ProductRepo) Get(q sqlx.Queryer, id string) (domain.Product, error) {
	var p domain.Product
	err := sqlx.Get(q, &p, `SELECT `+productCols+` FROM products WHERE id = ?`, id)
	return p, err
}

func (r *ProductRepo) GetByName(q sqlx.Queryer, name string) (domain.Product, error) {
	var p domain.Product
	err := sqlx.Get(q, &p, `SELECT `+productCols+` FROM products WHERE name = ?`, name)
	return p, err
}

func (r *ProductRepo) Insert(q sqlx.Execer, p domain.Product) error {
	_, err := q.Exec(`
	  INSERT INTO products(id, name, description, description_html, price, seller_id, category_id, created_at, updated_at)
	  VALUES(?,?,?,?,?,?,NULLIF(?,''),?,?)`,
		p.ID, p.Name, p.Description, p.DescriptionHTML, p.Price.String(), p.SellerID, p.CategoryID, p.CreatedAt, p.UpdatedAt)
	return err
}

func (r *ProductRepo) Update(q sqlx.Execer, p domain.Product) error {
	_, err := q.Exec(`
	  UPDATE products
	  SET name=?, description=?, description_html=?, price=?, category_id=NULLIF(?,''), updated_at=?
	  WHERE id=?`,
		p.Name, p.Description, p.DescriptionHTML, p.Price.String(), p.CategoryID, p.UpdatedAt, p.ID)
	return err
}

func (r *ProductRepo) Delete(q sqlx.Execer, id string) error {
	_, err := q.Exec(`DELETE FROM products WHERE id = ?`, id)
	return err
}
