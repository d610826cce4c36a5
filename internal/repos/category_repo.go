package repos

import (
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/bimodwien/full-ecommerce-new/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) Get(q sqlx.Queryer, id string) (domain.Category, error) {
	var c domain.Category
	err := sqlx.Get(q, &c, `SELECT id, name, created_at, updated_at FROM categories WHERE id = ?`, id)
	return c, err
}

// GetByName is a case-sensitive lookup, matching the creation-time
// uniqueness check.
func (r *CategoryRepo) GetByName(q sqlx.Queryer, name string) (domain.Category, error) {
	var c domain.Category
	err := sqlx.Get(q, &c, `SELECT id, name, created_at, updated_at FROM categories WHERE name = ?`, name)
	return c, err
}

func (r *CategoryRepo) Count(q sqlx.Queryer, name string) (int, error) {
	var n int
	err := sqlx.Get(q, &n, `SELECT COUNT(*) FROM categories WHERE LOWER(name) LIKE ?`,
		"%"+strings.ToLower(name)+"%")
	return n, err
}

func (r *CategoryRepo) Page(q sqlx.Queryer, name string, limit, offset int) ([]domain.Category, error) {
	var out []domain.Category
	err := sqlx.Select(q, &out, `
	  SELECT id, name, created_at, updated_at
	  FROM categories
	  WHERE LOWER(name) LIKE ?
	  ORDER BY name
	  LIMIT ? OFFSET ?`, "%"+strings.ToLower(name)+"%", limit, offset)
	return out, err
}

func (r *CategoryRepo) ByIDs(q sqlx.Queryer, ids []string) ([]domain.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`SELECT id, name, created_at, updated_at FROM categories WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	var out []domain.Category
	err = sqlx.Select(q, &out, query, args...)
	return out, err
}

func (r *CategoryRepo) Insert(q sqlx.Execer, c domain.Category) error {
	_, err := q.Exec(`INSERT INTO categories(id, name, created_at, updated_at) VALUES(?,?,?,?)`,
		c.ID, c.Name, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *CategoryRepo) Update(q sqlx.Execer, c domain.Category) error {
	_, err := q.Exec(`UPDATE categories SET name=?, updated_at=? WHERE id=?`, c.Name, c.UpdatedAt, c.ID)
	return err
}

func (r *CategoryRepo) Delete(q sqlx.Execer, id string) error {
	_, err := q.Exec(`DELETE FROM categories WHERE id = ?`, id)
	return err
}
