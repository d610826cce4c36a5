package repos

import (
	"github.com/jmoiron/sqlx"

	"github.com/bimodwien/full-ecommerce-new/internal/domain"
)

type UserRepo struct{ db *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) ByEmail(email string) (*domain.User, error) {
	var u domain.User
	err := r.db.Get(&u, `SELECT id,email,name,password_hash,role FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.db.Get(&u, `SELECT id,email,name,password_hash,role FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Insert(u domain.User) error {
	now := domain.Now()
	_, err := r.db.Exec(`
	  INSERT INTO users(id, email, name, password_hash, role, created_at, updated_at)
	  VALUES(?,?,?,?,?,?,?)`,
		u.ID, u.Email, u.Name, u.Hash, u.Role, now, now)
	return err
}
