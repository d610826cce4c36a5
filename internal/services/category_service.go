package services

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bimodwien/full-ecommerce-new/internal/apperr"
	"github.com/bimodwien/full-ecommerce-new/internal/domain"
	"github.com/bimodwien/full-ecommerce-new/internal/repos"
)

type CategoryService struct {
	db   *sqlx.DB
	cats *repos.CategoryRepo
}

func NewCategoryService(db *sqlx.DB, cats *repos.CategoryRepo) *CategoryService {
	return &CategoryService{db: db, cats: cats}
}

type CategoryPage struct {
	Categories []domain.Category `json:"categories"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"totalPages"`
}

func (s *CategoryService) List(name string, page, limit int) (CategoryPage, error) {
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
		return CategoryPage{}, err
	}
	defer func() { _ = tx.Rollback() }()

	total, err := s.cats.Count(tx, name)
	if err != nil {
		return CategoryPage{}, err
	}
	cats, err := s.cats.Page(tx, name, limit, (page-1)*limit)
	if err != nil {
		return CategoryPage{}, err
	}
	if err := tx.Commit(); err != nil {
		return CategoryPage{}, err
	}
	if cats == nil {
		cats = []domain.Category{}
	}

	totalPages := (total + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}
	return CategoryPage{Categories: cats, Total: total, Page: page, TotalPages: totalPages}, nil
}

func (s *CategoryService) Create(name string) (domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, apperr.New(apperr.Validation, "Category name is required")
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return domain.Category{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := s.cats.GetByName(tx, name); err == nil {
		return domain.Category{}, apperr.New(apperr.Conflict, "Category already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return domain.Category{}, err
	}

	now := domain.Now()
	cat := domain.Category{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.cats.Insert(tx, cat); err != nil {
		// The unique index closes the race between the check and the insert.
		if repos.IsUniqueViolation(err) {
			return domain.Category{}, apperr.New(apperr.Conflict, "Category already exists")
		}
		return domain.Category{}, err
	}
	return cat, tx.Commit()
}

func (s *CategoryService) Edit(id, name string) (domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Category{}, apperr.New(apperr.Validation, "Category name is required")
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return domain.Category{}, err
	}
	defer func() { _ = tx.Rollback() }()

	cat, err := s.cats.Get(tx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Category{}, apperr.New(apperr.NotFound, "Category not found")
	}
	if err != nil {
		return domain.Category{}, err
	}

	cat.Name = name
	cat.UpdatedAt = domain.Now()
	if err := s.cats.Update(tx, cat); err != nil {
		if repos.IsUniqueViolation(err) {
			return domain.Category{}, apperr.New(apperr.Conflict, "Category already exists")
		}
		return domain.Category{}, err
	}
	return cat, tx.Commit()
}

func (s *CategoryService) Delete(id string) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := s.cats.Get(tx, id); errors.Is(err, sql.ErrNoRows) {
		return apperr.New(apperr.NotFound, "Category not found")
	} else if err != nil {
		return err
	}
	// Products keep existing with category_id set NULL at the store level.
	if err := s.cats.Delete(tx, id); err != nil {
		return err
	}
	return tx.Commit()
}
