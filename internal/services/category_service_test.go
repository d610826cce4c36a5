package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bimodwien/full-ecommerce-new/internal/apperr"
)

func TestCategoryCRUD(t *testing.T) {
	env := newTestEnv(t)

	cat, err := env.categories.Create("Books")
	require.NoError(t, err)
	require.Equal(t, "Books", cat.Name)

	_, err = env.categories.Create("  ")
	require.Equal(t, apperr.Validation, apperr.KindOf(err))
	require.EqualError(t, err, "Category name is required")

	_, err = env.categories.Create("Books")
	require.Equal(t, apperr.Conflict, apperr.KindOf(err))
	require.EqualError(t, err, "Category already exists")

	renamed, err := env.categories.Edit(cat.ID, "Paperbacks")
	require.NoError(t, err)
	require.Equal(t, "Paperbacks", renamed.Name)

	_, err = env.categories.Edit("missing", "Nope")
	require.Equal(t, apperr.NotFound, apperr.KindOf(err))
	require.EqualError(t, err, "Category not found")

	require.NoError(t, env.categories.Delete(cat.ID))
	require.Equal(t, apperr.NotFound, apperr.KindOf(env.categories.Delete(cat.ID)))
}

func TestCategoryListFilter(t *testing.T) {
	env := newTestEnv(t)
	for _, name := range []string{"Games", "Garden", "Music"} {
		_, err := env.categories.Create(name)
		require.NoError(t, err)
	}

	page, err := env.categories.List("ga", 1, 10)
	require.NoError(t, err)
	require.Equal(t, 2, page.Total)

	all, err := env.categories.List("", 1, 2)
	require.NoError(t, err)
	require.Equal(t, 3, all.Total)
	require.Equal(t, 2, all.TotalPages)
	require.Len(t, all.Categories, 2)
}

func TestCategoryDeleteDetachesProducts(t *testing.T) {
	env := newTestEnv(t)
	cat, err := env.categories.Create("Doomed")
	require.NoError(t, err)
	prod := seedPriced(t, env, "Orphan To Be", "9", cat.ID)
	require.Equal(t, cat.ID, prod.CategoryID)

	require.NoError(t, env.categories.Delete(cat.ID))

	after, err := env.catalog.GetByID(prod.ID)
	require.NoError(t, err)
	require.Empty(t, after.CategoryID)
	require.Nil(t, after.Category)
}
