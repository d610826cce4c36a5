package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bimodwien/full-ecommerce-new/internal/apperr"
)

func TestWishlistCreate(t *testing.T) {
	env := newTestEnv(t)
	prod := seedProduct(t, env, "Saved Lamp", `[{"variant":"brass","stock":2}]`)

	line, err := env.wishlists.Create(buyerID, prod.ID, "")
	require.NoError(t, err)
	require.Equal(t, prod.ID, line.ProductID)
	require.Equal(t, prod.ID, line.Product.ID)

	// The same triple cannot be saved twice.
	_, err = env.wishlists.Create(buyerID, prod.ID, "")
	require.Equal(t, apperr.Conflict, apperr.KindOf(err))
	require.EqualError(t, err, "Wishlist already exists")

	// A different variant is a different triple.
	withVariant, err := env.wishlists.Create(buyerID, prod.ID, prod.Variants[0].ID)
	require.NoError(t, err)
	require.NotNil(t, withVariant.Variant)

	_, err = env.wishlists.Create(buyerID, "missing", "")
	require.Equal(t, apperr.NotFound, apperr.KindOf(err))

	_, err = env.wishlists.Create(buyerID, prod.ID, "missing")
	require.EqualError(t, err, "Variant not found for product")
}

func TestWishlistToggle(t *testing.T) {
	env := newTestEnv(t)
	prod := seedProduct(t, env, "Toggled Poster", "")

	created, err := env.wishlists.Toggle(buyerID, prod.ID, "")
	require.NoError(t, err)
	require.Equal(t, "created", created.Action)
	require.Equal(t, prod.ID, created.Wishlist.ProductID)

	deleted, err := env.wishlists.Toggle(buyerID, prod.ID, "")
	require.NoError(t, err)
	require.Equal(t, "deleted", deleted.Action)
	require.Equal(t, created.Wishlist.ID, deleted.Wishlist.ID)

	// Toggling twice lands back where it started.
	page, err := env.wishlists.List(buyerID, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 0, page.Total)

	_, err = env.wishlists.Toggle(buyerID, "missing", "")
	require.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestWishlistDelete(t *testing.T) {
	env := newTestEnv(t)
	prod := seedProduct(t, env, "Unloved Chair", "")
	line, err := env.wishlists.Create(buyerID, prod.ID, "")
	require.NoError(t, err)

	_, err = env.wishlists.Delete(sellerID, line.ID)
	require.Equal(t, apperr.Forbidden, apperr.KindOf(err))

	_, err = env.wishlists.Delete(buyerID, "missing")
	require.Equal(t, apperr.NotFound, apperr.KindOf(err))
	require.EqualError(t, err, "Wishlist not found")

	deleted, err := env.wishlists.Delete(buyerID, line.ID)
	require.NoError(t, err)
	require.Equal(t, line.ID, deleted.ID)
}

func TestWishlistListIsolatedPerUser(t *testing.T) {
	env := newTestEnv(t)
	prod := seedProduct(t, env, "Shared Shelf", "")

	_, err := env.wishlists.Create(buyerID, prod.ID, "")
	require.NoError(t, err)
	_, err = env.wishlists.Create(sellerID, prod.ID, "")
	require.NoError(t, err)

	buyerPage, err := env.wishlists.List(buyerID, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 1, buyerPage.Total)
	require.Equal(t, buyerID, buyerPage.Wishlists[0].UserID)
}
