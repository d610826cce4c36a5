package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bimodwien/full-ecommerce-new/internal/apperr"
	"github.com/bimodwien/full-ecommerce-new/internal/services"
)

func intPtr(n int) *int { return &n }

func TestCartCreateAndMerge(t *testing.T) {
	env := newTestEnv(t)
	prod := seedProduct(t, env, "Merge Tee", `[{"variant":"M","stock":5}]`)
	variantID := prod.Variants[0].ID

	line, err := env.carts.Create(buyerID, services.CreateCartInput{
		ProductID: prod.ID,
		VariantID: variantID,
		Quantity:  intPtr(2),
	})
	require.NoError(t, err)
	require.Equal(t, 2, line.Quantity)
	require.Equal(t, prod.ID, line.Product.ID)
	require.NotNil(t, line.Variant)
	require.Equal(t, "M", line.Variant.Variant)

	// Same (user, product, variant) triple merges into the existing line.
	merged, err := env.carts.Create(buyerID, services.CreateCartInput{
		ProductID: prod.ID,
		VariantID: variantID,
		Quantity:  intPtr(3),
	})
	require.NoError(t, err)
	require.Equal(t, line.ID, merged.ID)
	require.Equal(t, 5, merged.Quantity)

	page, err := env.carts.List(buyerID, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Len(t, page.Carts, 1)
}

func TestCartCreateStockExceeded(t *testing.T) {
	env := newTestEnv(t)
	prod := seedProduct(t, env, "Scarce Tee", `[{"variant":"M","stock":3}]`)
	variantID := prod.Variants[0].ID

	_, err := env.carts.Create(buyerID, services.CreateCartInput{
		ProductID: prod.ID, VariantID: variantID, Quantity: intPtr(4),
	})
	require.Equal(t, apperr.Conflict, apperr.KindOf(err))
	require.EqualError(t, err, "Requested quantity exceeds available stock")

	// A merge that would push past stock is also rejected.
	_, err = env.carts.Create(buyerID, services.CreateCartInput{
		ProductID: prod.ID, VariantID: variantID, Quantity: intPtr(2),
	})
	require.NoError(t, err)
	_, err = env.carts.Create(buyerID, services.CreateCartInput{
		ProductID: prod.ID, VariantID: variantID, Quantity: intPtr(2),
	})
	require.Equal(t, apperr.Conflict, apperr.KindOf(err))
}

func TestCartCreateQuantityDefaults(t *testing.T) {
	env := newTestEnv(t)
	prod := seedProduct(t, env, "Default Qty Mug", "")

	// No quantity means one.
	line, err := env.carts.Create(buyerID, services.CreateCartInput{ProductID: prod.ID})
	require.NoError(t, err)
	require.Equal(t, 1, line.Quantity)

	_, err = env.carts.Create(buyerID, services.CreateCartInput{ProductID: "missing"})
	require.Equal(t, apperr.NotFound, apperr.KindOf(err))
	require.EqualError(t, err, "Product not found")

	_, err = env.carts.Create(buyerID, services.CreateCartInput{ProductID: prod.ID, VariantID: "missing"})
	require.EqualError(t, err, "Variant not found for product")

	_, err = env.carts.Create("", services.CreateCartInput{ProductID: prod.ID})
	require.Equal(t, apperr.Unauthorized, apperr.KindOf(err))
}

func TestCartVariantScoping(t *testing.T) {
	env := newTestEnv(t)
	prod := seedProduct(t, env, "Scoped Tee", `[{"variant":"M","stock":5}]`)
	other := seedProduct(t, env, "Other Scoped Tee", `[{"variant":"M","stock":5}]`)

	// A variant belonging to another product is not accepted.
	_, err := env.carts.Create(buyerID, services.CreateCartInput{
		ProductID: prod.ID, VariantID: other.Variants[0].ID,
	})
	require.Equal(t, apperr.NotFound, apperr.KindOf(err))
	require.EqualError(t, err, "Variant not found for product")
}

func TestCartUpdate(t *testing.T) {
	env := newTestEnv(t)
	prod := seedProduct(t, env, "Adjustable Tee", `[{"variant":"M","stock":5}]`)
	variantID := prod.Variants[0].ID
	line, err := env.carts.Create(buyerID, services.CreateCartInput{
		ProductID: prod.ID, VariantID: variantID, Quantity: intPtr(2),
	})
	require.NoError(t, err)

	// Absolute set.
	updated, err := env.carts.Update(buyerID, line.ID, services.UpdateCartInput{Quantity: intPtr(4)})
	require.NoError(t, err)
	require.Equal(t, 4, updated.Quantity)

	// Delta wins over absolute and clamps at zero.
	updated, err = env.carts.Update(buyerID, line.ID, services.UpdateCartInput{Delta: intPtr(-9), Quantity: intPtr(3)})
	require.NoError(t, err)
	require.Equal(t, 0, updated.Quantity)

	_, err = env.carts.Update(buyerID, line.ID, services.UpdateCartInput{Quantity: intPtr(99)})
	require.Equal(t, apperr.Conflict, apperr.KindOf(err))

	_, err = env.carts.Update(buyerID, "missing", services.UpdateCartInput{Quantity: intPtr(1)})
	require.Equal(t, apperr.NotFound, apperr.KindOf(err))
	require.EqualError(t, err, "Cart item not found")

	_, err = env.carts.Update(sellerID, line.ID, services.UpdateCartInput{Quantity: intPtr(1)})
	require.Equal(t, apperr.Forbidden, apperr.KindOf(err))
}

func TestCartDelete(t *testing.T) {
	env := newTestEnv(t)
	prod := seedProduct(t, env, "Discarded Mug", "")
	line, err := env.carts.Create(buyerID, services.CreateCartInput{ProductID: prod.ID})
	require.NoError(t, err)

	_, err = env.carts.Delete(sellerID, line.ID)
	require.Equal(t, apperr.Forbidden, apperr.KindOf(err))

	deleted, err := env.carts.Delete(buyerID, line.ID)
	require.NoError(t, err)
	require.Equal(t, line.ID, deleted.ID)

	page, err := env.carts.List(buyerID, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 0, page.Total)
	require.Equal(t, 1, page.TotalPages)
}
