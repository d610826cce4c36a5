package services_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/bimodwien/full-ecommerce-new/internal/repos"
	"github.com/bimodwien/full-ecommerce-new/internal/services"
)

const (
	sellerID = "u-seller"
	buyerID  = "u-buyer"
)

type testEnv struct {
	db         *sqlx.DB
	catalog    *services.CatalogService
	products   *services.ProductService
	categories *services.CategoryService
	carts      *services.CartService
	wishlists  *services.WishlistService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	// In-memory sqlite gives each pooled connection its own database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	prodRepo := repos.NewProductRepo(db)
	imgRepo := repos.NewImageRepo(db)
	varRepo := repos.NewVariantRepo(db)
	catRepo := repos.NewCategoryRepo(db)
	cartRepo := repos.NewCartRepo(db)
	wishRepo := repos.NewWishlistRepo(db)

	san := services.NewSanitizer("http://test.local/api")
	catalog := services.NewCatalogService(db, prodRepo, imgRepo, varRepo, catRepo, san)
	return &testEnv{
		db:         db,
		catalog:    catalog,
		products:   services.NewProductService(db, prodRepo, imgRepo, varRepo, catRepo, catalog),
		categories: services.NewCategoryService(db, catRepo),
		carts:      services.NewCartService(db, cartRepo, prodRepo, imgRepo, varRepo, catRepo, san),
		wishlists:  services.NewWishlistService(db, wishRepo, prodRepo, imgRepo, varRepo, catRepo, san),
	}
}

func pngUpload(t *testing.T) services.ImageUpload {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return services.ImageUpload{Data: buf.Bytes(), ContentType: "image/png"}
}

// seedProduct creates a product owned by the demo seller with one image and
// the given variants JSON (may be empty).
func seedProduct(t *testing.T, env *testEnv, name, variantJSON string) services.ProductDetail {
	t.Helper()
	detail, err := env.products.Create(sellerID, services.CreateProductInput{
		Name:        name,
		Price:       "19.99",
		VariantJSON: variantJSON,
		Images:      []services.ImageUpload{pngUpload(t)},
	})
	require.NoError(t, err)
	return detail
}
