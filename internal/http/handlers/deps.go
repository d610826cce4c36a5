package handlers

import (
	"github.com/jmoiron/sqlx"

	"github.com/bimodwien/full-ecommerce-new/internal/config"
	"github.com/bimodwien/full-ecommerce-new/internal/repos"
	"github.com/bimodwien/full-ecommerce-new/internal/services"
)

type Deps struct {
	AuthHandler     *AuthHandler
	ProductHandler  *ProductHandler
	CategoryHandler *CategoryHandler
	CartHandler     *CartHandler
	WishlistHandler *WishlistHandler
	Auth            *services.AuthService
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	prodRepo := repos.NewProductRepo(db)
	imgRepo := repos.NewImageRepo(db)
	varRepo := repos.NewVariantRepo(db)
	catRepo := repos.NewCategoryRepo(db)
	cartRepo := repos.NewCartRepo(db)
	wishRepo := repos.NewWishlistRepo(db)
	userRepo := repos.NewUserRepo(db)

	san := services.NewSanitizer(cfg.BaseURL)
	authSvc := services.NewAuthService(userRepo, cfg.JWTSecret)
	catalogSvc := services.NewCatalogService(db, prodRepo, imgRepo, varRepo, catRepo, san)
	productSvc := services.NewProductService(db, prodRepo, imgRepo, varRepo, catRepo, catalogSvc)
	categorySvc := services.NewCategoryService(db, catRepo)
	cartSvc := services.NewCartService(db, cartRepo, prodRepo, imgRepo, varRepo, catRepo, san)
	wishSvc := services.NewWishlistService(db, wishRepo, prodRepo, imgRepo, varRepo, catRepo, san)

	return &Deps{
		AuthHandler:     &AuthHandler{Auth: authSvc},
		ProductHandler:  &ProductHandler{Catalog: catalogSvc, Products: productSvc},
		CategoryHandler: &CategoryHandler{Categories: categorySvc},
		CartHandler:     &CartHandler{Cart: cartSvc},
		WishlistHandler: &WishlistHandler{Wishlist: wishSvc},
		Auth:            authSvc,
	}
}
