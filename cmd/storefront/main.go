package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/bimodwien/full-ecommerce-new/internal/config"
	"github.com/bimodwien/full-ecommerce-new/internal/http/handlers"
	applog "github.com/bimodwien/full-ecommerce-new/internal/log"
	"github.com/bimodwien/full-ecommerce-new/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})
	// Products can carry several images; per-file cap is enforced in the handler.
	app.Server().MaxRequestBodySize = 16 << 20

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "rate limit exceeded, retry soon"})
		},
	}))

	deps := handlers.NewDeps(db, cfg)
	requireUser := handlers.RequireUser(deps.Auth)
	requireSeller := handlers.RequireSeller(deps.Auth)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (login throttled)
	auth := api.Group("/auth")
	auth.Post("/register", deps.AuthHandler.Register)
	auth.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "Too many attempts. Please try again later."})
		},
	}), deps.AuthHandler.Login)

	// Catalog
	products := api.Group("/products")
	products.Get("/", deps.ProductHandler.List)
	products.Get("/image/:id", deps.ProductHandler.Image)
	products.Get("/:id", deps.ProductHandler.Detail)
	products.Post("/", requireSeller, deps.ProductHandler.Create)
	products.Put("/:id", requireSeller, deps.ProductHandler.Update)
	products.Delete("/:id", requireSeller, deps.ProductHandler.Delete)

	categories := api.Group("/categories")
	categories.Get("/", deps.CategoryHandler.List)
	categories.Post("/", requireSeller, deps.CategoryHandler.Create)
	categories.Put("/:id", requireSeller, deps.CategoryHandler.Update)
	categories.Delete("/:id", requireSeller, deps.CategoryHandler.Delete)

	// Buyer surfaces
	carts := api.Group("/carts", requireUser)
	carts.Get("/", deps.CartHandler.List)
	carts.Post("/", deps.CartHandler.Create)
	carts.Put("/:id", deps.CartHandler.Update)
	carts.Delete("/:id", deps.CartHandler.Delete)

	wishlists := api.Group("/wishlists", requireUser)
	wishlists.Get("/", deps.WishlistHandler.List)
	wishlists.Post("/", deps.WishlistHandler.Create)
	wishlists.Post("/toggle", deps.WishlistHandler.Toggle)
	wishlists.Delete("/:id", deps.WishlistHandler.Delete)

	log.Printf("[http] listening on :%s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
