package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/storage/postgres/v3"
	"github.com/gofiber/template/html/v2"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/database"
	"github.com/example/storefront/internal/handlers"
	"github.com/example/storefront/internal/routes"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	cat, err := catalog.Load(cfg.CatalogDir)
	if err != nil {
		log.Fatalf("failed to load catalog: %v", err)
	}

	engine := html.New(cfg.ViewsDir, ".html")

	app := fiber.New(fiber.Config{
		AppName:      "Storefront",
		Views:        engine,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	// Sessions live next to the application data, so they survive restarts
	// and are shared across instances.
	store := session.New(session.Config{
		Storage: postgres.New(postgres.Config{
			ConnectionURI: cfg.DatabaseURL,
			Table:         "sessions",
		}),
		Expiration:     cfg.SessionTTL,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
	})

	routes.Register(app, db, cat, store, cfg)

	log.Printf("Starting server on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("fiber.Listen error: %v", err)
	}
}
