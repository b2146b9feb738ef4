package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"gorm.io/gorm"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/config"
	"github.com/example/storefront/internal/handlers"
	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cat *catalog.Catalog, store *session.Store, cfg *config.Config) {
	carts := services.NewCartService(db, cat)
	orders := services.NewOrderService(db, carts)

	pageHandler := handlers.NewPageHandler(cat)
	authHandler := handlers.NewAuthHandler(db, cat, store)
	cartHandler := handlers.NewCartHandler(carts, cat)
	orderHandler := handlers.NewOrderHandler(orders, cat)

	app.Static("/static", cfg.PublicDir)

	// Public pages
	app.Get("/", pageHandler.Home)
	app.Get("/home", pageHandler.Home)
	app.Get("/category/:category", pageHandler.Category)
	app.Get("/product/:id", pageHandler.Product)

	app.Get("/register", authHandler.ShowRegister)
	app.Post("/register", authHandler.Register)
	app.Get("/login", authHandler.ShowLogin)
	app.Post("/login", authHandler.Login)
	app.Get("/logout", authHandler.Logout)

	// Browsing pages behind the session guard redirect to /login
	pages := app.Group("", middleware.SessionGuard(store))
	pages.Get("/cart", cartHandler.Show)
	pages.Get("/orders", orderHandler.List)
	pages.Get("/orders/:id", orderHandler.Show)
	pages.Get("/profile", authHandler.Profile)

	// Mutating forms answer 401 when the session is missing
	actions := app.Group("", middleware.SessionRequired(store))
	actions.Post("/add-to-cart/:id", cartHandler.AddItem)
	actions.Post("/update-cart/:id", cartHandler.UpdateItem)
	actions.Post("/checkout", orderHandler.Checkout)
	actions.Post("/reorder/:id", orderHandler.Reorder)
}
