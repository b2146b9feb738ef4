package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/services"
)

// CartHandler serves the cart page and its mutation forms.
type CartHandler struct {
	carts   *services.CartService
	catalog *catalog.Catalog
}

// NewCartHandler constructs a CartHandler.
func NewCartHandler(carts *services.CartService, cat *catalog.Catalog) *CartHandler {
	return &CartHandler{carts: carts, catalog: cat}
}

// Show renders the current cart. A user without a cart sees an empty one.
func (h *CartHandler) Show(c *fiber.Ctx) error {
	auth, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	cart, err := h.carts.Get(auth.UserID)
	if err != nil {
		return err
	}

	items := []models.LineItem{}
	if cart != nil {
		items = cart.Items
	}

	return c.Render("cart", withSiteData(h.catalog, fiber.Map{
		"cart":      items,
		"cartCount": len(items),
	}))
}

// AddItem puts one unit of a product into the cart and returns to it.
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	auth, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	productID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Item not found")
	}

	if _, err := h.carts.AddItem(auth.UserID, productID); err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Item not found")
		}
		return err
	}

	return c.Redirect("/cart")
}

// UpdateItem applies the form's increment/decrement action to a cart line.
func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	auth, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	productID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Item not found in cart")
	}

	action := services.UpdateAction(c.FormValue("action"))
	if _, err := h.carts.UpdateItem(auth.UserID, productID, action); err != nil {
		switch {
		case errors.Is(err, services.ErrCartNotFound):
			return fiber.NewError(fiber.StatusNotFound, "Cart not found")
		case errors.Is(err, services.ErrItemNotInCart):
			return fiber.NewError(fiber.StatusNotFound, "Item not found in cart")
		}
		return err
	}

	return c.Redirect("/cart")
}
