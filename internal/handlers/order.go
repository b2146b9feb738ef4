package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/example/storefront/internal/catalog"
	"github.com/example/storefront/internal/middleware"
	"github.com/example/storefront/internal/services"
)

// OrderHandler serves checkout, order history and reorder.
type OrderHandler struct {
	orders  *services.OrderService
	catalog *catalog.Catalog
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(orders *services.OrderService, cat *catalog.Catalog) *OrderHandler {
	return &OrderHandler{orders: orders, catalog: cat}
}

// Checkout turns the cart into an order and shows the order history.
func (h *OrderHandler) Checkout(c *fiber.Ctx) error {
	auth, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	if _, err := h.orders.Checkout(auth.UserID); err != nil {
		if errors.Is(err, services.ErrEmptyCart) {
			return fiber.NewError(fiber.StatusBadRequest, "Your cart is empty")
		}
		return err
	}

	return c.Redirect("/orders")
}

// List renders the user's order history.
func (h *OrderHandler) List(c *fiber.Ctx) error {
	auth, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	orders, err := h.orders.List(auth.UserID)
	if err != nil {
		return err
	}

	return c.Render("orders", withSiteData(h.catalog, fiber.Map{
		"orders": orders,
	}))
}

// Show renders one order. An id that does not exist and an id owned by
// another user get the same answer.
func (h *OrderHandler) Show(c *fiber.Ctx) error {
	auth, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Order not found or access denied")
	}

	order, err := h.orders.Get(auth.UserID, orderID)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Order not found or access denied")
		}
		return err
	}

	return c.Render("order_details", withSiteData(h.catalog, fiber.Map{
		"order": order,
	}))
}

// Reorder merges a past order back into the cart and shows the cart.
func (h *OrderHandler) Reorder(c *fiber.Ctx) error {
	auth, ok := middleware.CurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}

	orderID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Order not found or access denied")
	}

	if _, err := h.orders.Reorder(auth.UserID, orderID); err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Order not found or access denied")
		}
		return err
	}

	return c.Redirect("/cart")
}
