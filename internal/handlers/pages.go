package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/example/storefront/internal/catalog"
)

// PageHandler serves the public browsing pages straight from the static
// catalog.
type PageHandler struct {
	catalog *catalog.Catalog
}

// NewPageHandler constructs a PageHandler.
func NewPageHandler(cat *catalog.Catalog) *PageHandler {
	return &PageHandler{catalog: cat}
}

// Home renders the landing page.
func (h *PageHandler) Home(c *fiber.Ctx) error {
	data := fiber.Map{}
	for key, value := range h.catalog.Page("home") {
		data[key] = value
	}
	return c.Render("home", withSiteData(h.catalog, data))
}

// Category renders the item listing for one category.
func (h *PageHandler) Category(c *fiber.Ctx) error {
	category := c.Params("category")
	return c.Render("category", withSiteData(h.catalog, fiber.Map{
		"category": category,
		"items":    h.catalog.ItemsByCategory(category),
	}))
}

// Product renders a single product page.
func (h *PageHandler) Product(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Product not found")
	}

	product, ok := h.catalog.Item(id)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Product not found")
	}

	return c.Render("product", withSiteData(h.catalog, fiber.Map{
		"product": product,
	}))
}
