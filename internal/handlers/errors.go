package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/example/storefront/internal/catalog"
)

// ErrorHandler renders every unhandled error as an HTML error page. Store
// and template failures land here, get logged, and surface as a generic 500
// without leaking internals to the visitor.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "An unexpected error occurred."

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
		if code < fiber.StatusInternalServerError {
			message = fiberErr.Message
		}
	}

	if code >= fiber.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Method(), c.Path(), err)
	}

	if renderErr := c.Status(code).Render("error", fiber.Map{
		"status":  code,
		"message": message,
	}); renderErr != nil {
		return c.Status(code).SendString(message)
	}
	return nil
}

// withSiteData merges the shared site metadata and category list into a
// page's own view data, mirroring what every page template expects.
func withSiteData(cat *catalog.Catalog, data fiber.Map) fiber.Map {
	merged := fiber.Map{}
	for key, value := range cat.Metadata() {
		merged[key] = value
	}
	merged["categories"] = cat.Categories()
	for key, value := range data {
		merged[key] = value
	}
	return merged
}
