package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
)

// Item is one product from the static catalog.
type Item struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Category string          `json:"category"`
}

// Category groups items for browsing.
type Category struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Catalog holds the storefront's static data: items, categories and the
// page metadata blobs the templates splice in. It is loaded once at startup
// and never mutated afterwards; a catalog change requires a restart.
type Catalog struct {
	items      []Item
	byID       map[int]Item
	categories []Category
	pages      map[string]map[string]interface{}
}

// New builds a catalog from already-parsed data.
func New(items []Item, categories []Category, pages map[string]map[string]interface{}) *Catalog {
	byID := make(map[int]Item, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	if pages == nil {
		pages = map[string]map[string]interface{}{}
	}
	return &Catalog{
		items:      items,
		byID:       byID,
		categories: categories,
		pages:      pages,
	}
}

// Load reads the catalog from a directory of JSON files. items.json and
// categories.json are required; every other *.json file becomes a named
// page-metadata object (metadata.json, home.json, ...).
func Load(dir string) (*Catalog, error) {
	var items []Item
	if err := readJSON(filepath.Join(dir, "items.json"), &items); err != nil {
		return nil, fmt.Errorf("load catalog items: %w", err)
	}

	var categories []Category
	if err := readJSON(filepath.Join(dir, "categories.json"), &categories); err != nil {
		return nil, fmt.Errorf("load catalog categories: %w", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read catalog dir: %w", err)
	}

	pages := map[string]map[string]interface{}{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		base := strings.TrimSuffix(name, ".json")
		if base == "items" || base == "categories" {
			continue
		}
		var page map[string]interface{}
		if err := readJSON(filepath.Join(dir, name), &page); err != nil {
			return nil, fmt.Errorf("load catalog page %s: %w", name, err)
		}
		pages[base] = page
	}

	return New(items, categories, pages), nil
}

// Items returns every catalog item.
func (c *Catalog) Items() []Item {
	return c.items
}

// Item looks up a single item by id.
func (c *Catalog) Item(id int) (Item, bool) {
	item, ok := c.byID[id]
	return item, ok
}

// ItemsByCategory returns the items belonging to the named category.
func (c *Catalog) ItemsByCategory(category string) []Item {
	var filtered []Item
	for _, item := range c.items {
		if item.Category == category {
			filtered = append(filtered, item)
		}
	}
	return filtered
}

// Categories returns every catalog category.
func (c *Catalog) Categories() []Category {
	return c.categories
}

// Page returns the named page-metadata object, or nil if unknown.
func (c *Catalog) Page(name string) map[string]interface{} {
	return c.pages[name]
}

// Metadata returns the site-wide metadata object shared by all pages.
func (c *Catalog) Metadata() map[string]interface{} {
	return c.Page("metadata")
}

func readJSON(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
