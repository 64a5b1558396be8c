// Package catalog indexes a normalized product catalog for lookups by name
// and category.
package catalog

import (
	"github.com/cespare/xxhash/v2"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/catalog_assistant/internal/models"
	"github.com/GTDGit/catalog_assistant/internal/pricing"
)

// Catalog is an immutable, normalized product catalog.
type Catalog struct {
	products   []models.Product
	byName     map[string]int // first occurrence wins
	categories []string
	byCategory map[string][]int
}

// New normalizes the raw rows and builds the lookup indexes.
func New(rows []models.RawProduct) *Catalog {
	return FromProducts(pricing.Normalize(rows))
}

// FromProducts indexes products that are already normalized.
func FromProducts(products []models.Product) *Catalog {
	c := &Catalog{
		products:   products,
		byName:     make(map[string]int, len(products)),
		byCategory: make(map[string][]int),
	}
	for i, p := range products {
		if _, ok := c.byName[p.Name]; !ok {
			c.byName[p.Name] = i
		}
		if _, ok := c.byCategory[p.Category]; !ok {
			c.categories = append(c.categories, p.Category)
		}
		c.byCategory[p.Category] = append(c.byCategory[p.Category], i)
	}
	return c
}

// Len returns the number of catalog rows.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Products returns every row in catalog order.
func (c *Catalog) Products() []models.Product {
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Lookup returns the first product with the exact given name.
func (c *Catalog) Lookup(name string) (models.Product, bool) {
	i, ok := c.byName[name]
	if !ok {
		return models.Product{}, false
	}
	return c.products[i], true
}

// FinalPrice returns the tax-inclusive price of the first product named name.
func (c *Catalog) FinalPrice(name string) (decimal.Decimal, bool) {
	p, ok := c.Lookup(name)
	if !ok {
		return decimal.Zero, false
	}
	return p.FinalPrice, true
}

// Categories returns the distinct categories in first-seen order.
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

// HasCategory reports whether any product belongs to category.
func (c *Catalog) HasCategory(category string) bool {
	_, ok := c.byCategory[category]
	return ok
}

// ProductsInCategory returns the products of one category with duplicate
// names removed, keeping the first row for each name.
func (c *Catalog) ProductsInCategory(category string) []models.Product {
	idx := c.byCategory[category]
	out := make([]models.Product, 0, len(idx))
	seen := make(map[string]struct{}, len(idx))
	for _, i := range idx {
		p := c.products[i]
		if _, dup := seen[p.Name]; dup {
			continue
		}
		seen[p.Name] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Fingerprint hashes the normalized rows so reloads can detect changes.
func (c *Catalog) Fingerprint() uint64 {
	d := xxhash.New()
	for _, p := range c.products {
		_, _ = d.WriteString(p.Name)
		_, _ = d.WriteString("\x1f" + p.Brand)
		_, _ = d.WriteString("\x1f" + p.Category)
		_, _ = d.WriteString("\x1f" + p.SubCategory)
		_, _ = d.WriteString("\x1f" + p.Price.String() + "\x1e")
	}
	return d.Sum64()
}
