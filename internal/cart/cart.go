// Package cart holds the session-scoped shopping cart and order submission.
package cart

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/catalog_assistant/internal/utils"
)

// PriceLookup resolves the tax-inclusive price of a product by exact name.
type PriceLookup interface {
	FinalPrice(name string) (decimal.Decimal, bool)
}

// Entry is one product in the cart. UnitPrice is captured on first insertion.
type Entry struct {
	ProductName string          `json:"product"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"price"`
}

// Line is a snapshot row of the cart panel.
type Line struct {
	ProductName string          `json:"product"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"price"`
	LineTotal   decimal.Decimal `json:"total"`
}

// Cart maps product names to entries and keeps insertion order. A Cart is
// owned by one session and is not safe for concurrent use.
type Cart struct {
	entries map[string]*Entry
	order   []string
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{entries: make(map[string]*Entry)}
}

// Add puts one unit of productName into the cart. The price is looked up
// first; an unknown product returns ErrProductNotFound and leaves the cart
// untouched. An existing entry only has its quantity incremented.
func (c *Cart) Add(productName string, prices PriceLookup) error {
	price, ok := prices.FinalPrice(productName)
	if !ok {
		return fmt.Errorf("add %q to cart: %w", productName, utils.ErrProductNotFound)
	}

	if e, exists := c.entries[productName]; exists {
		e.Quantity++
		return nil
	}

	c.entries[productName] = &Entry{ProductName: productName, Quantity: 1, UnitPrice: price}
	c.order = append(c.order, productName)
	return nil
}

// Snapshot returns the cart lines in insertion order.
func (c *Cart) Snapshot() []Line {
	lines := make([]Line, 0, len(c.order))
	for _, name := range c.order {
		e := c.entries[name]
		lines = append(lines, Line{
			ProductName: e.ProductName,
			Quantity:    e.Quantity,
			UnitPrice:   e.UnitPrice,
			LineTotal:   e.UnitPrice.Mul(decimal.NewFromInt(int64(e.Quantity))),
		})
	}
	return lines
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.entries = make(map[string]*Entry)
	c.order = nil
}

// IsEmpty reports whether the cart has no entries.
func (c *Cart) IsEmpty() bool {
	return len(c.order) == 0
}

// Len returns the number of distinct products in the cart.
func (c *Cart) Len() int {
	return len(c.order)
}

// MarshalJSON encodes the entries in insertion order.
func (c *Cart) MarshalJSON() ([]byte, error) {
	entries := make([]Entry, 0, len(c.order))
	for _, name := range c.order {
		entries = append(entries, *c.entries[name])
	}
	return json.Marshal(entries)
}

// UnmarshalJSON restores a cart encoded by MarshalJSON. Entries with a
// non-positive quantity or a repeated name are rejected.
func (c *Cart) UnmarshalJSON(data []byte) error {
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}

	restored := New()
	for _, e := range entries {
		if e.Quantity < 1 {
			return fmt.Errorf("cart entry %q has quantity %d", e.ProductName, e.Quantity)
		}
		if _, dup := restored.entries[e.ProductName]; dup {
			return fmt.Errorf("cart entry %q is duplicated", e.ProductName)
		}
		entry := e
		restored.entries[e.ProductName] = &entry
		restored.order = append(restored.order, e.ProductName)
	}

	*c = *restored
	return nil
}
