// Package pricing fills missing catalog fields and derives GST-inclusive prices.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/catalog_assistant/internal/models"
)

// Defaults applied to missing catalog fields.
const (
	DefaultName        = "Kitchen Appliance"
	DefaultBrand       = "Local/Unknown"
	DefaultCategory    = "Home & Kitchen"
	DefaultSubCategory = "Home Appliances"
)

// GSTRate is the flat 18% tax applied to every catalog price.
var GSTRate = decimal.New(18, -2)

// Normalize returns a normalized copy of the raw catalog, in input order.
func Normalize(rows []models.RawProduct) []models.Product {
	out := make([]models.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, NormalizeProduct(r))
	}
	return out
}

// NormalizeProduct fills defaults for a single row and computes GST and the
// final price. A missing or negative price becomes 0.
func NormalizeProduct(r models.RawProduct) models.Product {
	price := decimal.Zero
	if r.Price.Valid && r.Price.Decimal.IsPositive() {
		price = r.Price.Decimal
	}
	gst := price.Mul(GSTRate)

	return models.Product{
		Name:        orDefault(r.Name, DefaultName),
		Brand:       orDefault(r.Brand, DefaultBrand),
		Category:    orDefault(r.Category, DefaultCategory),
		SubCategory: orDefault(r.SubCategory, DefaultSubCategory),
		Price:       price,
		GSTAmount:   gst,
		FinalPrice:  price.Add(gst),
	}
}

func orDefault(v *string, def string) string {
	if v == nil || strings.TrimSpace(*v) == "" {
		return def
	}
	return *v
}
