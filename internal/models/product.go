package models

import "github.com/shopspring/decimal"

// RawProduct is a catalog row as delivered by a provider. Every field may be
// missing; the pricing normalizer fills the gaps.
type RawProduct struct {
	Name        *string             `db:"name" json:"name"`
	Brand       *string             `db:"brand" json:"brand"`
	Category    *string             `db:"category" json:"category"`
	SubCategory *string             `db:"sub_category" json:"subCategory"`
	Price       decimal.NullDecimal `db:"price" json:"price"`
}

// Product is a normalized catalog row with tax-inclusive pricing.
type Product struct {
	Name        string          `json:"name"`
	Brand       string          `json:"brand"`
	Category    string          `json:"category"`
	SubCategory string          `json:"subCategory"`
	Price       decimal.Decimal `json:"price"`
	GSTAmount   decimal.Decimal `json:"gstAmount"`
	FinalPrice  decimal.Decimal `json:"finalPrice"`
}

// Raw converts a normalized product back into provider form.
func (p Product) Raw() RawProduct {
	name, brand, category, sub := p.Name, p.Brand, p.Category, p.SubCategory
	return RawProduct{
		Name:        &name,
		Brand:       &brand,
		Category:    &category,
		SubCategory: &sub,
		Price:       decimal.NewNullDecimal(p.Price),
	}
}
