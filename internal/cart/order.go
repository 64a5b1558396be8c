package cart

import (
	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes displayed totals.
const CurrencySymbol = "₹"

// Order is the summary produced by submitting a cart. It is never stored.
type Order struct {
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// DisplayTotal formats TotalPrice with the currency symbol and two decimals.
func (o Order) DisplayTotal() string {
	return CurrencySymbol + o.TotalPrice.StringFixed(2)
}

// Totals sums quantities and line totals without changing the cart.
func Totals(c *Cart) Order {
	order := Order{TotalPrice: decimal.Zero}
	for _, l := range c.Snapshot() {
		order.TotalItems += l.Quantity
		order.TotalPrice = order.TotalPrice.Add(l.LineTotal)
	}
	return order
}

// Submit finalizes the cart: it returns the totals and empties the cart.
// Submitting an empty cart is a no-op that returns zero totals.
func Submit(c *Cart) Order {
	if c.IsEmpty() {
		return Order{TotalPrice: decimal.Zero}
	}
	order := Totals(c)
	c.Clear()
	return order
}
