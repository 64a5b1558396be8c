package service

import (
	"github.com/shopspring/decimal"

	"github.com/GTDGit/catalog_assistant/internal/cart"
	"github.com/GTDGit/catalog_assistant/internal/models"
)

// Empty-state and confirmation texts shown by the display layer.
const (
	MsgNoTrending  = "No trending products found."
	MsgNoRelated   = "No related products found."
	MsgCartEmpty   = "Your cart is empty."
	MsgOrderPlaced = "Order placed successfully!"
)

// RankingPanel is a ranked (product, count) list with its empty-state text.
type RankingPanel struct {
	Title   string                `json:"title,omitempty"`
	Items   []models.ProductCount `json:"items"`
	Message string                `json:"message,omitempty"`
}

// ProductOption is a product offered in the selection list.
type ProductOption struct {
	Name       string          `json:"name"`
	Brand      string          `json:"brand"`
	FinalPrice decimal.Decimal `json:"finalPrice"`
}

// SelectionView holds the category and product pickers.
type SelectionView struct {
	Categories       []string        `json:"categories"`
	SelectedCategory string          `json:"selectedCategory"`
	Products         []ProductOption `json:"products"`
	SelectedProduct  string          `json:"selectedProduct"`
}

// CartView is the cart panel.
type CartView struct {
	Lines      []cart.Line     `json:"items"`
	TotalItems int             `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	CanSubmit  bool            `json:"canSubmit"`
	Message    string          `json:"message,omitempty"`
}

// OrderConfirmation is emitted by a submit event.
type OrderConfirmation struct {
	Submitted  bool            `json:"submitted"`
	Message    string          `json:"message"`
	TotalItems int             `json:"Total Items"`
	TotalPrice string          `json:"Total Price"`
	Amount     decimal.Decimal `json:"amount"`
}

// View is the full recomputed state returned after every event.
type View struct {
	SessionID       string             `json:"sessionId"`
	Trending        RankingPanel       `json:"trending"`
	Selection       SelectionView      `json:"selection"`
	Recommendations RankingPanel       `json:"recommendations"`
	Cart            CartView           `json:"cart"`
	Order           *OrderConfirmation `json:"order,omitempty"`
}

func trendingPanel(items []models.ProductCount) RankingPanel {
	p := RankingPanel{Title: "Top Trending Products", Items: items}
	if len(items) == 0 {
		p.Message = MsgNoTrending
	}
	return p
}

func recommendationPanel(selected string, items []models.ProductCount) RankingPanel {
	p := RankingPanel{Items: items}
	if selected != "" {
		p.Title = "Recommended Products for '" + selected + "'"
	}
	if len(items) == 0 {
		p.Message = MsgNoRelated
	}
	return p
}

func cartView(c *cart.Cart) CartView {
	totals := cart.Totals(c)
	v := CartView{
		Lines:      c.Snapshot(),
		TotalItems: totals.TotalItems,
		TotalPrice: totals.TotalPrice,
		CanSubmit:  !c.IsEmpty(),
	}
	if c.IsEmpty() {
		v.Message = MsgCartEmpty
	}
	return v
}

func orderConfirmation(o cart.Order, submitted bool) *OrderConfirmation {
	msg := MsgOrderPlaced
	if !submitted {
		msg = MsgCartEmpty
	}
	return &OrderConfirmation{
		Submitted:  submitted,
		Message:    msg,
		TotalItems: o.TotalItems,
		TotalPrice: o.DisplayTotal(),
		Amount:     o.TotalPrice,
	}
}
