package cart

import (
	"github.com/shopspring/decimal"
)

// LineItem is one distinct product in the cart with its own quantity.
type LineItem struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
	Amount int             `json:"amount"`
}

// LineTotal returns price * amount for the entry.
func (i LineItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Amount)))
}

// State is a full snapshot of the cart: ordered items plus their derived total.
// A State is never mutated once published; transitions build a new one.
type State struct {
	Items       []LineItem      `json:"items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// EmptyState returns the cart with no items and a zero total.
func EmptyState() State {
	return State{Items: []LineItem{}, TotalAmount: decimal.Zero}
}

// HasItems reports whether the cart contains at least one entry.
func (s State) HasItems() bool {
	return len(s.Items) > 0
}

// Count returns the number of units across all entries.
func (s State) Count() int {
	n := 0
	for _, item := range s.Items {
		n += item.Amount
	}
	return n
}

// Sum recomputes the total from the items.
func (s State) Sum() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func (s State) indexOf(id string) int {
	for i, item := range s.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (s State) clone() State {
	items := make([]LineItem, len(s.Items))
	copy(items, s.Items)
	return State{Items: items, TotalAmount: s.TotalAmount}
}

// FormatAmount renders a money value with two decimals, e.g. "$12.99".
func FormatAmount(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
