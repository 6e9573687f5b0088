package cartdto

// CartViewItem is one line of the cart as the storefront renders it.
type CartViewItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Amount    int    `json:"amount"`
	LineTotal string `json:"line_total"`
}

// CartView mirrors the cart modal: the lines, the total and whether the
// order button should be shown.
type CartView struct {
	Items          []CartViewItem `json:"items"`
	TotalAmount    string         `json:"total_amount"`
	FormattedTotal string         `json:"formatted_total"`
	HasItems       bool           `json:"has_items"`
}

// CartEvent is pushed over the cart websocket.
type CartEvent struct {
	Type string   `json:"type"`
	Cart CartView `json:"cart"`
}

// AddItemRequest adds amount units of a catalog meal.
type AddItemRequest struct {
	MealID string `json:"meal_id" validate:"required,max=64"`
	Amount *int   `json:"amount" validate:"omitempty,min=1,max=5"`
}
