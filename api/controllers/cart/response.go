package cart

import (
	cartdto "github.com/angelmondragon/reactmeals-backend/api/controllers/cart/dto"
	cartsvc "github.com/angelmondragon/reactmeals-backend/internal/cart"
)

const (
	EventSnapshot = "snapshot"
	EventUpdated  = "cart_updated"
)

func newCartView(state cartsvc.State) cartdto.CartView {
	items := make([]cartdto.CartViewItem, 0, len(state.Items))
	for _, item := range state.Items {
		items = append(items, cartdto.CartViewItem{
			ID:        item.ID,
			Name:      item.Name,
			Price:     item.Price.StringFixed(2),
			Amount:    item.Amount,
			LineTotal: item.LineTotal().StringFixed(2),
		})
	}
	return cartdto.CartView{
		Items:          items,
		TotalAmount:    state.TotalAmount.StringFixed(2),
		FormattedTotal: cartsvc.FormatAmount(state.TotalAmount),
		HasItems:       state.HasItems(),
	}
}

func newCartEvent(kind string, state cartsvc.State) cartdto.CartEvent {
	return cartdto.CartEvent{Type: kind, Cart: newCartView(state)}
}
