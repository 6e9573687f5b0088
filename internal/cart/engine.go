package cart

import (
	"errors"
	"fmt"
	"strings"

	pkgerrors "github.com/angelmondragon/reactmeals-backend/pkg/errors"
)

var (
	ErrInvalidQuantity = errors.New("cart: quantity must be positive")
	ErrInvalidItem     = errors.New("cart: invalid line item")
	ErrItemNotFound    = errors.New("cart: item not found")
	ErrUnknownAction   = errors.New("cart: unknown action")
)

// Action is a tagged request to change the cart. The set of variants is closed.
type Action interface {
	Kind() string
	isAction()
}

// Add puts Item.Amount units of Item into the cart.
type Add struct {
	Item LineItem
}

// Remove takes one unit of the item with ID out of the cart.
type Remove struct {
	ID string
}

// Clear empties the cart.
type Clear struct{}

func (Add) Kind() string    { return ActionAdd }
func (Remove) Kind() string { return ActionRemove }
func (Clear) Kind() string  { return ActionClear }

func (Add) isAction()    {}
func (Remove) isAction() {}
func (Clear) isAction()  {}

const (
	ActionAdd    = "add"
	ActionRemove = "remove"
	ActionClear  = "clear"
)

// Transition computes the next cart state. It never mutates state. On error the
// returned state is state itself, so callers can keep using it unchanged.
func Transition(state State, action Action) (State, error) {
	switch a := action.(type) {
	case Add:
		return applyAdd(state, a.Item)
	case Remove:
		return applyRemove(state, a.ID)
	case Clear:
		return EmptyState(), nil
	default:
		return state, pkgerrors.Wrap(pkgerrors.CodeInternal, ErrUnknownAction, fmt.Sprintf("unsupported cart action %T", action))
	}
}

func applyAdd(state State, item LineItem) (State, error) {
	if item.Amount <= 0 {
		return state, pkgerrors.Wrap(pkgerrors.CodeValidation, ErrInvalidQuantity, "amount must be at least 1").
			WithDetails(map[string]any{"amount": item.Amount})
	}
	if strings.TrimSpace(item.ID) == "" {
		return state, pkgerrors.Wrap(pkgerrors.CodeValidation, ErrInvalidItem, "item id is required")
	}
	if item.Price.IsNegative() {
		return state, pkgerrors.Wrap(pkgerrors.CodeValidation, ErrInvalidItem, "price must not be negative").
			WithDetails(map[string]any{"price": item.Price.String()})
	}

	next := state.clone()
	next.TotalAmount = state.TotalAmount.Add(item.LineTotal())

	if idx := state.indexOf(item.ID); idx >= 0 {
		// name and price stay as first added
		updated := next.Items[idx]
		updated.Amount += item.Amount
		next.Items[idx] = updated
		return next, nil
	}

	next.Items = append(next.Items, item)
	return next, nil
}

func applyRemove(state State, id string) (State, error) {
	idx := state.indexOf(id)
	if idx < 0 {
		return state, pkgerrors.Wrap(pkgerrors.CodeNotFound, ErrItemNotFound, fmt.Sprintf("cart item %q not found", id))
	}

	existing := state.Items[idx]
	next := State{TotalAmount: state.TotalAmount.Sub(existing.Price)}

	if existing.Amount == 1 {
		next.Items = make([]LineItem, 0, len(state.Items)-1)
		next.Items = append(next.Items, state.Items[:idx]...)
		next.Items = append(next.Items, state.Items[idx+1:]...)
		return next, nil
	}

	next.Items = make([]LineItem, len(state.Items))
	copy(next.Items, state.Items)
	existing.Amount--
	next.Items[idx] = existing
	return next, nil
}
