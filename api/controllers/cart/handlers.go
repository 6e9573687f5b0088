package cart

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	cartdto "github.com/angelmondragon/reactmeals-backend/api/controllers/cart/dto"
	"github.com/angelmondragon/reactmeals-backend/api/middleware"
	"github.com/angelmondragon/reactmeals-backend/api/responses"
	"github.com/angelmondragon/reactmeals-backend/api/validators"
	cartsvc "github.com/angelmondragon/reactmeals-backend/internal/cart"
	"github.com/angelmondragon/reactmeals-backend/internal/meals"
	pkgerrors "github.com/angelmondragon/reactmeals-backend/pkg/errors"
	"github.com/angelmondragon/reactmeals-backend/pkg/logger"
)

// Sessions resolves the cart controller bound to a session id.
type Sessions interface {
	GetOrCreate(sessionID string) *cartsvc.Controller
}

// Catalog resolves meals by id so clients never send prices.
type Catalog interface {
	Get(ctx context.Context, id string) (meals.Meal, error)
}

// CartFetch returns the cart view for the request's session.
func CartFetch(sessions Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := controllerFor(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(ctrl.Snapshot()))
	}
}

// CartAddItem adds amount units of a catalog meal, one unit per AddItem call.
func CartAddItem(sessions Sessions, catalog Catalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := controllerFor(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if catalog == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "meal catalog unavailable"))
			return
		}

		var payload cartdto.AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		payload.MealID = validators.SanitizeString(payload.MealID, maxItemIDLen)

		meal, err := catalog.Get(r.Context(), payload.MealID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item := meal.LineItem()
		state := ctrl.Snapshot()
		for i := 0; i < unitsRequested(payload); i++ {
			state, err = ctrl.AddItem(item)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		responses.WriteSuccess(w, newCartView(state))
	}
}

// CartIncrementItem adds one more unit of an item already in the cart.
func CartIncrementItem(sessions Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := controllerFor(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id := itemIDParam(chi.URLParam(r, "itemId"))
		item, ok := ctrl.Find(id)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeNotFound, cartsvc.ErrItemNotFound, fmt.Sprintf("cart item %q not found", id)))
			return
		}

		state, err := ctrl.AddItem(item)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(state))
	}
}

// CartRemoveItem removes one unit of an item.
func CartRemoveItem(sessions Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := controllerFor(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := ctrl.RemoveItem(itemIDParam(chi.URLParam(r, "itemId")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(state))
	}
}

// CartClear empties the cart.
func CartClear(sessions Sessions, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctrl, err := controllerFor(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state, err := ctrl.ClearCart()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(state))
	}
}

func controllerFor(r *http.Request, sessions Sessions) (*cartsvc.Controller, error) {
	if sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart sessions unavailable")
	}
	sessionID := middleware.SessionIDFromContext(r.Context())
	if sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session required")
	}
	return sessions.GetOrCreate(sessionID), nil
}
