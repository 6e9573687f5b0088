package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/reactmeals-backend/api/responses"
	"github.com/angelmondragon/reactmeals-backend/internal/cart"
	"github.com/angelmondragon/reactmeals-backend/internal/meals"
	pkgerrors "github.com/angelmondragon/reactmeals-backend/pkg/errors"
	"github.com/angelmondragon/reactmeals-backend/pkg/logger"
)

// MealLister lists the available meals.
type MealLister interface {
	List(ctx context.Context) ([]meals.Meal, error)
}

type mealResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Formatted   string `json:"formatted_price"`
}

// MealsList returns the catalog in display order.
func MealsList(svc MealLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "meals service unavailable"))
			return
		}

		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		out := make([]mealResponse, 0, len(list))
		for _, m := range list {
			out = append(out, mealResponse{
				ID:          m.ID,
				Name:        m.Name,
				Description: m.Description,
				Price:       m.Price.StringFixed(2),
				Formatted:   cart.FormatAmount(m.Price),
			})
		}
		responses.WriteSuccess(w, out)
	}
}
