package meals

import (
	"github.com/angelmondragon/reactmeals-backend/internal/cart"
	"github.com/angelmondragon/reactmeals-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// Meal is one catalog entry offered to shoppers.
type Meal struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// LineItem projects the meal into a single-unit cart entry. The description
// plays no part in cart state.
func (m Meal) LineItem() cart.LineItem {
	return cart.LineItem{ID: m.ID, Name: m.Name, Price: m.Price, Amount: 1}
}

func fromModel(row models.Meal) Meal {
	return Meal{ID: row.ID, Name: row.Name, Description: row.Description, Price: row.Price}
}

func toModel(m Meal, position int) models.Meal {
	return models.Meal{ID: m.ID, Name: m.Name, Description: m.Description, Price: m.Price, Position: position}
}
