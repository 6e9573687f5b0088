package cart

import (
	cartdto "github.com/angelmondragon/reactmeals-backend/api/controllers/cart/dto"
	"github.com/angelmondragon/reactmeals-backend/api/validators"
)

const (
	defaultAddAmount = 1
	maxItemIDLen     = 64
)

func unitsRequested(req cartdto.AddItemRequest) int {
	if req.Amount == nil {
		return defaultAddAmount
	}
	return *req.Amount
}

func itemIDParam(raw string) string {
	return validators.SanitizeString(raw, maxItemIDLen)
}
