package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSweetRequest is the create payload. Price and Quantity are pointers
// so a missing field is distinguishable from a zero (both 0 values are
// legal); Quantity arrives as a decimal so "10.5" can be rejected as not a
// whole number instead of failing JSON decoding.
type CreateSweetRequest struct {
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *decimal.Decimal `json:"quantity"`
	Description string           `json:"description"`
	ImageURL    string           `json:"imageUrl"`
}

// UpdateSweetRequest is the partial-update payload; absent fields stay
// untouched.
type UpdateSweetRequest struct {
	Name        *string          `json:"name"`
	Category    *string          `json:"category"`
	Price       *decimal.Decimal `json:"price"`
	Quantity    *decimal.Decimal `json:"quantity"`
	Description *string          `json:"description"`
	ImageURL    *string          `json:"imageUrl"`
}

// QuantityRequest is the purchase/restock payload.
type QuantityRequest struct {
	Quantity *decimal.Decimal `json:"quantity"`
}

// SweetResponse is a catalog item as returned to clients.
type SweetResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"imageUrl,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// SearchSweetsRequest is the raw search query string set, before the query
// builder turns it into a store filter.
type SearchSweetsRequest struct {
	Name     string `query:"name"`
	Category string `query:"category"`
	MinPrice string `query:"minPrice"`
	MaxPrice string `query:"maxPrice"`
}
