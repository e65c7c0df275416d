package repository

import (
	"github.com/shopspring/decimal"

	"github.com/candylab/sweetshop-api/internal/domain/entity"
)

// SweetFilter is the predicate the query builder produces for Search.
// Zero-valued fields are unconstrained; Name and Category match as
// case-insensitive substrings, the price bounds are inclusive.
type SweetFilter struct {
	Name     string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// Empty reports whether the filter constrains nothing.
func (f SweetFilter) Empty() bool {
	return f.Name == "" && f.Category == "" && f.MinPrice == nil && f.MaxPrice == nil
}

// SweetPatch is a partial update: nil fields are left untouched by the
// store. Quantity is only set when the caller explicitly supplies one, so an
// Update never clobbers a purchase or restock that committed meanwhile.
type SweetPatch struct {
	Name        *string
	Category    *string
	Price       *decimal.Decimal
	Quantity    *int
	Description *string
	ImageURL    *string
}

// SweetRepository is the catalog store port.
//
// DecrementQuantity and IncrementQuantity are single atomic conditional
// updates executed by the store; the quantity invariant (never below zero)
// rests on them, not on in-process locking.
type SweetRepository interface {
	Create(sweet *entity.Sweet) error
	// GetByID returns (nil, nil) when no record matches.
	GetByID(id string) (*entity.Sweet, error)
	// List returns every sweet, newest first.
	List() ([]*entity.Sweet, error)
	// Search returns sweets matching the filter, newest first.
	Search(filter SweetFilter) ([]*entity.Sweet, error)
	// Update writes the patch's supplied fields in one store operation and
	// returns the resulting record. Returns domain.ErrNotFound when the id
	// does not exist.
	Update(id string, patch SweetPatch) (*entity.Sweet, error)
	// Delete removes the record. Returns domain.ErrNotFound when absent.
	Delete(id string) error
	// DecrementQuantity subtracts n only if the current quantity covers it,
	// as one indivisible store operation. Returns the updated record,
	// domain.ErrInsufficientStock when the record exists but stock is short,
	// or domain.ErrNotFound when it does not exist.
	DecrementQuantity(id string, n int) (*entity.Sweet, error)
	// IncrementQuantity adds n unconditionally (single store operation).
	// Returns the updated record or domain.ErrNotFound.
	IncrementQuantity(id string, n int) (*entity.Sweet, error)
}
