package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categories a sweet may belong to. Fixed enumeration; anything else is
// rejected at validation time.
var Categories = []string{
	"Chocolate",
	"Candy",
	"Gummy",
	"Hard Candy",
	"Lollipop",
	"Marshmallow",
	"Other",
}

// ValidCategory reports whether s is one of the known categories.
func ValidCategory(s string) bool {
	for _, c := range Categories {
		if c == s {
			return true
		}
	}
	return false
}

// Sweet is a catalog item. Quantity is units in stock and is never negative;
// purchase and restock go through the store's conditional update, never a
// read-modify-write in memory.
type Sweet struct {
	ID          string
	Name        string
	Category    string
	Price       decimal.Decimal // two-decimal sale price
	Quantity    int
	Description string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
