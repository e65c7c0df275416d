package sweets

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/candylab/sweetshop-api/internal/application/dto"
	"github.com/candylab/sweetshop-api/internal/domain/repository"
)

// BuildFilter translates raw search parameters into a store predicate.
// Search stays lenient: a minPrice/maxPrice that does not parse as a number
// is treated as absent, never as an error, so the endpoint always answers
// 200. No parameters at all yields an empty filter, which matches
// everything.
func BuildFilter(in dto.SearchSweetsRequest) repository.SweetFilter {
	filter := repository.SweetFilter{
		Name:     strings.TrimSpace(in.Name),
		Category: strings.TrimSpace(in.Category),
	}
	if p, ok := parsePrice(in.MinPrice); ok {
		filter.MinPrice = &p
	}
	if p, ok := parsePrice(in.MaxPrice); ok {
		filter.MaxPrice = &p
	}
	return filter
}

func parsePrice(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Decimal{}, false
	}
	p, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return p, true
}
