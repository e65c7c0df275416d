package validation

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/candylab/sweetshop-api/internal/application/dto"
	"github.com/candylab/sweetshop-api/internal/domain/entity"
)

const (
	sweetNameMin        = 2
	sweetNameMax        = 100
	sweetDescriptionMax = 500
)

var categoryList = strings.Join(entity.Categories, ", ")

// CreateSweetInput is a create payload after validation: every field present,
// in range and normalized. Only these fields ever reach the store.
type CreateSweetInput struct {
	Name        string
	Category    string
	Price       decimal.Decimal
	Quantity    int
	Description string
	ImageURL    string
}

// UpdateSweetInput is a partial-update payload after validation. Nil fields
// were absent and must be left untouched.
type UpdateSweetInput struct {
	Name        *string
	Category    *string
	Price       *decimal.Decimal
	Quantity    *int
	Description *string
	ImageURL    *string
}

// Empty reports whether the update carries no fields at all.
func (in UpdateSweetInput) Empty() bool {
	return in.Name == nil && in.Category == nil && in.Price == nil &&
		in.Quantity == nil && in.Description == nil && in.ImageURL == nil
}

// ValidateCreateSweet checks a create payload against the catalog
// constraints: name [2,100], category in the fixed enumeration, price >= 0
// with at most two decimal places (extra digits are rejected, not rounded),
// quantity a non-negative whole number, description <= 500 optional,
// imageUrl a valid URL optional.
func ValidateCreateSweet(in dto.CreateSweetRequest) (CreateSweetInput, *ValidationError) {
	verr := &ValidationError{}
	out := CreateSweetInput{}

	// Bounds count characters, not bytes, so multibyte names measure right.
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		verr.add("name", "Sweet name is required")
	case utf8.RuneCountInString(name) < sweetNameMin:
		verr.add("name", "Sweet name must be at least 2 characters long")
	case utf8.RuneCountInString(name) > sweetNameMax:
		verr.add("name", "Sweet name cannot exceed 100 characters")
	default:
		out.Name = name
	}

	category := strings.TrimSpace(in.Category)
	switch {
	case category == "":
		verr.add("category", "Category is required")
	case !entity.ValidCategory(category):
		verr.add("category", "Category must be one of: "+categoryList)
	default:
		out.Category = category
	}

	if price, msg := checkPrice(in.Price, true); msg != "" {
		verr.add("price", msg)
	} else {
		out.Price = price
	}

	if qty, msg := checkWholeQuantity(in.Quantity, "Quantity", 0); msg != "" {
		verr.add("quantity", msg)
	} else {
		out.Quantity = qty
	}

	desc := strings.TrimSpace(in.Description)
	if utf8.RuneCountInString(desc) > sweetDescriptionMax {
		verr.add("description", "Description cannot exceed 500 characters")
	} else {
		out.Description = desc
	}

	if img, msg := checkImageURL(in.ImageURL); msg != "" {
		verr.add("imageUrl", msg)
	} else {
		out.ImageURL = img
	}

	if err := verr.orNil(); err != nil {
		return CreateSweetInput{}, err
	}
	return out, nil
}

// ValidateUpdateSweet checks a partial-update payload. Field constraints are
// those of create, but every field is optional; nil stays nil.
func ValidateUpdateSweet(in dto.UpdateSweetRequest) (UpdateSweetInput, *ValidationError) {
	verr := &ValidationError{}
	out := UpdateSweetInput{}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		switch {
		case utf8.RuneCountInString(name) < sweetNameMin:
			verr.add("name", "Sweet name must be at least 2 characters long")
		case utf8.RuneCountInString(name) > sweetNameMax:
			verr.add("name", "Sweet name cannot exceed 100 characters")
		default:
			out.Name = &name
		}
	}

	if in.Category != nil {
		category := strings.TrimSpace(*in.Category)
		if !entity.ValidCategory(category) {
			verr.add("category", "Category must be one of: "+categoryList)
		} else {
			out.Category = &category
		}
	}

	if in.Price != nil {
		if price, msg := checkPrice(in.Price, false); msg != "" {
			verr.add("price", msg)
		} else {
			out.Price = &price
		}
	}

	if in.Quantity != nil {
		if qty, msg := checkWholeQuantity(in.Quantity, "Quantity", 0); msg != "" {
			verr.add("quantity", msg)
		} else {
			out.Quantity = &qty
		}
	}

	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		if utf8.RuneCountInString(desc) > sweetDescriptionMax {
			verr.add("description", "Description cannot exceed 500 characters")
		} else {
			out.Description = &desc
		}
	}

	if in.ImageURL != nil {
		if img, msg := checkImageURL(*in.ImageURL); msg != "" {
			verr.add("imageUrl", msg)
		} else {
			out.ImageURL = &img
		}
	}

	if err := verr.orNil(); err != nil {
		return UpdateSweetInput{}, err
	}
	return out, nil
}

// ValidatePurchaseQuantity checks a purchase payload: quantity, whole, >= 1.
func ValidatePurchaseQuantity(in dto.QuantityRequest) (int, *ValidationError) {
	return validateMutationQuantity(in, "Purchase")
}

// ValidateRestockQuantity checks a restock payload: quantity, whole, >= 1.
func ValidateRestockQuantity(in dto.QuantityRequest) (int, *ValidationError) {
	return validateMutationQuantity(in, "Restock")
}

func validateMutationQuantity(in dto.QuantityRequest, verb string) (int, *ValidationError) {
	verr := &ValidationError{}
	qty, msg := checkWholeQuantity(in.Quantity, verb+" quantity", 1)
	if msg != "" {
		verr.add("quantity", msg)
		return 0, verr
	}
	return qty, nil
}

// checkPrice validates presence (when required), sign and precision.
// Two-decimal precision means the value itself carries no more than two
// meaningful fractional digits; 2.990 is fine, 2.999 is not.
func checkPrice(p *decimal.Decimal, required bool) (decimal.Decimal, string) {
	if p == nil {
		if required {
			return decimal.Decimal{}, "Price is required"
		}
		return decimal.Decimal{}, ""
	}
	if p.IsNegative() {
		return decimal.Decimal{}, "Price must be a positive number"
	}
	if !p.Equal(p.Round(2)) {
		return decimal.Decimal{}, "Price can have at most 2 decimal places"
	}
	return p.Round(2), ""
}

// checkWholeQuantity validates presence, integrality and the minimum. The
// label distinguishes "Quantity ..." from "Purchase quantity ..." messages.
func checkWholeQuantity(q *decimal.Decimal, label string, min int) (int, string) {
	if q == nil {
		return 0, label + " is required"
	}
	if !q.IsInteger() {
		return 0, label + " must be a whole number"
	}
	n := int(q.IntPart())
	if min == 0 && n < 0 {
		return 0, label + " cannot be negative"
	}
	if min > 0 && n < min {
		return 0, label + " must be at least 1"
	}
	return n, ""
}

func checkImageURL(raw string) (string, string) {
	img := strings.TrimSpace(raw)
	if img == "" {
		return "", ""
	}
	u, err := url.ParseRequestURI(img)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", "Image URL must be a valid URL"
	}
	return img, ""
}
