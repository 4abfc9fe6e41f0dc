package listings

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Type distinguishes rental listings from listings for sale.
type Type string

const (
	TypeRent Type = "rent"
	TypeBuy  Type = "buy"
)

// Valid reports whether t is one of the known listing types.
func (t Type) Valid() bool {
	return t == TypeRent || t == TypeBuy
}

// Property mirrors one element of the /realestate payload.
type Property struct {
	ID        string `json:"id"`
	ImgSrcURL string `json:"img_src"`
	Price     int64  `json:"price"`
	Type      Type   `json:"type"`
}

// IsRental reports whether the property is listed for rent.
func (p Property) IsRental() bool {
	return p.Type == TypeRent
}

// DisplayPrice formats the price for its listing type: monthly for rentals,
// the total for sales.
func (p Property) DisplayPrice() string {
	amount := "$" + humanize.Comma(p.Price)
	if p.IsRental() {
		return amount + "/month"
	}
	return amount
}

// Filter selects which listings the API returns.
type Filter string

const (
	FilterRent Filter = "rent"
	FilterBuy  Filter = "buy"
	FilterAll  Filter = "all"
)

var filterOrder = []Filter{FilterAll, FilterRent, FilterBuy}

// Filters returns every filter in display order.
func Filters() []Filter {
	out := make([]Filter, len(filterOrder))
	copy(out, filterOrder)
	return out
}

// ParseFilter maps a query value such as "Rent " onto a Filter.
func ParseFilter(value string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(value))); f {
	case FilterRent, FilterBuy, FilterAll:
		return f, nil
	default:
		return "", fmt.Errorf("unknown filter %q (want rent, buy, or all)", value)
	}
}

// Value returns the lowercase query parameter value.
func (f Filter) Value() string {
	if f == "" {
		return string(FilterAll)
	}
	return string(f)
}

// Label returns a short human-readable name.
func (f Filter) Label() string {
	switch f {
	case FilterRent:
		return "Rent"
	case FilterBuy:
		return "Buy"
	default:
		return "All"
	}
}

// Matches reports whether p belongs to the listings selected by f.
func (f Filter) Matches(p Property) bool {
	switch f {
	case FilterRent:
		return p.Type == TypeRent
	case FilterBuy:
		return p.Type == TypeBuy
	default:
		return true
	}
}
