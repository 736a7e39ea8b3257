package service

import (
	"testing"

	"github.com/Payphone-Digital/marketplace/internal/constants"
	"github.com/Payphone-Digital/marketplace/pkg/validation"
)

// param checks a query value; an empty value means the parameter was absent.
func param(d validation.Descriptor, value string) validation.Result {
	if value == "" {
		return validation.Check(d, validation.Raw{})
	}
	return validation.Check(d, validation.Raw{Present: true, Value: value})
}

func listQuery(title, priceMin, priceMax, sort, page string) OfferQuery {
	return OfferQuery{
		Title:    param(validation.TitleQueryRule(), title),
		PriceMin: param(validation.PriceMinRule(), priceMin),
		PriceMax: param(validation.PriceMaxRule(), priceMax),
		Sort:     param(validation.SortRule(), sort),
		Page:     param(validation.PageRule(), page),
	}
}

func TestBuildOfferFilter(t *testing.T) {
	tests := []struct {
		name     string
		query    OfferQuery
		title    string
		hasTitle bool
		min      float64
		max      *float64
		sort     string
		skip     int
	}{
		{
			name:  "no parameters",
			query: listQuery("", "", "", "", ""),
		},
		{
			name:     "title and bounds",
			query:    listQuery("jean", "10", "50", "", ""),
			title:    "jean",
			hasTitle: true,
			min:      10,
			max:      validation.Float(50),
		},
		{
			name:  "inverted bounds are swapped",
			query: listQuery("", "80", "20", "", ""),
			min:   20,
			max:   validation.Float(80),
		},
		{
			name:  "invalid min leaves the lower bound open",
			query: listQuery("", "abc", "30", "", ""),
			max:   validation.Float(30),
		},
		{
			name:  "negative max is ignored",
			query: listQuery("", "5", "-1", "", ""),
			min:   5,
		},
		{
			name:  "sort maps to a direction",
			query: listQuery("", "", "", "price-desc", ""),
			sort:  constants.OrderDesc,
		},
		{
			name:  "unknown sort keeps default order",
			query: listQuery("", "", "", "cheapest", ""),
		},
		{
			name:  "page three skips ten",
			query: listQuery("", "", "", "", "3"),
			skip:  10,
		},
		{
			name:  "fractional page is ignored",
			query: listQuery("", "", "", "", "2.5"),
		},
		{
			name:  "page zero is ignored",
			query: listQuery("", "", "", "", "0"),
		},
		{
			name:  "huge page saturates past the last offer",
			query: listQuery("", "", "", "", "2000000000000000000"),
			skip:  (constants.MaxPage - 1) * constants.OffersPageSize,
		},
		{
			name:  "page beyond int range saturates",
			query: listQuery("", "", "", "", "1e19"),
			skip:  (constants.MaxPage - 1) * constants.OffersPageSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildOfferFilter(tt.query)

			if got.Limit != constants.OffersPageSize {
				t.Errorf("Expected limit %d, got %d", constants.OffersPageSize, got.Limit)
			}
			if got.HasTitle != tt.hasTitle || got.Title != tt.title {
				t.Errorf("Expected title %q (%v), got %q (%v)", tt.title, tt.hasTitle, got.Title, got.HasTitle)
			}
			if got.PriceMin != tt.min {
				t.Errorf("Expected min %v, got %v", tt.min, got.PriceMin)
			}
			switch {
			case tt.max == nil && got.PriceMax != nil:
				t.Errorf("Expected no max, got %v", *got.PriceMax)
			case tt.max != nil && (got.PriceMax == nil || *got.PriceMax != *tt.max):
				t.Errorf("Expected max %v, got %v", *tt.max, got.PriceMax)
			}
			if got.Sort != tt.sort {
				t.Errorf("Expected sort %q, got %q", tt.sort, got.Sort)
			}
			if got.Skip != tt.skip {
				t.Errorf("Expected skip %d, got %d", tt.skip, got.Skip)
			}
		})
	}
}

func TestBuildOfferFilter_BoundsAlwaysOrdered(t *testing.T) {
	values := []string{"0", "1", "9.5", "10", "250", "1000"}
	for _, lo := range values {
		for _, hi := range values {
			f := BuildOfferFilter(listQuery("", lo, hi, "", ""))
			if f.PriceMax == nil || f.PriceMin > *f.PriceMax {
				t.Errorf("min=%s max=%s: expected ordered bounds, got %v..%v", lo, hi, f.PriceMin, f.PriceMax)
			}
		}
	}
}
