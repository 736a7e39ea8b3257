package constants

import "math"

// Offer list query parameters
const (
	QueryParamTitle    = "title"
	QueryParamPriceMin = "priceMin"
	QueryParamPriceMax = "priceMax"
	QueryParamSort     = "sort"
	QueryParamPage     = "page"
)

// OffersPageSize is the fixed number of offers returned per page.
const OffersPageSize = 5

const MinPage = 1

// MaxPage caps the page number so the offset never overflows. Larger pages
// read past the end of any listing.
const MaxPage = math.MaxInt32 / OffersPageSize

// Sort directions accepted in the sort query parameter and their store order.
const (
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	OrderAsc      = "asc"
	OrderDesc     = "desc"
)

// SortDirections remaps the public sort values to the store order.
func SortDirections() map[string]string {
	return map[string]string{
		SortPriceAsc:  OrderAsc,
		SortPriceDesc: OrderDesc,
	}
}
