package service

import (
	"github.com/Payphone-Digital/marketplace/internal/constants"
	"github.com/Payphone-Digital/marketplace/internal/repository"
	"github.com/Payphone-Digital/marketplace/pkg/validation"
)

// OfferQuery holds the checked list parameters.
type OfferQuery struct {
	Title    validation.Result
	PriceMin validation.Result
	PriceMax validation.Result
	Sort     validation.Result
	Page     validation.Result
}

// BuildOfferFilter turns checked list parameters into a filter. Invalid or
// missing parameters leave their constraint open. It does not run the query.
func BuildOfferFilter(q OfferQuery) repository.OfferFilter {
	filter := repository.OfferFilter{
		Limit: constants.OffersPageSize,
	}

	if q.Title.Valid {
		filter.Title = q.Title.Text()
		filter.HasTitle = true
	}

	if q.PriceMin.Valid {
		filter.PriceMin = q.PriceMin.Float()
	}
	if q.PriceMax.Valid {
		max := q.PriceMax.Float()
		filter.PriceMax = &max
	}
	if q.PriceMin.Valid && q.PriceMax.Valid && filter.PriceMin > *filter.PriceMax {
		min := *filter.PriceMax
		*filter.PriceMax = filter.PriceMin
		filter.PriceMin = min
	}

	if q.Sort.Valid {
		filter.Sort = q.Sort.Text()
	}

	if q.Page.Valid {
		page := min(q.Page.Int(), constants.MaxPage)
		filter.Skip = (page - 1) * constants.OffersPageSize
	}

	return filter
}
