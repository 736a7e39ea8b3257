package repository

import (
	"fmt"
	"strings"

	"github.com/Payphone-Digital/marketplace/internal/constants"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OfferFilter describes one list query. The zero value lists the first
// page of every offer in store order.
type OfferFilter struct {
	Title    string
	HasTitle bool
	PriceMin float64
	PriceMax *float64
	Sort     string // "", constants.OrderAsc or constants.OrderDesc
	Limit    int
	Skip     int
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Where applies the title and price constraints only, so it can back both the
// page query and the total count.
func (f OfferFilter) Where(db *gorm.DB) *gorm.DB {
	if f.HasTitle {
		db = db.Where(`product_name ILIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(f.Title)+"%")
	}

	db = db.Where("product_price >= ?", f.PriceMin)
	if f.PriceMax != nil {
		db = db.Where("product_price <= ?", *f.PriceMax)
	}
	return db
}

// Page applies ordering and the limit/offset window. The id breaks ties so
// consecutive pages never overlap.
func (f OfferFilter) Page(db *gorm.DB) *gorm.DB {
	switch f.Sort {
	case constants.OrderAsc:
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: "product_price"}})
	case constants.OrderDesc:
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: "product_price"}, Desc: true})
	default:
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}})
	}
	db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})

	if f.Limit > 0 {
		db = db.Limit(f.Limit)
	}
	if f.Skip > 0 {
		db = db.Offset(f.Skip)
	}
	return db
}

// CacheKey renders a stable key for the list cache.
func (f OfferFilter) CacheKey() string {
	title := "-"
	if f.HasTitle {
		title = strings.ToLower(f.Title)
	}
	max := "-"
	if f.PriceMax != nil {
		max = fmt.Sprintf("%g", *f.PriceMax)
	}
	sort := f.Sort
	if sort == "" {
		sort = "-"
	}
	return fmt.Sprintf("%st=%q:min=%g:max=%s:sort=%s:limit=%d:skip=%d",
		constants.CacheKeyOfferList, title, f.PriceMin, max, sort, f.Limit, f.Skip)
}
