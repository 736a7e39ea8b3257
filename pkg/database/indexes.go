package database

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OfferIndexes lists the statements backing the offer list filters.
func OfferIndexes() []string {
	return []string{
		// title search is a case-insensitive substring match
		"CREATE EXTENSION IF NOT EXISTS pg_trgm;",
		"CREATE INDEX IF NOT EXISTS idx_offers_product_name_trgm ON offers USING GIN (product_name gin_trgm_ops);",
		"CREATE INDEX IF NOT EXISTS idx_offers_price_created ON offers(product_price, created_at);",
	}
}

// CreateOfferIndexes creates the search indexes. Failures are logged and skipped
// since the queries still work without them.
func CreateOfferIndexes(db *gorm.DB, log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}

	for _, indexSQL := range OfferIndexes() {
		if err := db.Exec(indexSQL).Error; err != nil {
			log.Warn("Failed to create index", zap.String("sql", indexSQL), zap.Error(err))
		}
	}
}
