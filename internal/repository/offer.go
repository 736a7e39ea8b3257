package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Payphone-Digital/marketplace/internal/model"
	ctxutil "github.com/Payphone-Digital/marketplace/pkg/context"
	"github.com/Payphone-Digital/marketplace/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OfferRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

// publicOwner loads only the owner fields exposed by the offer projection.
func publicOwner(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "avatar")
}

func (r *OfferRepository) Create(ctx context.Context, offer *model.Offer) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "CreateOffer")

	start := time.Now()
	result := r.db.WithContext(ctx).Omit(clause.Associations).Create(offer)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to create offer").
			String("offer_id", offer.ID.String()).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "Offer created successfully").
		String("offer_id", offer.ID.String()).
		String("owner_id", offer.OwnerID.String()).
		Duration(duration).
		Log()
	return nil
}

// GetByID returns (nil, nil) when no offer has that id.
func (r *OfferRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Offer, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "GetOfferByID")

	if err := ctx.Err(); err != nil {
		logger.WarnWithContext(ctx, "Context cancelled before query").
			Err(err).
			Log()
		return nil, err
	}

	start := time.Now()
	var offer model.Offer
	result := r.db.WithContext(ctx).
		Preload("Owner", publicOwner).
		Where("id = ?", id).
		First(&offer)
	duration := time.Since(start)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			logger.DebugWithContext(ctx, "Offer not found").
				String("offer_id", id.String()).
				Duration(duration).
				Log()
			return nil, nil
		}
		logger.ErrorWithContext(ctx, "Failed to get offer by ID").
			String("offer_id", id.String()).
			Duration(duration).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	logger.DebugWithContext(ctx, "Offer retrieved successfully").
		String("offer_id", id.String()).
		Duration(duration).
		Log()
	return &offer, nil
}

// Update saves every column of the offer. Concurrent updates are last write wins.
func (r *OfferRepository) Update(ctx context.Context, offer *model.Offer) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "UpdateOffer")

	start := time.Now()
	result := r.db.WithContext(ctx).Omit(clause.Associations).Save(offer)
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to update offer").
			String("offer_id", offer.ID.String()).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "Offer updated successfully").
		String("offer_id", offer.ID.String()).
		Duration(duration).
		Log()
	return nil
}

func (r *OfferRepository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx = ctxutil.WithFunction(ctx, "repository", "DeleteOffer")

	start := time.Now()
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Offer{})
	duration := time.Since(start)

	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to delete offer").
			String("offer_id", id.String()).
			Duration(duration).
			Err(result.Error).
			Log()
		return result.Error
	}

	logger.InfoWithContext(ctx, "Offer deleted successfully").
		String("offer_id", id.String()).
		Int64("rows_affected", result.RowsAffected).
		Duration(duration).
		Log()
	return nil
}

// List returns one page of offers and the total number matching the filter.
func (r *OfferRepository) List(ctx context.Context, filter OfferFilter) ([]model.Offer, int64, error) {
	ctx = ctxutil.WithFunction(ctx, "repository", "ListOffers")

	if err := ctx.Err(); err != nil {
		logger.WarnWithContext(ctx, "Context cancelled before query").
			Err(err).
			Log()
		return nil, 0, err
	}

	start := time.Now()
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Offer{}).Scopes(filter.Where).Count(&total).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to count offers").
			Err(err).
			Log()
		return nil, 0, err
	}

	offers := make([]model.Offer, 0, filter.Limit)
	err := r.db.WithContext(ctx).
		Preload("Owner", publicOwner).
		Scopes(filter.Where, filter.Page).
		Find(&offers).Error
	duration := time.Since(start)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to fetch offers").
			Int("limit", filter.Limit).
			Int("skip", filter.Skip).
			Duration(duration).
			Err(err).
			Log()
		return nil, 0, err
	}

	logger.DebugWithContext(ctx, "Offers retrieved successfully").
		Int64("total", total).
		Int("returned_count", len(offers)).
		Int("skip", filter.Skip).
		String("sort", filter.Sort).
		Duration(duration).
		Log()
	return offers, total, nil
}
