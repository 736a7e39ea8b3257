package service

import (
	"context"
	"mime/multipart"

	"github.com/Payphone-Digital/marketplace/internal/constants"
	"github.com/Payphone-Digital/marketplace/internal/dto"
	apperrors "github.com/Payphone-Digital/marketplace/internal/errors"
	"github.com/Payphone-Digital/marketplace/internal/model"
	"github.com/Payphone-Digital/marketplace/internal/repository"
	ctxutil "github.com/Payphone-Digital/marketplace/pkg/context"
	"github.com/Payphone-Digital/marketplace/pkg/logger"
	"github.com/google/uuid"
)

// OfferRepository is the persistence the offer service needs.
type OfferRepository interface {
	Create(ctx context.Context, offer *model.Offer) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Offer, error)
	Update(ctx context.Context, offer *model.Offer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter repository.OfferFilter) ([]model.Offer, int64, error)
}

// PublishInput is a checked publish request.
type PublishInput struct {
	Title       string
	Description string
	Price       float64
	Details     model.ProductDetails
	Picture     *multipart.FileHeader
}

type OfferService struct {
	repo   OfferRepository
	images *ImageCoordinator
	cache  *CacheService
}

func NewOfferService(repo OfferRepository, images *ImageCoordinator, cache *CacheService) *OfferService {
	return &OfferService{
		repo:   repo,
		images: images,
		cache:  cache,
	}
}

// Publish creates an offer owned by owner. Publishing the same payload twice
// creates two offers.
func (s *OfferService) Publish(ctx context.Context, owner *model.Account, in PublishInput) (*dto.OfferResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "PublishOffer")

	offer := &model.Offer{
		ID:                 uuid.New(),
		ProductName:        in.Title,
		ProductDescription: in.Description,
		ProductPrice:       in.Price,
		OwnerID:            owner.ID,
		Owner:              *owner,
	}
	offer.SetDetails(in.Details)

	if in.Picture != nil {
		if err := s.images.Attach(ctx, offer, in.Picture); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Create(ctx, offer); err != nil {
		if offer.Image() != nil {
			if releaseErr := s.images.Release(ctx, offer); releaseErr != nil {
				logger.ErrorWithContext(ctx, "Orphaned picture after failed publish").
					String("offer_id", offer.ID.String()).
					Err(releaseErr).
					Log()
			}
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.cache.InvalidateOfferLists(ctx)

	logger.InfoWithContext(ctx, "Offer published").
		String("offer_id", offer.ID.String()).
		Bool("has_picture", offer.Image() != nil).
		Log()

	resp := dto.ToOfferResponse(offer)
	return &resp, nil
}

// Modify applies a partial update. picture is nil when no valid picture was sent.
func (s *OfferService) Modify(ctx context.Context, accountID uuid.UUID, rawID string, changes OfferChanges, picture *multipart.FileHeader) (*dto.OfferResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "ModifyOffer")

	offer, err := s.ownedOffer(ctx, accountID, rawID)
	if err != nil {
		return nil, err
	}

	if picture != nil {
		hadImage := offer.Image() != nil
		if err := s.images.Replace(ctx, offer, picture); err != nil {
			if hadImage && offer.Image() == nil {
				s.dropStaleImage(ctx, offer)
			}
			return nil, err
		}
	}

	ApplyOfferUpdate(offer, changes)

	if err := s.repo.Update(ctx, offer); err != nil {
		if picture != nil {
			if releaseErr := s.images.Release(ctx, offer); releaseErr != nil {
				logger.ErrorWithContext(ctx, "Orphaned picture after failed modify").
					String("offer_id", offer.ID.String()).
					Err(releaseErr).
					Log()
			}
		}
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.cache.InvalidateOfferLists(ctx)

	logger.InfoWithContext(ctx, "Offer modified").
		String("offer_id", offer.ID.String()).
		Bool("picture_replaced", picture != nil).
		Log()

	resp := dto.ToOfferResponse(offer)
	return &resp, nil
}

// dropStaleImage persists a cleared picture reference after the old picture
// was deleted but its replacement never landed. Other fields are untouched.
func (s *OfferService) dropStaleImage(ctx context.Context, offer *model.Offer) {
	if err := s.repo.Update(ctx, offer); err != nil {
		logger.ErrorWithContext(ctx, "Offer still references a deleted picture").
			String("offer_id", offer.ID.String()).
			Err(err).
			Log()
		return
	}
	s.cache.InvalidateOfferLists(ctx)
}

// Delete releases the picture first. If the image store fails the offer is kept.
func (s *OfferService) Delete(ctx context.Context, accountID uuid.UUID, rawID string) error {
	ctx = ctxutil.WithFunction(ctx, "service", "DeleteOffer")

	offer, err := s.ownedOffer(ctx, accountID, rawID)
	if err != nil {
		return err
	}

	if err := s.images.Release(ctx, offer); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, offer.ID); err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	s.cache.InvalidateOfferLists(ctx)

	logger.InfoWithContext(ctx, "Offer deleted").
		String("offer_id", offer.ID.String()).
		Log()
	return nil
}

// List returns one page of offers and the total count for the filter.
func (s *OfferService) List(ctx context.Context, filter repository.OfferFilter) (*dto.OfferListResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "ListOffers")

	key := filter.CacheKey()
	if cached, ok := s.cache.GetOfferList(ctx, key); ok {
		return cached, nil
	}

	offers, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}

	resp := dto.ToOfferListResponse(total, offers)
	s.cache.SetOfferList(ctx, key, &resp)
	return &resp, nil
}

func (s *OfferService) Get(ctx context.Context, rawID string) (*dto.OfferResponse, error) {
	ctx = ctxutil.WithFunction(ctx, "service", "GetOffer")

	offer, err := s.find(ctx, rawID)
	if err != nil {
		return nil, err
	}

	resp := dto.ToOfferResponse(offer)
	return &resp, nil
}

// find reports a malformed id the same way as an unknown one.
func (s *OfferService) find(ctx context.Context, rawID string) (*model.Offer, error) {
	notFound := apperrors.WithMessage(apperrors.ErrOfferNotFound, constants.MsgOfferNotFound+rawID)

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, notFound
	}

	offer, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.WrapError(apperrors.ErrInternal, err)
	}
	if offer == nil {
		logger.InfoWithContext(ctx, "Offer not found").
			String("offer_id", rawID).
			Log()
		return nil, notFound
	}
	return offer, nil
}

// ownedOffer checks existence before ownership.
func (s *OfferService) ownedOffer(ctx context.Context, accountID uuid.UUID, rawID string) (*model.Offer, error) {
	offer, err := s.find(ctx, rawID)
	if err != nil {
		return nil, err
	}

	if !offer.IsOwnedBy(accountID) {
		logger.WarnWithContext(ctx, "Offer access denied").
			String("offer_id", rawID).
			String("account_id", accountID.String()).
			Log()
		return nil, apperrors.WithMessage(apperrors.ErrNotOfferOwner, constants.MsgNotOwner)
	}
	return offer, nil
}
