package handler

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/Payphone-Digital/marketplace/internal/constants"
	"github.com/Payphone-Digital/marketplace/internal/dto"
	apperrors "github.com/Payphone-Digital/marketplace/internal/errors"
	"github.com/Payphone-Digital/marketplace/internal/middleware"
	"github.com/Payphone-Digital/marketplace/internal/model"
	"github.com/Payphone-Digital/marketplace/internal/repository"
	"github.com/Payphone-Digital/marketplace/internal/service"
	ctxutil "github.com/Payphone-Digital/marketplace/pkg/context"
	"github.com/Payphone-Digital/marketplace/pkg/logger"
	"github.com/Payphone-Digital/marketplace/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OfferService is the offer use-case surface the handler drives.
type OfferService interface {
	Publish(ctx context.Context, owner *model.Account, in service.PublishInput) (*dto.OfferResponse, error)
	Modify(ctx context.Context, accountID uuid.UUID, rawID string, changes service.OfferChanges, picture *multipart.FileHeader) (*dto.OfferResponse, error)
	Delete(ctx context.Context, accountID uuid.UUID, rawID string) error
	List(ctx context.Context, filter repository.OfferFilter) (*dto.OfferListResponse, error)
	Get(ctx context.Context, rawID string) (*dto.OfferResponse, error)
}

type OfferHandler struct {
	offerService OfferService
	pictureRule  validation.Descriptor
}

func NewOfferHandler(offerService OfferService, pictureRule validation.Descriptor) *OfferHandler {
	return &OfferHandler{
		offerService: offerService,
		pictureRule:  pictureRule,
	}
}

// PublishRules are checked before Publish runs.
func (h *OfferHandler) PublishRules() []validation.Descriptor {
	return []validation.Descriptor{
		validation.TitleRule(),
		validation.DescriptionRule(),
		validation.PriceRule(),
		h.pictureRule,
	}
}

// Publish handles POST /offer/publish
func (h *OfferHandler) Publish(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "PublishOffer")

	account, ok := middleware.CurrentAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized))
		return
	}

	params := middleware.CheckedParams(c)
	response, err := h.offerService.Publish(ctx, account, service.PublishInput{
		Title:       params[constants.FieldTitle].Text(),
		Description: params[constants.FieldDescription].Text(),
		Price:       params[constants.FieldPrice].Float(),
		Details:     detailsFromBody(c),
		Picture:     params[constants.FieldPicture].File(),
	})
	if err != nil {
		h.fail(ctx, c, "Publish offer failed", err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Modify handles PUT /offer/modify/:id. Invalid fields are left unchanged.
func (h *OfferHandler) Modify(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "ModifyOffer")

	account, ok := middleware.CurrentAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized))
		return
	}

	params := middleware.CheckParams(c,
		validation.TitleRule(),
		validation.DescriptionRule(),
		validation.PriceRule(),
		h.pictureRule,
	)

	var picture *multipart.FileHeader
	if result := params[h.pictureRule.Name]; result.Valid {
		picture = result.File()
	}

	changes := service.OfferChanges{
		Title:       params[constants.FieldTitle],
		Description: params[constants.FieldDescription],
		Price:       params[constants.FieldPrice],
		Details:     detailsFromBody(c),
	}

	response, err := h.offerService.Modify(ctx, account.ID, c.Param("id"), changes, picture)
	if err != nil {
		h.fail(ctx, c, "Modify offer failed", err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// Delete handles DELETE /offer/delete/:id
func (h *OfferHandler) Delete(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "DeleteOffer")

	account, ok := middleware.CurrentAccount(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(constants.MsgUnauthorized))
		return
	}

	if err := h.offerService.Delete(ctx, account.ID, c.Param("id")); err != nil {
		h.fail(ctx, c, "Delete offer failed", err)
		return
	}

	c.JSON(http.StatusOK, constants.BuildSuccessResponse(constants.MsgOfferDeleted))
}

// List handles GET /offers
func (h *OfferHandler) List(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "ListOffers")

	params := middleware.CheckParams(c,
		validation.TitleQueryRule(),
		validation.PriceMinRule(),
		validation.PriceMaxRule(),
		validation.SortRule(),
		validation.PageRule(),
	)

	filter := service.BuildOfferFilter(service.OfferQuery{
		Title:    params[constants.QueryParamTitle],
		PriceMin: params[constants.QueryParamPriceMin],
		PriceMax: params[constants.QueryParamPriceMax],
		Sort:     params[constants.QueryParamSort],
		Page:     params[constants.QueryParamPage],
	})

	response, err := h.offerService.List(ctx, filter)
	if err != nil {
		h.fail(ctx, c, "List offers failed", err)
		return
	}

	logger.DebugWithContext(ctx, "Offers listed").
		Int64("count", response.Count).
		Int("returned", len(response.Offers)).
		Log()

	c.JSON(http.StatusOK, response)
}

// Get handles GET /offers/:id
func (h *OfferHandler) Get(c *gin.Context) {
	ctx := ctxutil.NewContextWithRequest(c.Request.Context(), "handler", "GetOffer")

	response, err := h.offerService.Get(ctx, c.Param("id"))
	if err != nil {
		h.fail(ctx, c, "Get offer failed", err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *OfferHandler) fail(ctx context.Context, c *gin.Context, msg string, err error) {
	status := apperrors.ToHTTPStatus(err)
	builder := logger.WarnWithContext(ctx, msg)
	if status >= http.StatusInternalServerError {
		builder = logger.ErrorWithContext(ctx, msg)
	}
	builder.StatusCode(status).Err(err).Log()

	c.JSON(status, constants.BuildErrorResponse(apperrors.GetErrorMessage(err)))
}

// detailsFromBody reads the five detail fields as sent. They are not validated.
func detailsFromBody(c *gin.Context) model.ProductDetails {
	return model.ProductDetails{
		Brand:     middleware.BodyString(c, constants.FieldBrand),
		Size:      middleware.BodyString(c, constants.FieldSize),
		Condition: middleware.BodyString(c, constants.FieldCondition),
		Color:     middleware.BodyString(c, constants.FieldColor),
		City:      middleware.BodyString(c, constants.FieldCity),
	}
}
