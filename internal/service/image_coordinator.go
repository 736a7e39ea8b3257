package service

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	apperrors "github.com/Payphone-Digital/marketplace/internal/errors"
	"github.com/Payphone-Digital/marketplace/internal/model"
	ctxutil "github.com/Payphone-Digital/marketplace/pkg/context"
	"github.com/Payphone-Digital/marketplace/pkg/imagestore"
	"github.com/Payphone-Digital/marketplace/pkg/logger"
	"github.com/google/uuid"
)

// FolderData is the data available to the image folder template.
type FolderData struct {
	OfferID string
	OwnerID string
}

// ImageCoordinator keeps an offer's picture reference in step with the image store.
type ImageCoordinator struct {
	store  imagestore.Store
	folder *template.Template
}

func NewImageCoordinator(store imagestore.Store, folderTemplate string) (*ImageCoordinator, error) {
	tmpl, err := template.New("folder").Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(folderTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse image folder template: %w", err)
	}
	return &ImageCoordinator{store: store, folder: tmpl}, nil
}

// FolderFor renders the storage folder of one offer.
func (c *ImageCoordinator) FolderFor(offerID, ownerID uuid.UUID) (string, error) {
	var buf bytes.Buffer
	err := c.folder.Execute(&buf, FolderData{OfferID: offerID.String(), OwnerID: ownerID.String()})
	if err != nil {
		return "", fmt.Errorf("render image folder: %w", err)
	}
	folder := strings.TrimSpace(buf.String())
	if folder == "" {
		return "", fmt.Errorf("render image folder: empty folder for offer %s", offerID)
	}
	return folder, nil
}

// Attach uploads the picture of a new offer and stores the reference on it.
func (c *ImageCoordinator) Attach(ctx context.Context, offer *model.Offer, file *multipart.FileHeader) error {
	ctx = ctxutil.WithFunction(ctx, "service", "AttachPicture")

	folder, err := c.FolderFor(offer.ID, offer.OwnerID)
	if err != nil {
		return apperrors.WrapError(apperrors.ErrInternal, err)
	}

	image, err := c.store.Upload(ctx, file, folder)
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to upload picture").
			String("offer_id", offer.ID.String()).
			String("folder", folder).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrImageStore, err)
	}

	offer.SetImage(&model.ProductImage{
		PublicID:  image.PublicID,
		Folder:    image.Folder,
		SecureURL: image.SecureURL,
	})

	logger.InfoWithContext(ctx, "Picture attached").
		String("offer_id", offer.ID.String()).
		String("public_id", image.PublicID).
		Log()
	return nil
}

// Replace deletes the stored picture, if any, then uploads the new one.
func (c *ImageCoordinator) Replace(ctx context.Context, offer *model.Offer, file *multipart.FileHeader) error {
	if err := c.Release(ctx, offer); err != nil {
		return err
	}
	return c.Attach(ctx, offer, file)
}

// Release deletes the stored picture and clears the reference. Offers without
// a picture are left untouched.
func (c *ImageCoordinator) Release(ctx context.Context, offer *model.Offer) error {
	ctx = ctxutil.WithFunction(ctx, "service", "ReleasePicture")

	image := offer.Image()
	if image == nil {
		return nil
	}

	if err := c.store.Delete(ctx, image.PublicID, image.Folder); err != nil {
		logger.ErrorWithContext(ctx, "Failed to delete picture").
			String("offer_id", offer.ID.String()).
			String("public_id", image.PublicID).
			String("folder", image.Folder).
			Err(err).
			Log()
		return apperrors.WrapError(apperrors.ErrImageStore, err)
	}

	offer.SetImage(nil)

	logger.InfoWithContext(ctx, "Picture released").
		String("offer_id", offer.ID.String()).
		String("public_id", image.PublicID).
		Log()
	return nil
}
