package imagestore

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/Payphone-Digital/marketplace/config"
	"github.com/Payphone-Digital/marketplace/internal/constants"
	"go.uber.org/zap"
)

// Image is the reference kept on an offer for an uploaded picture.
type Image struct {
	PublicID  string `json:"public_id"`
	Folder    string `json:"folder"`
	SecureURL string `json:"secure_url"`
}

// Store uploads and releases pictures grouped by folder.
type Store interface {
	Upload(ctx context.Context, file *multipart.FileHeader, folder string) (Image, error)
	Delete(ctx context.Context, publicID, folder string) error
}

// New builds the store selected by cfg.Store.
func New(cfg config.ImageConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Store {
	case constants.ImageStoreCloudinary:
		return NewCloudinaryStore(cfg, logger)
	case constants.ImageStoreLocal:
		return NewLocalStore(cfg.LocalDir, cfg.PublicURL, logger)
	default:
		return nil, fmt.Errorf("unsupported image store %q", cfg.Store)
	}
}
