package imagestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidFolder = errors.New("invalid image folder")

// LocalStore keeps pictures on disk under dir and serves them from publicURL.
type LocalStore struct {
	dir       string
	publicURL string
	logger    *zap.Logger
}

func NewLocalStore(dir, publicURL string, logger *zap.Logger) (*LocalStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create image directory: %w", err)
	}
	return &LocalStore{
		dir:       dir,
		publicURL: strings.TrimRight(publicURL, "/"),
		logger:    logger,
	}, nil
}

// Dir is the root directory served under the public URL.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Upload(ctx context.Context, file *multipart.FileHeader, folder string) (Image, error) {
	rel, err := cleanFolder(folder)
	if err != nil {
		return Image{}, err
	}
	if err := ctx.Err(); err != nil {
		return Image{}, err
	}

	src, err := file.Open()
	if err != nil {
		return Image{}, fmt.Errorf("open picture: %w", err)
	}
	defer src.Close()

	mime, err := mimetype.DetectReader(src)
	if err != nil {
		return Image{}, fmt.Errorf("detect picture type: %w", err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return Image{}, fmt.Errorf("rewind picture: %w", err)
	}

	target := filepath.Join(s.dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(target, 0755); err != nil {
		return Image{}, fmt.Errorf("create folder: %w", err)
	}

	publicID := uuid.NewString()
	name := publicID + mime.Extension()

	dst, err := os.OpenFile(filepath.Join(target, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return Image{}, fmt.Errorf("create picture: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return Image{}, fmt.Errorf("write picture: %w", err)
	}
	if err := dst.Close(); err != nil {
		return Image{}, fmt.Errorf("write picture: %w", err)
	}

	s.logger.Debug("Picture stored",
		zap.String("public_id", publicID),
		zap.String("folder", rel),
	)

	return Image{
		PublicID:  publicID,
		Folder:    folder,
		SecureURL: s.publicURL + "/" + path.Join(rel, name),
	}, nil
}

// Delete removes every file stored under publicID and the folder once empty.
func (s *LocalStore) Delete(ctx context.Context, publicID, folder string) error {
	rel, err := cleanFolder(folder)
	if err != nil {
		return err
	}
	if publicID == "" || strings.ContainsAny(publicID, `/\`) {
		return fmt.Errorf("%w: public id %q", ErrInvalidFolder, publicID)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	target := filepath.Join(s.dir, filepath.FromSlash(rel))
	matches, err := filepath.Glob(filepath.Join(target, publicID+"*"))
	if err != nil {
		return err
	}
	for _, m := range matches {
		if err := os.Remove(m); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove picture: %w", err)
		}
	}

	// Non-empty folders are left in place.
	_ = os.Remove(target)
	return nil
}

// cleanFolder turns a slash separated folder into a relative path inside the store.
func cleanFolder(folder string) (string, error) {
	rel := path.Clean("/" + strings.ReplaceAll(folder, `\`, "/"))
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" || rel == "." {
		return "", fmt.Errorf("%w: %q", ErrInvalidFolder, folder)
	}
	for _, part := range strings.Split(folder, "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidFolder, folder)
		}
	}
	return rel, nil
}
