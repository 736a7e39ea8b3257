package imagestore

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func fileHeader(t *testing.T, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("picture", "shirt.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write(content)
	w.Close()

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["picture"][0]
}

func TestLocalStore_UploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://localhost:8080/media/", zap.NewNop())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}

	ctx := context.Background()
	image, err := store.Upload(ctx, fileHeader(t, pngHeader), "vinted/offers/abc")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if image.Folder != "vinted/offers/abc" {
		t.Errorf("Expected folder to be kept, got %s", image.Folder)
	}
	wantURL := "http://localhost:8080/media/vinted/offers/abc/" + image.PublicID + ".png"
	if image.SecureURL != wantURL {
		t.Errorf("Expected URL %s, got %s", wantURL, image.SecureURL)
	}

	stored := filepath.Join(dir, "vinted", "offers", "abc", image.PublicID+".png")
	data, err := os.ReadFile(stored)
	if err != nil {
		t.Fatalf("Expected stored file: %v", err)
	}
	if !bytes.Equal(data, pngHeader) {
		t.Error("Stored content differs from upload")
	}

	if err := store.Delete(ctx, image.PublicID, image.Folder); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(stored); !os.IsNotExist(err) {
		t.Errorf("Expected file to be removed, stat err=%v", err)
	}
	if _, err := os.Stat(filepath.Dir(stored)); !os.IsNotExist(err) {
		t.Errorf("Expected empty folder to be removed, stat err=%v", err)
	}
}

func TestLocalStore_DeleteMissingIsNoop(t *testing.T) {
	store, _ := NewLocalStore(t.TempDir(), "http://localhost/media", nil)

	if err := store.Delete(context.Background(), "missing", "vinted/offers/x"); err != nil {
		t.Errorf("Expected no error deleting a missing picture, got %v", err)
	}
}

func TestLocalStore_RejectsEscapingFolder(t *testing.T) {
	store, _ := NewLocalStore(t.TempDir(), "http://localhost/media", nil)

	_, err := store.Upload(context.Background(), fileHeader(t, pngHeader), "../../etc")
	if !errors.Is(err, ErrInvalidFolder) {
		t.Errorf("Expected ErrInvalidFolder, got %v", err)
	}

	err = store.Delete(context.Background(), "../secret", "vinted")
	if !errors.Is(err, ErrInvalidFolder) {
		t.Errorf("Expected ErrInvalidFolder for public id, got %v", err)
	}
}

func TestCleanFolder(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"/vinted/offers/1", "vinted/offers/1", false},
		{"vinted//offers/1/", "vinted/offers/1", false},
		{"", "", true},
		{"/", "", true},
		{"a/../../b", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := cleanFolder(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected err=%v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestLocalStore_CancelledContext(t *testing.T) {
	store, _ := NewLocalStore(t.TempDir(), "http://localhost/media", nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Upload(ctx, fileHeader(t, pngHeader), "vinted/offers/1")
	if err == nil || !strings.Contains(err.Error(), "canceled") {
		t.Errorf("Expected cancellation error, got %v", err)
	}
}
