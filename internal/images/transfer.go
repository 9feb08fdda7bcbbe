package images

import (
	"bytes"
	"context"
	"net/http"
	"path"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/franciscosanchezn/gin-tapas-api/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	_ "golang.org/x/image/webp" // register the webp decoder for phone uploads
)

const (
	keyPrefix          = "tapas"
	DefaultMaxWidth    = 1200
	DefaultJPEGQuality = 85
)

// Options controls how uploads are transcoded
type Options struct {
	MaxWidth    int
	JPEGQuality int
}

// Transfer decodes uploads, downsizes them and writes JPEG objects to a store
type Transfer struct {
	store   ObjectStore
	options Options
}

// NewTransfer creates a Transfer writing to store; zero options fall back to defaults
func NewTransfer(store ObjectStore, options Options) *Transfer {
	if options.MaxWidth <= 0 {
		options.MaxWidth = DefaultMaxWidth
	}
	if options.JPEGQuality <= 0 || options.JPEGQuality > 100 {
		options.JPEGQuality = DefaultJPEGQuality
	}
	return &Transfer{store: store, options: options}
}

// Store transcodes data and returns the public URL of the stored object.
// Non-image payloads are rejected with a validation error.
func (t *Transfer) Store(ctx context.Context, data []byte, contentHint string) (string, error) {
	if len(data) == 0 {
		return "", models.NewValidationError("image", "file is empty")
	}
	sniffed := http.DetectContentType(data)
	if !strings.HasPrefix(sniffed, "image/") {
		return "", models.NewValidationError("image", "unsupported content type "+sniffed)
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return "", models.NewValidationError("image", "cannot decode "+sniffed)
	}
	if img.Bounds().Dx() > t.options.MaxWidth {
		img = imaging.Resize(img, t.options.MaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(t.options.JPEGQuality)); err != nil {
		return "", models.StorageError("encode image", err)
	}

	key := path.Join(keyPrefix, uuid.New().String()+".jpg")
	if err := t.store.Put(ctx, key, buf.Bytes(), "image/jpeg"); err != nil {
		return "", models.StorageError("store image", err)
	}

	log.WithFields(logrus.Fields{
		"key":          key,
		"content_hint": contentHint,
		"sniffed_type": sniffed,
		"bytes_in":     len(data),
		"bytes_out":    buf.Len(),
	}).Info("Image stored")
	return t.store.URL(key), nil
}

// Remove deletes the object behind ref. Failures are only logged: a dangling
// object must never block the metadata write that triggered the removal.
func (t *Transfer) Remove(ctx context.Context, ref string) {
	if ref == "" {
		return
	}
	key, ok := t.store.KeyFromURL(ref)
	if !ok {
		log.WithField("ref", ref).Debug("Image reference not owned by this store, skipping removal")
		return
	}
	if err := t.store.Delete(ctx, key); err != nil {
		log.WithError(err).WithField("key", key).Warn("Failed to remove image")
		return
	}
	log.WithField("key", key).Info("Image removed")
}
