// Package storage uploads post images to local disk or a remote object store.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder

	"inkwell/internal/config"

	"github.com/gabriel-vasile/mimetype"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const DefaultMaxUploadSizeMB = 10

var (
	ErrEmptyImage       = errors.New("no image data")
	ErrImageTooLarge    = errors.New("image too large")
	ErrUnsupportedImage = errors.New("unsupported image type")
)

// allowedTypes maps accepted MIME types to the extension stored files get.
var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Image is an uploaded file as received from the client.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Info describes an image that passed Inspect.
type Info struct {
	MIME      string
	Extension string
	Width     int
	Height    int
}

// ImageStore persists an image and returns the public URL it is served from.
type ImageStore interface {
	Upload(ctx context.Context, img Image) (string, error)
}

// Inspect checks the size of img and sniffs its content. The declared
// content type is ignored; only jpeg, png, gif and webp that actually decode
// are accepted.
func Inspect(img Image, maxBytes int64) (*Info, error) {
	if len(img.Data) == 0 {
		return nil, ErrEmptyImage
	}
	if maxBytes > 0 && int64(len(img.Data)) > maxBytes {
		return nil, fmt.Errorf("%w (max %dMB)", ErrImageTooLarge, maxBytes/(1024*1024))
	}

	mt := mimetype.Detect(img.Data)
	ext, ok := allowedTypes[mt.String()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, mt.String())
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}

	return &Info{MIME: mt.String(), Extension: ext, Width: cfg.Width, Height: cfg.Height}, nil
}

// MaxUploadBytes returns the configured upload limit in bytes.
func MaxUploadBytes(cfg *config.Config) int64 {
	mb := DefaultMaxUploadSizeMB
	if cfg != nil && cfg.ImageMaxUploadSizeMB > 0 {
		mb = cfg.ImageMaxUploadSizeMB
	}
	return int64(mb) * 1024 * 1024
}

// New builds the store selected by IMAGE_STORE.
func New(cfg *config.Config) (ImageStore, error) {
	switch cfg.ImageStore {
	case "", "local":
		return NewLocalStore(cfg.ImageUploadDir, cfg.ImagePublicBaseURL), nil
	case "remote":
		if cfg.ImageUploadURL == "" {
			return nil, errors.New("IMAGE_UPLOAD_URL is required for the remote image store")
		}
		return NewRemoteStore(cfg.ImageUploadURL, cfg.ImageUploadPreset, cfg.ImageUploadAPIKey), nil
	default:
		return nil, fmt.Errorf("unknown image store %q", cfg.ImageStore)
	}
}

// extensionFor picks the stored file extension from the sniffed content.
func extensionFor(img Image) string {
	if ext, ok := allowedTypes[mimetype.Detect(img.Data).String()]; ok {
		return ext
	}
	return ""
}
