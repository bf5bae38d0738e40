package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore writes images under dir. The server exposes dir at publicBase.
type LocalStore struct {
	dir        string
	publicBase string
}

// NewLocalStore creates a store rooted at dir.
func NewLocalStore(dir, publicBase string) *LocalStore {
	if dir == "" {
		dir = "./uploads"
	}
	if publicBase == "" {
		publicBase = "/uploads"
	}
	return &LocalStore{dir: dir, publicBase: strings.TrimRight(publicBase, "/")}
}

// Dir returns the directory images are written to.
func (s *LocalStore) Dir() string { return s.dir }

// PublicBase returns the URL prefix stored images are served under.
func (s *LocalStore) PublicBase() string { return s.publicBase }

func (s *LocalStore) Upload(ctx context.Context, img Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}

	name := uuid.NewString() + extensionFor(img)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, img.Data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return s.publicBase + "/" + name, nil
}
