// Package testutil provides shared test doubles and fixtures.
package testutil

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"sync"
	"testing"
	"time"

	"inkwell/internal/database"
	"inkwell/internal/models"
	"inkwell/internal/storage"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewDB opens a migrated in-memory SQLite database that lives for the test.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig())
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateUser inserts a user whose password is password.
func CreateUser(t testing.TB, db *gorm.DB, username, password string, role models.Role) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &models.User{Username: username, Password: string(hash), Status: role}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// CreateCategory inserts a category.
func CreateCategory(t testing.TB, db *gorm.DB, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("create category: %v", err)
	}
	return c
}

// CreatePost inserts a published post owned by userID and links categories.
func CreatePost(t testing.TB, db *gorm.DB, userID uint, title string, categories ...*models.Category) *models.Post {
	t.Helper()
	published := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	p := &models.Post{
		Title:       title,
		Body:        "Body of " + title,
		UserID:      userID,
		IsPublished: true,
		PublishDate: &published,
	}
	if err := db.Omit(clause.Associations).Create(p).Error; err != nil {
		t.Fatalf("create post: %v", err)
	}
	for _, c := range categories {
		row := map[string]any{"post_id": p.ID, "category_id": c.ID}
		if err := db.Table("post_categories").Create(row).Error; err != nil {
			t.Fatalf("link category: %v", err)
		}
	}
	return p
}

// CreateComment inserts a comment by userID on postID.
func CreateComment(t testing.TB, db *gorm.DB, userID, postID uint, body string) *models.Comment {
	t.Helper()
	c := &models.Comment{Body: body, UserID: userID, PostID: postID, Date: time.Now().UTC()}
	if err := db.Omit(clause.Associations).Create(c).Error; err != nil {
		t.Fatalf("create comment: %v", err)
	}
	return c
}

// ImageStoreStub records uploads in memory.
type ImageStoreStub struct {
	mu      sync.Mutex
	URL     string
	Err     error
	Uploads []storage.Image
}

// NewImageStoreStub returns a stub answering every upload with url.
func NewImageStoreStub(url string) *ImageStoreStub {
	return &ImageStoreStub{URL: url}
}

// Upload records img and returns the configured URL or error.
func (s *ImageStoreStub) Upload(_ context.Context, img storage.Image) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	s.Uploads = append(s.Uploads, img)
	return s.URL, nil
}

// ErrUploadFailed is a canned object store failure.
var ErrUploadFailed = errors.New("object store unavailable")

// TinyPNG returns an in-memory PNG byte slice with the requested dimensions.
func TinyPNG(t testing.TB, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	buf := bytes.NewBuffer(nil)
	if err := png.Encode(buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
