package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/storage"
	"inkwell/internal/validation"

	"go.opentelemetry.io/otel/attribute"
)

type PostService struct {
	posts          repository.PostRepository
	categories     repository.CategoryRepository
	images         storage.ImageStore
	storeName      string
	maxUploadBytes int64
	now            func() time.Time
}

// PostInput holds the fields present in a create or update request. Nil
// pointers are absent fields; a nil CategoryIDs leaves the links alone.
type PostInput struct {
	Title       *string
	Subheader   *string
	Body        *string
	IsPublished *bool

	PublishDate    *time.Time
	HasPublishDate bool
	EditDate       *time.Time
	HasEditDate    bool

	CategoryIDs []uint
	Image       *storage.Image
}

// PostServiceConfig wires the image store into the post service.
type PostServiceConfig struct {
	Images         storage.ImageStore
	StoreName      string
	MaxUploadBytes int64
}

func NewPostService(posts repository.PostRepository, categories repository.CategoryRepository, cfg PostServiceConfig) *PostService {
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = storage.DefaultMaxUploadSizeMB * 1024 * 1024
	}
	return &PostService{
		posts:          posts,
		categories:     categories,
		images:         cfg.Images,
		storeName:      cfg.StoreName,
		maxUploadBytes: cfg.MaxUploadBytes,
		now:            time.Now,
	}
}

func (s *PostService) List(ctx context.Context) ([]models.Post, error) {
	return s.posts.List(ctx)
}

func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	return s.posts.GetByID(ctx, id)
}

// ListByCategory returns the posts tagged with the category.
func (s *PostService) ListByCategory(ctx context.Context, categoryID uint) ([]models.Post, error) {
	if _, err := s.categories.GetByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.posts.ListByCategory(ctx, categoryID)
}

// Create stores a new post owned by actor.
func (s *PostService) Create(ctx context.Context, actor auth.Principal, in PostInput) (post *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "post", "create", attribute.Int("post.categories", len(in.CategoryIDs)))
	defer func() { observability.EndSpan(span, err) }()

	post = &models.Post{UserID: actor.ID}
	applyPostInput(post, in)
	if post.Title == "" || post.Body == "" {
		return nil, models.NewValidationError("Post title and body are required")
	}
	if err := checkPublishState(nil, post); err != nil {
		return nil, err
	}

	categoryIDs := in.CategoryIDs
	if categoryIDs == nil {
		categoryIDs = []uint{}
	}
	if err := s.checkCategories(ctx, categoryIDs); err != nil {
		return nil, err
	}
	if in.Image != nil {
		url, err := s.upload(ctx, *in.Image)
		if err != nil {
			return nil, err
		}
		post.ImageURL = url
	}

	if err := s.posts.Create(ctx, post, categoryIDs); err != nil {
		return nil, err
	}
	middleware.Logger.InfoContext(ctx, "post created", slog.Uint64("post_id", uint64(post.ID)))
	return s.posts.GetByID(ctx, post.ID)
}

// Update merges in onto the stored post. A published post cannot be
// unpublished, and editing a published post stamps its edit date.
func (s *PostService) Update(ctx context.Context, id uint, in PostInput) (post *models.Post, err error) {
	ctx, span := observability.StartSpan(ctx, "post", "update", attribute.Int64("post.id", int64(id)))
	defer func() { observability.EndSpan(span, err) }()

	current, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	wasPublished := current.IsPublished

	post = current
	applyPostInput(post, in)
	if err := checkPublishState(&wasPublished, post); err != nil {
		return nil, err
	}
	if wasPublished && !in.HasEditDate {
		now := s.now().UTC()
		post.EditDate = &now
	}

	if err := s.checkCategories(ctx, in.CategoryIDs); err != nil {
		return nil, err
	}
	if in.Image != nil {
		url, err := s.upload(ctx, *in.Image)
		if err != nil {
			return nil, err
		}
		post.ImageURL = url
	}

	if err := s.posts.Update(ctx, post, in.CategoryIDs); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, id)
}

// Delete removes the post together with its comments and category links.
func (s *PostService) Delete(ctx context.Context, id uint) error {
	return s.posts.Delete(ctx, id)
}

func applyPostInput(post *models.Post, in PostInput) {
	if in.Title != nil {
		post.Title = *in.Title
	}
	if in.Subheader != nil {
		post.Subheader = *in.Subheader
	}
	if in.Body != nil {
		post.Body = *in.Body
	}
	if in.IsPublished != nil {
		post.IsPublished = *in.IsPublished
	}
	if in.HasPublishDate {
		post.PublishDate = in.PublishDate
	}
	if in.HasEditDate {
		post.EditDate = in.EditDate
	}
}

// checkPublishState re-checks the merged record: a published post needs a
// publish date and cannot go back to unpublished.
func checkPublishState(wasPublished *bool, post *models.Post) error {
	var errs models.ValidationErrors
	if wasPublished != nil && *wasPublished && !post.IsPublished {
		errs = append(errs, validation.FieldError("isPublished", false, "A published post cannot be unpublished."))
	}
	if post.IsPublished && post.PublishDate == nil {
		errs = append(errs, validation.FieldError("publishDate", "", "Publish date is required when the post is published."))
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (s *PostService) checkCategories(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	missing, err := s.categories.MissingIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return models.ValidationErrors{
			validation.FieldError("categories", missing, fmt.Sprintf("Unknown category ids: %v", missing)),
		}
	}
	return nil
}

func (s *PostService) upload(ctx context.Context, img storage.Image) (string, error) {
	if _, err := storage.Inspect(img, s.maxUploadBytes); err != nil {
		middleware.ImageUploads.WithLabelValues(s.storeName, "rejected").Inc()
		return "", models.ValidationErrors{validation.FieldError("image", img.Filename, imageRejection(err))}
	}
	if s.images == nil {
		return "", models.NewUpstreamError("Image upload failed: no image store configured", nil)
	}

	ctx, span := observability.StartSpan(ctx, "storage", "upload", attribute.String("image.store", s.storeName))
	url, err := s.images.Upload(ctx, img)
	observability.EndSpan(span, err)
	if err != nil {
		middleware.ImageUploads.WithLabelValues(s.storeName, "failed").Inc()
		middleware.Logger.ErrorContext(ctx, "image upload failed", slog.String("error", err.Error()))
		return "", models.NewUpstreamError("Image upload failed: "+err.Error(), err)
	}
	middleware.ImageUploads.WithLabelValues(s.storeName, "stored").Inc()
	return url, nil
}

func imageRejection(err error) string {
	switch {
	case errors.Is(err, storage.ErrImageTooLarge):
		return "Image is too large."
	case errors.Is(err, storage.ErrEmptyImage):
		return "Image file is empty."
	default:
		return "Image must be a JPEG, PNG, GIF or WebP file."
	}
}
