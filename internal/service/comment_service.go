package service

import (
	"context"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	now      func() time.Time
}

type CreateCommentInput struct {
	PostID uint
	Body   string
}

type UpdateCommentInput struct {
	PostID    uint
	CommentID uint
	Body      string
}

func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository) *CommentService {
	return &CommentService{comments: comments, posts: posts, now: time.Now}
}

func (s *CommentService) requirePost(ctx context.Context, postID uint) error {
	ok, err := s.posts.Exists(ctx, postID)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError("Post", postID)
	}
	return nil
}

// ListByPost returns the post's comments oldest first.
func (s *CommentService) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	return s.comments.ListByPost(ctx, postID)
}

func (s *CommentService) Get(ctx context.Context, postID, id uint) (*models.Comment, error) {
	return s.comments.GetInPost(ctx, postID, id)
}

// Create adds a comment by actor. The post must exist at creation time.
func (s *CommentService) Create(ctx context.Context, actor auth.Principal, in CreateCommentInput) (*models.Comment, error) {
	if in.Body == "" {
		return nil, models.NewValidationError("Comment body is required")
	}
	if err := s.requirePost(ctx, in.PostID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Body:   in.Body,
		UserID: actor.ID,
		PostID: in.PostID,
		Date:   s.now().UTC(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.comments.GetInPost(ctx, in.PostID, comment.ID)
}

// Update replaces the comment body. Ownership is checked by the route.
func (s *CommentService) Update(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.comments.GetInPost(ctx, in.PostID, in.CommentID)
	if err != nil {
		return nil, err
	}
	comment.Body = in.Body
	if err := s.comments.UpdateBody(ctx, comment); err != nil {
		return nil, err
	}
	return s.comments.GetInPost(ctx, in.PostID, in.CommentID)
}

func (s *CommentService) Delete(ctx context.Context, postID, id uint) error {
	if _, err := s.comments.GetInPost(ctx, postID, id); err != nil {
		return err
	}
	return s.comments.Delete(ctx, id)
}
