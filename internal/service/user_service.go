package service

import (
	"context"

	"inkwell/internal/auth"
	"inkwell/internal/models"
	"inkwell/internal/policy"
	"inkwell/internal/repository"
)

type UserService struct {
	users    repository.UserRepository
	comments repository.CommentRepository
	auth     *AuthService
}

// UpdateUserInput carries the fields present in a profile update. Nil means
// keep the stored value.
type UpdateUserInput struct {
	UserID   uint
	Username *string
	Password *string
	Status   *models.Role
}

func NewUserService(users repository.UserRepository, comments repository.CommentRepository, authSvc *AuthService) *UserService {
	return &UserService{users: users, comments: comments, auth: authSvc}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// Update applies a partial update. Access to the account is checked by the
// route; changing the status additionally needs user:change-role, even on
// one's own account.
func (s *UserService) Update(ctx context.Context, actor auth.Principal, in UpdateUserInput) (*models.User, error) {
	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Status != nil && *in.Status != user.Status {
		if !policy.Allowed(actor.Role, policy.UserChangeRole) {
			return nil, models.NewForbiddenError("Not authorized to change user status")
		}
		user.Status = *in.Status
	}
	if in.Username != nil {
		user.Username = *in.Username
	}
	if in.Password != nil {
		hash, err := s.auth.HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the account. Content it authored is left in place.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	return s.users.Delete(ctx, id)
}

// Comments lists the user's comments newest first.
func (s *UserService) Comments(ctx context.Context, userID uint) ([]models.Comment, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.comments.ListByUser(ctx, userID)
}
