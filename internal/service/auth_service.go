// Package service holds the business logic behind the HTTP handlers.
package service

import (
	"context"
	"errors"
	"log/slog"

	"inkwell/internal/auth"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials is returned for an unknown username and for a wrong
// password alike.
var ErrBadCredentials = models.NewUnauthorizedError("Incorrect username or password")

type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	hashCost  int
	dummyHash []byte
}

type LoginInput struct {
	Username string
	Password string
}

type RegisterInput struct {
	Username string
	Password string
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenService) *AuthService {
	return newAuthService(users, tokens, bcrypt.DefaultCost)
}

func newAuthService(users repository.UserRepository, tokens *auth.TokenService, cost int) *AuthService {
	// Compared against when the username is unknown so both failure paths pay for a bcrypt run.
	dummy, err := bcrypt.GenerateFromPassword([]byte("inkwell-dummy-password"), cost)
	if err != nil {
		panic(err)
	}
	return &AuthService{users: users, tokens: tokens, hashCost: cost, dummyHash: dummy}
}

// Login checks the credentials and returns a signed token for the user.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (token string, err error) {
	ctx, span := observability.StartSpan(ctx, "auth", "login", attribute.String("user.name", in.Username))
	defer func() { observability.EndSpan(span, err) }()

	user, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		return "", err
	}
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(in.Password))
		middleware.AuthFailures.WithLabelValues("unknown_user").Inc()
		return "", ErrBadCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		middleware.AuthFailures.WithLabelValues("bad_password").Inc()
		return "", ErrBadCredentials
	}

	token, err = s.tokens.Issue(user)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	middleware.Logger.InfoContext(ctx, "user logged in", slog.Uint64("user_id", uint64(user.ID)))
	return token, nil
}

// Register creates a guest account.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username: in.Username,
		Password: hash,
		Status:   models.RoleGuest,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// HashPassword bcrypt-hashes password with the service's cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", models.ValidationErrors{validation.FieldError("password", "", "Password must not exceed 72 bytes.")}
	}
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return string(hash), nil
}
