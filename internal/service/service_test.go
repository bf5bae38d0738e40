package service

import (
	"testing"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/storage"
	"inkwell/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	users    repository.UserRepository
	posts    repository.PostRepository
	comments repository.CommentRepository
	cats     repository.CategoryRepository
	tokens   *auth.TokenService
	auth     *AuthService
	images   *testutil.ImageStoreStub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &fixture{
		db:       db,
		users:    repository.NewUserRepository(db),
		posts:    repository.NewPostRepository(db),
		comments: repository.NewCommentRepository(db),
		cats:     repository.NewCategoryRepository(db),
		tokens:   auth.NewTokenService("test-secret", time.Hour),
		images:   testutil.NewImageStoreStub("/uploads/stub.png"),
	}
	f.auth = newAuthService(f.users, f.tokens, bcrypt.MinCost)
	return f
}

func (f *fixture) postService() *PostService {
	return NewPostService(f.posts, f.cats, PostServiceConfig{
		Images:         f.images,
		StoreName:      "stub",
		MaxUploadBytes: 1024 * 1024,
	})
}

func ptr[T any](v T) *T { return &v }

func principal(u *models.User) auth.Principal { return auth.PrincipalOf(u) }

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, models.HasCode(err, code), "expected %s, got %v", code, err)
}

func assertFieldError(t *testing.T, err error, path string) {
	t.Helper()
	var fieldErrs models.ValidationErrors
	require.ErrorAs(t, err, &fieldErrs)
	for _, fe := range fieldErrs {
		if fe.Path == path {
			return
		}
	}
	t.Fatalf("no field error for %q in %v", path, fieldErrs)
}

var _ storage.ImageStore = (*testutil.ImageStoreStub)(nil)
