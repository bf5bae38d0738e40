package service

import (
	"context"
	"strings"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_RegisterThenLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	user, err := f.auth.Register(ctx, RegisterInput{Username: "alice", Password: "longenough1"})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, models.RoleGuest, user.Status)
	assert.NotEqual(t, "longenough1", user.Password)

	token, err := f.auth.Login(ctx, LoginInput{Username: "alice", Password: "longenough1"})
	require.NoError(t, err)

	claims, err := f.tokens.Verify(token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestAuthService_LoginFailuresLookAlike(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, RegisterInput{Username: "alice", Password: "longenough1"})
	require.NoError(t, err)

	_, wrongPassword := f.auth.Login(ctx, LoginInput{Username: "alice", Password: "not-it-at-all"})
	_, unknownUser := f.auth.Login(ctx, LoginInput{Username: "mallory", Password: "longenough1"})

	assertCode(t, wrongPassword, models.CodeUnauthorized)
	assertCode(t, unknownUser, models.CodeUnauthorized)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
	assert.Equal(t, "Incorrect username or password", wrongPassword.Error())
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.auth.Register(ctx, RegisterInput{Username: "alice", Password: "longenough1"})
	require.NoError(t, err)
	_, err = f.auth.Register(ctx, RegisterInput{Username: "alice", Password: "longenough2"})
	assertCode(t, err, models.CodeConflict)
}

func TestAuthService_PasswordTooLongForBcrypt(t *testing.T) {
	f := newFixture(t)
	_, err := f.auth.Register(context.Background(), RegisterInput{Username: "alice", Password: strings.Repeat("p", 73)})
	assertFieldError(t, err, "password")
}
