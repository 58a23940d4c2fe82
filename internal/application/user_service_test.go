package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/mycookbook-api/internal/domain/errs"
	mailtpl "github.com/oksasatya/mycookbook-api/pkg/mailer/templates"
)

func strp(s string) *string { return &s }

func TestUserUpdate_SelfOnly(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "Alice", "alice@example.com").User
	b := e.register(t, "Bob", "bob@example.com").User

	_, err := e.users.Update(ctx, b.ID, a.ID, UpdateUserInput{Name: strp("Mallory")})
	assert.ErrorIs(t, err, errs.ErrForbidden)
	got, err := e.users.Get(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.Name)

	u, err := e.users.Update(ctx, a.ID, a.ID, UpdateUserInput{Name: strp("Alicia")})
	require.NoError(t, err)
	assert.Equal(t, "Alicia", u.Name)
	assert.Equal(t, "alice@example.com", u.Email)

	_, err = e.users.Update(ctx, a.ID, a.ID, UpdateUserInput{Email: strp("BOB@example.com")})
	assert.ErrorIs(t, err, errs.ErrConflict)

	_, err = e.users.Update(ctx, a.ID, a.ID, UpdateUserInput{Email: strp("not-an-email")})
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = e.users.Update(ctx, a.ID, "00000000-0000-4000-8000-000000000000", UpdateUserInput{})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestChangePassword(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "Alice", "alice@example.com").User

	err := e.users.ChangePassword(ctx, a.ID, a.ID, ChangePasswordInput{CurrentPassword: "Wrong11", NewPassword: "Newpass2"})
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	err = e.users.ChangePassword(ctx, a.ID, a.ID, ChangePasswordInput{CurrentPassword: "Secret1", NewPassword: "weak"})
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	require.NoError(t, e.users.ChangePassword(ctx, a.ID, a.ID, ChangePasswordInput{CurrentPassword: "Secret1", NewPassword: "Newpass2"}))
	assert.Contains(t, e.pub.templates(), mailtpl.PasswordChanged)

	_, ok, _ := e.sessions.Get(ctx, a.ID)
	assert.False(t, ok, "session ends after a password change")

	_, err = e.auth.Login(ctx, LoginInput{Email: "alice@example.com", Password: "Newpass2"})
	assert.NoError(t, err)
}

func TestUserDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "Alice", "alice@example.com").User
	b := e.register(t, "Bob", "bob@example.com").User

	assert.ErrorIs(t, e.users.Delete(ctx, b.ID, a.ID), errs.ErrForbidden)
	require.NoError(t, e.users.Delete(ctx, a.ID, a.ID))

	_, err := e.users.Get(ctx, a.ID)
	assert.ErrorIs(t, err, errs.ErrNotFound)
	_, ok, _ := e.sessions.Get(ctx, a.ID)
	assert.False(t, ok)

	list, err := e.users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
