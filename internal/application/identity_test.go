package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/mycookbook-api/internal/domain/errs"
)

func TestIdentity_ResolveAndRotate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	res := e.register(t, "Alice", "alice@example.com")

	u, err := e.identity.Resolve(ctx, res.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, u.ID)

	pair, u2, err := e.identity.Rotate(ctx, res.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, u2.ID)

	// the old pair is bound to the previous sid
	_, err = e.identity.Resolve(ctx, res.Tokens.AccessToken)
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
	_, _, err = e.identity.Rotate(ctx, res.Tokens.RefreshToken)
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)

	_, err = e.identity.Resolve(ctx, pair.AccessToken)
	assert.NoError(t, err)
}

func TestIdentity_RejectsBadCredentials(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	res := e.register(t, "Alice", "alice@example.com")

	for _, tok := range []string{"", "  ", "garbage", res.Tokens.RefreshToken} {
		_, err := e.identity.Resolve(ctx, tok)
		assert.ErrorIs(t, err, errs.ErrUnauthenticated, "token %q", tok)
	}

	require.NoError(t, e.identity.Revoke(ctx, res.User.ID))
	_, err := e.identity.Resolve(ctx, res.Tokens.AccessToken)
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
}

func TestIdentity_DeletedUserIsUnauthenticated(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	res := e.register(t, "Alice", "alice@example.com")
	e.identity.Sessions = nil

	require.NoError(t, e.store.Users.Delete(ctx, res.User.ID))
	_, err := e.identity.Resolve(ctx, res.Tokens.AccessToken)
	assert.ErrorIs(t, err, errs.ErrUnauthenticated)
}
