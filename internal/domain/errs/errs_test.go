package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHelpersWrapKinds(t *testing.T) {
	require.ErrorIs(t, Invalid("value %d out of range", 7), ErrInvalidInput)
	require.EqualError(t, Invalid("value %d out of range", 7), "invalid input: value 7 out of range")
	require.ErrorIs(t, NotFound("recipe"), ErrNotFound)
	require.EqualError(t, NotFound("recipe"), "recipe not found")
	require.ErrorIs(t, Forbidden("delete this comment"), ErrForbidden)
	require.ErrorIs(t, Conflict("email already in use"), ErrConflict)

	cause := errors.New("bucket down")
	ext := External("upload image", cause)
	require.ErrorIs(t, ext, ErrExternalService)
	require.ErrorIs(t, ext, cause)

	in := Internal("load recipe", cause)
	require.ErrorIs(t, in, ErrInternal)
	require.ErrorIs(t, in, cause)
}

func TestKind(t *testing.T) {
	require.Equal(t, ErrNotFound, Kind(NotFound("user")))
	require.Equal(t, ErrForbidden, Kind(Forbidden("x")))
	require.Equal(t, ErrInternal, Kind(errors.New("driver exploded")))
	require.Equal(t, ErrExternalService, Kind(External("op", errors.New("x"))))
}
