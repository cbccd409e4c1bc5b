package native_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/renga/internal/testutil"
	"github.com/hupe1980/renga/native"
)

func TestRuntime_InitializesOnceAndTearsDownWithLastGuard(t *testing.T) {
	b := testutil.NewBackend()

	first, err := native.AcquireRuntime(b)
	require.NoError(t, err)
	second, err := native.AcquireRuntime(b)
	require.NoError(t, err)

	assert.Equal(t, 1, b.Inits())
	assert.Equal(t, 2, native.LiveRuntimes(b))
	assert.Same(t, b, first.Backend())

	first.Release()
	assert.Equal(t, 0, b.Uninits())
	assert.Equal(t, 1, native.LiveRuntimes(b))

	second.Release()
	assert.Equal(t, 1, b.Uninits())
	assert.Equal(t, 0, native.LiveRuntimes(b))
}

func TestRuntime_ReleaseIsIdempotent(t *testing.T) {
	b := testutil.NewBackend()

	keep, err := native.AcquireRuntime(b)
	require.NoError(t, err)
	r, err := native.AcquireRuntime(b)
	require.NoError(t, err)

	r.Release()
	r.Release()
	assert.Equal(t, 1, native.LiveRuntimes(b))
	assert.Equal(t, 0, b.Uninits())

	keep.Release()
	assert.Equal(t, 1, b.Uninits())
}

func TestRuntime_ReinitializesAfterFullRelease(t *testing.T) {
	b := testutil.NewBackend()

	r, err := native.AcquireRuntime(b)
	require.NoError(t, err)
	r.Release()

	r, err = native.AcquireRuntime(b)
	require.NoError(t, err)
	defer r.Release()

	assert.Equal(t, 2, b.Inits())
}

func TestRuntime_InitFailure(t *testing.T) {
	b := testutil.NewBackend().SetInitStatus(native.StatusUnexpected)

	r, err := native.AcquireRuntime(b)
	require.Error(t, err)
	assert.Nil(t, r)

	var initErr *native.RuntimeInitError
	require.True(t, errors.As(err, &initErr))
	assert.Equal(t, native.StatusUnexpected, initErr.Code)
	assert.Equal(t, 0, native.LiveRuntimes(b))
}

func TestRuntime_ChangedModeIsUsableButNotOwned(t *testing.T) {
	b := testutil.NewBackend().SetInitStatus(native.StatusChangedMode)

	r, err := native.AcquireRuntime(b)
	require.NoError(t, err)
	assert.Equal(t, 1, native.LiveRuntimes(b))

	r.Release()
	assert.Equal(t, 0, native.LiveRuntimes(b))
	assert.Equal(t, 0, b.Uninits())
}

func TestRuntime_SuccessCodesAreAccepted(t *testing.T) {
	b := testutil.NewBackend().SetInitStatus(native.StatusFalse)

	r, err := native.AcquireRuntime(b)
	require.NoError(t, err)
	r.Release()
	assert.Equal(t, 1, b.Uninits())
}
