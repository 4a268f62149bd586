package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/lifemanager/internal/kv"
	"github.com/MrJamesThe3rd/lifemanager/internal/kv/file"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "store")

	s, err := file.New(dir)
	require.NoError(t, err)

	_, err = s.Get(ctx, "lm_user_ana@example.com")
	require.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, s.Set(ctx, "lm_user_ana@example.com", []byte(`{"v":1}`)))
	require.NoError(t, s.Set(ctx, "lm_user_ana@example.com", []byte(`{"v":2}`)))

	got, err := s.Get(ctx, "lm_user_ana@example.com")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// A second store over the same directory sees the value.
	reopened, err := file.New(dir)
	require.NoError(t, err)

	got, err = reopened.Get(ctx, "lm_user_ana@example.com")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(got))

	require.NoError(t, s.Remove(ctx, "lm_user_ana@example.com"))
	require.NoError(t, s.Remove(ctx, "lm_user_ana@example.com"))

	_, err = s.Get(ctx, "lm_user_ana@example.com")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestStore_KeysWithSeparators(t *testing.T) {
	ctx := context.Background()

	s, err := file.New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "a/b", []byte("1")))
	require.NoError(t, s.Set(ctx, "a_b", []byte("2")))

	got, err := s.Get(ctx, "a/b")
	require.NoError(t, err)
	assert.Equal(t, "1", string(got))
}
