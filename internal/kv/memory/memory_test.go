package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/lifemanager/internal/kv"
	"github.com/MrJamesThe3rd/lifemanager/internal/kv/memory"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	_, err := s.Get(ctx, "missing")
	require.ErrorIs(t, err, kv.ErrNotFound)

	value := []byte(`{"a":1}`)
	require.NoError(t, s.Set(ctx, "lm_data", value))

	value[0] = 'x'

	got, err := s.Get(ctx, "lm_data")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(got))
	assert.Equal(t, []string{"lm_data"}, s.Keys())

	require.NoError(t, s.Remove(ctx, "lm_data"))
	require.NoError(t, s.Remove(ctx, "lm_data"))

	_, err = s.Get(ctx, "lm_data")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}
