package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/portfolio-cms/internal/domain/portfolio"
)

func TestMemorySnapshotStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySnapshotStore(16)

	data, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)

	in := []byte(`{"name":"x"}`)
	require.NoError(t, s.Save(ctx, in))
	in[0] = '!'

	data, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"x"}`, string(data))

	err = s.Save(ctx, make([]byte, 17))
	assert.ErrorIs(t, err, portfolio.ErrQuotaExceeded)

	data, _ = s.Load(ctx)
	assert.Equal(t, `{"name":"x"}`, string(data), "rejected save keeps the previous snapshot")

	require.NoError(t, s.Clear(ctx))
	data, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestMemorySnapshotStore_NoQuota(t *testing.T) {
	s := NewMemorySnapshotStore(0)
	assert.NoError(t, s.Save(context.Background(), make([]byte, 1<<20)))
}

func TestMemoryMarkerStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryMarkerStore()

	v, err := s.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, s.Set(ctx, "true"))
	v, _ = s.Get(ctx)
	assert.Equal(t, "true", v)

	require.NoError(t, s.Clear(ctx))
	v, _ = s.Get(ctx)
	assert.Empty(t, v)
}
