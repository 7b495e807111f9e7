package cache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestCache(t *testing.T) *BlobCache {
	t.Helper()
	c, err := Open(context.Background(), filepath.Join(t.TempDir(), "cache", "blobs.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestBlobCachePutGetDelete(t *testing.T) {
	ctx := context.Background()
	c := openTestCache(t)

	key := Key("0190-abc")
	assert.Equal(t, "pdf_0190-abc", key)

	require.NoError(t, c.Put(ctx, key, []byte("%PDF-1.4 first")))
	require.NoError(t, c.Put(ctx, key, []byte("%PDF-1.4 second")))

	data, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 second"), data)

	require.NoError(t, c.Delete(ctx, key))
	_, err = c.Get(ctx, key)
	assert.ErrorIs(t, err, ErrMiss)

	assert.NoError(t, c.Delete(ctx, "never-stored"))
}

func TestBlobCacheReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "blobs.db")

	c, err := Open(ctx, path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, c.Put(ctx, "k", []byte{1, 2, 3}))
	require.NoError(t, c.Close())

	c, err = Open(ctx, path, zerolog.Nop())
	require.NoError(t, err)
	defer c.Close()

	data, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)
}
