package minio

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/hupe1980/schemaidx/blobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_KeyMapping(t *testing.T) {
	s := NewStore(nil, "bucket", "indexes/")
	assert.Equal(t, "indexes/users/000001.seg", s.key("users/000001.seg"))
	assert.Equal(t, "users/000001.seg", s.relative("indexes/users/000001.seg"))

	s = NewStore(nil, "bucket", "")
	assert.Equal(t, "a.seg", s.key("a.seg"))
	assert.Equal(t, "a.seg", s.relative("a.seg"))
}

// TestMinioStore_Integration requires a running MinIO instance at MINIO_ENDPOINT.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("Skipping MinIO integration test: MINIO_ENDPOINT not set")
	}

	ctx := context.Background()

	store, err := Dial(ctx, endpoint, "test-schemaidx",
		WithStaticCredentials("minioadmin", "minioadmin"),
		WithPrefix("test-prefix/"),
		WithCreateBucket(),
	)
	require.NoError(t, err)

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "idx/test.seg", data))

	blob, err := store.Open(ctx, "idx/test.seg")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), blob.Size())

	buf := make([]byte, len(data))
	n, err := blob.ReadAt(ctx, buf, 0)
	require.NoError(t, err)
	require.Equal(t, len(data), n)
	require.Equal(t, data, buf)

	rc, err := blob.ReadRange(ctx, 6, 5)
	require.NoError(t, err)
	part, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "minio", string(part))
	require.NoError(t, rc.Close())
	require.NoError(t, blob.Close())

	names, err := store.List(ctx, "idx/")
	require.NoError(t, err)
	assert.Equal(t, []string{"idx/test.seg"}, names)

	require.NoError(t, store.Delete(ctx, "idx/test.seg"))
	_, err = store.Open(ctx, "idx/test.seg")
	require.ErrorIs(t, err, blobstore.ErrNotFound)

	wb, err := store.Create(ctx, "idx/stream.seg")
	require.NoError(t, err)
	_, err = wb.Write([]byte("streamed data"))
	require.NoError(t, err)
	require.NoError(t, wb.Close())
	assert.ErrorIs(t, wb.Close(), ErrClosed)

	blob, err = store.Open(ctx, "idx/stream.seg")
	require.NoError(t, err)
	assert.Equal(t, int64(13), blob.Size())
	require.NoError(t, blob.Close())

	_ = store.Delete(ctx, "idx/stream.seg")
}
