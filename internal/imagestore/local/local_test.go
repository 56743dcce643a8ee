package local

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/groupr/internal/imagestore"
)

func TestStoreSaveAndGet(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	data := []byte("fake png data")
	key, err := store.Save(ctx, "member", "image/png", bytes.NewReader(data))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "member_"))
	assert.True(t, strings.HasSuffix(key, ".png"))

	reader, mimeType, err := store.Get(ctx, key)
	require.NoError(t, err)
	defer reader.Close()
	assert.Equal(t, "image/png", mimeType)

	got, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestStoreKeysAreUnique(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	a, err := store.Save(ctx, "member", "image/jpeg", strings.NewReader("a"))
	require.NoError(t, err)
	b, err := store.Save(ctx, "member", "image/jpeg", strings.NewReader("b"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestStoreDelete(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key, err := store.Save(ctx, "member", "image/gif", strings.NewReader("gif"))
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, key))

	_, _, err = store.Get(ctx, key)
	assert.ErrorIs(t, err, imagestore.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, key), imagestore.ErrNotFound)
}

func TestStorePathTraversal(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Get(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, imagestore.ErrNotFound)
}
