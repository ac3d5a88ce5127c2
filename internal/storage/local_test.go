package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "media/")
	require.NoError(t, err)

	stored, err := store.Save(context.Background(), Object{
		ID:          "abc",
		FileName:    "../../road.JPG",
		ContentType: "image/jpeg",
		Size:        5,
		Body:        strings.NewReader("bytes"),
	})
	require.NoError(t, err)

	assert.Equal(t, "abc.jpg", stored.Key)
	assert.Equal(t, "/media/abc.jpg", stored.URL)

	content, err := os.ReadFile(filepath.Join(dir, "abc.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "bytes", string(content))
}

func TestLocalStoreRefusesOverwrite(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/media")
	require.NoError(t, err)

	obj := Object{ID: "same", FileName: "a.png", Body: strings.NewReader("1")}
	_, err = store.Save(context.Background(), obj)
	require.NoError(t, err)

	obj.Body = strings.NewReader("2")
	_, err = store.Save(context.Background(), obj)
	assert.Error(t, err)
}

func TestLocalStoreHonoursCancelledContext(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/media")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Save(ctx, Object{ID: "x", Body: strings.NewReader("1")})
	assert.ErrorIs(t, err, context.Canceled)
}
