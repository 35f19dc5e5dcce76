package service_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/service"
)

// A 1x1 transparent PNG.
const tinyPNG = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mP8z8BQDwAEhQGAhKmMIQAAAABJRU5ErkJggg=="

func TestStoreBase64WritesLocalFile(t *testing.T) {
	dir := t.TempDir()
	images := service.NewImageService(nil, dir, "/media")

	url, err := images.StoreBase64(context.Background(), tinyPNG)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/media/recipe-images/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	stored := filepath.Join(dir, strings.TrimPrefix(url, "/media/"))
	data, err := os.ReadFile(filepath.FromSlash(stored))
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestStoreBase64StripsDataURLEnvelope(t *testing.T) {
	dir := t.TempDir()
	images := service.NewImageService(nil, dir, "/media")

	url, err := images.StoreBase64(context.Background(), "data:image/png;base64,"+tinyPNG)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".png"))
}

func TestStoreBase64EmptyPayload(t *testing.T) {
	images := service.NewImageService(nil, t.TempDir(), "/media")

	url, err := images.StoreBase64(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestStoreBase64RejectsGarbage(t *testing.T) {
	images := service.NewImageService(nil, t.TempDir(), "/media")

	_, err := images.StoreBase64(context.Background(), "%%% not base64 %%%")
	require.Error(t, err)

	// Valid base64, but the bytes are not an image.
	_, err = images.StoreBase64(context.Background(), "aGVsbG8gd29ybGQ=")
	require.Error(t, err)
}
