package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.NRGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestPrepareAvatarShrinksLargeImages(t *testing.T) {
	out, err := PrepareAvatar(pngOf(t, 1024, 768))
	require.NoError(t, err)

	img, err := imaging.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, 512, img.Bounds().Dx())
	assert.Equal(t, 384, img.Bounds().Dy())
}

func TestPrepareAvatarKeepsSmallImages(t *testing.T) {
	out, err := PrepareAvatar(pngOf(t, 100, 50))
	require.NoError(t, err)

	img, err := imaging.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestPrepareAvatarRejectsGarbage(t *testing.T) {
	_, err := PrepareAvatar(strings.NewReader("not an image"))
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestAvatarKey(t *testing.T) {
	id := uuid.MustParse("5f0c7c1e-8a0b-4c36-9b9e-0c1f3c7a2d11")
	key := AvatarKey(id)
	assert.True(t, strings.HasPrefix(key, "avatars/5f0c7c1e-8a0b-4c36-9b9e-0c1f3c7a2d11/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.NotEqual(t, key, AvatarKey(id))
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com/avatars/a.jpg", PublicURL("https://cdn.example.com/", "/avatars/a.jpg"))
	assert.Equal(t, "https://cdn.example.com/avatars/a.jpg", PublicURL("https://cdn.example.com", "avatars/a.jpg"))
	assert.Empty(t, PublicURL("", "avatars/a.jpg"))
}

func TestDisabledUploader(t *testing.T) {
	u := NewDisabledUploader()
	_, err := u.Upload(context.Background(), "k", "image/jpeg", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrStorageDisabled)
	assert.ErrorIs(t, u.Delete(context.Background(), "k"), ErrStorageDisabled)
	assert.Empty(t, u.GetPublicURL("k"))
}
