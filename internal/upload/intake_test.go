package upload

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"waypost/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2)), nil))
	return buf.Bytes()
}

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name     string
		content  []byte
		wantMime string
		wantCode string
	}{
		{"valid png", encodePNG(t), "image/png", ""},
		{"valid jpeg", encodeJPEG(t), "image/jpeg", ""},
		{"empty file", nil, "", models.CodeValidationFailed},
		{"plain text", []byte("hello, world"), "", models.CodeUnsupportedMediaType},
		{"pdf header", []byte("%PDF-1.4 something"), "", models.CodeUnsupportedMediaType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, err := ValidateImage(tt.content)
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, tt.wantMime, mime)
				return
			}
			require.Error(t, err)
			appErr, ok := err.(*models.AppError)
			require.True(t, ok)
			assert.Equal(t, tt.wantCode, appErr.Code)
		})
	}
}

func TestValidateImageRejectsOversized(t *testing.T) {
	big := make([]byte, MaxImageBytes+1)
	_, err := ValidateImage(big)
	require.Error(t, err)
}

// A payload with image magic bytes but garbage after the header must not pass.
func TestValidateImageRejectsTruncatedPayload(t *testing.T) {
	valid := encodePNG(t)
	corrupt := append([]byte{}, valid[:12]...)

	_, err := ValidateImage(corrupt)
	assert.Error(t, err)
}

func TestSaveImages(t *testing.T) {
	store := NewStore(t.TempDir(), nil)

	paths, err := store.SaveImages([][]byte{encodePNG(t), encodeJPEG(t)})
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, ".png", filepath.Ext(paths[0]))
	assert.Equal(t, ".jpg", filepath.Ext(paths[1]))

	for _, p := range paths {
		_, err := os.Stat(filepath.Join(store.Dir(), p))
		assert.NoError(t, err)
	}
}

func TestSaveImagesRollsBackOnRejection(t *testing.T) {
	store := NewStore(t.TempDir(), nil)

	// Second attachment is invalid; the first must not be left behind.
	_, err := store.SaveImages([][]byte{encodePNG(t), []byte("not an image")})
	require.Error(t, err)

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveImagesEnforcesCount(t *testing.T) {
	store := NewStore(t.TempDir(), nil)

	contents := make([][]byte, MaxImagesPerPost+1)
	for i := range contents {
		contents[i] = encodePNG(t)
	}
	_, err := store.SaveImages(contents)
	require.Error(t, err)
}

func TestRemoveWithCleaner(t *testing.T) {
	cleaner := NewCleaner(1)
	store := NewStore(t.TempDir(), cleaner)

	paths, err := store.SaveImages([][]byte{encodePNG(t)})
	require.NoError(t, err)

	store.Remove(paths)
	cleaner.Stop() // drains the queue

	_, err = os.Stat(filepath.Join(store.Dir(), paths[0]))
	assert.True(t, os.IsNotExist(err))
}

func TestRemoveIgnoresTraversal(t *testing.T) {
	dir := t.TempDir()
	outside := filepath.Join(dir, "outside.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep me"), 0o600))

	sub := filepath.Join(dir, "uploads")
	require.NoError(t, os.MkdirAll(sub, 0o750))
	store := NewStore(sub, nil)

	store.Remove([]string{"../outside.txt"})

	_, err := os.Stat(outside)
	assert.NoError(t, err)
}
