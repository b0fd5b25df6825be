// Package upload validates and stores binary attachments: post images on the
// filesystem, avatars as in-record blobs.
package upload

import (
	"bytes"
	"image"
	"mime"
	"net/http"
	"strings"

	// Register decoders so image.DecodeConfig can verify the payload really
	// is what its sniffed MIME type claims.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"waypost/internal/models"
	"waypost/internal/observability"
)

const (
	// MaxImageBytes caps a single attachment at 5MB.
	MaxImageBytes = 5 * 1024 * 1024
	// MaxImagesPerPost caps attachments on a single post.
	MaxImagesPerPost = 10
)

// ValidateImage checks size, sniffed MIME type, and decodability of one
// attachment. The declared Content-Type header is not trusted; the content is
// sniffed and decoded. Returns the canonical MIME type on success.
func ValidateImage(content []byte) (string, error) {
	if len(content) == 0 {
		return "", models.NewValidationError("Empty file uploaded")
	}
	if len(content) > MaxImageBytes {
		observability.UploadRejections.WithLabelValues("size").Inc()
		return "", models.NewValidationError("File too large (max 5MB)")
	}

	detected := normalizeContentType(http.DetectContentType(content))
	if !isAllowedImageMIME(detected) {
		observability.UploadRejections.WithLabelValues("media_type").Inc()
		return "", models.NewUnsupportedMediaTypeError(detected)
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(content)); err != nil {
		observability.UploadRejections.WithLabelValues("decode").Inc()
		return "", models.NewValidationError("Invalid image file")
	}

	return detected, nil
}

func isAllowedImageMIME(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// extensionForMime maps a canonical MIME type to the stored file extension.
func extensionForMime(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return "jpg"
	case "image/png":
		return "png"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	default:
		return "bin"
	}
}
