package upload

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"waypost/internal/models"
	"waypost/internal/observability"
)

// Store writes validated post images to disk and hands deletions to the
// background cleaner. Stored references are paths relative to the upload
// directory, so the directory can move without rewriting post records.
type Store struct {
	dir     string
	cleaner *Cleaner
}

// NewStore creates a Store rooted at dir. The cleaner may be nil; deletions
// then happen inline (used by tests).
func NewStore(dir string, cleaner *Cleaner) *Store {
	return &Store{dir: dir, cleaner: cleaner}
}

// Dir returns the upload root.
func (s *Store) Dir() string { return s.dir }

// SaveImages validates and persists up to MaxImagesPerPost attachments,
// returning their stored relative paths. On any failure the already-written
// files are removed so a rejected request leaves no orphans.
func (s *Store) SaveImages(contents [][]byte) ([]string, error) {
	if len(contents) > MaxImagesPerPost {
		observability.UploadRejections.WithLabelValues("count").Inc()
		return nil, models.NewValidationError(fmt.Sprintf("Too many images (max %d)", MaxImagesPerPost))
	}

	paths := make([]string, 0, len(contents))
	for _, content := range contents {
		mimeType, err := ValidateImage(content)
		if err != nil {
			s.removeNow(paths)
			return nil, err
		}

		rel := uuid.New().String() + "." + extensionForMime(mimeType)
		if err := s.writeFile(rel, content); err != nil {
			s.removeNow(paths)
			return nil, models.NewInternalError(err)
		}
		paths = append(paths, rel)
		observability.Uploads.WithLabelValues("post_image").Inc()
	}
	return paths, nil
}

// Remove schedules best-effort deletion of stored images. It never blocks the
// caller on filesystem work and never reports failure.
func (s *Store) Remove(paths []string) {
	if len(paths) == 0 {
		return
	}
	abs := s.absolutePaths(paths)
	if s.cleaner != nil {
		s.cleaner.Submit(abs)
		return
	}
	removeFiles(abs)
}

func (s *Store) writeFile(rel string, content []byte) error {
	path := filepath.Join(s.dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, content, 0o600)
}

func (s *Store) removeNow(paths []string) {
	removeFiles(s.absolutePaths(paths))
}

func (s *Store) absolutePaths(paths []string) []string {
	abs := make([]string, 0, len(paths))
	for _, p := range paths {
		abs = append(abs, filepath.Join(s.dir, filepath.Clean("/"+p)))
	}
	return abs
}
