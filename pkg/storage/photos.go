package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// PhotoStore persists house photos on disk and hands out their public URLs.
// Uploads are write-once: a stored photo is never mutated, only deleted.
type PhotoStore struct {
	baseDir       string
	publicBaseURL string
}

// NewPhotoStore ensures the upload directory exists and returns a handle.
func NewPhotoStore(baseDir, publicBaseURL string) (*PhotoStore, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &PhotoStore{
		baseDir:       baseDir,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// Save writes the photo bytes under a fresh object name derived from nameHint's
// extension and returns the public URL of the stored photo.
func (s *PhotoStore) Save(nameHint string, data []byte) (string, error) {
	objectName := objectName(nameHint)
	path := filepath.Join(s.baseDir, objectName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write photo file: %w", err)
	}
	return s.PublicURL(objectName), nil
}

// Delete removes a stored photo if present.
func (s *PhotoStore) Delete(objectName string) error {
	path := filepath.Join(s.baseDir, filepath.Base(objectName))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete photo file: %w", err)
	}
	return nil
}

// PublicURL returns the URL a stored object is reachable at.
func (s *PhotoStore) PublicURL(objectName string) string {
	return s.publicBaseURL + "/" + objectName
}

// Dir exposes the base directory (used to mount the static file route).
func (s *PhotoStore) Dir() string {
	return s.baseDir
}

func objectName(nameHint string) string {
	ext := strings.ToLower(filepath.Ext(nameHint))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		ext = ".jpg"
	}
	return fmt.Sprintf("casa-%s%s", uuid.NewString(), ext)
}
