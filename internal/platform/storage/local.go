package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalFileStore stores uploaded originals id-addressed under a single
// directory. Files are written once at ingestion and served read-only.
type LocalFileStore struct {
	dir string
}

// NewLocalFileStore creates the storage directory if needed.
func NewLocalFileStore(dir string) (*LocalFileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %s: %w", dir, err)
	}
	return &LocalFileStore{dir: dir}, nil
}

// Save writes the raw bytes under a fresh id-addressed name, preserving the
// original extension, and returns the relative path.
func (s *LocalFileStore) Save(content []byte, originalFilename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	name := strings.ReplaceAll(uuid.NewString(), "-", "") + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write uploaded file: %w", err)
	}
	return name, nil
}

// Read returns the currently stored bytes for a relative path.
func (s *LocalFileStore) Read(relPath string) ([]byte, error) {
	// Relative paths are single id-addressed names; strip any directory
	// component so a stored path can never escape the upload dir.
	name := filepath.Base(relPath)
	content, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read stored file %s: %w", name, err)
	}
	return content, nil
}

// Dir returns the storage directory, for the read-only static mount.
func (s *LocalFileStore) Dir() string {
	return s.dir
}
