package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore persists uploaded product images and hands back a stable
// filename reference. Callers never interpret image bytes.
type FileStore interface {
	Save(originalFilename string, r io.Reader) (string, error)
	Remove(name string) error
}

// allowedExtensions is the upload whitelist, matched case-insensitively.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// ErrDisallowedExtension is returned when an upload's extension is not on the
// whitelist.
var ErrDisallowedExtension = fmt.Errorf("file type not allowed, must be one of: png, jpg, jpeg, gif")

// AllowedExtension reports whether filename carries a whitelisted image extension.
func AllowedExtension(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// DiskStore is a FileStore writing images into a single directory.
type DiskStore struct {
	dir string
}

// NewDiskStore creates the upload directory if needed and returns a DiskStore over it.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &DiskStore{dir: dir}, nil
}

// Save writes the upload under a fresh UUID-based name, keeping the original
// extension, and returns the stored filename.
func (s *DiskStore) Save(originalFilename string, r io.Reader) (string, error) {
	if !AllowedExtension(originalFilename) {
		return "", ErrDisallowedExtension
	}

	name := uuid.New().String() + strings.ToLower(filepath.Ext(originalFilename))
	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	return name, nil
}

// Remove deletes a stored image by its filename reference.
func (s *DiskStore) Remove(name string) error {
	if err := os.Remove(filepath.Join(s.dir, filepath.Base(name))); err != nil {
		return fmt.Errorf("failed to remove image %s: %w", name, err)
	}
	return nil
}
