package blob

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var extByContentType = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"application/pdf": ".pdf",
}

// FSStore is a filesystem-backed blob store keeping each blob as one file
// under Root, named by a random UUID so handles never collide.
type FSStore struct {
	Root string
}

// NewFSStore creates the storage root if needed and returns the store
func NewFSStore(root string) (*FSStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob root: %w", err)
	}
	return &FSStore{Root: root}, nil
}

// Store persists the bytes and returns the generated file name as handle
func (s *FSStore) Store(data []byte, contentType string) (string, error) {
	handle := uuid.New().String() + extByContentType[contentType]
	if err := os.WriteFile(filepath.Join(s.Root, handle), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	return handle, nil
}

// Fetch returns the bytes referenced by handle
func (s *FSStore) Fetch(handle string) ([]byte, error) {
	path, err := s.safePath(handle)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return data, err
}

// Delete releases the blob referenced by handle
func (s *FSStore) Delete(handle string) error {
	path, err := s.safePath(handle)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	return err
}

// safePath rejects handles that would escape the storage root
func (s *FSStore) safePath(handle string) (string, error) {
	if handle == "" || strings.Contains(handle, "/") || strings.Contains(handle, "..") {
		return "", ErrNotFound
	}
	return filepath.Join(s.Root, handle), nil
}
