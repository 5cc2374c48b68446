package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileStore persists objects onto the local filesystem and serves them from a
// static base URL. It is intended for development and test environments where
// an object storage service is not available.
type FileStore struct {
	basePath string
	baseURL  string
}

// NewFileStore initializes a FileStore rooted at basePath whose public URLs
// are built under baseURL.
func NewFileStore(basePath, baseURL string) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &FileStore{basePath: basePath, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Upload writes data at the given key. Keys are cleaned to prevent directory
// traversal. When overwrite is false an existing object under the same key
// fails the write.
func (s *FileStore) Upload(ctx context.Context, key string, data []byte, contentType string, overwrite bool) error {
	if err := ctx.Err(); err != nil {
		return &UploadError{Key: key, Err: err}
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return &UploadError{Key: key, Err: err}
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(cleanKey))
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return &UploadError{Key: cleanKey, Err: fmt.Errorf("ensure directory: %w", err)}
	}
	if !overwrite {
		if _, err := os.Stat(fullPath); err == nil {
			return &UploadError{Key: cleanKey, Err: errors.New("object already exists")}
		}
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return &UploadError{Key: cleanKey, Err: err}
	}
	return nil
}

// PublicURL returns the static URL the object is served under.
func (s *FileStore) PublicURL(key string) string {
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		cleanKey = strings.TrimLeft(key, "/")
	}
	return s.baseURL + "/" + cleanKey
}

// Delete removes the object at key. A missing object is treated as success.
func (s *FileStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return &DeleteError{Key: key, Err: err}
	}
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return &DeleteError{Key: key, Err: err}
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(cleanKey))
	if err := os.Remove(fullPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &DeleteError{Key: cleanKey, Err: err}
	}
	return nil
}

var _ Store = (*FileStore)(nil)

// sanitizeKey normalizes a key and prevents escaping the storage root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("key is required")
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	cleaned := filepath.Clean(key)
	cleaned = strings.ReplaceAll(cleaned, "\\", "/")
	if cleaned == "." || strings.HasPrefix(cleaned, "../") {
		return "", errors.New("invalid key")
	}
	return cleaned, nil
}
