package images

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore implements ObjectStore backed by the local file system.
// Files are exposed by the API under publicURL.
type LocalStore struct {
	root      string // absolute path to the upload directory
	publicURL string
}

// NewLocalStore creates the upload directory if needed and returns a store rooted at it.
func NewLocalStore(root, publicURL string) (*LocalStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("images: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("images: create root: %w", err)
	}
	return &LocalStore{root: abs, publicURL: strings.TrimSuffix(publicURL, "/")}, nil
}

// Root returns the directory files are written to.
func (s *LocalStore) Root() string {
	return s.root
}

// safePath resolves key against the root and rejects any result that escapes it.
func (s *LocalStore) safePath(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if key == "" || filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("images: invalid key: %q", key)
	}
	abs := filepath.Join(s.root, cleaned)
	if !strings.HasPrefix(abs, s.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("images: key escapes upload root: %q", key)
	}
	return abs, nil
}

// Put writes data atomically through a temp file in the same directory.
func (s *LocalStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	abs, err := s.safePath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("images: mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(abs), ".upload-*")
	if err != nil {
		return fmt.Errorf("images: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("images: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("images: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), abs); err != nil {
		return fmt.Errorf("images: rename: %w", err)
	}
	return nil
}

// Delete removes the file stored under key.
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	abs, err := s.safePath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil {
		return fmt.Errorf("images: remove: %w", err)
	}
	return nil
}

func (s *LocalStore) URL(key string) string {
	return s.publicURL + "/" + key
}

func (s *LocalStore) KeyFromURL(ref string) (string, bool) {
	return keyUnderBase(s.publicURL, ref)
}
