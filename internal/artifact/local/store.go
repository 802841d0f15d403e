// Package local stores artifacts on the filesystem for development.
// The server exposes the directory so the published URLs resolve.
package local

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-resumepdf/internal/fileutil"
)

// ErrInvalidKey is returned for keys that would escape the root.
var ErrInvalidKey = errors.New("invalid object key")

// Store implements the artifact store in a directory.
type Store struct {
	dir     string
	baseURL string
}

// New creates dir if needed and returns a store whose objects are
// reachable under baseURL.
func New(dir, baseURL string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("local artifact dir is required")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}
	return &Store{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the root directory.
func (s *Store) Dir() string { return s.dir }

// PutObject writes body to dir/key atomically.
func (s *Store) PutObject(ctx context.Context, key, _ string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" || key != filepath.Base(key) || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return fileutil.WriteFileAtomic(filepath.Join(s.dir, key), body, 0o644)
}

// Endpoint returns the base URL objects are served under.
func (s *Store) Endpoint() string { return s.baseURL }
