package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// PublicPrefix is the path segment uploaded images are served under.
const PublicPrefix = "images"

var ErrOutsideStore = errors.New("path is outside the image store")

// DiskStore keeps uploaded images in a single local folder.
type DiskStore struct {
	dir string
}

// NewDiskStore ensures dir exists and returns a store rooted at it.
func NewDiskStore(dir string) (*DiskStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("image store: resolve %q: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("image store: create %q: %w", abs, err)
	}
	return &DiskStore{dir: abs}, nil
}

// Dir returns the absolute folder backing the store.
func (s *DiskStore) Dir() string { return s.dir }

// Save writes r to a new file named <uuid>-<base of filename> and returns
// its public path, e.g. "images/3f0c...-cat.png".
func (s *DiskStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString() + "-" + cleanName(filename)
	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("image store: create file: %w", err)
	}

	if _, err := io.Copy(dst, r); err != nil {
		_ = dst.Close()
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("image store: write file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("image store: close file: %w", err)
	}

	return path.Join(PublicPrefix, name), nil
}

// Remove deletes a file previously returned by Save. Paths that do not
// point directly into the store are rejected.
func (s *DiskStore) Remove(p string) error {
	full, err := s.resolve(p)
	if err != nil {
		return err
	}
	return os.Remove(full)
}

// Writable reports whether a file can be created in the store.
func (s *DiskStore) Writable() error {
	f, err := os.CreateTemp(s.dir, ".writecheck-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

func (s *DiskStore) resolve(p string) (string, error) {
	clean := path.Clean("/" + strings.ReplaceAll(p, "\\", "/"))
	rel, ok := strings.CutPrefix(clean, "/"+PublicPrefix+"/")
	if !ok || rel == "" || strings.Contains(rel, "/") {
		return "", fmt.Errorf("%w: %q", ErrOutsideStore, p)
	}
	return filepath.Join(s.dir, rel), nil
}

// cleanName keeps the base name of an uploaded file, without separators.
func cleanName(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.Map(func(r rune) rune {
		if r == '/' || r == 0 || r == ' ' {
			return '_'
		}
		return r
	}, base)
	if base == "." || base == "/" || base == "" {
		return "image"
	}
	return base
}
