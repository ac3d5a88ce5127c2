package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStore writes media under a directory served by the HTTP layer.
type LocalStore struct {
	dir        string
	publicPath string
}

// NewLocalStore creates dir if needed.
func NewLocalStore(dir, publicPath string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &LocalStore{dir: dir, publicPath: "/" + strings.Trim(publicPath, "/")}, nil
}

func (s *LocalStore) Name() string { return "local" }

// Dir returns the root directory of stored files.
func (s *LocalStore) Dir() string { return s.dir }

// PublicPath returns the URL prefix files are served under.
func (s *LocalStore) PublicPath() string { return s.publicPath }

func (s *LocalStore) Save(ctx context.Context, obj Object) (Stored, error) {
	if err := ctx.Err(); err != nil {
		return Stored{}, err
	}

	key := objectKey(obj)
	target := filepath.Join(s.dir, key)

	f, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return Stored{}, fmt.Errorf("create media file: %w", err)
	}

	if _, err := io.Copy(f, obj.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(target)
		return Stored{}, fmt.Errorf("write media file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(target)
		return Stored{}, fmt.Errorf("close media file: %w", err)
	}

	return Stored{Key: key, URL: path.Join(s.publicPath, key)}, nil
}
