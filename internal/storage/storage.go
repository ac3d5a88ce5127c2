// Package storage persists uploaded media bodies and returns their public URL.
package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"
)

// Object describes a media body to store.
type Object struct {
	ID          string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Stored is the outcome of a successful Save.
type Stored struct {
	Key string
	URL string
}

// Store saves media bodies.
type Store interface {
	Save(ctx context.Context, obj Object) (Stored, error)
	Name() string
}

// objectKey derives a collision-free key from the media id, keeping the
// original extension.
func objectKey(obj Object) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(obj.FileName)))
	if len(ext) > 10 || strings.ContainsAny(ext, `/\`) {
		ext = ""
	}
	return obj.ID + ext
}
