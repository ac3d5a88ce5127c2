package domain

import (
	"strings"
	"time"
)

// MediaKind differentiates uploaded images from videos.
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// Valid reports whether k is a supported kind.
func (k MediaKind) Valid() bool {
	return k == MediaKindImage || k == MediaKindVideo
}

// Accepts reports whether a MIME type is compatible with the kind.
func (k MediaKind) Accepts(contentType string) bool {
	return k.Valid() && strings.HasPrefix(strings.ToLower(contentType), string(k)+"/")
}

// MediaFile records an uploaded image or video.
type MediaFile struct {
	ID          string
	OwnerID     string
	Kind        MediaKind
	FileName    string
	ContentType string
	SizeBytes   int64
	StorageKey  string
	URL         string
	CreatedAt   time.Time
}
