// Package cache stores detection results keyed by media file id.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aryansharma1305/road-eye-anomaly-detect/internal/domain"
)

const keyPrefix = "detections:"

// DetectionCache stores detection results. Get reports ok=false on a miss.
type DetectionCache interface {
	Get(ctx context.Context, fileID string) (domain.Detections, bool, error)
	Set(ctx context.Context, fileID string, detections domain.Detections) error
}

type cachedDetections struct {
	Potholes          int     `json:"potholes"`
	Cracks            int     `json:"cracks"`
	SeverityScore     float64 `json:"severity_score"`
	ProcessedImageURL string  `json:"processed_image_url,omitempty"`
}

// RedisCache is a DetectionCache backed by go-redis.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache wraps client with the given entry lifetime.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, fileID string) (domain.Detections, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+fileID).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Detections{}, false, nil
	}
	if err != nil {
		return domain.Detections{}, false, err
	}

	var cached cachedDetections
	if err := json.Unmarshal(raw, &cached); err != nil {
		return domain.Detections{}, false, err
	}
	return domain.Detections{
		Potholes:          cached.Potholes,
		Cracks:            cached.Cracks,
		SeverityScore:     cached.SeverityScore,
		ProcessedImageURL: cached.ProcessedImageURL,
	}, true, nil
}

func (c *RedisCache) Set(ctx context.Context, fileID string, detections domain.Detections) error {
	raw, err := json.Marshal(cachedDetections{
		Potholes:          detections.Potholes,
		Cracks:            detections.Cracks,
		SeverityScore:     detections.SeverityScore,
		ProcessedImageURL: detections.ProcessedImageURL,
	})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, keyPrefix+fileID, raw, c.ttl).Err()
}

type memoryEntry struct {
	detections domain.Detections
	expiresAt  time.Time
}

// MemoryCache is an in-process DetectionCache.
type MemoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]memoryEntry
}

// NewMemoryCache builds a MemoryCache. A non-positive ttl keeps entries forever.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{ttl: ttl, now: time.Now, entries: make(map[string]memoryEntry)}
}

func (c *MemoryCache) Get(_ context.Context, fileID string) (domain.Detections, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[fileID]
	if !ok {
		return domain.Detections{}, false, nil
	}
	if !entry.expiresAt.IsZero() && !c.now().Before(entry.expiresAt) {
		delete(c.entries, fileID)
		return domain.Detections{}, false, nil
	}
	return entry.detections, true, nil
}

func (c *MemoryCache) Set(_ context.Context, fileID string, detections domain.Detections) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry := memoryEntry{detections: detections}
	if c.ttl > 0 {
		entry.expiresAt = c.now().Add(c.ttl)
	}
	c.entries[fileID] = entry
	return nil
}
