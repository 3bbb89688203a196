package csvcache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cache stores downloaded CSV files on disk keyed by normalized file id,
// with fetch timestamps tracked in memory for the staleness check.
type Cache struct {
	dir      string
	schedule Schedule
	meta     *gocache.Cache
}

func NewCache(dir string, schedule Schedule) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache dir %s: %w", dir, err)
	}
	return &Cache{
		dir:      dir,
		schedule: schedule,
		meta:     gocache.New(gocache.NoExpiration, 1*time.Hour),
	}, nil
}

// NormalizeKey maps a Drive file id to a safe filename.
func NormalizeKey(fileID string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(fileID) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func (c *Cache) path(fileID string) string {
	return filepath.Join(c.dir, NormalizeKey(fileID)+".csv")
}

// Get returns cached content for a file id, or ok=false when the entry is
// missing or stale per the schedule.
func (c *Cache) Get(fileID string, now time.Time) ([]byte, bool) {
	key := NormalizeKey(fileID)

	v, found := c.meta.Get(key)
	if !found {
		return nil, false
	}
	fetchedAt, ok := v.(time.Time)
	if !ok || c.schedule.IsStale(fetchedAt, now) {
		return nil, false
	}

	data, err := os.ReadFile(c.path(fileID))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Put writes content to disk and records the fetch time.
func (c *Cache) Put(fileID string, data []byte, fetchedAt time.Time) error {
	if err := os.WriteFile(c.path(fileID), data, 0o644); err != nil {
		return fmt.Errorf("failed to write cache entry for %s: %w", fileID, err)
	}
	c.meta.Set(NormalizeKey(fileID), fetchedAt, gocache.NoExpiration)
	return nil
}

// FetchedAt returns when a file id was last cached, if ever.
func (c *Cache) FetchedAt(fileID string) (time.Time, bool) {
	v, found := c.meta.Get(NormalizeKey(fileID))
	if !found {
		return time.Time{}, false
	}
	t, ok := v.(time.Time)
	return t, ok
}
