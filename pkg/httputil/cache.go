package httputil

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"time"
)

// ErrExpired is returned by [Cache.Get] when an entry exists but is older
// than the cache TTL. Callers should refetch and overwrite it.
var ErrExpired = errors.New("cache entry expired")

// Cache keeps downloaded bodies on disk, one file per URL named by the
// SHA-256 of the URL. Entries expire by modification time; a TTL of 0
// never expires.
//
// Writes go through a temporary file and a rename, so several processes
// may share a directory.
type Cache struct {
	dir string
	ttl time.Duration
}

// NewCache creates a Cache rooted at dir, creating it if needed. An empty
// dir selects ~/.cache/labelsheet/http.
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".cache", "labelsheet", "http")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// TTL returns the entry lifetime; 0 means entries never expire.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get returns the body stored for url.
//
// It returns (body, true, nil) on a hit, (nil, false, nil) on a miss and
// (nil, false, [ErrExpired]) when the entry is stale.
func (c *Cache) Get(url string) ([]byte, bool, error) {
	path := c.path(url)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return nil, false, ErrExpired
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}

// Set stores body for url and restarts its TTL.
func (c *Cache) Set(url string, body []byte) error {
	tmp, err := os.CreateTemp(c.dir, ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), c.path(url))
}

func (c *Cache) path(url string) string {
	h := sha256.Sum256([]byte(url))
	return filepath.Join(c.dir, hex.EncodeToString(h[:]))
}
