// Package postcache is the on-disk JSON blob store for posts, keyed by slug.
package postcache

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/benji-blog/benji/internal/domain"
)

const ext = ".json"

// Cache stores one JSON file per post under a flat directory.
type Cache struct {
	dir string
}

// New opens the cache directory. The directory must already exist.
func New(dir string) (*Cache, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cache dir %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cache dir %q: not a directory", dir)
	}
	return &Cache{dir: dir}, nil
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.dir, key+ext)
}

// Exists reports whether a blob is cached for the key.
func (c *Cache) Exists(key string) bool {
	info, err := os.Stat(c.path(key))
	return err == nil && !info.IsDir()
}

// Save writes a blob for the key, replacing any previous one.
func (c *Cache) Save(key string, data []byte) error {
	if err := os.WriteFile(c.path(key), data, 0o644); err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}
	return nil
}

// Load reads the blob for the key. A missing key yields ErrPostNotFound.
func (c *Cache) Load(key string) ([]byte, error) {
	data, err := os.ReadFile(c.path(key))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %q", domain.ErrPostNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", key, err)
	}
	return data, nil
}

// Keys lists all cached keys in lexical order.
func (c *Cache) Keys() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("list cache: %w", err)
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(e.Name(), ext))
	}
	sort.Strings(keys)
	return keys, nil
}
