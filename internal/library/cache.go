package library

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// cacheVersion is bumped whenever the on-disk layout changes; mismatched
// files are discarded, not migrated.
const cacheVersion = 1

// cacheEntry records the identity and rating of one scanned file.
type cacheEntry struct {
	Path    string    `toml:"path"`
	Size    int64     `toml:"size"`
	ModTime time.Time `toml:"mod_time"`
	Rating  int       `toml:"rating"`
}

// cacheFile is the TOML document persisted between scans.
type cacheFile struct {
	Version   int          `toml:"version"`
	Root      string       `toml:"root"`
	ScannedAt time.Time    `toml:"scanned_at"`
	Entries   []cacheEntry `toml:"entries"`
}

// Cache holds ratings from a previous scan, keyed by file path and validated
// against size and modification time. A nil *Cache is a valid empty cache.
type Cache struct {
	root    string
	entries map[string]cacheEntry
}

// Lookup returns the cached rating for a file when its size and mtime still
// match. Safe to call on a nil Cache.
func (c *Cache) Lookup(path string, size int64, modTime time.Time) (int, bool) {
	if c == nil {
		return 0, false
	}
	e, ok := c.entries[path]
	if !ok || e.Size != size || !e.ModTime.Equal(modTime) {
		return 0, false
	}
	return e.Rating, true
}

// LoadCache reads a scan cache from path. A missing file, a stale version or
// a cache built for a different root yields an empty cache, not an error.
func LoadCache(path, root string) (*Cache, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("library: read cache %s: %w", path, err)
	}

	var cf cacheFile
	if err := toml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("library: parse cache %s: %w", path, err)
	}
	if cf.Version != cacheVersion || cf.Root != root {
		return nil, nil
	}

	c := &Cache{root: root, entries: make(map[string]cacheEntry, len(cf.Entries))}
	for _, e := range cf.Entries {
		c.entries[e.Path] = e
	}
	return c, nil
}

// SaveCache persists the ratings of a scanned tree so the next scan can skip
// re-reading unchanged files.
func SaveCache(path, root string, tree *Node) error {
	cf := cacheFile{
		Version:   cacheVersion,
		Root:      root,
		ScannedAt: time.Now().UTC(),
	}
	tree.Walk(func(n *Node, _ int) {
		for _, img := range n.Images {
			cf.Entries = append(cf.Entries, cacheEntry{
				Path:    img.Path,
				Size:    img.Size,
				ModTime: img.ModTime,
				Rating:  img.Rating,
			})
		}
	})

	data, err := toml.Marshal(cf)
	if err != nil {
		return fmt.Errorf("library: encode cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("library: create cache dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("library: write cache %s: %w", path, err)
	}
	return nil
}
