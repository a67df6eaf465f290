package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// RootName is the name given to the top-level node.
const RootName = "main"

// defaultExts lists the image extensions a scan picks up (lowercase).
var defaultExts = []string{".jpg", ".jpeg"}

// Scanner reads a folder hierarchy into a Node tree.
type Scanner struct {
	// Root is the show folder to scan.
	Root string

	// Exts overrides the accepted file extensions (lowercase, with dot).
	Exts []string

	// Workers bounds the concurrent rating extractions. Zero uses the CPU
	// count.
	Workers int

	// Cache, when set, supplies ratings for unchanged files so their XMP
	// packets are not re-read.
	Cache *Cache

	// ratingFn is swapped out in tests; nil means ReadRating.
	ratingFn func(path string) (int, error)
}

// Scan walks the root folder and returns the sorted node tree with ratings
// resolved. Directory read errors abort the scan; a single unreadable image
// is skipped rather than failing the whole show.
func (s *Scanner) Scan(ctx context.Context) (*Node, error) {
	info, err := os.Stat(s.Root)
	if err != nil {
		return nil, fmt.Errorf("library: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("library: root %s is not a directory", s.Root)
	}

	root := &Node{Name: RootName, Path: s.Root}
	if err := s.readNode(root); err != nil {
		return nil, err
	}
	if err := s.resolveRatings(ctx, root); err != nil {
		return nil, err
	}
	return root, nil
}

// readNode fills one node's children and image stubs, recursively.
func (s *Scanner) readNode(n *Node) error {
	dirents, err := os.ReadDir(n.Path)
	if err != nil {
		return fmt.Errorf("library: read %s: %w", n.Path, err)
	}

	for _, de := range dirents {
		full := filepath.Join(n.Path, de.Name())
		if de.IsDir() {
			child := &Node{Name: de.Name(), Path: full}
			if err := s.readNode(child); err != nil {
				return err
			}
			n.Children = append(n.Children, child)
			continue
		}
		if !s.accepts(de.Name()) {
			continue
		}
		fi, err := de.Info()
		if err != nil {
			continue
		}
		n.Images = append(n.Images, Image{
			Path:    full,
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
	}

	sortNode(n)
	return nil
}

// resolveRatings fills in the Rating of every image in the tree, reading XMP
// packets concurrently and consulting the cache for unchanged files.
func (s *Scanner) resolveRatings(ctx context.Context, root *Node) error {
	readRating := s.ratingFn
	if readRating == nil {
		readRating = ReadRating
	}

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	var mu sync.Mutex
	root.Walk(func(n *Node, _ int) {
		for i := range n.Images {
			img := &n.Images[i]
			if rating, ok := s.Cache.Lookup(img.Path, img.Size, img.ModTime); ok {
				img.Rating = rating
				continue
			}
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				rating, err := readRating(img.Path)
				if err != nil {
					// Unreadable image: keep it unrated instead of failing
					// the scan.
					rating = 0
				}
				mu.Lock()
				img.Rating = rating
				mu.Unlock()
				return nil
			})
		}
	})

	return g.Wait()
}

func (s *Scanner) accepts(name string) bool {
	exts := s.Exts
	if len(exts) == 0 {
		exts = defaultExts
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
