// Package library reads the slideshow folder hierarchy: every directory is a
// node, every JPEG inside it a rated image. Ratings come from the embedded
// XMP packet and default to zero when absent. Scan results can be cached on
// disk and invalidated by a filesystem watcher.
package library

import (
	"sort"
	"strings"
	"time"

	"github.com/papapumpkin/diashow/internal/timing"
)

// Image is one rated slideshow image. Immutable once read.
type Image struct {
	// Path is the absolute file path, used as the opaque display handle.
	Path string

	// Rating is the star rating in [0,5], zero when the file carries none.
	Rating int

	Size    int64
	ModTime time.Time
}

// Node is one folder in the show hierarchy. Children and images are sorted
// by name; the order is stable across scans.
type Node struct {
	// Name is the folder basename, "main" for the root.
	Name string

	// Path is the absolute folder path.
	Path string

	Children []*Node
	Images   []Image
}

// Find resolves a slash-separated node path ("2023/summer") relative to n.
// An empty path returns n itself; nil means no such node.
func (n *Node) Find(path string) *Node {
	path = strings.Trim(path, "/")
	if path == "" {
		return n
	}
	cur := n
	for _, part := range strings.Split(path, "/") {
		var next *Node
		for _, c := range cur.Children {
			if c.Name == part {
				next = c
				break
			}
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}

// AllImages returns the node's images plus those of all descendants, in
// traversal order.
func (n *Node) AllImages() []Image {
	images := make([]Image, len(n.Images))
	copy(images, n.Images)
	for _, c := range n.Children {
		images = append(images, c.AllImages()...)
	}
	return images
}

// CountImages returns the recursive image count.
func (n *Node) CountImages() int {
	total := len(n.Images)
	for _, c := range n.Children {
		total += c.CountImages()
	}
	return total
}

// Histogram tallies the recursive images by rating.
func (n *Node) Histogram() [timing.MaxRating + 1]int {
	ratings := make([]int, 0, len(n.Images))
	for _, img := range n.AllImages() {
		ratings = append(ratings, img.Rating)
	}
	return timing.CountByRating(ratings)
}

// Walk visits n and every descendant depth-first, parents before children.
func (n *Node) Walk(visit func(node *Node, depth int)) {
	n.walk(visit, 0)
}

func (n *Node) walk(visit func(*Node, int), depth int) {
	visit(n, depth)
	for _, c := range n.Children {
		c.walk(visit, depth+1)
	}
}

func sortNode(n *Node) {
	sort.Slice(n.Children, func(i, j int) bool { return n.Children[i].Name < n.Children[j].Name })
	sort.Slice(n.Images, func(i, j int) bool { return n.Images[i].Path < n.Images[j].Path })
}
