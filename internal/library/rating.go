package library

import (
	"fmt"
	"os"

	xmpbase "github.com/trimmer-io/go-xmp/models/xmp_base"
	"github.com/trimmer-io/go-xmp/xmp"

	"github.com/papapumpkin/diashow/internal/timing"
)

// ReadRating extracts the xmp:Rating value embedded in an image file. Files
// without an XMP packet, or with one that carries no rating, rate zero —
// that is the normal case, not an error. Only failure to read the file
// itself is reported.
func ReadRating(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("library: open %s: %w", path, err)
	}
	defer f.Close()

	packets, err := xmp.ScanPackets(f)
	if err != nil || len(packets) == 0 {
		return 0, nil
	}

	doc := &xmp.Document{}
	if err := xmp.Unmarshal(packets[0], doc); err != nil {
		return 0, nil
	}
	defer doc.Close()

	base := xmpbase.FindModel(doc)
	if base == nil {
		return 0, nil
	}
	return clampRating(int(base.Rating)), nil
}

// clampRating forces a rating into [0,5]; rejected (-1) and out-of-range
// values count as unrated.
func clampRating(r int) int {
	if r < 0 || r > timing.MaxRating {
		return 0
	}
	return r
}
