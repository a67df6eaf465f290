package tui

import (
	"image"
	"image/color"
	"os"
	"strings"
	"sync"

	_ "image/jpeg" // JPEG decoder registration.

	xdraw "golang.org/x/image/draw"

	"github.com/papapumpkin/diashow/internal/ansi"
)

// Canvas renders images into a terminal cell grid using half-block glyphs:
// each cell carries two vertically stacked pixels, the top one as the
// foreground of "▀" and the bottom one as the background. It implements the
// playback renderer contract — Prepare decodes and scales asynchronously,
// Present composites with alpha into the frame, Clear resets it.
type Canvas struct {
	mu      sync.Mutex
	width   int // cells
	height  int // cell rows; the pixel grid is twice as tall
	frame   *image.RGBA
	scaled  map[string]*image.RGBA
	loading map[string]bool
}

// NewCanvas creates a canvas sized to the given cell grid.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{
		scaled:  make(map[string]*image.RGBA),
		loading: make(map[string]bool),
	}
	c.SetSize(width, height)
	return c
}

// SetSize resizes the cell grid. Cached scaled images are dropped since they
// were fitted to the old dimensions.
func (c *Canvas) SetSize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.width = width
	c.height = height
	c.frame = image.NewRGBA(image.Rect(0, 0, width, height*2))
	c.scaled = make(map[string]*image.RGBA)
}

// Prepare decodes and scales an image in the background. Duplicate and
// in-flight requests are deduplicated; a failed decode leaves the image
// absent, so it simply never presents.
func (c *Canvas) Prepare(path string) {
	c.mu.Lock()
	if _, ok := c.scaled[path]; ok || c.loading[path] {
		c.mu.Unlock()
		return
	}
	c.loading[path] = true
	w, h := c.width, c.height*2
	c.mu.Unlock()

	go func() {
		img, err := decodeImage(path)

		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.loading, path)
		if err != nil {
			return
		}
		// Sizing may have changed while decoding; fit to the live grid.
		if c.width != w || c.height*2 != h {
			w, h = c.width, c.height*2
		}
		c.scaled[path] = fitImage(img, w, h)
	}()
}

// Present composites the image over the frame at the given opacity, centered.
// An image that has not finished preparing presents nothing; the frame keeps
// whatever Clear and earlier Present calls left there.
func (c *Canvas) Present(path string, opacity uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()

	src, ok := c.scaled[path]
	if !ok {
		return
	}

	alpha := float64(opacity) / 255
	offX := (c.frame.Rect.Dx() - src.Rect.Dx()) / 2
	offY := (c.frame.Rect.Dy() - src.Rect.Dy()) / 2

	for y := 0; y < src.Rect.Dy(); y++ {
		for x := 0; x < src.Rect.Dx(); x++ {
			fx, fy := x+offX, y+offY
			if fx < 0 || fy < 0 || fx >= c.frame.Rect.Dx() || fy >= c.frame.Rect.Dy() {
				continue
			}
			sr, sg, sb, _ := src.At(x, y).RGBA()
			dr, dg, db, _ := c.frame.At(fx, fy).RGBA()
			c.frame.Set(fx, fy, color.RGBA{
				R: blend(dr, sr, alpha),
				G: blend(dg, sg, alpha),
				B: blend(db, sb, alpha),
				A: 0xff,
			})
		}
	}
}

// Clear resets the frame to black before the tick's Present calls.
func (c *Canvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.frame.Pix {
		c.frame.Pix[i] = 0
	}
	for i := 3; i < len(c.frame.Pix); i += 4 {
		c.frame.Pix[i] = 0xff
	}
}

// View renders the frame as ANSI truecolor half-block rows.
func (c *Canvas) View() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	var b strings.Builder
	for row := 0; row < c.height; row++ {
		for col := 0; col < c.width; col++ {
			tr, tg, tb, _ := c.frame.At(col, row*2).RGBA()
			br, bg, bb, _ := c.frame.At(col, row*2+1).RGBA()
			b.WriteString(ansi.Foreground(uint8(tr>>8), uint8(tg>>8), uint8(tb>>8)))
			b.WriteString(ansi.Background(uint8(br>>8), uint8(bg>>8), uint8(bb>>8)))
			b.WriteString("▀")
		}
		b.WriteString(ansi.Reset)
		if row < c.height-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Ready reports whether an image has finished preparing. Exposed for the
// frame loop to decide whether a placeholder frame is being shown.
func (c *Canvas) Ready(path string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.scaled[path]
	return ok
}

// blend mixes two 16-bit channel samples at the given source alpha and
// returns the 8-bit result.
func blend(dst, src uint32, alpha float64) uint8 {
	v := float64(dst>>8)*(1-alpha) + float64(src>>8)*alpha
	if v > 255 {
		v = 255
	}
	return uint8(v + 0.5)
}

// decodeImage reads and decodes an image file.
func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

// fitImage scales img to fit within maxW x maxH pixels preserving aspect
// ratio, using approximate bilinear interpolation.
func fitImage(img image.Image, maxW, maxH int) *image.RGBA {
	srcW := img.Bounds().Dx()
	srcH := img.Bounds().Dy()
	if srcW == 0 || srcH == 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}

	scale := float64(maxW) / float64(srcW)
	if s := float64(maxH) / float64(srcH); s < scale {
		scale = s
	}
	if scale > 1 {
		scale = 1
	}

	w := int(float64(srcW)*scale + 0.5)
	h := int(float64(srcH)*scale + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Rect, img, img.Bounds(), xdraw.Over, nil)
	return dst
}
