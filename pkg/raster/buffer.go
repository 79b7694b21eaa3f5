// Package raster provides the mutable pixel buffer backing an editing session.
package raster

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// RGBA is a single 8-bit-per-channel sample.
type RGBA struct {
	R, G, B, A uint8
}

// Transparent is the zero sample.
var Transparent = RGBA{}

// BoundsError reports an access outside the buffer.
type BoundsError struct {
	X, Y          int
	Width, Height int
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("pixel (%d,%d) out of bounds for %dx%d buffer", e.X, e.Y, e.Width, e.Height)
}

// Buffer is a W×H grid of RGBA samples stored contiguously, row-major,
// four bytes per pixel. The layout matches image.RGBA with a stride of 4*W.
type Buffer struct {
	width  int
	height int
	pix    []uint8
}

// New allocates a zero-filled buffer. Negative dimensions are treated as zero.
func New(width, height int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height*4),
	}
}

// FromImage copies any decoded image into a new buffer anchored at (0,0).
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	b := New(bounds.Dx(), bounds.Dy())
	draw.Draw(b.RGBA(), b.Bounds(), img, bounds.Min, draw.Src)
	return b
}

// Width returns the buffer width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *Buffer) Height() int { return b.height }

// Len returns the number of samples bytes, always Width*Height*4.
func (b *Buffer) Len() int { return len(b.pix) }

// Bounds returns the buffer rectangle.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// Pix returns the raw sample slice. Writes through it mutate the buffer.
func (b *Buffer) Pix() []uint8 { return b.pix }

// Contains reports whether (x,y) addresses a pixel.
func (b *Buffer) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.width && y < b.height
}

func (b *Buffer) offset(x, y int) int {
	return (y*b.width + x) * 4
}

// At returns the sample at (x,y).
func (b *Buffer) At(x, y int) (RGBA, error) {
	if !b.Contains(x, y) {
		return RGBA{}, &BoundsError{X: x, Y: y, Width: b.width, Height: b.height}
	}
	i := b.offset(x, y)
	return RGBA{R: b.pix[i], G: b.pix[i+1], B: b.pix[i+2], A: b.pix[i+3]}, nil
}

// Set writes the sample at (x,y).
func (b *Buffer) Set(x, y int, c RGBA) error {
	if !b.Contains(x, y) {
		return &BoundsError{X: x, Y: y, Width: b.width, Height: b.height}
	}
	i := b.offset(x, y)
	b.pix[i] = c.R
	b.pix[i+1] = c.G
	b.pix[i+2] = c.B
	b.pix[i+3] = c.A
	return nil
}

// Clone returns a deep copy.
func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.pix))
	copy(pix, b.pix)
	return &Buffer{width: b.width, height: b.height, pix: pix}
}

// Resize reallocates the buffer to w×h and zero-fills it.
func (b *Buffer) Resize(width, height int) {
	b.ResizeFill(width, height, Transparent)
}

// ResizeFill reallocates the buffer to w×h and fills it with c.
// Previous contents are discarded.
func (b *Buffer) ResizeFill(width, height int, c RGBA) {
	fresh := New(width, height)
	b.width, b.height, b.pix = fresh.width, fresh.height, fresh.pix
	if c != Transparent {
		b.Fill(c)
	}
}

// Fill sets every pixel to c.
func (b *Buffer) Fill(c RGBA) {
	for i := 0; i < len(b.pix); i += 4 {
		b.pix[i] = c.R
		b.pix[i+1] = c.G
		b.pix[i+2] = c.B
		b.pix[i+3] = c.A
	}
}

// ClearRect sets the pixels of r that fall inside the buffer to transparent.
// The rectangle is clipped first; it never wraps.
func (b *Buffer) ClearRect(r image.Rectangle) {
	r = r.Intersect(b.Bounds())
	if r.Empty() {
		return
	}
	rowBytes := r.Dx() * 4
	for y := r.Min.Y; y < r.Max.Y; y++ {
		start := b.offset(r.Min.X, y)
		clear(b.pix[start : start+rowBytes])
	}
}

// CopyFrom overwrites the buffer with src, adopting its dimensions.
func (b *Buffer) CopyFrom(src *Buffer) {
	if len(b.pix) != len(src.pix) {
		b.pix = make([]uint8, len(src.pix))
	}
	b.width, b.height = src.width, src.height
	copy(b.pix, src.pix)
}

// Equal reports whether both buffers have identical dimensions and samples.
func (b *Buffer) Equal(other *Buffer) bool {
	if other == nil || b.width != other.width || b.height != other.height {
		return false
	}
	for i := range b.pix {
		if b.pix[i] != other.pix[i] {
			return false
		}
	}
	return true
}

// RGBA returns an image.RGBA view sharing the buffer's memory.
// Drawing into the view mutates the buffer.
func (b *Buffer) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    b.pix,
		Stride: b.width * 4,
		Rect:   b.Bounds(),
	}
}

// Image returns an independent copy of the buffer as an image.Image.
func (b *Buffer) Image() image.Image {
	return b.Clone().RGBA()
}

// Color converts a sample into a color.Color.
func (c RGBA) Color() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}
