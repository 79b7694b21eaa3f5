// Package ggrenderer implements ports.Renderer with fogleman/gg and the
// golang.org/x/image codecs.
package ggrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/user/picly/pkg/ports"
)

type Renderer struct{}

func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	dc := gg.NewContext(width, height)
	dc.SetColor(bg)
	dc.Clear()
	return &Canvas{dc: dc}
}

// DecodeImage relies on the formats registered with the image package:
// the standard PNG, JPEG and GIF decoders plus BMP, TIFF and WebP.
func (r *Renderer) DecodeImage(data []byte) (image.Image, ports.ImageFormat, error) {
	img, name, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ports.FormatUnknown, fmt.Errorf("decode image: %w", err)
	}
	format, err := ports.ParseImageFormat(name)
	if err != nil {
		return nil, ports.FormatUnknown, err
	}
	return img, format, nil
}

func (r *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error

	switch format {
	case ports.FormatPNG:
		err = png.Encode(&buf, img)
	case ports.FormatJPEG:
		if quality <= 0 {
			quality = jpeg.DefaultQuality
		}
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	case ports.FormatGIF:
		err = gif.Encode(&buf, img, nil)
	case ports.FormatBMP:
		err = bmp.Encode(&buf, img)
	case ports.FormatTIFF:
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// ResizeImage uses Catmull-Rom when shrinking and nearest neighbour when
// enlarging, so zoomed-in previews show individual pixels.
func (r *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	var scaler draw.Scaler = draw.CatmullRom
	if width > img.Bounds().Dx() || height > img.Bounds().Dy() {
		scaler = draw.NearestNeighbor
	}
	scaler.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

var _ ports.Renderer = (*Renderer)(nil)

type fontKey struct {
	path string
	size float64
}

// Canvas wraps a gg.Context.
type Canvas struct {
	dc      *gg.Context
	face    font.Face
	faceKey fontKey
}

func (c *Canvas) DrawImage(img image.Image, x, y int) {
	c.dc.DrawImage(img, x, y)
}

func (c *Canvas) DrawImageScaled(img image.Image, x, y, width, height int) {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		c.dc.DrawImage(img, x, y)
		return
	}
	c.dc.DrawImage(New().ResizeImage(img, width, height), x, y)
}

func (c *Canvas) DrawRect(x, y, w, h int, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	c.dc.Fill()
}

func (c *Canvas) DrawRoundedRect(x, y, w, h, radius int, col color.Color) {
	c.dc.SetColor(col)
	c.dc.DrawRoundedRectangle(float64(x), float64(y), float64(w), float64(h), float64(radius))
	c.dc.Fill()
}

func (c *Canvas) DrawRectStroke(x, y, w, h int, col color.Color, strokeWidth float64) {
	c.dc.SetColor(col)
	c.dc.SetLineWidth(strokeWidth)
	c.dc.DrawRectangle(float64(x), float64(y), float64(w), float64(h))
	c.dc.Stroke()
}

func (c *Canvas) DrawCircleStroke(cx, cy, radius float64, col color.Color, strokeWidth float64) {
	c.dc.SetColor(col)
	c.dc.SetLineWidth(strokeWidth)
	c.dc.DrawCircle(cx, cy, radius)
	c.dc.Stroke()
}

func (c *Canvas) DrawLine(x1, y1, x2, y2 int, col color.Color, width float64) {
	c.dc.SetColor(col)
	c.dc.SetLineWidth(width)
	c.dc.DrawLine(float64(x1), float64(y1), float64(x2), float64(y2))
	c.dc.Stroke()
}

var (
	goRegularOnce sync.Once
	goRegular     *truetype.Font
)

// builtinFont is Go Regular, used when no font file is configured or the
// configured one cannot be loaded.
func builtinFont() *truetype.Font {
	goRegularOnce.Do(func() {
		if f, err := truetype.Parse(goregular.TTF); err == nil {
			goRegular = f
		}
	})
	return goRegular
}

func (c *Canvas) loadFont(style ports.TextStyle) {
	key := fontKey{path: style.FontPath, size: style.FontSize}
	if c.face != nil && c.faceKey == key {
		return
	}
	c.faceKey = key

	if style.FontPath != "" {
		if f, err := gg.LoadFontFace(style.FontPath, style.FontSize); err == nil {
			c.face = f
			c.dc.SetFontFace(f)
			return
		}
	}
	if f := builtinFont(); f != nil && style.FontSize > 0 {
		c.face = truetype.NewFace(f, &truetype.Options{
			Size:    style.FontSize,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		c.dc.SetFontFace(c.face)
	}
}

func (c *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	c.loadFont(style)
	c.dc.SetColor(style.Color)

	ax := 0.0
	switch style.Align {
	case ports.AlignCenter:
		ax = 0.5
	case ports.AlignRight:
		ax = 1.0
	}
	c.dc.DrawStringAnchored(text, float64(x), float64(y), ax, 0.5)
}

func (c *Canvas) MeasureText(text string, style ports.TextStyle) (float64, float64) {
	c.loadFont(style)
	return c.dc.MeasureString(text)
}

func (c *Canvas) ToImage() image.Image {
	return c.dc.Image()
}

var _ ports.Canvas = (*Canvas)(nil)
