package ports

import (
	"fmt"
	"image"
	"image/color"
	"strings"
)

// Renderer decodes, encodes and composes images.
type Renderer interface {
	// CreateCanvas creates a drawing surface filled with bg.
	CreateCanvas(width, height int, bg color.Color) Canvas

	// DecodeImage sniffs the container format and decodes data.
	DecodeImage(data []byte) (image.Image, ImageFormat, error)

	// EncodeImage encodes img. quality applies to JPEG only.
	EncodeImage(img image.Image, format ImageFormat, quality int) ([]byte, error)

	// ResizeImage scales img to width×height.
	ResizeImage(img image.Image, width, height int) image.Image
}

// Canvas is a drawing surface used for previews.
type Canvas interface {
	DrawImage(img image.Image, x, y int)

	// DrawImageScaled draws img stretched to width×height at (x, y).
	DrawImageScaled(img image.Image, x, y, width, height int)

	DrawRect(x, y, w, h int, c color.Color)
	DrawRoundedRect(x, y, w, h, radius int, c color.Color)
	DrawRectStroke(x, y, w, h int, c color.Color, strokeWidth float64)
	DrawCircleStroke(cx, cy, radius float64, c color.Color, strokeWidth float64)
	DrawLine(x1, y1, x2, y2 int, c color.Color, width float64)

	DrawText(text string, x, y int, style TextStyle)
	MeasureText(text string, style TextStyle) (width, height float64)

	ToImage() image.Image
}

// TextStyle defines text rendering properties.
type TextStyle struct {
	FontSize float64
	FontPath string
	Color    color.Color
	Align    TextAlign
}

type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// ImageFormat identifies an image container.
type ImageFormat int

const (
	FormatUnknown ImageFormat = iota
	FormatPNG
	FormatJPEG
	FormatGIF
	FormatBMP
	FormatTIFF
	FormatWebP
)

var formatNames = map[ImageFormat]string{
	FormatPNG:  "png",
	FormatJPEG: "jpeg",
	FormatGIF:  "gif",
	FormatBMP:  "bmp",
	FormatTIFF: "tiff",
	FormatWebP: "webp",
}

func (f ImageFormat) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// Extension returns the conventional file extension, with the dot.
func (f ImageFormat) Extension() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatTIFF:
		return ".tiff"
	case FormatUnknown:
		return ""
	}
	return "." + f.String()
}

// ParseImageFormat accepts a format name as returned by image.Decode or a
// file extension with or without the dot.
func ParseImageFormat(s string) (ImageFormat, error) {
	s = strings.TrimPrefix(strings.ToLower(s), ".")
	switch s {
	case "jpg":
		return FormatJPEG, nil
	case "tif":
		return FormatTIFF, nil
	}
	for f, name := range formatNames {
		if name == s {
			return f, nil
		}
	}
	return FormatUnknown, fmt.Errorf("unknown image format: %q", s)
}
