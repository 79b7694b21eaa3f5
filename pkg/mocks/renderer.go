package mocks

import (
	"image"
	"image/color"
	"sync"

	"github.com/user/picly/pkg/ports"
)

// Renderer is a ports.Renderer stub. Without overrides it decodes any
// input to a 100×100 transparent image and encodes to a fixed marker.
type Renderer struct {
	CreateCanvasFunc func(width, height int, bg color.Color) ports.Canvas
	DecodeImageFunc  func(data []byte) (image.Image, ports.ImageFormat, error)
	EncodeImageFunc  func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error)
	ResizeImageFunc  func(img image.Image, width, height int) image.Image

	mu      sync.Mutex
	encoded []ports.ImageFormat
}

func (m *Renderer) CreateCanvas(width, height int, bg color.Color) ports.Canvas {
	if m.CreateCanvasFunc != nil {
		return m.CreateCanvasFunc(width, height, bg)
	}
	return &Canvas{width: width, height: height}
}

func (m *Renderer) DecodeImage(data []byte) (image.Image, ports.ImageFormat, error) {
	if m.DecodeImageFunc != nil {
		return m.DecodeImageFunc(data)
	}
	return image.NewRGBA(image.Rect(0, 0, 100, 100)), ports.FormatPNG, nil
}

func (m *Renderer) EncodeImage(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
	m.mu.Lock()
	m.encoded = append(m.encoded, format)
	m.mu.Unlock()
	if m.EncodeImageFunc != nil {
		return m.EncodeImageFunc(img, format, quality)
	}
	return []byte("encoded:" + format.String()), nil
}

func (m *Renderer) ResizeImage(img image.Image, width, height int) image.Image {
	if m.ResizeImageFunc != nil {
		return m.ResizeImageFunc(img, width, height)
	}
	return image.NewRGBA(image.Rect(0, 0, width, height))
}

// Encoded returns the formats passed to EncodeImage, in call order.
func (m *Renderer) Encoded() []ports.ImageFormat {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.ImageFormat(nil), m.encoded...)
}

var _ ports.Renderer = (*Renderer)(nil)

// Canvas records draw calls by name.
type Canvas struct {
	width  int
	height int
	Calls  []string
}

func (m *Canvas) DrawImage(img image.Image, x, y int) { m.Calls = append(m.Calls, "image") }
func (m *Canvas) DrawImageScaled(img image.Image, x, y, width, height int) {
	m.Calls = append(m.Calls, "image-scaled")
}
func (m *Canvas) DrawRect(x, y, w, h int, c color.Color) { m.Calls = append(m.Calls, "rect") }
func (m *Canvas) DrawRoundedRect(x, y, w, h, radius int, c color.Color) {
	m.Calls = append(m.Calls, "rounded-rect")
}
func (m *Canvas) DrawRectStroke(x, y, w, h int, c color.Color, strokeWidth float64) {
	m.Calls = append(m.Calls, "rect-stroke")
}
func (m *Canvas) DrawCircleStroke(cx, cy, radius float64, c color.Color, strokeWidth float64) {
	m.Calls = append(m.Calls, "circle-stroke")
}
func (m *Canvas) DrawLine(x1, y1, x2, y2 int, c color.Color, width float64) {
	m.Calls = append(m.Calls, "line")
}
func (m *Canvas) DrawText(text string, x, y int, style ports.TextStyle) {
	m.Calls = append(m.Calls, "text:"+text)
}
func (m *Canvas) MeasureText(text string, style ports.TextStyle) (float64, float64) {
	return float64(len(text)) * style.FontSize * 0.6, style.FontSize
}

func (m *Canvas) ToImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, m.width, m.height))
}

var _ ports.Canvas = (*Canvas)(nil)
