// Package tools interprets pointer input against the active editing tool.
package tools

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"strings"
)

// Tool identifies an editing tool.
type Tool int

const (
	Select Tool = iota
	Brush
	Eraser
	Inpaint
	ObjectRemove
	Clone
	MagicWand
	Text
)

var toolNames = [...]string{
	Select:       "select",
	Brush:        "brush",
	Eraser:       "eraser",
	Inpaint:      "inpaint",
	ObjectRemove: "object-remove",
	Clone:        "clone",
	MagicWand:    "magic-wand",
	Text:         "text",
}

var toolKeys = map[string]Tool{
	"v": Select,
	"b": Brush,
	"e": Eraser,
	"i": Inpaint,
	"r": ObjectRemove,
	"s": Clone,
	"w": MagicWand,
	"t": Text,
}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("tool(%d)", int(t))
	}
	return toolNames[t]
}

// All returns every tool in display order.
func All() []Tool {
	return []Tool{Select, Brush, Eraser, Inpaint, ObjectRemove, Clone, MagicWand, Text}
}

// ParseTool parses a tool name such as "brush" or "magic-wand".
func ParseTool(s string) (Tool, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range toolNames {
		if name == s {
			return Tool(i), nil
		}
	}
	return 0, fmt.Errorf("unknown tool: %q", s)
}

// ToolForKey returns the tool bound to a single-letter shortcut.
func ToolForKey(key string) (Tool, bool) {
	t, ok := toolKeys[strings.ToLower(key)]
	return t, ok
}

// Local reports whether the tool runs in-process.
func (t Tool) Local() bool {
	return t == Select || t == Brush || t == Eraser
}

// RemoteOperation returns the edit mode sent to the AI service for
// non-local tools, or "" for local ones.
func (t Tool) RemoteOperation() string {
	switch t {
	case Inpaint:
		return "inpaint"
	case ObjectRemove:
		return "object_remove"
	case Clone:
		return "clone"
	case MagicWand:
		return "magic_wand"
	case Text:
		return "text"
	}
	return ""
}

// Brush limits.
const (
	MinBrushSize = 1.0
	MaxBrushSize = 500.0
)

// BrushSettings configures brush and eraser strokes.
// Opacity is 0..1. Hardness is kept for display but does not affect
// rasterization.
type BrushSettings struct {
	Size     float64
	Opacity  float64
	Hardness float64
	Color    color.RGBA
}

// DefaultBrush returns a 50px opaque black brush.
func DefaultBrush() BrushSettings {
	return BrushSettings{
		Size:     50,
		Opacity:  1,
		Hardness: 50,
		Color:    color.RGBA{A: 255},
	}
}

// Clamp returns s with every field limited to its range.
func (s BrushSettings) Clamp() BrushSettings {
	s.Size = clamp(s.Size, MinBrushSize, MaxBrushSize)
	s.Opacity = clamp(s.Opacity, 0, 1)
	s.Hardness = clamp(s.Hardness, 0, 100)
	return s
}

func clamp(v, lo, hi float64) float64 {
	if v < lo || v != v {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ParseColor parses an opaque "#rrggbb" colour. The leading '#' is
// optional.
func ParseColor(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: want #rrggbb", s)
	}
	b, err := hex.DecodeString(h)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{R: b[0], G: b[1], B: b[2], A: 0xff}, nil
}

// FormatColor renders c as "#rrggbb".
func FormatColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
