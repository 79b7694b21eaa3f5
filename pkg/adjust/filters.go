package adjust

import (
	"fmt"
	"math"

	"github.com/user/picly/pkg/raster"
)

// Preset names a one-shot filter.
type Preset string

const (
	PresetBW    Preset = "bw"
	PresetSepia Preset = "sepia"
	PresetVivid Preset = "vivid"
)

// Presets lists every supported filter preset.
func Presets() []Preset {
	return []Preset{PresetBW, PresetSepia, PresetVivid}
}

// ParsePreset parses a preset name.
func ParsePreset(s string) (Preset, error) {
	switch Preset(s) {
	case PresetBW, PresetSepia, PresetVivid:
		return Preset(s), nil
	}
	return "", fmt.Errorf("unknown filter preset: %q", s)
}

// ApplyPreset transforms buf in place. Unlike the adjustment chain, presets
// operate on the current contents and accumulate. A nil buf is a no-op.
func ApplyPreset(buf *raster.Buffer, preset Preset) error {
	if buf == nil {
		return nil
	}

	var fn func(r, g, b float64) (float64, float64, float64)
	switch preset {
	case PresetBW:
		fn = blackAndWhite
	case PresetSepia:
		fn = sepia
	case PresetVivid:
		fn = vivid
	default:
		return fmt.Errorf("unknown filter preset: %q", preset)
	}

	pix := buf.Pix()
	for i := 0; i < len(pix); i += 4 {
		r, g, b := fn(float64(pix[i]), float64(pix[i+1]), float64(pix[i+2]))
		pix[i], pix[i+1], pix[i+2] = clamp8(r), clamp8(g), clamp8(b)
	}
	return nil
}

func blackAndWhite(r, g, b float64) (float64, float64, float64) {
	gray := 0.299*r + 0.587*g + 0.114*b
	return gray, gray, gray
}

func sepia(r, g, b float64) (float64, float64, float64) {
	return math.Min(255, 0.393*r+0.769*g+0.189*b),
		math.Min(255, 0.349*r+0.686*g+0.168*b),
		math.Min(255, 0.272*r+0.534*g+0.131*b)
}

func vivid(r, g, b float64) (float64, float64, float64) {
	return math.Min(255, r*1.3), math.Min(255, g*1.3), math.Min(255, b*1.3)
}
