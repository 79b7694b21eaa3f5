// Package adjust implements the pixel adjustment chain and the one-shot
// filter presets. Everything here is a pure function over raster buffers.
package adjust

// Parameter ranges.
const (
	MinLevel     = -100.0
	MaxLevel     = 100.0
	MinSharpness = 0.0
	MaxSharpness = 100.0
)

// Params holds the slider values of the adjustment chain.
// Brightness, Contrast and Saturation range over -100..100 with 0 neutral;
// Sharpness ranges over 0..100.
type Params struct {
	Brightness float64 `yaml:"brightness" json:"brightness"`
	Contrast   float64 `yaml:"contrast" json:"contrast"`
	Saturation float64 `yaml:"saturation" json:"saturation"`
	Sharpness  float64 `yaml:"sharpness" json:"sharpness"`
}

// Neutral returns parameters that leave every pixel unchanged.
func Neutral() Params {
	return Params{}
}

// AutoEnhance returns the one-click enhancement preset.
func AutoEnhance() Params {
	return Params{
		Brightness: 10,
		Contrast:   15,
		Saturation: 20,
		Sharpness:  30,
	}
}

// Clamp returns p with every field limited to its range. NaN fields
// become neutral.
// Keeping contrast at or below 100 keeps the contrast denominator positive.
func (p Params) Clamp() Params {
	return Params{
		Brightness: clampFloat(p.Brightness, MinLevel, MaxLevel),
		Contrast:   clampFloat(p.Contrast, MinLevel, MaxLevel),
		Saturation: clampFloat(p.Saturation, MinLevel, MaxLevel),
		Sharpness:  clampFloat(p.Sharpness, MinSharpness, MaxSharpness),
	}
}

// IsNeutral reports whether p is the identity adjustment.
func (p Params) IsNeutral() bool {
	return p == Neutral()
}

// contrastFactor maps the contrast slider onto a multiplier around mid-gray.
func contrastFactor(contrast float64) float64 {
	return 259 * (contrast + 255) / (255 * (259 - contrast))
}

// saturationScale maps the slider onto the chroma multiplier: -100 is
// grayscale, 0 is unchanged, 100 doubles the distance from gray.
func saturationScale(saturation float64) float64 {
	return (saturation + 100) / 100
}

// clampFloat maps NaN to 0, the neutral value of every parameter.
func clampFloat(v, lo, hi float64) float64 {
	if v != v {
		return 0
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
