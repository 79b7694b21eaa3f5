// Package viewport maps between screen and buffer coordinates.
package viewport

import (
	"fmt"
	"math"
)

const (
	MinZoom        = 0.1
	MaxZoom        = 5.0
	ZoomStep       = 0.1
	DefaultPadding = 40.0
)

// Limits bounds the zoom factor.
type Limits struct {
	Min     float64
	Max     float64
	Step    float64
	Padding float64
}

// DefaultLimits returns the standard zoom range.
func DefaultLimits() Limits {
	return Limits{Min: MinZoom, Max: MaxZoom, Step: ZoomStep, Padding: DefaultPadding}
}

// Viewport holds the current zoom factor. The buffer is drawn with its
// origin at the screen origin, so the transform is a pure scale.
type Viewport struct {
	zoom   float64
	limits Limits
}

// New returns a viewport at 100% with the default limits.
func New() *Viewport {
	return NewWithLimits(DefaultLimits())
}

// NewWithLimits returns a viewport at 100%, clamped into l.
func NewWithLimits(l Limits) *Viewport {
	if l.Min <= 0 {
		l.Min = MinZoom
	}
	if l.Max < l.Min {
		l.Max = l.Min
	}
	if l.Step <= 0 {
		l.Step = ZoomStep
	}
	if l.Padding < 0 {
		l.Padding = 0
	}
	v := &Viewport{limits: l}
	v.SetZoom(1)
	return v
}

func (v *Viewport) Zoom() float64  { return v.zoom }
func (v *Viewport) Limits() Limits { return v.limits }

// SetZoom sets the zoom, clamped into range. NaN is ignored.
func (v *Viewport) SetZoom(z float64) {
	if math.IsNaN(z) {
		return
	}
	v.zoom = math.Max(v.limits.Min, math.Min(z, v.limits.Max))
}

func (v *Viewport) ZoomIn() float64 {
	v.SetZoom(v.zoom + v.limits.Step)
	return v.zoom
}

func (v *Viewport) ZoomOut() float64 {
	v.SetZoom(v.zoom - v.limits.Step)
	return v.zoom
}

// FitToScreen picks the largest zoom, never above 1, at which a bufW×bufH
// image fits the container minus padding. Degenerate sizes leave the zoom
// unchanged.
func (v *Viewport) FitToScreen(containerW, containerH float64, bufW, bufH int) float64 {
	if bufW <= 0 || bufH <= 0 {
		return v.zoom
	}
	sx := (containerW - v.limits.Padding) / float64(bufW)
	sy := (containerH - v.limits.Padding) / float64(bufH)
	v.SetZoom(math.Min(math.Min(sx, sy), 1.0))
	return v.zoom
}

// ToBuffer converts a screen position to buffer coordinates.
func (v *Viewport) ToBuffer(sx, sy float64) (float64, float64) {
	return sx / v.zoom, sy / v.zoom
}

// ToScreen converts a buffer position to screen coordinates.
func (v *Viewport) ToScreen(bx, by float64) (float64, float64) {
	return bx * v.zoom, by * v.zoom
}

// Percent returns the rounded zoom percentage.
func (v *Viewport) Percent() int {
	return int(math.Round(v.zoom * 100))
}

// Label formats the zoom as shown in the status bar.
func (v *Viewport) Label() string {
	return fmt.Sprintf("%d%%", v.Percent())
}
