package adjust

import (
	"math"
	"runtime"
	"sync"

	"github.com/user/picly/pkg/raster"
)

// Luma weights used by the saturation step.
const (
	satLumaR = 0.2989
	satLumaG = 0.5870
	satLumaB = 0.1140
)

// Pipeline applies the adjustment chain using a pool of row workers.
type Pipeline struct {
	numWorkers int
}

// NewPipeline creates a pipeline. numWorkers <= 0 uses one worker per CPU.
func NewPipeline(numWorkers int) *Pipeline {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Pipeline{numWorkers: numWorkers}
}

var defaultPipeline = NewPipeline(0)

// Apply runs the chain with the default pipeline.
func Apply(src *raster.Buffer, p Params) *raster.Buffer {
	return defaultPipeline.Apply(src, p)
}

// Apply returns a new buffer holding src transformed by p.
// src is never modified. A nil src yields nil.
//
// Per pixel, in order: brightness, contrast, saturation, clamp. A positive
// sharpness then runs an unsharp mask over the clamped result.
func (pl *Pipeline) Apply(src *raster.Buffer, p Params) *raster.Buffer {
	if src == nil {
		return nil
	}
	p = p.Clamp()
	dst := src.Clone()
	if p.IsNeutral() {
		return dst
	}

	k := chainConsts{
		brightness: p.Brightness * 2.55,
		contrast:   contrastFactor(p.Contrast),
		saturation: saturationScale(p.Saturation),
	}
	stride := src.Width() * 4
	pl.forEachRowBand(src.Height(), func(y0, y1 int) {
		pix := dst.Pix()[y0*stride : y1*stride]
		for i := 0; i < len(pix); i += 4 {
			pix[i], pix[i+1], pix[i+2] = k.apply(pix[i], pix[i+1], pix[i+2])
		}
	})

	if p.Sharpness > 0 {
		dst = pl.sharpen(dst, p.Sharpness)
	}
	return dst
}

type chainConsts struct {
	brightness float64
	contrast   float64
	saturation float64
}

func (k chainConsts) apply(r8, g8, b8 uint8) (uint8, uint8, uint8) {
	r := float64(r8) + k.brightness
	g := float64(g8) + k.brightness
	b := float64(b8) + k.brightness

	r = k.contrast*(r-128) + 128
	g = k.contrast*(g-128) + 128
	b = k.contrast*(b-128) + 128

	gray := satLumaR*r + satLumaG*g + satLumaB*b
	r = gray + k.saturation*(r-gray)
	g = gray + k.saturation*(g-gray)
	b = gray + k.saturation*(b-gray)

	return clamp8(r), clamp8(g), clamp8(b)
}

// forEachRowBand splits [0,height) into contiguous bands, one per worker.
// Each band writes disjoint rows so workers never share output bytes.
func (pl *Pipeline) forEachRowBand(height int, fn func(y0, y1 int)) {
	if height == 0 {
		return
	}
	workers := pl.numWorkers
	if workers > height {
		workers = height
	}
	band := (height + workers - 1) / workers

	var wg sync.WaitGroup
	for y0 := 0; y0 < height; y0 += band {
		y1 := y0 + band
		if y1 > height {
			y1 = height
		}
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			fn(y0, y1)
		}(y0, y1)
	}
	wg.Wait()
}

// clamp8 limits v to [0,255] and rounds to the nearest integer.
func clamp8(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
