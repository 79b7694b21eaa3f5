package adjust

import "github.com/user/picly/pkg/raster"

// 3x3 Gaussian kernel, weights sum to 16.
var blurKernel = [3][3]float64{
	{1, 2, 1},
	{2, 4, 2},
	{1, 2, 1},
}

// sharpen applies an unsharp mask: out = v + amount*(v - blur(v)).
// amount is sharpness/50, so the slider maxes out at twice the detail.
// Edges are handled by clamping neighbour coordinates.
func (pl *Pipeline) sharpen(src *raster.Buffer, sharpness float64) *raster.Buffer {
	amount := sharpness / 50
	w, h := src.Width(), src.Height()
	in := src.Pix()
	out := src.Clone()
	dst := out.Pix()

	pl.forEachRowBand(h, func(y0, y1 int) {
		for y := y0; y < y1; y++ {
			for x := 0; x < w; x++ {
				i := (y*w + x) * 4
				for c := 0; c < 3; c++ {
					var sum float64
					for ky := -1; ky <= 1; ky++ {
						sy := clampInt(y+ky, 0, h-1)
						for kx := -1; kx <= 1; kx++ {
							sx := clampInt(x+kx, 0, w-1)
							sum += blurKernel[ky+1][kx+1] * float64(in[(sy*w+sx)*4+c])
						}
					}
					v := float64(in[i+c])
					dst[i+c] = clamp8(v + amount*(v-sum/16))
				}
			}
		}
	})
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
