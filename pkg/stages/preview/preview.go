// Package preview renders the editor view: the document at the current
// zoom over a transparency checkerboard, with the tool overlay and an
// optional zoom label.
package preview

import (
	"context"
	"fmt"
	"math"

	"github.com/user/picly/pkg/editerr"
	"github.com/user/picly/pkg/pipeline"
	"github.com/user/picly/pkg/ports"
)

const (
	labelPadding = 6
	labelMargin  = 8
	labelRadius  = 4
)

// Stage composes preview images.
type Stage struct {
	renderer ports.Renderer
	style    pipeline.PreviewStyle
	logger   ports.Logger
}

// NewStage creates a new preview stage.
func NewStage(renderer ports.Renderer, style pipeline.PreviewStyle, logger ports.Logger) *Stage {
	if style.CheckerSize <= 0 {
		style.CheckerSize = pipeline.DefaultPreviewStyle().CheckerSize
	}
	return &Stage{
		renderer: renderer,
		style:    style,
		logger:   logger.WithComponent("preview"),
	}
}

// ZoomLabel formats a zoom factor as a whole percentage.
func ZoomLabel(zoom float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(zoom*100)))
}

// Execute renders input. The result is the document's size scaled by zoom.
func (s *Stage) Execute(ctx context.Context, input pipeline.PreviewInput) (pipeline.PreviewResult, error) {
	if input.Document == nil {
		return pipeline.PreviewResult{}, editerr.NewNoImage("preview")
	}
	zoom := input.Zoom
	if zoom <= 0 || math.IsNaN(zoom) {
		zoom = 1
	}

	b := input.Document.Bounds()
	w := scaled(b.Dx(), zoom)
	h := scaled(b.Dy(), zoom)
	s.logger.Debug("Preview %dx%d at %s", w, h, ZoomLabel(zoom))

	canvas := s.renderer.CreateCanvas(w, h, s.style.CheckerLight)
	s.drawChecker(canvas, w, h)

	if err := ctx.Err(); err != nil {
		return pipeline.PreviewResult{}, err
	}

	canvas.DrawImageScaled(input.Document, 0, 0, w, h)
	if input.Overlay != nil {
		canvas.DrawImageScaled(input.Overlay, 0, 0, w, h)
	}
	canvas.DrawRectStroke(0, 0, w, h, s.style.BorderColor, 1)

	if input.ShowLabel {
		s.drawLabel(canvas, w, h, ZoomLabel(zoom))
	}
	return pipeline.PreviewResult{Image: canvas.ToImage()}, nil
}

func (s *Stage) drawChecker(canvas ports.Canvas, w, h int) {
	size := s.style.CheckerSize
	for y := 0; y < h; y += size {
		for x := 0; x < w; x += size {
			if (x/size+y/size)%2 == 1 {
				canvas.DrawRect(x, y, size, size, s.style.CheckerDark)
			}
		}
	}
}

// drawLabel puts text in a rounded badge at the bottom-right corner.
func (s *Stage) drawLabel(canvas ports.Canvas, w, h int, text string) {
	style := ports.TextStyle{
		FontSize: s.style.LabelSize,
		FontPath: s.style.FontPath,
		Color:    s.style.LabelColor,
		Align:    ports.AlignLeft,
	}
	tw, th := canvas.MeasureText(text, style)
	bw := int(math.Ceil(tw)) + labelPadding*2
	bh := int(math.Ceil(th)) + labelPadding*2
	bx := w - bw - labelMargin
	by := h - bh - labelMargin
	if bx < 0 || by < 0 {
		return
	}
	canvas.DrawRoundedRect(bx, by, bw, bh, labelRadius, s.style.LabelBack)
	canvas.DrawText(text, bx+labelPadding, by+bh/2, style)
}

func scaled(n int, zoom float64) int {
	v := int(math.Round(float64(n) * zoom))
	if v < 1 {
		return 1
	}
	return v
}
