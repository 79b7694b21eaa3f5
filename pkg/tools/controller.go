package tools

import (
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/user/picly/pkg/editerr"
	"github.com/user/picly/pkg/ports"
	"github.com/user/picly/pkg/raster"
)

// Preview indicator style.
var (
	OverlayColor = color.RGBA{R: 0x66, G: 0x7e, B: 0xea, A: 0xff}
	OverlayWidth = 2.0
)

// Point is a position in buffer coordinates.
type Point struct {
	X, Y float64
}

// Document is the editing target seen by the controller.
type Document interface {
	// Buffer returns the live pixel buffer, or nil when no image is loaded.
	Buffer() *raster.Buffer
	// Checkpoint records the current buffer in history.
	Checkpoint(label string)
}

// Delegation asks the caller to run a remote operation for a non-local tool.
type Delegation struct {
	Tool      Tool
	Operation string
	Region    image.Rectangle
}

// Outcome describes what a pointer-up did.
type Outcome struct {
	Checkpointed bool
	Delegation   *Delegation
}

type stroke struct {
	tool  Tool
	base  *raster.Buffer
	path  []Point
	start Point
}

// Controller is the pointer state machine. It is not safe for concurrent
// use.
type Controller struct {
	tool    Tool
	brush   BrushSettings
	active  *stroke
	overlay *raster.Buffer
	logger  ports.Logger
}

// NewController creates a controller with the select tool and default brush.
func NewController(logger ports.Logger) *Controller {
	return &Controller{
		tool:   Select,
		brush:  DefaultBrush(),
		logger: logger.WithComponent("tools"),
	}
}

func (c *Controller) Tool() Tool              { return c.tool }
func (c *Controller) Brush() BrushSettings    { return c.brush }
func (c *Controller) InFlight() bool          { return c.active != nil }
func (c *Controller) Overlay() *raster.Buffer { return c.overlay }

// SetTool switches tools. Callers end any stroke in progress first.
func (c *Controller) SetTool(t Tool) {
	c.tool = t
}

// SetBrush replaces the brush settings, clamped to range.
func (c *Controller) SetBrush(s BrushSettings) {
	c.brush = s.Clamp()
}

// Abort drops the stroke in progress without a checkpoint and restores the
// pixels it had touched.
func (c *Controller) Abort(doc Document) {
	if c.active == nil {
		return
	}
	if buf := doc.Buffer(); buf != nil && c.active.base != nil {
		buf.CopyFrom(c.active.base)
	}
	c.logger.Debug("Stroke aborted")
	c.active = nil
}

// ClearOverlay discards the preview indicator.
func (c *Controller) ClearOverlay() {
	c.overlay = nil
}

// PointerDown opens a stroke at p.
func (c *Controller) PointerDown(doc Document, p Point) error {
	buf := doc.Buffer()
	if buf == nil {
		return editerr.NewNoImage("pointer down")
	}
	if c.active != nil {
		return nil
	}
	if c.tool == Select {
		return nil
	}

	s := &stroke{tool: c.tool, start: p, path: []Point{p}}
	if c.tool.Local() {
		s.base = buf.Clone()
	}
	c.active = s
	if c.tool == Brush {
		c.renderStroke(buf)
	}
	return nil
}

// PointerMove extends the current stroke and redraws the preview indicator.
func (c *Controller) PointerMove(doc Document, p Point) error {
	buf := doc.Buffer()
	if buf == nil {
		return editerr.NewNoImage("pointer move")
	}
	c.drawOverlay(buf.Width(), buf.Height(), p)

	s := c.active
	if s == nil {
		return nil
	}
	switch s.tool {
	case Brush:
		if last := s.path[len(s.path)-1]; last != p {
			s.path = append(s.path, p)
		}
		c.renderStroke(buf)
	case Eraser:
		buf.ClearRect(squareAround(p, c.brush.Size))
	default:
		s.path = append(s.path, p)
	}
	return nil
}

// PointerUp closes the stroke. Brush and eraser strokes produce exactly one
// checkpoint; remote tools produce a delegation.
func (c *Controller) PointerUp(doc Document, p Point) (Outcome, error) {
	if doc.Buffer() == nil {
		return Outcome{}, editerr.NewNoImage("pointer up")
	}
	s := c.active
	if s == nil {
		return Outcome{}, nil
	}
	c.active = nil

	switch s.tool {
	case Brush, Eraser:
		c.logger.Debug("Stroke finished: %s, %d points", s.tool, len(s.path))
		doc.Checkpoint(s.tool.String())
		return Outcome{Checkpointed: true}, nil
	}

	r := squareAround(s.start, c.brush.Size).Union(squareAround(p, c.brush.Size))
	for _, pt := range s.path {
		r = r.Union(squareAround(pt, c.brush.Size))
	}
	r = r.Intersect(doc.Buffer().Bounds())
	return Outcome{Delegation: &Delegation{
		Tool:      s.tool,
		Operation: s.tool.RemoteOperation(),
		Region:    r,
	}}, nil
}

// PointerLeave ends the stroke as if the pointer were released at its last
// position.
func (c *Controller) PointerLeave(doc Document) (Outcome, error) {
	c.overlay = nil
	if c.active == nil {
		return Outcome{}, nil
	}
	last := c.active.path[len(c.active.path)-1]
	return c.PointerUp(doc, last)
}

// renderStroke restores the stroke base and composites the whole path, so
// overlapping segments do not accumulate opacity.
func (c *Controller) renderStroke(buf *raster.Buffer) {
	s := c.active
	buf.CopyFrom(s.base)

	dc := gg.NewContextForRGBA(buf.RGBA())
	col := c.brush.Color
	dc.SetRGBA(float64(col.R)/255, float64(col.G)/255, float64(col.B)/255, c.brush.Opacity)

	if len(s.path) == 1 {
		dc.DrawCircle(s.path[0].X, s.path[0].Y, c.brush.Size/2)
		dc.Fill()
		return
	}
	dc.SetLineWidth(c.brush.Size)
	dc.SetLineCapRound()
	dc.SetLineJoinRound()
	dc.MoveTo(s.path[0].X, s.path[0].Y)
	for _, pt := range s.path[1:] {
		dc.LineTo(pt.X, pt.Y)
	}
	dc.Stroke()
}

func (c *Controller) drawOverlay(w, h int, p Point) {
	if c.overlay == nil || c.overlay.Width() != w || c.overlay.Height() != h {
		c.overlay = raster.New(w, h)
	} else {
		c.overlay.Fill(raster.Transparent)
	}
	dc := gg.NewContextForRGBA(c.overlay.RGBA())
	dc.SetColor(OverlayColor)
	dc.SetLineWidth(OverlayWidth)
	dc.DrawCircle(p.X, p.Y, c.brush.Size/2)
	dc.Stroke()
}

// squareAround returns the size×size square centred on p.
func squareAround(p Point, size float64) image.Rectangle {
	half := size / 2
	return image.Rect(
		int(math.Floor(p.X-half)),
		int(math.Floor(p.Y-half)),
		int(math.Floor(p.X-half+size)),
		int(math.Floor(p.Y-half+size)),
	)
}
