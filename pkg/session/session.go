// Package session holds the state of one editing session: the live buffer,
// the pristine source the adjustment sliders derive from, the undo history,
// the viewport, the tool controller and the remote busy guard.
//
// Every exported method is serialized by a single mutex, so callers may
// drive a session from several goroutines (a UI loop plus remote task
// completions) without further locking.
package session

import (
	"image"
	"sync"
	"sync/atomic"
	"time"

	"github.com/user/picly/pkg/adapters/nullsink"
	"github.com/user/picly/pkg/adjust"
	"github.com/user/picly/pkg/editerr"
	"github.com/user/picly/pkg/history"
	"github.com/user/picly/pkg/pipeline"
	"github.com/user/picly/pkg/ports"
	"github.com/user/picly/pkg/raster"
	"github.com/user/picly/pkg/tools"
	"github.com/user/picly/pkg/viewport"
)

// Options configures a session.
type Options struct {
	HistoryCapacity int
	Brush           tools.BrushSettings
	Viewport        viewport.Limits

	// Container is the display area used by fit-to-screen.
	ContainerWidth  float64
	ContainerHeight float64

	// Workers is the adjustment pipeline's worker count (<=0 means NumCPU).
	Workers int

	UpscaleScale    int
	DefaultStrength float64

	ExportDir     string
	ExportFormat  ports.ImageFormat
	ExportQuality int
}

// DefaultOptions mirrors the editor's defaults.
func DefaultOptions() Options {
	return Options{
		HistoryCapacity: history.DefaultCapacity,
		Brush:           tools.DefaultBrush(),
		Viewport:        viewport.DefaultLimits(),
		ContainerWidth:  1280,
		ContainerHeight: 800,
		UpscaleScale:    4,
		DefaultStrength: 0.75,
		ExportDir:       ".",
		ExportFormat:    ports.FormatPNG,
	}
}

// Dependencies are the collaborators a session talks to. Only Logger is
// required.
type Dependencies struct {
	Logger   ports.Logger
	Renderer ports.Renderer
	AI       ports.AIService
	Exporter pipeline.Stage[pipeline.ExportInput, pipeline.ExportResult]
	Sink     ports.DebugSink

	// OnBusy is called outside the session lock whenever the busy state
	// changes.
	OnBusy func(busy bool, label string)

	// Now defaults to time.Now.
	Now func() time.Time
}

// ImageInfo describes where the loaded image came from.
type ImageInfo struct {
	Name     string
	Format   ports.ImageFormat
	FileSize int64
}

// Session is one editing session.
type Session struct {
	mu sync.Mutex

	opts     Options
	logger   ports.Logger
	renderer ports.Renderer
	ai       ports.AIService
	exporter pipeline.Stage[pipeline.ExportInput, pipeline.ExportResult]
	sink     ports.DebugSink
	onBusy   func(bool, string)
	now      func() time.Time

	buf      *raster.Buffer
	pristine *raster.Buffer
	params   adjust.Params
	info     ImageInfo
	prompt   string

	hist     *history.Stack
	view     *viewport.Viewport
	ctrl     *tools.Controller
	adjuster *adjust.Pipeline

	// generation increments on every Load so a remote result for a
	// replaced image can be recognised and dropped.
	generation int

	busy      atomic.Bool
	busyLabel string

	counters counters
	lastErr  error
}

type counters struct {
	checkpoints    int
	strokes        int
	undos          int
	redos          int
	filters        int
	remoteOK       int
	remoteFailures int
	exports        int
}

// New creates a session with no image loaded.
func New(opts Options, deps Dependencies) *Session {
	if deps.Sink == nil {
		deps.Sink = nullsink.New()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if opts.UpscaleScale <= 0 {
		opts.UpscaleScale = 4
	}
	if opts.DefaultStrength <= 0 {
		opts.DefaultStrength = 0.75
	}

	s := &Session{
		opts:     opts,
		logger:   deps.Logger.WithComponent("session"),
		renderer: deps.Renderer,
		ai:       deps.AI,
		exporter: deps.Exporter,
		sink:     deps.Sink,
		onBusy:   deps.OnBusy,
		now:      deps.Now,
		hist:     history.New(opts.HistoryCapacity),
		view:     viewport.NewWithLimits(opts.Viewport),
		ctrl:     tools.NewController(deps.Logger),
		adjuster: adjust.NewPipeline(opts.Workers),
	}
	s.ctrl.SetBrush(opts.Brush)
	return s
}

// document adapts the session to tools.Document. Its methods run with the
// session lock already held.
type document struct{ s *Session }

func (d document) Buffer() *raster.Buffer  { return d.s.buf }
func (d document) Checkpoint(label string) { d.s.checkpointLocked(label) }
func (s *Session) doc() tools.Document     { return document{s} }
func (s *Session) hasImage() bool          { return s.buf != nil }

// Load replaces the document with img. History is cleared and the loaded
// image becomes its first entry; the view is fitted to the container.
func (s *Session) Load(img image.Image, info ImageInfo) error {
	if img == nil {
		return editerr.NewInvalid("load: nil image")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasImage() {
		s.ctrl.Abort(s.doc())
	}
	s.ctrl.ClearOverlay()
	s.buf = raster.FromImage(img)
	s.info = info
	s.generation++
	s.hist.Clear()
	s.checkpointLocked("load")
	s.view.FitToScreen(s.opts.ContainerWidth, s.opts.ContainerHeight, s.buf.Width(), s.buf.Height())
	s.lastErr = nil

	s.logger.Debug("Loaded %s %dx%d, zoom %s", info.Name, s.buf.Width(), s.buf.Height(), s.view.Label())
	return nil
}

// checkpointLocked records the live buffer in history, rebases the pristine
// source on it and resets the sliders.
func (s *Session) checkpointLocked(label string) {
	e := s.hist.Push(s.buf, label)
	s.pristine = s.buf.Clone()
	s.params = adjust.Neutral()
	s.counters.checkpoints++

	s.logger.Debug("Checkpoint #%d %s (%d/%d)", e.Seq, label, s.hist.Len(), s.hist.Capacity())
	if s.sink.Enabled() {
		if err := s.sink.SaveCheckpoint(e.Seq, label, e.Snapshot.Image()); err != nil {
			s.logger.Warn("Failed to save checkpoint %d: %v", e.Seq, err)
		}
	}
}

// restoreLocked replaces the live buffer with a history snapshot.
func (s *Session) restoreLocked(snap *raster.Buffer) {
	s.buf = snap
	s.pristine = snap.Clone()
	s.params = adjust.Neutral()
	s.ctrl.ClearOverlay()
}
