package session

import (
	"github.com/user/picly/pkg/adjust"
	"github.com/user/picly/pkg/history"
	"github.com/user/picly/pkg/raster"
	"github.com/user/picly/pkg/tools"
)

// Stats is a point-in-time view of the session for reporting.
type Stats struct {
	Loaded   bool
	Info     ImageInfo
	Width    int
	Height   int
	Zoom     float64
	ZoomText string

	Tool   tools.Tool
	Brush  tools.BrushSettings
	Params adjust.Params

	HistoryLen int
	Cursor     int
	Capacity   int
	CanUndo    bool
	CanRedo    bool

	Checkpoints    int
	Strokes        int
	Undos          int
	Redos          int
	Filters        int
	RemoteOK       int
	RemoteFailures int
	Exports        int

	Busy      bool
	BusyLabel string
	LastError string
}

// Stats returns a snapshot of the session state.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{
		Loaded:         s.hasImage(),
		Info:           s.info,
		Zoom:           s.view.Zoom(),
		ZoomText:       s.view.Label(),
		Tool:           s.ctrl.Tool(),
		Brush:          s.ctrl.Brush(),
		Params:         s.params,
		HistoryLen:     s.hist.Len(),
		Cursor:         s.hist.Cursor(),
		Capacity:       s.hist.Capacity(),
		CanUndo:        s.hist.CanUndo(),
		CanRedo:        s.hist.CanRedo(),
		Checkpoints:    s.counters.checkpoints,
		Strokes:        s.counters.strokes,
		Undos:          s.counters.undos,
		Redos:          s.counters.redos,
		Filters:        s.counters.filters,
		RemoteOK:       s.counters.remoteOK,
		RemoteFailures: s.counters.remoteFailures,
		Exports:        s.counters.exports,
		Busy:           s.busy.Load(),
		BusyLabel:      s.busyLabel,
	}
	if s.buf != nil {
		st.Width, st.Height = s.buf.Width(), s.buf.Height()
	}
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	return st
}

// Buffer returns a copy of the live buffer, or nil without an image.
func (s *Session) Buffer() *raster.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buf == nil {
		return nil
	}
	return s.buf.Clone()
}

// Overlay returns a copy of the preview indicator layer, or nil.
func (s *Session) Overlay() *raster.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ov := s.ctrl.Overlay(); ov != nil {
		return ov.Clone()
	}
	return nil
}

// History returns the checkpoints in order. Snapshots are shared and must
// not be modified.
func (s *Session) History() []history.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hist.Entries()
}

// Params returns the adjustment sliders currently previewed.
func (s *Session) Params() adjust.Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// Zoom returns the current zoom factor.
func (s *Session) Zoom() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Zoom()
}

// Tool returns the active tool.
func (s *Session) Tool() tools.Tool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Tool()
}

// Busy reports whether a remote operation is running and its label.
func (s *Session) Busy() (bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy.Load(), s.busyLabel
}

// LastError returns the most recent remote or export failure, cleared by
// the next success.
func (s *Session) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Brush returns the current brush settings.
func (s *Session) Brush() tools.BrushSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.Brush()
}
