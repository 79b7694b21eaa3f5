package session

import (
	"context"

	"github.com/user/picly/pkg/adjust"
	"github.com/user/picly/pkg/editerr"
	"github.com/user/picly/pkg/task"
	"github.com/user/picly/pkg/tools"
)

// PointerDown starts a stroke at screen position (sx, sy).
func (s *Session) PointerDown(sx, sy float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.PointerDown(s.doc(), s.toBuffer(sx, sy))
}

// PointerMove extends the stroke in progress and moves the preview
// indicator.
func (s *Session) PointerMove(sx, sy float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctrl.PointerMove(s.doc(), s.toBuffer(sx, sy))
}

// PointerUp ends the stroke. A stroke with a remote tool starts a remote
// task over the stroked region and returns it; otherwise the task is nil.
func (s *Session) PointerUp(ctx context.Context, sx, sy float64) (*task.Task[RemoteOutcome], error) {
	s.mu.Lock()
	out, err := s.ctrl.PointerUp(s.doc(), s.toBuffer(sx, sy))
	return s.finishStroke(ctx, out, err)
}

// PointerLeave ends the stroke as if released at the last pointer position
// and clears the preview indicator.
func (s *Session) PointerLeave(ctx context.Context) (*task.Task[RemoteOutcome], error) {
	s.mu.Lock()
	out, err := s.ctrl.PointerLeave(s.doc())
	return s.finishStroke(ctx, out, err)
}

// finishStroke is entered with the lock held and releases it.
func (s *Session) finishStroke(ctx context.Context, out tools.Outcome, err error) (*task.Task[RemoteOutcome], error) {
	if err != nil || out.Delegation == nil {
		if out.Checkpointed {
			s.counters.strokes++
		}
		s.mu.Unlock()
		return nil, err
	}
	req := RemoteRequest{
		Op:     RemoteOp(out.Delegation.Operation),
		Prompt: s.prompt,
		Region: out.Delegation.Region,
	}
	s.mu.Unlock()

	s.logger.Debug("Delegating %s over %v", req.Op, req.Region)
	return s.StartRemote(ctx, req)
}

func (s *Session) toBuffer(sx, sy float64) tools.Point {
	x, y := s.view.ToBuffer(sx, sy)
	return tools.Point{X: x, Y: y}
}

// SetTool switches the active tool. A local stroke in progress is finished
// with its checkpoint; a remote-tool stroke is dropped.
func (s *Session) SetTool(t tools.Tool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setToolLocked(t)
}

func (s *Session) setToolLocked(t tools.Tool) {
	if s.ctrl.InFlight() && s.hasImage() {
		if s.ctrl.Tool().Local() {
			if out, _ := s.ctrl.PointerLeave(s.doc()); out.Checkpointed {
				s.counters.strokes++
			}
		} else {
			s.ctrl.Abort(s.doc())
		}
	}
	s.ctrl.SetTool(t)
	s.logger.Debug("Tool: %s", t)
}

// SetBrush replaces the brush settings. Values are clamped to range.
func (s *Session) SetBrush(b tools.BrushSettings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctrl.SetBrush(b)
}

// SetPrompt sets the text sent with prompt-driven remote operations.
func (s *Session) SetPrompt(prompt string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompt = prompt
}

// SetAdjustments previews p: the live buffer is re-derived from the
// pristine source. No checkpoint is recorded.
func (s *Session) SetAdjustments(p adjust.Params) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editableLocked("adjust"); err != nil {
		return err
	}
	s.params = p.Clamp()
	s.buf.CopyFrom(s.adjuster.Apply(s.pristine, s.params))
	return nil
}

// CommitAdjustments checkpoints the previewed adjustments. It reports false
// when the sliders are neutral and there is nothing to commit.
func (s *Session) CommitAdjustments() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editableLocked("commit adjustments"); err != nil {
		return false, err
	}
	if s.params.IsNeutral() {
		return false, nil
	}
	s.checkpointLocked("adjust")
	return true, nil
}

// ResetAdjustments discards the previewed adjustments.
func (s *Session) ResetAdjustments() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editableLocked("reset adjustments"); err != nil {
		return err
	}
	s.params = adjust.Neutral()
	s.buf.CopyFrom(s.pristine)
	return nil
}

// AutoEnhance applies the auto-enhance adjustment set and checkpoints it.
func (s *Session) AutoEnhance() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editableLocked("auto enhance"); err != nil {
		return err
	}
	s.params = adjust.AutoEnhance()
	s.buf.CopyFrom(s.adjuster.Apply(s.pristine, s.params))
	s.checkpointLocked("auto-enhance")
	return nil
}

// ApplyFilter runs a one-shot preset over the live buffer and checkpoints
// the result.
func (s *Session) ApplyFilter(preset adjust.Preset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.editableLocked("filter"); err != nil {
		return err
	}
	if err := adjust.ApplyPreset(s.buf, preset); err != nil {
		return editerr.NewInvalid(err.Error())
	}
	s.counters.filters++
	s.checkpointLocked("filter:" + string(preset))
	return nil
}

// Undo steps back one checkpoint. It reports false when there is nothing
// to undo, and fails while a stroke is in flight.
func (s *Session) Undo() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctrl.InFlight() {
		return false, editerr.NewStrokeInFlight("undo")
	}
	snap, ok := s.hist.Undo()
	if !ok {
		return false, nil
	}
	s.restoreLocked(snap)
	s.counters.undos++
	s.logger.Debug("Undo to %d/%d", s.hist.Cursor()+1, s.hist.Len())
	return true, nil
}

// Redo steps forward one checkpoint.
func (s *Session) Redo() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctrl.InFlight() {
		return false, editerr.NewStrokeInFlight("redo")
	}
	snap, ok := s.hist.Redo()
	if !ok {
		return false, nil
	}
	s.restoreLocked(snap)
	s.counters.redos++
	s.logger.Debug("Redo to %d/%d", s.hist.Cursor()+1, s.hist.Len())
	return true, nil
}

// ZoomIn steps the zoom up and returns the new factor.
func (s *Session) ZoomIn() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.ZoomIn()
}

// ZoomOut steps the zoom down and returns the new factor.
func (s *Session) ZoomOut() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.ZoomOut()
}

// SetZoom sets the zoom factor, clamped to the configured range.
func (s *Session) SetZoom(z float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.SetZoom(z)
}

// FitToScreen fits the image into the configured container. Without an
// image the zoom is unchanged.
func (s *Session) FitToScreen() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hasImage() {
		return s.view.Zoom()
	}
	return s.view.FitToScreen(s.opts.ContainerWidth, s.opts.ContainerHeight, s.buf.Width(), s.buf.Height())
}

// editableLocked checks the preconditions shared by whole-image edits.
func (s *Session) editableLocked(op string) error {
	if !s.hasImage() {
		return editerr.NewNoImage(op)
	}
	if s.ctrl.InFlight() {
		return editerr.NewStrokeInFlight(op)
	}
	return nil
}
