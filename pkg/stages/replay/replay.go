// Package replay implements the script replay stage: it feeds the steps of
// a replay script to an editing session.
package replay

import (
	"context"
	"fmt"

	"github.com/user/picly/pkg/adjust"
	"github.com/user/picly/pkg/pipeline"
	"github.com/user/picly/pkg/ports"
	"github.com/user/picly/pkg/script"
	"github.com/user/picly/pkg/session"
	"github.com/user/picly/pkg/task"
	"github.com/user/picly/pkg/tools"
)

// Input is a session and the script to run against it.
type Input struct {
	Session *session.Session
	Script  *script.Script
}

// StepError is a failed step.
type StepError struct {
	Index int
	Kind  string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Index+1, e.Kind, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Result summarizes a replay.
type Result struct {
	Steps   int
	Errors  []*StepError
	Remote  []session.RemoteOutcome
	Exports []pipeline.ExportResult
}

// Stage replays scripts.
type Stage struct {
	logger ports.Logger
}

// NewStage creates a new replay stage.
func NewStage(logger ports.Logger) *Stage {
	return &Stage{logger: logger.WithComponent("replay")}
}

// Execute runs every step in order. A failing step is recorded and the
// replay continues, unless the script sets stop_on_error, in which case the
// step error is returned.
func (s *Stage) Execute(ctx context.Context, input Input) (Result, error) {
	result := Result{}
	if input.Session == nil || input.Script == nil {
		return result, fmt.Errorf("replay needs a session and a script")
	}

	s.logger.Debug("Replaying %d steps", len(input.Script.Steps))
	for i, step := range input.Script.Steps {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		err := s.run(ctx, input.Session, step, &result)
		result.Steps++
		if err == nil {
			continue
		}

		stepErr := &StepError{Index: i, Kind: step.Kind(), Err: err}
		result.Errors = append(result.Errors, stepErr)
		s.logger.Warn("%v", stepErr)
		if input.Script.StopOnError {
			return result, stepErr
		}
	}
	return result, nil
}

func (s *Stage) run(ctx context.Context, sess *session.Session, step script.Step, result *Result) error {
	s.logger.Debug("Step: %s", step.Kind())

	switch {
	case step.Tool != "":
		t, err := tools.ParseTool(step.Tool)
		if err != nil {
			return err
		}
		sess.SetTool(t)

	case step.Brush != nil:
		b, err := step.Brush.Apply(sess.Brush())
		if err != nil {
			return err
		}
		sess.SetBrush(b)

	case step.Down != nil:
		return sess.PointerDown(step.Down.X, step.Down.Y)

	case step.Move != nil:
		return sess.PointerMove(step.Move.X, step.Move.Y)

	case step.Up != nil:
		t, err := sess.PointerUp(ctx, step.Up.X, step.Up.Y)
		return s.await(ctx, t, err, result)

	case step.Leave:
		t, err := sess.PointerLeave(ctx)
		return s.await(ctx, t, err, result)

	case step.Key != "":
		key, ctrl, err := script.ParseKey(step.Key)
		if err != nil {
			return err
		}
		res, err := sess.HandleKey(ctx, session.KeyEvent{Key: key, Ctrl: ctrl})
		if res.Export != nil {
			result.Exports = append(result.Exports, *res.Export)
		}
		return err

	case step.Adjust != nil:
		return sess.SetAdjustments(*step.Adjust)

	case step.Commit:
		_, err := sess.CommitAdjustments()
		return err

	case step.Reset:
		return sess.ResetAdjustments()

	case step.AutoEnhance:
		return sess.AutoEnhance()

	case step.Filter != "":
		return sess.ApplyFilter(adjust.Preset(step.Filter))

	case step.Zoom != "":
		action, factor, err := script.ParseZoom(step.Zoom)
		if err != nil {
			return err
		}
		switch action {
		case script.ZoomIn:
			sess.ZoomIn()
		case script.ZoomOut:
			sess.ZoomOut()
		case script.ZoomFit:
			sess.FitToScreen()
		default:
			sess.SetZoom(factor)
		}

	case step.Undo:
		_, err := sess.Undo()
		return err

	case step.Redo:
		_, err := sess.Redo()
		return err

	case step.Prompt != "":
		sess.SetPrompt(step.Prompt)

	case step.Remote != nil:
		out, err := sess.RunRemote(ctx, session.RemoteRequest{
			Op:       session.RemoteOp(step.Remote.Op),
			Prompt:   step.Remote.Prompt,
			Strength: step.Remote.Strength,
			Scale:    step.Remote.Scale,
		})
		if err != nil {
			return err
		}
		result.Remote = append(result.Remote, out)

	case step.Export != nil:
		var res pipeline.ExportResult
		var err error
		if *step.Export == "" {
			res, err = sess.Export(ctx)
		} else {
			res, err = sess.ExportTo(ctx, *step.Export)
		}
		if err != nil {
			return err
		}
		result.Exports = append(result.Exports, res)

	default:
		return fmt.Errorf("empty step")
	}
	return nil
}

// await waits for the remote task a pointer-up may have started.
func (s *Stage) await(ctx context.Context, t *task.Task[session.RemoteOutcome], err error, result *Result) error {
	if err != nil || t == nil {
		return err
	}
	out, err := t.Wait(ctx)
	if err != nil {
		return err
	}
	result.Remote = append(result.Remote, out)
	return nil
}
