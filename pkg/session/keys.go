package session

import (
	"context"
	"strings"

	"github.com/user/picly/pkg/pipeline"
	"github.com/user/picly/pkg/tools"
)

// Action is what a key press did.
type Action int

const (
	ActionNone Action = iota
	ActionUndo
	ActionRedo
	ActionExport
	ActionTool
)

func (a Action) String() string {
	switch a {
	case ActionUndo:
		return "undo"
	case ActionRedo:
		return "redo"
	case ActionExport:
		return "export"
	case ActionTool:
		return "tool"
	}
	return "none"
}

// KeyEvent is a key press. Key is the produced character; letters match
// case-insensitively.
type KeyEvent struct {
	Key  string
	Ctrl bool
}

// KeyResult reports the action taken. Tool is set for ActionTool and
// Export for ActionExport; Changed is false when an undo or redo had
// nothing to do.
type KeyResult struct {
	Action  Action
	Changed bool
	Tool    tools.Tool
	Export  *pipeline.ExportResult
}

// HandleKey dispatches the editor shortcuts: Ctrl+Z undo, Ctrl+Y redo,
// Ctrl+S export, and the single-letter tool keys without Ctrl.
func (s *Session) HandleKey(ctx context.Context, ev KeyEvent) (KeyResult, error) {
	key := strings.ToLower(ev.Key)

	if ev.Ctrl {
		switch key {
		case "z":
			ok, err := s.Undo()
			return KeyResult{Action: ActionUndo, Changed: ok}, err
		case "y":
			ok, err := s.Redo()
			return KeyResult{Action: ActionRedo, Changed: ok}, err
		case "s":
			res, err := s.Export(ctx)
			if err != nil {
				return KeyResult{Action: ActionExport}, err
			}
			return KeyResult{Action: ActionExport, Changed: true, Export: &res}, nil
		}
		return KeyResult{}, nil
	}

	t, ok := tools.ToolForKey(key)
	if !ok {
		return KeyResult{}, nil
	}
	s.SetTool(t)
	return KeyResult{Action: ActionTool, Changed: true, Tool: t}, nil
}
