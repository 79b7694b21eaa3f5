package script

import (
	"strings"
	"testing"

	"github.com/user/picly/pkg/tools"
)

const sample = `
stop_on_error: true
steps:
  - tool: brush
  - brush: {size: 12, color: "#ff0000"}
  - down: [40, 40]
  - move: {x: 120, y: 60}
  - up: [120, 60]
  - filter: sepia
  - adjust: {brightness: 20, sharpness: 10}
  - commit: true
  - key: ctrl+z
  - zoom: 150%
  - prompt: make it night
  - remote: {op: edit, strength: 0.5}
  - export: ""
`

func TestParse_Sample(t *testing.T) {
	sc, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !sc.StopOnError {
		t.Error("expected stop_on_error")
	}

	wantKinds := []string{
		"tool", "brush", "down", "move", "up", "filter", "adjust",
		"commit", "key", "zoom", "prompt", "remote", "export",
	}
	if len(sc.Steps) != len(wantKinds) {
		t.Fatalf("expected %d steps, got %d", len(wantKinds), len(sc.Steps))
	}
	for i, want := range wantKinds {
		if got := sc.Steps[i].Kind(); got != want {
			t.Errorf("step %d: expected %s, got %s", i+1, want, got)
		}
	}

	if p := sc.Steps[3].Move; p.X != 120 || p.Y != 60 {
		t.Errorf("expected mapping point, got %+v", p)
	}
	if sc.Steps[6].Adjust.Brightness != 20 || sc.Steps[6].Adjust.Sharpness != 10 {
		t.Errorf("unexpected adjust %+v", sc.Steps[6].Adjust)
	}
	if sc.Steps[11].Remote.Strength != 0.5 {
		t.Errorf("unexpected remote %+v", sc.Steps[11].Remote)
	}
	if sc.Steps[12].Export == nil || *sc.Steps[12].Export != "" {
		t.Error("expected export with default name")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]string{
		"two actions":    "steps:\n  - {tool: brush, filter: sepia}",
		"empty step":     "steps:\n  - {}",
		"unknown tool":   "steps:\n  - tool: lasso",
		"unknown preset": "steps:\n  - filter: lomo",
		"bad point":      "steps:\n  - down: [1, 2, 3]",
		"bad key":        "steps:\n  - key: alt+z",
		"bad zoom":       "steps:\n  - zoom: huge",
		"bad colour":     "steps:\n  - brush: {color: red}",
		"remote no op":   "steps:\n  - remote: {prompt: hi}",
		"unknown op":     "steps:\n  - remote: {op: teleport}",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(src)); err == nil {
				t.Errorf("expected error for %q", src)
			}
		})
	}
}

func TestParse_ErrorNamesStep(t *testing.T) {
	_, err := Parse([]byte("steps:\n  - undo: true\n  - tool: lasso"))
	if err == nil || !strings.Contains(err.Error(), "step 2") {
		t.Errorf("expected error naming step 2, got %v", err)
	}
}

func TestParseKey(t *testing.T) {
	tests := []struct {
		in   string
		key  string
		ctrl bool
	}{
		{"ctrl+z", "z", true},
		{"Ctrl+Y", "y", true},
		{"b", "b", false},
	}
	for _, tt := range tests {
		key, ctrl, err := ParseKey(tt.in)
		if err != nil || key != tt.key || ctrl != tt.ctrl {
			t.Errorf("ParseKey(%q) = %q, %v, %v", tt.in, key, ctrl, err)
		}
	}
}

func TestParseZoom(t *testing.T) {
	tests := []struct {
		in     string
		action string
		factor float64
	}{
		{"in", ZoomIn, 0},
		{"FIT", ZoomFit, 0},
		{"1.5", ZoomSet, 1.5},
		{"50%", ZoomSet, 0.5},
	}
	for _, tt := range tests {
		action, factor, err := ParseZoom(tt.in)
		if err != nil || action != tt.action || factor != tt.factor {
			t.Errorf("ParseZoom(%q) = %q, %v, %v", tt.in, action, factor, err)
		}
	}
	if _, _, err := ParseZoom("-1"); err == nil {
		t.Error("expected error for negative zoom")
	}
}

func TestBrush_Apply(t *testing.T) {
	size := 1000.0
	b := Brush{Size: &size, Color: "#00ff00"}

	got, err := b.Apply(tools.DefaultBrush())
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got.Size != tools.MaxBrushSize {
		t.Errorf("expected size clamped to %v, got %v", tools.MaxBrushSize, got.Size)
	}
	if got.Color.G != 0xff || got.Color.R != 0 {
		t.Errorf("unexpected colour %v", got.Color)
	}
	if got.Opacity != 1 {
		t.Errorf("expected opacity kept, got %v", got.Opacity)
	}
}
