// Package script reads replay scripts: YAML lists of editor actions that
// drive a session without a user interface.
//
//	stop_on_error: false
//	steps:
//	  - tool: brush
//	  - brush: {size: 12, opacity: 0.8, color: "#ff0000"}
//	  - down: [40, 40]
//	  - move: [120, 60]
//	  - up: [120, 60]
//	  - filter: sepia
//	  - adjust: {brightness: 20}
//	  - commit: true
//	  - key: ctrl+z
//	  - remote: {op: upscale}
//	  - export: out/result.png
package script

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/user/picly/pkg/adjust"
	"github.com/user/picly/pkg/session"
	"github.com/user/picly/pkg/tools"
)

// Script is a parsed replay script.
type Script struct {
	// StopOnError ends the replay at the first failing step. Otherwise
	// failures are recorded and the replay continues.
	StopOnError bool   `yaml:"stop_on_error"`
	Steps       []Step `yaml:"steps"`
}

// Step is one action. Exactly one field is set.
type Step struct {
	Tool        string         `yaml:"tool,omitempty"`
	Brush       *Brush         `yaml:"brush,omitempty"`
	Down        *Point         `yaml:"down,omitempty"`
	Move        *Point         `yaml:"move,omitempty"`
	Up          *Point         `yaml:"up,omitempty"`
	Leave       bool           `yaml:"leave,omitempty"`
	Key         string         `yaml:"key,omitempty"`
	Adjust      *adjust.Params `yaml:"adjust,omitempty"`
	Commit      bool           `yaml:"commit,omitempty"`
	Reset       bool           `yaml:"reset,omitempty"`
	AutoEnhance bool           `yaml:"auto_enhance,omitempty"`
	Filter      string         `yaml:"filter,omitempty"`
	Zoom        string         `yaml:"zoom,omitempty"`
	Undo        bool           `yaml:"undo,omitempty"`
	Redo        bool           `yaml:"redo,omitempty"`
	Prompt      string         `yaml:"prompt,omitempty"`
	Remote      *Remote        `yaml:"remote,omitempty"`
	Export      *string        `yaml:"export,omitempty"`
}

// Brush overrides brush settings. Unset fields keep their current value.
type Brush struct {
	Size     *float64 `yaml:"size"`
	Opacity  *float64 `yaml:"opacity"`
	Hardness *float64 `yaml:"hardness"`
	Color    string   `yaml:"color"`
}

// Remote describes a remote operation.
type Remote struct {
	Op       string  `yaml:"op"`
	Prompt   string  `yaml:"prompt"`
	Strength float64 `yaml:"strength"`
	Scale    int     `yaml:"scale"`
}

// Point is a screen position, written as [x, y] or {x: .., y: ..}.
type Point struct {
	X, Y float64
}

// UnmarshalYAML accepts both the sequence and the mapping form.
func (p *Point) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var xy []float64
		if err := value.Decode(&xy); err != nil {
			return err
		}
		if len(xy) != 2 {
			return fmt.Errorf("line %d: point needs 2 coordinates, got %d", value.Line, len(xy))
		}
		p.X, p.Y = xy[0], xy[1]
		return nil
	case yaml.MappingNode:
		var m struct {
			X float64 `yaml:"x"`
			Y float64 `yaml:"y"`
		}
		if err := value.Decode(&m); err != nil {
			return err
		}
		p.X, p.Y = m.X, m.Y
		return nil
	}
	return fmt.Errorf("line %d: point must be [x, y] or {x, y}", value.Line)
}

// Kind names the action of the step.
func (s Step) Kind() string {
	return s.kinds()[0]
}

func (s Step) kinds() []string {
	var k []string
	add := func(set bool, name string) {
		if set {
			k = append(k, name)
		}
	}
	add(s.Tool != "", "tool")
	add(s.Brush != nil, "brush")
	add(s.Down != nil, "down")
	add(s.Move != nil, "move")
	add(s.Up != nil, "up")
	add(s.Leave, "leave")
	add(s.Key != "", "key")
	add(s.Adjust != nil, "adjust")
	add(s.Commit, "commit")
	add(s.Reset, "reset")
	add(s.AutoEnhance, "auto_enhance")
	add(s.Filter != "", "filter")
	add(s.Zoom != "", "zoom")
	add(s.Undo, "undo")
	add(s.Redo, "redo")
	add(s.Prompt != "", "prompt")
	add(s.Remote != nil, "remote")
	add(s.Export != nil, "export")
	if len(k) == 0 {
		return []string{""}
	}
	return k
}

// Parse decodes and validates a script.
func Parse(data []byte) (*Script, error) {
	var sc Script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// LoadFile reads and parses a script file.
func LoadFile(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Parse(data)
}

// Validate checks that every step names exactly one known action.
func (sc *Script) Validate() error {
	for i, st := range sc.Steps {
		if err := st.validate(); err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
	}
	return nil
}

func (s Step) validate() error {
	kinds := s.kinds()
	switch {
	case kinds[0] == "":
		return fmt.Errorf("empty step")
	case len(kinds) > 1:
		return fmt.Errorf("one action per step, got %s", strings.Join(kinds, ", "))
	}

	switch {
	case s.Tool != "":
		_, err := tools.ParseTool(s.Tool)
		return err
	case s.Brush != nil && s.Brush.Color != "":
		_, err := tools.ParseColor(s.Brush.Color)
		return err
	case s.Key != "":
		_, _, err := ParseKey(s.Key)
		return err
	case s.Filter != "":
		_, err := adjust.ParsePreset(s.Filter)
		return err
	case s.Zoom != "":
		_, _, err := ParseZoom(s.Zoom)
		return err
	case s.Remote != nil:
		if s.Remote.Op == "" {
			return fmt.Errorf("remote step needs an op")
		}
		_, err := session.ParseRemoteOp(s.Remote.Op)
		return err
	}
	return nil
}

// ParseKey parses a shortcut such as "ctrl+z" or "b".
func ParseKey(s string) (key string, ctrl bool, err error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	switch len(parts) {
	case 1:
		key = parts[0]
	case 2:
		if parts[0] != "ctrl" {
			return "", false, fmt.Errorf("unknown modifier %q", parts[0])
		}
		key, ctrl = parts[1], true
	default:
		return "", false, fmt.Errorf("invalid key %q", s)
	}
	if len(key) != 1 {
		return "", false, fmt.Errorf("invalid key %q", s)
	}
	return key, ctrl, nil
}

// Zoom actions. A ZoomSet action carries the factor.
const (
	ZoomIn  = "in"
	ZoomOut = "out"
	ZoomFit = "fit"
	ZoomSet = "set"
)

// ParseZoom parses "in", "out", "fit", a factor such as "1.5", or a
// percentage such as "150%".
func ParseZoom(s string) (action string, factor float64, err error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case ZoomIn, ZoomOut, ZoomFit:
		return s, 0, nil
	}
	pct := strings.HasSuffix(s, "%")
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil || v <= 0 {
		return "", 0, fmt.Errorf("invalid zoom %q", s)
	}
	if pct {
		v /= 100
	}
	return ZoomSet, v, nil
}

// Apply merges b into settings.
func (b Brush) Apply(settings tools.BrushSettings) (tools.BrushSettings, error) {
	if b.Size != nil {
		settings.Size = *b.Size
	}
	if b.Opacity != nil {
		settings.Opacity = *b.Opacity
	}
	if b.Hardness != nil {
		settings.Hardness = *b.Hardness
	}
	if b.Color != "" {
		c, err := tools.ParseColor(b.Color)
		if err != nil {
			return settings, err
		}
		settings.Color = c
	}
	return settings.Clamp(), nil
}
