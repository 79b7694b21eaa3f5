package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/user/picly/pkg/ports"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.HistoryCapacity != 50 {
		t.Errorf("expected history capacity 50, got %d", cfg.HistoryCapacity)
	}
	if cfg.Brush.Size != 50 || cfg.Brush.Opacity != 100 || cfg.Brush.Color != "#000000" {
		t.Errorf("unexpected brush defaults: %+v", cfg.Brush)
	}
	if cfg.Viewport.MinZoom != 0.1 || cfg.Viewport.MaxZoom != 5.0 || cfg.Viewport.Padding != 40 {
		t.Errorf("unexpected viewport defaults: %+v", cfg.Viewport)
	}
	if cfg.Remote.BaseURL != "http://localhost:5000" || cfg.Remote.Timeout != 120*time.Second {
		t.Errorf("unexpected remote defaults: %+v", cfg.Remote)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "picly.yaml")
	content := `
input: photo.jpg
history_capacity: 20
brush:
  size: 12
  opacity: 40
  color: "#ff8000"
remote:
  base_url: http://ai.internal:8080
  timeout: 30s
export_format: jpg
journal: ./history/picly.db
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Input != "photo.jpg" || cfg.HistoryCapacity != 20 {
		t.Errorf("unexpected values: %+v", cfg)
	}
	if cfg.Journal != "./history/picly.db" {
		t.Errorf("unexpected journal path %q", cfg.Journal)
	}
	if cfg.Remote.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.Remote.Timeout)
	}
	// Unset keys keep their defaults.
	if cfg.Brush.Hardness != 50 || cfg.Viewport.ContainerWidth != 1280 {
		t.Errorf("expected defaults for unset keys, got %+v", cfg)
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero history", func(c *Config) { c.HistoryCapacity = 0 }},
		{"inverted zoom", func(c *Config) { c.Viewport.MinZoom, c.Viewport.MaxZoom = 3, 2 }},
		{"opacity over 100", func(c *Config) { c.Brush.Opacity = 150 }},
		{"bad color", func(c *Config) { c.Brush.Color = "red" }},
		{"bad format", func(c *Config) { c.ExportFormat = "psd" }},
		{"strength over 1", func(c *Config) { c.Remote.Strength = 2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestToSessionOptions(t *testing.T) {
	cfg := Defaults()
	cfg.Brush.Opacity = 40
	cfg.Brush.Color = "#ff8000"
	cfg.ExportFormat = "jpg"
	cfg.ExportQuality = 85

	opts, err := cfg.ToSessionOptions()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if opts.Brush.Opacity != 0.4 {
		t.Errorf("expected opacity 0.4, got %v", opts.Brush.Opacity)
	}
	if opts.Brush.Color != (color.RGBA{R: 0xff, G: 0x80, A: 0xff}) {
		t.Errorf("unexpected brush color: %v", opts.Brush.Color)
	}
	if opts.ExportFormat != ports.FormatJPEG || opts.ExportQuality != 85 {
		t.Errorf("unexpected export settings: %v %d", opts.ExportFormat, opts.ExportQuality)
	}
	if opts.UpscaleScale != 4 || opts.DefaultStrength != 0.75 {
		t.Errorf("unexpected remote defaults: %d %v", opts.UpscaleScale, opts.DefaultStrength)
	}
	if opts.Viewport.Max != 5.0 || opts.ContainerHeight != 800 {
		t.Errorf("unexpected viewport: %+v", opts.Viewport)
	}
}

func TestToOrchestratorConfig(t *testing.T) {
	cfg := Defaults()
	cfg.Input = "in.png"
	cfg.Output = "out.png"
	cfg.Sheet = "sheet.png"
	cfg.SheetColumns = 3
	cfg.SheetTheme.BackgroundColor = "#000000"

	oc, err := cfg.ToOrchestratorConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if oc.InputPath != "in.png" || oc.OutputPath != "out.png" || oc.SheetPath != "sheet.png" {
		t.Errorf("unexpected paths: %+v", oc)
	}
	if oc.Sheet.Columns != 3 {
		t.Errorf("expected 3 columns, got %d", oc.Sheet.Columns)
	}
	if oc.SheetTheme.Background != (color.RGBA{A: 0xff}) {
		t.Errorf("unexpected background: %v", oc.SheetTheme.Background)
	}
	if !oc.Export {
		t.Error("expected export enabled")
	}
}

func TestToOrchestratorConfig_BadThemeColor(t *testing.T) {
	cfg := Defaults()
	cfg.SheetTheme.TextColor = "#12"

	if _, err := cfg.ToOrchestratorConfig(); err == nil {
		t.Error("expected error for bad theme color")
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#1a1a2e")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != (color.RGBA{R: 0x1a, G: 0x1a, B: 0x2e, A: 0xff}) {
		t.Errorf("unexpected color: %v", c)
	}
}
