// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"image/color"
	"os"
	"runtime"
	"time"

	"github.com/user/picly/pkg/adapters/httpai"
	"github.com/user/picly/pkg/orchestrator"
	"github.com/user/picly/pkg/pipeline"
	"github.com/user/picly/pkg/ports"
	"github.com/user/picly/pkg/session"
	"github.com/user/picly/pkg/tools"
	"github.com/user/picly/pkg/viewport"
	"gopkg.in/yaml.v3"
)

// Config represents the full configuration for picly.
type Config struct {
	// Input/Output
	Input   string `yaml:"input"`
	Output  string `yaml:"output"`
	Script  string `yaml:"script"`
	Preview string `yaml:"preview"`
	Sheet   string `yaml:"sheet"`

	// Editing
	HistoryCapacity int            `yaml:"history_capacity"`
	Brush           BrushConfig    `yaml:"brush"`
	Viewport        ViewportConfig `yaml:"viewport"`
	Workers         int            `yaml:"workers"`

	// Remote service
	Remote RemoteConfig `yaml:"remote"`

	// Export
	ExportDir     string `yaml:"export_dir"`
	ExportFormat  string `yaml:"export_format"`
	ExportQuality int    `yaml:"export_quality"`

	// History sheet
	SheetColumns int         `yaml:"sheet_columns"`
	SheetTheme   ThemeConfig `yaml:"sheet_theme"`

	// Logging and debug
	LogLevel string `yaml:"log_level"`
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`

	// Journal is a SQLite database that records every session's
	// checkpoints. Empty disables it.
	Journal string `yaml:"journal"`
}

// BrushConfig is the initial brush. Opacity is a percentage.
type BrushConfig struct {
	Size     float64 `yaml:"size"`
	Opacity  float64 `yaml:"opacity"`
	Hardness float64 `yaml:"hardness"`
	Color    string  `yaml:"color"`
}

// ViewportConfig bounds the zoom and sizes the fit-to-screen container.
type ViewportConfig struct {
	MinZoom         float64 `yaml:"min_zoom"`
	MaxZoom         float64 `yaml:"max_zoom"`
	ZoomStep        float64 `yaml:"zoom_step"`
	Padding         float64 `yaml:"padding"`
	ContainerWidth  float64 `yaml:"container_width"`
	ContainerHeight float64 `yaml:"container_height"`
}

// RemoteConfig points at the AI image service.
type RemoteConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
	Scale     int           `yaml:"scale"`
	Strength  float64       `yaml:"strength"`
	UserAgent string        `yaml:"user_agent"`
}

// ThemeConfig represents theming options.
type ThemeConfig struct {
	BackgroundColor    string  `yaml:"background_color"`
	BorderColor        string  `yaml:"border_color"`
	CurrentBorderColor string  `yaml:"current_border_color"`
	TextColor          string  `yaml:"text_color"`
	FontSize           float64 `yaml:"font_size"`
	FontPath           string  `yaml:"font_path"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		// Editing
		HistoryCapacity: 50,
		Brush: BrushConfig{
			Size:     50,
			Opacity:  100,
			Hardness: 50,
			Color:    "#000000",
		},
		Viewport: ViewportConfig{
			MinZoom:         viewport.MinZoom,
			MaxZoom:         viewport.MaxZoom,
			ZoomStep:        viewport.ZoomStep,
			Padding:         viewport.DefaultPadding,
			ContainerWidth:  1280,
			ContainerHeight: 800,
		},
		Workers: runtime.NumCPU(),

		// Remote service
		Remote: RemoteConfig{
			BaseURL:  "http://localhost:5000",
			Timeout:  120 * time.Second,
			Scale:    4,
			Strength: 0.75,
		},

		// Export
		ExportDir:    ".",
		ExportFormat: "png",

		// History sheet
		SheetColumns: 4,
		SheetTheme: ThemeConfig{
			BackgroundColor:    "#f5f5f7",
			BorderColor:        "#dddddd",
			CurrentBorderColor: "#667eea",
			TextColor:          "#333333",
			FontSize:           13,
		},

		// Logging and debug
		LogLevel: "info",
		DebugDir: "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// ParseColor parses a "#rrggbb" colour.
func ParseColor(hex string) (color.RGBA, error) {
	return tools.ParseColor(hex)
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	if c.HistoryCapacity < 1 {
		return fmt.Errorf("history_capacity must be at least 1, got %d", c.HistoryCapacity)
	}
	if c.Viewport.MinZoom <= 0 || c.Viewport.MaxZoom < c.Viewport.MinZoom {
		return fmt.Errorf("viewport zoom range %v..%v is invalid", c.Viewport.MinZoom, c.Viewport.MaxZoom)
	}
	if c.Viewport.ContainerWidth <= 0 || c.Viewport.ContainerHeight <= 0 {
		return fmt.Errorf("viewport container must be positive")
	}
	if c.Brush.Opacity < 0 || c.Brush.Opacity > 100 {
		return fmt.Errorf("brush opacity must be 0..100, got %v", c.Brush.Opacity)
	}
	if _, err := ParseColor(c.Brush.Color); err != nil {
		return fmt.Errorf("brush color: %w", err)
	}
	if _, err := ports.ParseImageFormat(c.ExportFormat); err != nil {
		return fmt.Errorf("export_format: %w", err)
	}
	if c.Remote.Strength < 0 || c.Remote.Strength > 1 {
		return fmt.Errorf("remote strength must be 0..1, got %v", c.Remote.Strength)
	}
	return nil
}

// ToSessionOptions converts Config to session.Options.
func (c Config) ToSessionOptions() (session.Options, error) {
	opts := session.DefaultOptions()

	brushColor, err := ParseColor(c.Brush.Color)
	if err != nil {
		return opts, fmt.Errorf("brush color: %w", err)
	}
	format, err := ports.ParseImageFormat(c.ExportFormat)
	if err != nil {
		return opts, fmt.Errorf("export format: %w", err)
	}

	opts.HistoryCapacity = c.HistoryCapacity
	opts.Brush = tools.BrushSettings{
		Size:     c.Brush.Size,
		Opacity:  c.Brush.Opacity / 100,
		Hardness: c.Brush.Hardness,
		Color:    brushColor,
	}.Clamp()
	opts.Viewport = viewport.Limits{
		Min:     c.Viewport.MinZoom,
		Max:     c.Viewport.MaxZoom,
		Step:    c.Viewport.ZoomStep,
		Padding: c.Viewport.Padding,
	}
	opts.ContainerWidth = c.Viewport.ContainerWidth
	opts.ContainerHeight = c.Viewport.ContainerHeight
	opts.Workers = c.Workers
	opts.UpscaleScale = c.Remote.Scale
	opts.DefaultStrength = c.Remote.Strength
	opts.ExportDir = c.ExportDir
	opts.ExportFormat = format
	opts.ExportQuality = c.ExportQuality
	return opts, nil
}

// ToSheetTheme converts the theme colours.
func (c Config) ToSheetTheme() (pipeline.SheetTheme, error) {
	theme := pipeline.DefaultSheetTheme()
	colors := []struct {
		value string
		dst   *color.Color
	}{
		{c.SheetTheme.BackgroundColor, &theme.Background},
		{c.SheetTheme.BorderColor, &theme.CellBorder},
		{c.SheetTheme.CurrentBorderColor, &theme.CurrentBorder},
		{c.SheetTheme.TextColor, &theme.Text},
	}
	for _, entry := range colors {
		if entry.value == "" {
			continue
		}
		rgba, err := ParseColor(entry.value)
		if err != nil {
			return theme, fmt.Errorf("sheet theme: %w", err)
		}
		*entry.dst = rgba
	}
	if c.SheetTheme.FontSize > 0 {
		theme.FontSize = c.SheetTheme.FontSize
	}
	theme.FontPath = c.SheetTheme.FontPath
	return theme, nil
}

// ToOrchestratorConfig converts Config to orchestrator.Config. The script
// path is not read here; callers parse it and set Script.
func (c Config) ToOrchestratorConfig() (orchestrator.Config, error) {
	oc := orchestrator.DefaultConfig()

	opts, err := c.ToSessionOptions()
	if err != nil {
		return oc, err
	}
	theme, err := c.ToSheetTheme()
	if err != nil {
		return oc, err
	}

	oc.InputPath = c.Input
	oc.OutputPath = c.Output
	oc.PreviewPath = c.Preview
	oc.SheetPath = c.Sheet
	oc.SheetTheme = theme
	if c.SheetColumns > 0 {
		oc.Sheet.Columns = c.SheetColumns
	}
	oc.Session = opts
	return oc, nil
}

// ToHTTPAIOptions converts the remote settings for the HTTP client.
func (c Config) ToHTTPAIOptions() httpai.Options {
	return httpai.Options{
		BaseURL:   c.Remote.BaseURL,
		Timeout:   c.Remote.Timeout,
		UserAgent: c.Remote.UserAgent,
	}
}
