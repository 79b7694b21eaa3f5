// Package picly provides a high-level API for building headless editing jobs.
package picly

import (
	"github.com/user/picly/pkg/adjust"
	"github.com/user/picly/pkg/orchestrator"
	"github.com/user/picly/pkg/ports"
	"github.com/user/picly/pkg/script"
	"github.com/user/picly/pkg/session"
	"github.com/user/picly/pkg/tools"
)

// QualityPreset names a lossy export quality.
type QualityPreset string

const (
	QualityLow    QualityPreset = "low"
	QualityMedium QualityPreset = "medium"
	QualityHigh   QualityPreset = "high"
)

// GetExportQuality returns the JPEG quality for the given preset.
func GetExportQuality(preset QualityPreset) int {
	switch preset {
	case QualityLow:
		return 60
	case QualityHigh:
		return 95
	default: // medium
		return 85
	}
}

// JobBuilder provides a fluent interface for building an orchestrator.Config.
type JobBuilder struct {
	config orchestrator.Config
}

// NewJobBuilder creates a new JobBuilder with default settings.
func NewJobBuilder(input string) *JobBuilder {
	config := orchestrator.DefaultConfig()
	config.InputPath = input
	return &JobBuilder{config: config}
}

// FromConfig starts from an existing configuration, typically one read
// from a config file.
func FromConfig(config orchestrator.Config) *JobBuilder {
	return &JobBuilder{config: config}
}

// Build returns the final Config, applying constraints.
func (b *JobBuilder) Build() orchestrator.Config {
	cfg := b.config

	if cfg.Session.HistoryCapacity < 1 {
		cfg.Session.HistoryCapacity = 1
	}
	if cfg.Sheet.Columns < 1 {
		cfg.Sheet.Columns = 1
	}
	cfg.Adjust = cfg.Adjust.Clamp()
	cfg.Session.Brush = cfg.Session.Brush.Clamp()

	// A lossy format without a quality gets the medium preset.
	if cfg.Session.ExportFormat == ports.FormatJPEG && cfg.Session.ExportQuality <= 0 {
		cfg.Session.ExportQuality = GetExportQuality(QualityMedium)
	}

	cfg.Remote = append([]session.RemoteRequest(nil), cfg.Remote...)
	return cfg
}

// WithInput sets the image to open.
func (b *JobBuilder) WithInput(path string) *JobBuilder {
	b.config.InputPath = path
	return b
}

// WithOutput sets the export path. The format follows the extension.
func (b *JobBuilder) WithOutput(path string) *JobBuilder {
	b.config.OutputPath = path
	b.config.Export = true
	return b
}

// WithoutExport skips writing the edited image.
func (b *JobBuilder) WithoutExport() *JobBuilder {
	b.config.Export = false
	return b
}

// WithExportDir sets the directory for timestamped exports.
func (b *JobBuilder) WithExportDir(dir string) *JobBuilder {
	b.config.Session.ExportDir = dir
	return b
}

// WithFormat sets the export format used for timestamped exports.
func (b *JobBuilder) WithFormat(format ports.ImageFormat) *JobBuilder {
	b.config.Session.ExportFormat = format
	return b
}

// WithQualityPreset applies an export quality preset (low, medium, high).
func (b *JobBuilder) WithQualityPreset(preset QualityPreset) *JobBuilder {
	b.config.Session.ExportQuality = GetExportQuality(preset)
	return b
}

// WithFilter applies a filter preset after loading.
func (b *JobBuilder) WithFilter(preset adjust.Preset) *JobBuilder {
	b.config.Filter = preset
	return b
}

// WithAutoEnhance applies the auto-enhance preset after loading.
func (b *JobBuilder) WithAutoEnhance() *JobBuilder {
	b.config.AutoEnhance = true
	return b
}

// WithAdjustments sets the slider values committed after loading.
func (b *JobBuilder) WithAdjustments(p adjust.Params) *JobBuilder {
	b.config.Adjust = p
	return b
}

// WithScript sets the replay script.
func (b *JobBuilder) WithScript(sc *script.Script) *JobBuilder {
	b.config.Script = sc
	return b
}

// WithRemote appends a remote operation.
func (b *JobBuilder) WithRemote(req session.RemoteRequest) *JobBuilder {
	b.config.Remote = append(b.config.Remote, req)
	return b
}

// WithPreview writes the editor view to path.
func (b *JobBuilder) WithPreview(path string, label bool) *JobBuilder {
	b.config.PreviewPath = path
	b.config.PreviewLabel = label
	return b
}

// WithSheet writes the history sheet to path.
func (b *JobBuilder) WithSheet(path string) *JobBuilder {
	b.config.SheetPath = path
	return b
}

// WithSheetColumns sets the number of history sheet columns (min: 1).
func (b *JobBuilder) WithSheetColumns(columns int) *JobBuilder {
	b.config.Sheet.Columns = columns
	return b
}

// WithHistoryCapacity sets the undo depth (min: 1).
func (b *JobBuilder) WithHistoryCapacity(capacity int) *JobBuilder {
	b.config.Session.HistoryCapacity = capacity
	return b
}

// WithWorkers sets the adjustment worker count.
func (b *JobBuilder) WithWorkers(workers int) *JobBuilder {
	b.config.Session.Workers = workers
	return b
}

// WithBrush sets the initial brush.
func (b *JobBuilder) WithBrush(brush tools.BrushSettings) *JobBuilder {
	b.config.Session.Brush = brush
	return b
}

// WithContainer sets the display area used by fit-to-screen.
func (b *JobBuilder) WithContainer(width, height float64) *JobBuilder {
	b.config.Session.ContainerWidth = width
	b.config.Session.ContainerHeight = height
	return b
}

// WithStrength sets the default strength of prompt-driven edits.
func (b *JobBuilder) WithStrength(strength float64) *JobBuilder {
	b.config.Session.DefaultStrength = strength
	return b
}

// WithUpscaleScale sets the default upscale factor.
func (b *JobBuilder) WithUpscaleScale(scale int) *JobBuilder {
	b.config.Session.UpscaleScale = scale
	return b
}
