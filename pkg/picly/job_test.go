package picly

import (
	"testing"

	"github.com/user/picly/pkg/adjust"
	"github.com/user/picly/pkg/orchestrator"
	"github.com/user/picly/pkg/ports"
	"github.com/user/picly/pkg/session"
)

func TestNewJobBuilder_Defaults(t *testing.T) {
	cfg := NewJobBuilder("in.png").Build()

	if cfg.InputPath != "in.png" {
		t.Errorf("expected input in.png, got %q", cfg.InputPath)
	}
	if !cfg.Export {
		t.Error("expected export enabled by default")
	}
	if cfg.Session.HistoryCapacity != 50 {
		t.Errorf("expected history capacity 50, got %d", cfg.Session.HistoryCapacity)
	}
	if cfg.Sheet.Columns != 4 {
		t.Errorf("expected 4 sheet columns, got %d", cfg.Sheet.Columns)
	}
}

func TestJobBuilder_Chaining(t *testing.T) {
	cfg := NewJobBuilder("in.png").
		WithOutput("out.png").
		WithFilter(adjust.PresetSepia).
		WithAutoEnhance().
		WithAdjustments(adjust.Params{Brightness: 20}).
		WithRemote(session.RemoteRequest{Op: session.OpUpscale}).
		WithRemote(session.RemoteRequest{Op: session.OpColorize}).
		WithSheet("sheet.png").
		WithPreview("view.png", false).
		Build()

	if cfg.OutputPath != "out.png" || cfg.Filter != adjust.PresetSepia || !cfg.AutoEnhance {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.Adjust.Brightness != 20 {
		t.Errorf("expected brightness 20, got %v", cfg.Adjust.Brightness)
	}
	if len(cfg.Remote) != 2 || cfg.Remote[1].Op != session.OpColorize {
		t.Errorf("unexpected remote ops: %+v", cfg.Remote)
	}
	if cfg.SheetPath != "sheet.png" || cfg.PreviewPath != "view.png" || cfg.PreviewLabel {
		t.Errorf("unexpected output paths: %+v", cfg)
	}
}

func TestJobBuilder_Constraints(t *testing.T) {
	cfg := NewJobBuilder("in.png").
		WithHistoryCapacity(0).
		WithSheetColumns(-2).
		WithAdjustments(adjust.Params{Contrast: 500, Sharpness: -3}).
		Build()

	if cfg.Session.HistoryCapacity != 1 {
		t.Errorf("expected history capacity clamped to 1, got %d", cfg.Session.HistoryCapacity)
	}
	if cfg.Sheet.Columns != 1 {
		t.Errorf("expected columns clamped to 1, got %d", cfg.Sheet.Columns)
	}
	if cfg.Adjust.Contrast != 100 || cfg.Adjust.Sharpness != 0 {
		t.Errorf("expected clamped adjustments, got %+v", cfg.Adjust)
	}
}

func TestJobBuilder_JPEGQuality(t *testing.T) {
	cfg := NewJobBuilder("in.png").WithFormat(ports.FormatJPEG).Build()
	if cfg.Session.ExportQuality != 85 {
		t.Errorf("expected medium quality 85, got %d", cfg.Session.ExportQuality)
	}

	cfg = NewJobBuilder("in.png").WithFormat(ports.FormatJPEG).WithQualityPreset(QualityHigh).Build()
	if cfg.Session.ExportQuality != 95 {
		t.Errorf("expected high quality 95, got %d", cfg.Session.ExportQuality)
	}
}

func TestJobBuilder_WithoutExport(t *testing.T) {
	cfg := NewJobBuilder("in.png").WithoutExport().Build()
	if cfg.Export {
		t.Error("expected export disabled")
	}
}

func TestFromConfig(t *testing.T) {
	base := orchestrator.DefaultConfig()
	base.InputPath = "from-file.png"
	base.Session.HistoryCapacity = 10

	cfg := FromConfig(base).WithInput("override.png").Build()

	if cfg.InputPath != "override.png" || cfg.Session.HistoryCapacity != 10 {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestGetExportQuality(t *testing.T) {
	tests := []struct {
		preset QualityPreset
		want   int
	}{
		{QualityLow, 60},
		{QualityMedium, 85},
		{QualityHigh, 95},
		{"unknown", 85},
	}
	for _, tt := range tests {
		if got := GetExportQuality(tt.preset); got != tt.want {
			t.Errorf("GetExportQuality(%q) = %d, want %d", tt.preset, got, tt.want)
		}
	}
}
