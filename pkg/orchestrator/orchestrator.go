// Package orchestrator runs a headless editing job: load an image, apply
// the requested edits, replay a script, call the remote service, export the
// result and render the history sheet.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"path/filepath"

	"github.com/ideamans/go-l10n"
	"github.com/user/picly/pkg/adjust"
	"github.com/user/picly/pkg/pipeline"
	"github.com/user/picly/pkg/ports"
	"github.com/user/picly/pkg/script"
	"github.com/user/picly/pkg/session"
	"github.com/user/picly/pkg/stages/replay"
)

// Config describes one job.
type Config struct {
	// Input
	InputPath string
	Script    *script.Script

	// One-shot edits applied before the script, in this order.
	Filter      adjust.Preset
	AutoEnhance bool
	Adjust      adjust.Params

	// Remote operations run after the script.
	Remote []session.RemoteRequest

	// Export writes the final image. An empty OutputPath uses the session's
	// export directory and a timestamped name.
	Export     bool
	OutputPath string

	// Preview writes the zoomed editor view.
	PreviewPath  string
	PreviewLabel bool

	// History sheet
	SheetPath  string
	Sheet      pipeline.SheetLayoutInput
	SheetTheme pipeline.SheetTheme

	Session session.Options
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Export:       true,
		PreviewLabel: true,
		Sheet:        pipeline.DefaultSheetLayoutInput(),
		SheetTheme:   pipeline.DefaultSheetTheme(),
		Session:      session.DefaultOptions(),
	}
}

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	loadStage      pipeline.Stage[pipeline.LoadInput, pipeline.LoadResult]
	replayStage    pipeline.Stage[replay.Input, replay.Result]
	exportStage    pipeline.Stage[pipeline.ExportInput, pipeline.ExportResult]
	previewStage   pipeline.Stage[pipeline.PreviewInput, pipeline.PreviewResult]
	layoutStage    pipeline.Stage[pipeline.SheetLayoutInput, pipeline.SheetLayout]
	compositeStage pipeline.Stage[pipeline.SheetInput, pipeline.SheetResult]
	renderer       ports.Renderer
	ai             ports.AIService
	fs             ports.FileSystem
	sink           ports.DebugSink
	logger         ports.Logger
}

// New creates a new Orchestrator. ai may be nil when no remote operation
// will be requested.
func New(
	loadStage pipeline.Stage[pipeline.LoadInput, pipeline.LoadResult],
	replayStage pipeline.Stage[replay.Input, replay.Result],
	exportStage pipeline.Stage[pipeline.ExportInput, pipeline.ExportResult],
	previewStage pipeline.Stage[pipeline.PreviewInput, pipeline.PreviewResult],
	layoutStage pipeline.Stage[pipeline.SheetLayoutInput, pipeline.SheetLayout],
	compositeStage pipeline.Stage[pipeline.SheetInput, pipeline.SheetResult],
	renderer ports.Renderer,
	ai ports.AIService,
	fs ports.FileSystem,
	sink ports.DebugSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		loadStage:      loadStage,
		replayStage:    replayStage,
		exportStage:    exportStage,
		previewStage:   previewStage,
		layoutStage:    layoutStage,
		compositeStage: compositeStage,
		renderer:       renderer,
		ai:             ai,
		fs:             fs,
		sink:           sink,
		logger:         logger,
	}
}

// Checkpoint is one history entry without its snapshot.
type Checkpoint struct {
	Seq   int
	Label string
}

// RunResult contains the results of a run for summary generation.
type RunResult struct {
	Input   pipeline.LoadResult
	Stats   session.Stats
	History []Checkpoint
	Replay  *replay.Result
	Remote  []session.RemoteOutcome
	Export  *pipeline.ExportResult

	PreviewPath  string
	SheetPath    string
	SheetEntries int
}

// Run executes the job.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	o.logger.Info(l10n.T("Starting session"))
	result := RunResult{}

	// 1. Load image
	o.logger.Info(l10n.F("Loading %s", config.InputPath))
	loaded, err := o.loadStage.Execute(ctx, pipeline.LoadInput{Path: config.InputPath})
	if err != nil {
		o.logger.Error(l10n.F("Failed to load image: %s", err))
		return result, fmt.Errorf("load stage: %w", err)
	}
	result.Input = loaded
	o.logger.Info(l10n.F("Image loaded: %dx%d %s", loaded.Width, loaded.Height, loaded.Format))

	sess := session.New(config.Session, session.Dependencies{
		Logger:   o.logger,
		Renderer: o.renderer,
		AI:       o.ai,
		Exporter: o.exportStage,
		Sink:     o.sink,
		OnBusy: func(busy bool, label string) {
			if busy {
				o.logger.Info(l10n.T(label))
			}
		},
	})
	info := session.ImageInfo{
		Name:     filepath.Base(loaded.Path),
		Format:   loaded.Format,
		FileSize: loaded.FileSize,
	}
	if err := sess.Load(loaded.Image, info); err != nil {
		return result, fmt.Errorf("load image: %w", err)
	}

	// 2. One-shot edits
	if err := o.applyEdits(sess, config); err != nil {
		o.logger.Error(l10n.F("Failed to apply edits: %s", err))
		return result, err
	}

	// 3. Replay script
	if config.Script != nil {
		o.logger.Info(l10n.F("Replaying %d steps", len(config.Script.Steps)))
		rep, err := o.replayStage.Execute(ctx, replay.Input{Session: sess, Script: config.Script})
		result.Replay = &rep
		if err != nil {
			o.logger.Error(l10n.F("Replay stopped: %s", err))
			return result, fmt.Errorf("replay stage: %w", err)
		}
		if len(rep.Errors) > 0 {
			o.logger.Warn(l10n.F("Replay finished with %d failed steps", len(rep.Errors)))
		} else {
			o.logger.Info(l10n.T("Replay completed"))
		}
	}

	// 4. Remote operations
	for _, req := range config.Remote {
		out, err := sess.RunRemote(ctx, req)
		if err != nil {
			o.logger.Error(l10n.F("Remote operation failed: %s", err))
			return result, fmt.Errorf("remote %s: %w", req.Op, err)
		}
		result.Remote = append(result.Remote, out)
		o.logger.Info(l10n.F("Remote result applied: %dx%d", out.Width, out.Height))
	}

	// 5. Export
	if config.Export {
		exported, err := sess.ExportTo(ctx, config.OutputPath)
		if err != nil {
			o.logger.Error(l10n.F("Failed to export image: %s", err))
			return result, err
		}
		result.Export = &exported
		o.logger.Info(l10n.F("Image exported: %s (%d bytes)", exported.Path, exported.Size))
	}

	// 6. Preview
	if config.PreviewPath != "" {
		if err := o.writePreview(ctx, sess, config); err != nil {
			o.logger.Error(l10n.F("Failed to render preview: %s", err))
			return result, err
		}
		result.PreviewPath = config.PreviewPath
		o.logger.Info(l10n.F("Preview written: %s", config.PreviewPath))
	}

	// 7. History sheet
	if config.SheetPath != "" {
		n, err := o.writeSheet(ctx, sess, config)
		if err != nil {
			o.logger.Error(l10n.F("Failed to render history sheet: %s", err))
			return result, err
		}
		result.SheetPath = config.SheetPath
		result.SheetEntries = n
		o.logger.Info(l10n.F("History sheet written: %s (%d checkpoints)", config.SheetPath, n))
	}

	result.Stats = sess.Stats()
	for _, h := range sess.History() {
		result.History = append(result.History, Checkpoint{Seq: h.Seq, Label: h.Label})
	}

	if o.sink.Enabled() {
		if data, err := json.MarshalIndent(result.Stats, "", "  "); err == nil {
			if err := o.sink.SaveSessionJSON(data); err != nil {
				o.logger.Warn("save session json: %v", err)
			}
		}
		if ov := sess.Overlay(); ov != nil {
			if err := o.sink.SaveOverlay(ov.Image()); err != nil {
				o.logger.Warn("save overlay: %v", err)
			}
		}
	}

	o.logger.Info(l10n.T("Session completed successfully"))
	return result, nil
}

func (o *Orchestrator) applyEdits(sess *session.Session, config Config) error {
	if config.Filter != "" {
		if err := sess.ApplyFilter(config.Filter); err != nil {
			return fmt.Errorf("filter: %w", err)
		}
	}
	if config.AutoEnhance {
		if err := sess.AutoEnhance(); err != nil {
			return fmt.Errorf("auto enhance: %w", err)
		}
	}
	if !config.Adjust.IsNeutral() {
		if err := sess.SetAdjustments(config.Adjust); err != nil {
			return fmt.Errorf("adjust: %w", err)
		}
		if _, err := sess.CommitAdjustments(); err != nil {
			return fmt.Errorf("adjust: %w", err)
		}
	}
	return nil
}

func (o *Orchestrator) writePreview(ctx context.Context, sess *session.Session, config Config) error {
	buf := sess.Buffer()
	if buf == nil {
		return fmt.Errorf("preview: no image")
	}
	input := pipeline.PreviewInput{
		Document:  buf.Image(),
		Zoom:      sess.Zoom(),
		ShowLabel: config.PreviewLabel,
	}
	if ov := sess.Overlay(); ov != nil {
		input.Overlay = ov.Image()
	}

	preview, err := o.previewStage.Execute(ctx, input)
	if err != nil {
		return fmt.Errorf("preview stage: %w", err)
	}
	return o.writePNG(config.PreviewPath, preview.Image)
}

func (o *Orchestrator) writeSheet(ctx context.Context, sess *session.Session, config Config) (int, error) {
	history := sess.History()
	stats := sess.Stats()

	layoutInput := config.Sheet
	layoutInput.Count = len(history)
	layout, err := o.layoutStage.Execute(ctx, layoutInput)
	if err != nil {
		return 0, fmt.Errorf("layout stage: %w", err)
	}

	entries := make([]pipeline.SheetEntry, len(history))
	for i, h := range history {
		entries[i] = pipeline.SheetEntry{Seq: h.Seq, Label: h.Label, Image: h.Snapshot.Image()}
	}

	sheet, err := o.compositeStage.Execute(ctx, pipeline.SheetInput{
		Entries: entries,
		Layout:  layout,
		Theme:   config.SheetTheme,
		Current: stats.Cursor,
	})
	if err != nil {
		return 0, fmt.Errorf("composite stage: %w", err)
	}
	if err := o.writePNG(config.SheetPath, sheet.Image); err != nil {
		return 0, err
	}
	return len(entries), nil
}

func (o *Orchestrator) writePNG(path string, img image.Image) error {
	data, err := o.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := o.fs.WriteFile(path, data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
