// Package main provides the CLI entry point for picly.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/picly/pkg/adapters/filesink"
	"github.com/user/picly/pkg/adapters/ggrenderer"
	"github.com/user/picly/pkg/adapters/httpai"
	"github.com/user/picly/pkg/adapters/logger"
	"github.com/user/picly/pkg/adapters/multisink"
	"github.com/user/picly/pkg/adapters/nullsink"
	"github.com/user/picly/pkg/adapters/osfilesystem"
	"github.com/user/picly/pkg/adapters/sqlitejournal"
	"github.com/user/picly/pkg/adjust"
	"github.com/user/picly/pkg/config"
	"github.com/user/picly/pkg/orchestrator"
	"github.com/user/picly/pkg/picly"
	"github.com/user/picly/pkg/pipeline"
	"github.com/user/picly/pkg/ports"
	"github.com/user/picly/pkg/script"
	"github.com/user/picly/pkg/session"
	"github.com/user/picly/pkg/stages/composite"
	"github.com/user/picly/pkg/stages/export"
	"github.com/user/picly/pkg/stages/layout"
	"github.com/user/picly/pkg/stages/load"
	"github.com/user/picly/pkg/stages/preview"
	"github.com/user/picly/pkg/stages/replay"
	"github.com/user/picly/pkg/summarizer"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, l10n.F("Error: %s", err))
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "picly",
		Usage:   l10n.T("Edit raster images with adjustments, filters, brush scripts and AI operations"),
		Version: version,
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			editCmd(),
			remoteCmd(),
			previewCmd(),
			journalCmd(),
			versionCmd(),
		},
	}
}

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: l10n.T("YAML configuration file"), Category: l10n.T("Configuration")},
		&cli.IntFlag{Name: "history-capacity", Usage: l10n.T("Maximum number of undo checkpoints"), Category: l10n.T("Configuration")},
		&cli.IntFlag{Name: "workers", Usage: l10n.T("Adjustment worker count (default: number of CPUs)"), Category: l10n.T("Configuration")},
		&cli.StringFlag{Name: "summary", Usage: l10n.T("Write a session summary (.md or .html)"), Category: l10n.T("Output")},
		&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: l10n.T("Save every checkpoint to the debug directory"), Category: l10n.T("Debug")},
		&cli.StringFlag{Name: "debug-dir", Usage: l10n.T("Directory for debug output"), Category: l10n.T("Debug")},
		&cli.StringFlag{Name: "journal", Aliases: []string{"j"}, Usage: l10n.T("Record checkpoints into a SQLite journal"), Category: l10n.T("Debug")},
		&cli.StringFlag{Name: "log-level", Aliases: []string{"l"}, Value: "info", Usage: l10n.T("Log level (debug, info, warn, error)"), Category: l10n.T("Logging")},
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"Q"}, Usage: l10n.T("Suppress all log output"), Category: l10n.T("Logging")},
	}
}

func exportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: l10n.T("Output image path (default: edited-<timestamp>.png in the export directory)"), Category: l10n.T("Output")},
		&cli.StringFlag{Name: "export-dir", Usage: l10n.T("Directory for timestamped exports"), Category: l10n.T("Output")},
		&cli.StringFlag{Name: "format", Usage: l10n.T("Export format (png, jpeg, gif, bmp, tiff)"), Category: l10n.T("Output")},
		&cli.StringFlag{Name: "quality", Aliases: []string{"q"}, Usage: l10n.T("JPEG quality preset (low, medium, high)"), Category: l10n.T("Output")},
		&cli.StringFlag{Name: "sheet", Usage: l10n.T("Write a contact sheet of the history checkpoints"), Category: l10n.T("Output")},
		&cli.IntFlag{Name: "sheet-columns", Usage: l10n.T("History sheet columns (min: 1)"), Category: l10n.T("Output")},
	}
}

func remoteFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "base-url", Usage: l10n.T("AI service base URL"), Category: l10n.T("AI Service")},
		&cli.DurationFlag{Name: "timeout", Usage: l10n.T("AI request timeout"), Category: l10n.T("AI Service")},
		&cli.StringFlag{Name: "prompt", Aliases: []string{"p"}, Usage: l10n.T("Prompt for edit and style transfer"), Category: l10n.T("AI Service")},
		&cli.Float64Flag{Name: "strength", Usage: l10n.T("Edit strength (0-1)"), Category: l10n.T("AI Service")},
		&cli.IntFlag{Name: "scale", Usage: l10n.T("Upscale factor"), Category: l10n.T("AI Service")},
	}
}

func editCmd() *cli.Command {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "script", Aliases: []string{"s"}, Usage: l10n.T("Replay script (YAML)"), Category: l10n.T("Editing")},
		&cli.StringFlag{Name: "filter", Aliases: []string{"f"}, Usage: l10n.T("Filter preset (bw, sepia, vivid)"), Category: l10n.T("Editing")},
		&cli.BoolFlag{Name: "auto-enhance", Usage: l10n.T("Apply the auto-enhance preset"), Category: l10n.T("Editing")},
		&cli.Float64Flag{Name: "brightness", Usage: l10n.T("Brightness (-100 to 100)"), Category: l10n.T("Editing")},
		&cli.Float64Flag{Name: "contrast", Usage: l10n.T("Contrast (-100 to 100)"), Category: l10n.T("Editing")},
		&cli.Float64Flag{Name: "saturation", Usage: l10n.T("Saturation (-100 to 100)"), Category: l10n.T("Editing")},
		&cli.Float64Flag{Name: "sharpness", Usage: l10n.T("Sharpness (0 to 100)"), Category: l10n.T("Editing")},
		&cli.StringSliceFlag{Name: "remote", Aliases: []string{"r"}, Usage: l10n.T("AI operation to run after editing (repeatable)"), Category: l10n.T("AI Service")},
	}
	flags = append(flags, exportFlags()...)
	flags = append(flags, remoteFlags()...)

	return &cli.Command{
		Name:        "edit",
		Usage:       l10n.T("Apply edits to an image and export the result"),
		Description: l10n.T("Load an image, apply filters, adjustments and a replay script, then export the result."),
		ArgsUsage:   "<input>",
		Flags:       flags,
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New(l10n.T("edit needs exactly one input image"))
			}
			return runJob(c, func(b *picly.JobBuilder) error {
				b.WithInput(c.Args().First())

				if name := c.String("filter"); name != "" {
					preset, err := adjust.ParsePreset(name)
					if err != nil {
						return err
					}
					b.WithFilter(preset)
				}
				if c.Bool("auto-enhance") {
					b.WithAutoEnhance()
				}
				b.WithAdjustments(adjust.Params{
					Brightness: c.Float64("brightness"),
					Contrast:   c.Float64("contrast"),
					Saturation: c.Float64("saturation"),
					Sharpness:  c.Float64("sharpness"),
				})
				if path := c.String("script"); path != "" {
					sc, err := script.LoadFile(path)
					if err != nil {
						return err
					}
					b.WithScript(sc)
				}
				for _, name := range c.StringSlice("remote") {
					req, err := remoteRequest(c, name)
					if err != nil {
						return err
					}
					b.WithRemote(req)
				}
				return applyExportFlags(c, b)
			})
		},
	}
}

func remoteCmd() *cli.Command {
	flags := append(exportFlags(), remoteFlags()...)

	return &cli.Command{
		Name:        "remote",
		Usage:       l10n.T("Run an AI operation on an image"),
		Description: l10n.T("Send an image to the AI service and export the returned image."),
		ArgsUsage:   "<operation> <input>",
		Flags:       flags,
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return errors.New(l10n.T("remote needs an operation and an input image"))
			}
			return runJob(c, func(b *picly.JobBuilder) error {
				req, err := remoteRequest(c, c.Args().Get(0))
				if err != nil {
					return err
				}
				b.WithInput(c.Args().Get(1)).WithRemote(req)
				return applyExportFlags(c, b)
			})
		},
	}
}

func previewCmd() *cli.Command {
	return &cli.Command{
		Name:        "preview",
		Usage:       l10n.T("Render the editor view of an image"),
		Description: l10n.T("Render the image as the editor shows it: fitted to the container, over a checkerboard, with the zoom label."),
		ArgsUsage:   "<input>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: l10n.T("Output PNG path (required)"), Category: l10n.T("Output")},
			&cli.StringFlag{Name: "script", Aliases: []string{"s"}, Usage: l10n.T("Replay script (YAML)"), Category: l10n.T("Editing")},
			&cli.StringFlag{Name: "zoom", Aliases: []string{"z"}, Usage: l10n.T("Zoom (in, out, fit, a factor or a percentage)"), Category: l10n.T("Editing")},
			&cli.BoolFlag{Name: "no-label", Usage: l10n.T("Hide the zoom label"), Category: l10n.T("Output")},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New(l10n.T("preview needs exactly one input image"))
			}
			return runJob(c, func(b *picly.JobBuilder) error {
				sc := &script.Script{}
				if path := c.String("script"); path != "" {
					loaded, err := script.LoadFile(path)
					if err != nil {
						return err
					}
					sc = loaded
				}
				if zoom := c.String("zoom"); zoom != "" {
					sc.Steps = append(sc.Steps, script.Step{Zoom: zoom})
				}
				if err := sc.Validate(); err != nil {
					return err
				}
				if len(sc.Steps) > 0 {
					b.WithScript(sc)
				}
				b.WithInput(c.Args().First()).
					WithoutExport().
					WithPreview(c.String("output"), !c.Bool("no-label"))
				return nil
			})
		},
	}
}

func journalCmd() *cli.Command {
	return &cli.Command{
		Name:        "journal",
		Usage:       l10n.T("Inspect a SQLite journal"),
		Description: l10n.T("List recorded sessions, the checkpoints of one session, or extract a checkpoint image."),
		ArgsUsage:   "<database>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "session", Aliases: []string{"s"}, Usage: l10n.T("Session ID to inspect"), Category: l10n.T("Journal")},
			&cli.IntFlag{Name: "extract", Aliases: []string{"x"}, Usage: l10n.T("Checkpoint number to extract"), Category: l10n.T("Journal")},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: l10n.T("Output PNG path for --extract"), Category: l10n.T("Journal")},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New(l10n.T("journal needs exactly one database path"))
			}
			j, err := sqlitejournal.OpenReadOnly(c.Args().First())
			if err != nil {
				return err
			}
			defer j.Close()
			return inspectJournal(c, j)
		},
	}
}

func inspectJournal(c *cli.Context, j *sqlitejournal.Journal) error {
	ctx := c.Context
	out := c.App.Writer
	id := c.String("session")

	if id == "" {
		sessions, err := j.Sessions(ctx)
		if err != nil {
			return err
		}
		for _, s := range sessions {
			fmt.Fprintf(out, "%s  %s  %s\n", s.ID, s.StartedAt.Format(time.RFC3339), l10n.F("%d checkpoints", s.Checkpoints))
		}
		return nil
	}

	if c.IsSet("extract") {
		seq := c.Int("extract")
		data, err := j.CheckpointPNG(ctx, id, seq)
		if err != nil {
			return err
		}
		path := c.String("output")
		if path == "" {
			path = fmt.Sprintf("checkpoint-%04d.png", seq)
		}
		if err := osfilesystem.New().WriteFile(path, data); err != nil {
			return fmt.Errorf("write checkpoint: %w", err)
		}
		fmt.Fprintln(out, l10n.F("Checkpoint %d written to %s", seq, path))
		return nil
	}

	checkpoints, err := j.Checkpoints(ctx, id)
	if err != nil {
		return err
	}
	for _, cp := range checkpoints {
		fmt.Fprintf(out, "%4d  %-24s  %4dx%-4d  %s\n", cp.Seq, cp.Label, cp.Width, cp.Height, summarizer.FormatFileSize(int64(cp.Size)))
	}
	return nil
}

func versionCmd() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: l10n.T("Show version information"),
		Action: func(c *cli.Context) error {
			fmt.Println(l10n.F("picly version %s", version))
			return nil
		},
	}
}

// loadConfig reads the config file, if any, and applies global flag
// overrides.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.String("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	if c.IsSet("history-capacity") {
		cfg.HistoryCapacity = c.Int("history-capacity")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("debug") {
		cfg.Debug = c.Bool("debug")
	}
	if c.IsSet("debug-dir") {
		cfg.DebugDir = c.String("debug-dir")
	}
	if c.IsSet("journal") {
		cfg.Journal = c.String("journal")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("base-url") {
		cfg.Remote.BaseURL = c.String("base-url")
	}
	if c.IsSet("timeout") {
		cfg.Remote.Timeout = c.Duration("timeout")
	}
	if c.IsSet("format") {
		cfg.ExportFormat = c.String("format")
	}
	if c.IsSet("export-dir") {
		cfg.ExportDir = c.String("export-dir")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyExportFlags(c *cli.Context, b *picly.JobBuilder) error {
	if path := c.String("output"); path != "" {
		b.WithOutput(path)
	}
	if preset := c.String("quality"); preset != "" {
		b.WithQualityPreset(picly.QualityPreset(preset))
	}
	if path := c.String("sheet"); path != "" {
		b.WithSheet(path)
	}
	if c.IsSet("sheet-columns") {
		b.WithSheetColumns(c.Int("sheet-columns"))
	}
	return nil
}

func remoteRequest(c *cli.Context, name string) (session.RemoteRequest, error) {
	op, err := session.ParseRemoteOp(name)
	if err != nil {
		return session.RemoteRequest{}, err
	}
	return session.RemoteRequest{
		Op:       op,
		Prompt:   c.String("prompt"),
		Strength: c.Float64("strength"),
		Scale:    c.Int("scale"),
	}, nil
}

// runJob wires the adapters and stages, runs the job built by configure
// and writes the optional summary.
func runJob(c *cli.Context, configure func(b *picly.JobBuilder) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	// Create logger
	var log ports.Logger
	if c.Bool("quiet") {
		log = logger.NewNoop()
	} else {
		log = logger.NewConsole(ports.ParseLogLevel(cfg.LogLevel))
	}

	base, err := cfg.ToOrchestratorConfig()
	if err != nil {
		return err
	}
	builder := picly.FromConfig(base)
	if err := configure(builder); err != nil {
		return err
	}
	job := builder.Build()

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn(l10n.T("Interrupted, shutting down..."))
			cancel()
		case <-ctx.Done():
		}
	}()

	// Create adapters
	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	ai, err := httpai.New(cfg.ToHTTPAIOptions(), log)
	if err != nil {
		return err
	}

	// Create debug sinks
	sinks := []ports.DebugSink{nullsink.New()}
	if cfg.Debug {
		if err := fs.MkdirAll(cfg.DebugDir); err != nil {
			return fmt.Errorf("create debug directory: %w", err)
		}
		sinks = append(sinks, filesink.New(cfg.DebugDir, fs, renderer))
	}
	if cfg.Journal != "" {
		journal, err := sqlitejournal.Open(cfg.Journal, renderer)
		if err != nil {
			return err
		}
		defer journal.Close()
		log.Debug("Journal session %s", journal.SessionID())
		sinks = append(sinks, journal)
	}
	sink := multisink.New(sinks...)

	// Create stages
	style := pipeline.DefaultPreviewStyle()
	style.FontPath = cfg.SheetTheme.FontPath
	orch := orchestrator.New(
		load.New(fs, renderer, log),
		replay.NewStage(log),
		export.NewStage(renderer, fs, log),
		preview.NewStage(renderer, style, log),
		layout.NewStage(),
		composite.NewStage(renderer, log, cfg.Workers),
		renderer,
		ai,
		fs,
		sink,
		log,
	)

	started := time.Now()
	result, err := orch.Run(ctx, job)
	if err != nil {
		return err
	}
	log.Debug("Finished in %s", time.Since(started).Round(time.Millisecond))

	if result.Export != nil {
		log.Info(l10n.F("Output saved to %s", result.Export.Path))
	}

	if path := c.String("summary"); path != "" {
		md := summarizer.NewMarkdownFormatter(
			summarizer.WithTranslator(l10n.T),
			summarizer.WithVersion(version),
		)
		if err := summarizer.NewWriter(md, fs).Write(path, summarizer.FromRun(result)); err != nil {
			return err
		}
		log.Info(l10n.F("Summary saved to %s", path))
	}
	return nil
}
