package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/user/picly/pkg/adapters/logger"
	"github.com/user/picly/pkg/adjust"
	"github.com/user/picly/pkg/mocks"
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
)

// mockLoadStage is a mock for the load stage.
type mockLoadStage struct {
	result pipeline.LoadResult
	err    error
}

func (m *mockLoadStage) Execute(ctx context.Context, input pipeline.LoadInput) (pipeline.LoadResult, error) {
	if m.err != nil {
		return pipeline.LoadResult{}, m.err
	}
	return m.result, nil
}

type fixture struct {
	fs       *mocks.FileSystem
	renderer *mocks.Renderer
	sink     *mocks.DebugSink
	ai       ports.AIService
	load     pipeline.Stage[pipeline.LoadInput, pipeline.LoadResult]
}

func newFixture() *fixture {
	fs := mocks.NewFileSystem()
	fs.PutFile("in.png", []byte("png-bytes"))
	return &fixture{
		fs:       fs,
		renderer: &mocks.Renderer{},
		sink:     mocks.NewDebugSink(false),
	}
}

func (f *fixture) build() *Orchestrator {
	log := logger.NewNoop()
	loadStage := f.load
	if loadStage == nil {
		loadStage = load.New(f.fs, f.renderer, log)
	}
	return New(
		loadStage,
		replay.NewStage(log),
		export.NewStage(f.renderer, f.fs, log),
		preview.NewStage(f.renderer, pipeline.DefaultPreviewStyle(), log),
		layout.NewStage(),
		composite.NewStage(f.renderer, log, 2),
		f.renderer,
		f.ai,
		f.fs,
		f.sink,
		log,
	)
}

func testConfig() Config {
	config := DefaultConfig()
	config.InputPath = "in.png"
	config.OutputPath = "out/result.png"
	config.Session.Workers = 2
	return config
}

func mustScript(t *testing.T, src string) *script.Script {
	t.Helper()
	sc, err := script.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse script: %v", err)
	}
	return sc
}

func TestOrchestrator_Run(t *testing.T) {
	f := newFixture()
	orch := f.build()

	config := testConfig()
	config.Filter = adjust.PresetSepia
	config.Adjust = adjust.Params{Brightness: 10}
	config.Script = mustScript(t, `
steps:
  - tool: brush
  - down: [10, 10]
  - up: [30, 10]
`)
	config.PreviewPath = "preview.png"
	config.SheetPath = "sheet.png"

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// load, filter, adjust, stroke
	if result.Stats.HistoryLen != 4 {
		t.Errorf("expected 4 checkpoints, got %d", result.Stats.HistoryLen)
	}
	if result.SheetEntries != 4 {
		t.Errorf("expected 4 sheet entries, got %d", result.SheetEntries)
	}
	if result.Replay == nil || result.Replay.Steps != 3 {
		t.Errorf("expected 3 replayed steps, got %+v", result.Replay)
	}
	if result.Export == nil || result.Export.Path != "out/result.png" {
		t.Fatalf("unexpected export result: %+v", result.Export)
	}
	if result.Input.Width != 100 || result.Input.FileSize != int64(len("png-bytes")) {
		t.Errorf("unexpected input: %+v", result.Input)
	}
	if result.Stats.Info.Name != "in.png" {
		t.Errorf("expected image name in.png, got %q", result.Stats.Info.Name)
	}

	for _, path := range []string{"out/result.png", "preview.png", "sheet.png"} {
		if exists, _ := f.fs.Exists(path); !exists {
			t.Errorf("expected %s to be written", path)
		}
	}
}

func TestOrchestrator_Run_ExportDisabled(t *testing.T) {
	f := newFixture()
	orch := f.build()

	config := testConfig()
	config.Export = false

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Export != nil {
		t.Error("expected no export")
	}
	if len(f.fs.Paths()) != 1 {
		t.Errorf("expected only the input file, got %v", f.fs.Paths())
	}
}

func TestOrchestrator_Run_LoadError(t *testing.T) {
	f := newFixture()
	f.load = &mockLoadStage{err: errors.New("corrupt file")}
	orch := f.build()

	_, err := orch.Run(context.Background(), testConfig())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "load stage") {
		t.Errorf("expected load stage error, got %v", err)
	}
}

func TestOrchestrator_Run_Remote(t *testing.T) {
	f := newFixture()
	ai := &mocks.AIService{}
	f.ai = ai
	orch := f.build()

	config := testConfig()
	config.Remote = []session.RemoteRequest{{Op: session.OpUpscale}, {Op: session.OpColorize}}

	result, err := orch.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Remote) != 2 {
		t.Fatalf("expected 2 remote outcomes, got %d", len(result.Remote))
	}
	if len(ai.Requests()) != 2 {
		t.Errorf("expected 2 requests, got %d", len(ai.Requests()))
	}
	if result.Stats.Width != 4 || result.Stats.RemoteOK != 2 {
		t.Errorf("unexpected stats: %+v", result.Stats)
	}
}

func TestOrchestrator_Run_RemoteFailure(t *testing.T) {
	f := newFixture()
	f.ai = &mocks.AIService{
		ProcessFunc: func(ctx context.Context, req ports.AIRequest) (ports.AIResult, error) {
			return ports.AIResult{}, &ports.RemoteError{Message: "model unavailable"}
		},
	}
	orch := f.build()

	config := testConfig()
	config.Remote = []session.RemoteRequest{{Op: session.OpRemoveBackground}}

	result, err := orch.Run(context.Background(), config)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "model unavailable") {
		t.Errorf("expected service message, got %v", err)
	}
	if result.Export != nil {
		t.Error("expected no export after a failed remote operation")
	}
}

func TestOrchestrator_Run_ReplayStopsOnError(t *testing.T) {
	f := newFixture()
	orch := f.build()

	config := testConfig()
	config.Script = mustScript(t, `
stop_on_error: true
steps:
  - filter: bw
  - remote: {op: upscale}
  - filter: sepia
`)

	result, err := orch.Run(context.Background(), config)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "replay stage") {
		t.Errorf("expected replay stage error, got %v", err)
	}
	if result.Replay == nil || result.Replay.Steps != 2 {
		t.Errorf("expected replay to stop after 2 steps, got %+v", result.Replay)
	}
}

func TestOrchestrator_Run_SavesSessionJSON(t *testing.T) {
	f := newFixture()
	f.sink = mocks.NewDebugSink(true)
	orch := f.build()

	config := testConfig()
	config.AutoEnhance = true

	if _, err := orch.Run(context.Background(), config); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.sink.SessionJSON) == 0 {
		t.Error("expected session JSON to be saved")
	}
	if f.sink.CheckpointCount() != 2 {
		t.Errorf("expected 2 mirrored checkpoints, got %d", f.sink.CheckpointCount())
	}
}
