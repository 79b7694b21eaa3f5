// Package summarizer provides summary generation for editing sessions.
package summarizer

import (
	"time"

	"github.com/user/picly/pkg/orchestrator"
)

// Summary contains all data collected during an editing session.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Source image properties
	Image ImageInfo

	// Edit counters
	Edits EditInfo

	// Checkpoints in order
	History []HistoryItem

	// Remote service usage
	Remote RemoteInfo

	// Script replay, when a script was run
	Replay *ReplayInfo

	// Files written
	Output OutputInfo
}

// ImageInfo contains the properties of the loaded image.
type ImageInfo struct {
	Name     string
	Format   string
	Width    int
	Height   int
	FileSize int64
}

// EditInfo contains the final state of the session.
type EditInfo struct {
	Checkpoints int
	Strokes     int
	Filters     int
	Undos       int
	Redos       int
	Width       int
	Height      int
	Zoom        string
}

// HistoryItem is one checkpoint. Current marks the history cursor.
type HistoryItem struct {
	Seq     int
	Label   string
	Current bool
}

// RemoteInfo contains remote service usage.
type RemoteInfo struct {
	Succeeded  int
	Failed     int
	Operations []string
	LastError  string
}

// ReplayInfo contains the result of a script replay.
type ReplayInfo struct {
	Steps  int
	Errors []string
}

// OutputInfo contains the written files.
type OutputInfo struct {
	ExportPath  string
	ExportSize  int64
	Format      string
	PreviewPath string
	SheetPath   string
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithImage sets the source image properties.
func (b *Builder) WithImage(info ImageInfo) *Builder {
	b.summary.Image = info
	return b
}

// WithEdits sets the edit counters.
func (b *Builder) WithEdits(edits EditInfo) *Builder {
	b.summary.Edits = edits
	return b
}

// WithHistory sets the checkpoints, marking the one at cursor as current.
func (b *Builder) WithHistory(checkpoints []orchestrator.Checkpoint, cursor int) *Builder {
	items := make([]HistoryItem, len(checkpoints))
	for i, cp := range checkpoints {
		items[i] = HistoryItem{Seq: cp.Seq, Label: cp.Label, Current: i == cursor}
	}
	b.summary.History = items
	return b
}

// WithRemote sets remote service usage.
func (b *Builder) WithRemote(remote RemoteInfo) *Builder {
	b.summary.Remote = remote
	return b
}

// WithReplay sets the replay result.
func (b *Builder) WithReplay(steps int, errs []string) *Builder {
	b.summary.Replay = &ReplayInfo{Steps: steps, Errors: errs}
	return b
}

// WithOutput sets the written files.
func (b *Builder) WithOutput(output OutputInfo) *Builder {
	b.summary.Output = output
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}

// FromRun builds a Summary from an orchestrator run.
func FromRun(run orchestrator.RunResult) *Summary {
	st := run.Stats
	b := NewBuilder().
		WithImage(ImageInfo{
			Name:     st.Info.Name,
			Format:   run.Input.Format.String(),
			Width:    run.Input.Width,
			Height:   run.Input.Height,
			FileSize: run.Input.FileSize,
		}).
		WithEdits(EditInfo{
			Checkpoints: st.HistoryLen,
			Strokes:     st.Strokes,
			Filters:     st.Filters,
			Undos:       st.Undos,
			Redos:       st.Redos,
			Width:       st.Width,
			Height:      st.Height,
			Zoom:        st.ZoomText,
		}).
		WithHistory(run.History, st.Cursor)

	remote := RemoteInfo{
		Succeeded: st.RemoteOK,
		Failed:    st.RemoteFailures,
		LastError: st.LastError,
	}
	for _, out := range run.Remote {
		remote.Operations = append(remote.Operations, string(out.Op))
	}
	b.WithRemote(remote)

	if run.Replay != nil {
		var errs []string
		for _, e := range run.Replay.Errors {
			errs = append(errs, e.Error())
		}
		b.WithReplay(run.Replay.Steps, errs)
	}

	output := OutputInfo{
		PreviewPath: run.PreviewPath,
		SheetPath:   run.SheetPath,
	}
	if run.Export != nil {
		output.ExportPath = run.Export.Path
		output.ExportSize = int64(run.Export.Size)
		output.Format = run.Export.Format.String()
	}
	return b.WithOutput(output).Build()
}
