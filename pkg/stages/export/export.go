// Package export implements the image export stage.
package export

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/user/picly/pkg/editerr"
	"github.com/user/picly/pkg/pipeline"
	"github.com/user/picly/pkg/ports"
)

// Stage encodes an image and writes it to disk.
type Stage struct {
	renderer ports.Renderer
	fs       ports.FileSystem
	logger   ports.Logger
}

// NewStage creates a new export stage.
func NewStage(renderer ports.Renderer, fs ports.FileSystem, logger ports.Logger) *Stage {
	return &Stage{
		renderer: renderer,
		fs:       fs,
		logger:   logger.WithComponent("export"),
	}
}

// FileName returns the default export name for a given time.
func FileName(now time.Time, format ports.ImageFormat) string {
	return fmt.Sprintf("edited-%d%s", now.UnixMilli(), format.Extension())
}

// Execute encodes input.Image and writes it.
//
// The output path is input.Output when set, in which case an unknown
// format is inferred from its extension. Otherwise the file goes to
// input.Dir under FileName.
func (s *Stage) Execute(ctx context.Context, input pipeline.ExportInput) (pipeline.ExportResult, error) {
	result := pipeline.ExportResult{}

	if input.Image == nil {
		return result, editerr.NewNoImage("export")
	}

	format := input.Format
	if format == ports.FormatUnknown && input.Output != "" {
		if f, err := ports.ParseImageFormat(filepath.Ext(input.Output)); err == nil {
			format = f
		}
	}
	if format == ports.FormatUnknown {
		format = ports.FormatPNG
	}

	path := input.Output
	if path == "" {
		now := input.Now
		if now.IsZero() {
			now = time.Now()
		}
		path = filepath.Join(input.Dir, FileName(now, format))
	}

	select {
	case <-ctx.Done():
		return result, ctx.Err()
	default:
	}

	data, err := s.renderer.EncodeImage(input.Image, format, input.Quality)
	if err != nil {
		return result, fmt.Errorf("encode %s: %w", format, err)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := s.fs.MkdirAll(dir); err != nil {
			return result, fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := s.fs.WriteFile(path, data); err != nil {
		return result, fmt.Errorf("write %s: %w", path, err)
	}

	s.logger.Debug("Wrote %s (%s, %d bytes)", path, format, len(data))

	result.Path = path
	result.Size = len(data)
	result.Format = format
	return result, nil
}
