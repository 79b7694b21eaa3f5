package session

import (
	"context"
	"fmt"

	"github.com/user/picly/pkg/editerr"
	"github.com/user/picly/pkg/pipeline"
)

// Export writes the live buffer to the export directory under a
// timestamped name.
func (s *Session) Export(ctx context.Context) (pipeline.ExportResult, error) {
	return s.export(ctx, "")
}

// ExportTo writes the live buffer to path.
func (s *Session) ExportTo(ctx context.Context, path string) (pipeline.ExportResult, error) {
	return s.export(ctx, path)
}

func (s *Session) export(ctx context.Context, output string) (pipeline.ExportResult, error) {
	s.mu.Lock()
	if !s.hasImage() {
		s.mu.Unlock()
		return pipeline.ExportResult{}, editerr.NewNoImage("export")
	}
	if s.ctrl.InFlight() {
		s.mu.Unlock()
		return pipeline.ExportResult{}, editerr.NewStrokeInFlight("export")
	}
	if s.exporter == nil {
		s.mu.Unlock()
		return pipeline.ExportResult{}, editerr.NewInvalid("export: no exporter configured")
	}
	input := pipeline.ExportInput{
		Image:   s.buf.Image(),
		Format:  s.opts.ExportFormat,
		Quality: s.opts.ExportQuality,
		Dir:     s.opts.ExportDir,
		Output:  output,
		Now:     s.now(),
	}
	s.mu.Unlock()

	res, err := s.exporter.Execute(ctx, input)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.lastErr = err
		return res, fmt.Errorf("export: %w", err)
	}
	s.counters.exports++
	s.lastErr = nil
	s.logger.Debug("Exported %s (%d bytes)", res.Path, res.Size)
	return res, nil
}
