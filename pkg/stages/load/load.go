// Package load implements the image loading stage.
package load

import (
	"context"
	"fmt"

	"github.com/user/picly/pkg/pipeline"
	"github.com/user/picly/pkg/ports"
)

// Stage reads an image file and decodes it.
type Stage struct {
	fs       ports.FileSystem
	renderer ports.Renderer
	logger   ports.Logger
}

// New creates a new load stage.
func New(fs ports.FileSystem, renderer ports.Renderer, logger ports.Logger) *Stage {
	return &Stage{
		fs:       fs,
		renderer: renderer,
		logger:   logger.WithComponent("load"),
	}
}

// Execute reads and decodes input.Path.
func (s *Stage) Execute(ctx context.Context, input pipeline.LoadInput) (pipeline.LoadResult, error) {
	result := pipeline.LoadResult{Path: input.Path}

	if input.Path == "" {
		return result, fmt.Errorf("no input file")
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	s.logger.Debug("Reading %s", input.Path)
	data, err := s.fs.ReadFile(input.Path)
	if err != nil {
		return result, fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return result, fmt.Errorf("read image: %s is empty", input.Path)
	}

	img, format, err := s.renderer.DecodeImage(data)
	if err != nil {
		return result, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	result.Image = img
	result.Format = format
	result.FileSize = int64(len(data))
	result.Width = bounds.Dx()
	result.Height = bounds.Dy()

	s.logger.Debug("Decoded %s: %dx%d %s, %d bytes", input.Path, result.Width, result.Height, format, len(data))
	return result, nil
}
