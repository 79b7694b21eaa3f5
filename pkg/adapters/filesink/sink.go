// Package filesink writes debug output under a directory.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/user/picly/pkg/ports"
)

// Sink lays files out as:
//
//	<base>/checkpoints/0001-load.png
//	<base>/overlay.png
//	<base>/session.json
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

func (s *Sink) Enabled() bool {
	return true
}

func (s *Sink) SaveCheckpoint(seq int, label string, img image.Image) error {
	dir := filepath.Join(s.baseDir, "checkpoints")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	name := fmt.Sprintf("%04d-%s.png", seq, sanitize(label))
	return s.savePNG(filepath.Join(dir, name), img)
}

func (s *Sink) SaveOverlay(img image.Image) error {
	return s.savePNG(filepath.Join(s.baseDir, "overlay.png"), img)
}

func (s *Sink) SaveSessionJSON(data []byte) error {
	return s.fs.WriteFile(filepath.Join(s.baseDir, "session.json"), data)
}

func (s *Sink) savePNG(path string, img image.Image) error {
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	return s.fs.WriteFile(path, data)
}

// sanitize keeps labels like "filter:sepia" usable as file name parts.
func sanitize(label string) string {
	if label == "" {
		return "checkpoint"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, label)
}

var _ ports.DebugSink = (*Sink)(nil)
