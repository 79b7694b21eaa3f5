// Package nullsink discards debug output.
package nullsink

import (
	"image"

	"github.com/user/picly/pkg/ports"
)

type Sink struct{}

func New() *Sink {
	return &Sink{}
}

func (s *Sink) Enabled() bool                                               { return false }
func (s *Sink) SaveCheckpoint(seq int, label string, img image.Image) error { return nil }
func (s *Sink) SaveOverlay(img image.Image) error                           { return nil }
func (s *Sink) SaveSessionJSON(data []byte) error                           { return nil }

var _ ports.DebugSink = (*Sink)(nil)
