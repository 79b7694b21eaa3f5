// Package multisink fans debug output out to several sinks.
package multisink

import (
	"errors"
	"image"

	"github.com/user/picly/pkg/ports"
)

type Sink struct {
	sinks []ports.DebugSink
}

// New returns a sink that forwards to every enabled sink in order.
func New(sinks ...ports.DebugSink) *Sink {
	enabled := make([]ports.DebugSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil && s.Enabled() {
			enabled = append(enabled, s)
		}
	}
	return &Sink{sinks: enabled}
}

func (s *Sink) Enabled() bool {
	return len(s.sinks) > 0
}

func (s *Sink) SaveCheckpoint(seq int, label string, img image.Image) error {
	var errs []error
	for _, sink := range s.sinks {
		errs = append(errs, sink.SaveCheckpoint(seq, label, img))
	}
	return errors.Join(errs...)
}

func (s *Sink) SaveOverlay(img image.Image) error {
	var errs []error
	for _, sink := range s.sinks {
		errs = append(errs, sink.SaveOverlay(img))
	}
	return errors.Join(errs...)
}

func (s *Sink) SaveSessionJSON(data []byte) error {
	var errs []error
	for _, sink := range s.sinks {
		errs = append(errs, sink.SaveSessionJSON(data))
	}
	return errors.Join(errs...)
}

var _ ports.DebugSink = (*Sink)(nil)
