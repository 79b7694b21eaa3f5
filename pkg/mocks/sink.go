package mocks

import (
	"image"
	"sync"

	"github.com/user/picly/pkg/ports"
)

// SavedCheckpoint is one SaveCheckpoint call.
type SavedCheckpoint struct {
	Seq   int
	Label string
	Image image.Image
}

// DebugSink records everything it is given.
type DebugSink struct {
	mu      sync.RWMutex
	enabled bool

	Checkpoints []SavedCheckpoint
	Overlay     image.Image
	SessionJSON []byte
}

func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{enabled: enabled}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveCheckpoint(seq int, label string, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Checkpoints = append(m.Checkpoints, SavedCheckpoint{Seq: seq, Label: label, Image: img})
	return nil
}

func (m *DebugSink) SaveOverlay(img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Overlay = img
	return nil
}

func (m *DebugSink) SaveSessionJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionJSON = data
	return nil
}

// CheckpointCount is safe to call while the session is running.
func (m *DebugSink) CheckpointCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Checkpoints)
}

var _ ports.DebugSink = (*DebugSink)(nil)
