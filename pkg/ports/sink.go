package ports

import (
	"image"
)

// DebugSink receives intermediate editor state for offline inspection.
type DebugSink interface {
	Enabled() bool

	// SaveCheckpoint stores the snapshot pushed as history entry seq.
	SaveCheckpoint(seq int, label string, img image.Image) error

	// SaveOverlay stores the current preview indicator layer.
	SaveOverlay(img image.Image) error

	// SaveSessionJSON stores the session summary.
	SaveSessionJSON(data []byte) error
}
