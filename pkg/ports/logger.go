// Package ports defines the interfaces the editor core uses to reach the
// outside world: logging, image codecs, files, debug output and the AI
// service.
package ports

// LogLevel is the minimum severity a logger emits.
type LogLevel int

const (
	// LevelDebug covers per-component detail such as strokes and checkpoints.
	LevelDebug LogLevel = iota
	// LevelInfo covers session-level progress.
	LevelInfo
	LevelWarn
	LevelError
	// LevelQuiet suppresses all output.
	LevelQuiet
)

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelQuiet:
		return "quiet"
	default:
		return "unknown"
	}
}

// ParseLogLevel parses a level name. Unknown names map to LevelInfo.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "debug":
		return LevelDebug
	case "warn":
		return LevelWarn
	case "error":
		return LevelError
	case "quiet":
		return LevelQuiet
	default:
		return LevelInfo
	}
}

// Logger writes translatable messages. msg is a format string that doubles
// as the translation key.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// WithComponent returns a logger that tags messages with component.
	WithComponent(component string) Logger
}
