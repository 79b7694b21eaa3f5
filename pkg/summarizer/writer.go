package summarizer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/user/picly/pkg/ports"
)

// Writer writes formatted summaries to files.
type Writer struct {
	markdown *MarkdownFormatter
	fs       ports.FileSystem
}

// NewWriter creates a new Writer. Paths ending in .html or .htm are written
// as HTML, everything else as Markdown.
func NewWriter(markdown *MarkdownFormatter, fs ports.FileSystem) *Writer {
	return &Writer{
		markdown: markdown,
		fs:       fs,
	}
}

// FormatterFor picks the formatter for path.
func (w *Writer) FormatterFor(path string) Formatter {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return NewHTMLFormatter(w.markdown)
	}
	return w.markdown
}

// Write formats the summary and writes it to path.
func (w *Writer) Write(path string, summary *Summary) error {
	content := w.FormatterFor(path).Format(summary)
	if err := w.fs.WriteFile(path, []byte(content)); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
