package summarizer

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Formatter defines the interface for formatting a Summary.
type Formatter interface {
	// Format converts a Summary to a formatted string.
	Format(summary *Summary) string
}

// FormatFunc is a function adapter for the Formatter interface.
type FormatFunc func(summary *Summary) string

// Format implements the Formatter interface.
func (f FormatFunc) Format(summary *Summary) string {
	return f(summary)
}

// Translator maps a message key to its localized text.
type Translator func(key string) string

// MarkdownFormatter renders a Summary as Markdown.
type MarkdownFormatter struct {
	t       Translator
	version string
}

// Option configures a MarkdownFormatter.
type Option func(*MarkdownFormatter)

// WithTranslator localizes headings and labels.
func WithTranslator(t Translator) Option {
	return func(f *MarkdownFormatter) {
		f.t = t
	}
}

// WithVersion adds the tool version to the footer.
func WithVersion(version string) Option {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a MarkdownFormatter.
func NewMarkdownFormatter(opts ...Option) *MarkdownFormatter {
	f := &MarkdownFormatter{t: func(key string) string { return key }}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements the Formatter interface.
func (f *MarkdownFormatter) Format(s *Summary) string {
	var sb strings.Builder
	t := f.t

	fmt.Fprintf(&sb, "# %s\n\n", t("Editing Summary"))

	// Image
	fmt.Fprintf(&sb, "## %s\n\n", t("Image"))
	table(&sb, t, [][2]string{
		{t("File Name"), orDash(s.Image.Name)},
		{t("Dimensions"), FormatDimensions(s.Image.Width, s.Image.Height)},
		{t("File Size"), FormatFileSize(s.Image.FileSize)},
		{t("Format"), strings.ToUpper(orDash(s.Image.Format))},
	})

	// Edits
	fmt.Fprintf(&sb, "## %s\n\n", t("Edits"))
	table(&sb, t, [][2]string{
		{t("Checkpoints"), fmt.Sprint(s.Edits.Checkpoints)},
		{t("Strokes"), fmt.Sprint(s.Edits.Strokes)},
		{t("Filters"), fmt.Sprint(s.Edits.Filters)},
		{t("Undo / Redo"), fmt.Sprintf("%d / %d", s.Edits.Undos, s.Edits.Redos)},
		{t("Final Size"), FormatDimensions(s.Edits.Width, s.Edits.Height)},
		{t("Zoom"), orDash(s.Edits.Zoom)},
	})

	if len(s.History) > 0 {
		fmt.Fprintf(&sb, "## %s\n\n", t("History"))
		for _, h := range s.History {
			if h.Current {
				fmt.Fprintf(&sb, "%d. **%s** (%s)\n", h.Seq, h.Label, t("current"))
			} else {
				fmt.Fprintf(&sb, "%d. %s\n", h.Seq, h.Label)
			}
		}
		sb.WriteString("\n")
	}

	if s.Remote.Succeeded+s.Remote.Failed > 0 {
		fmt.Fprintf(&sb, "## %s\n\n", t("Remote Operations"))
		rows := [][2]string{
			{t("Succeeded"), fmt.Sprint(s.Remote.Succeeded)},
			{t("Failed"), fmt.Sprint(s.Remote.Failed)},
		}
		if len(s.Remote.Operations) > 0 {
			rows = append(rows, [2]string{t("Operations"), strings.Join(s.Remote.Operations, ", ")})
		}
		if s.Remote.LastError != "" {
			rows = append(rows, [2]string{t("Last Error"), s.Remote.LastError})
		}
		table(&sb, t, rows)
	}

	if s.Replay != nil {
		fmt.Fprintf(&sb, "## %s\n\n", t("Script"))
		table(&sb, t, [][2]string{
			{t("Steps"), fmt.Sprint(s.Replay.Steps)},
			{t("Failed Steps"), fmt.Sprint(len(s.Replay.Errors))},
		})
		for _, e := range s.Replay.Errors {
			fmt.Fprintf(&sb, "- %s\n", e)
		}
		if len(s.Replay.Errors) > 0 {
			sb.WriteString("\n")
		}
	}

	fmt.Fprintf(&sb, "## %s\n\n", t("Output"))
	rows := [][2]string{{t("Exported File"), orDash(s.Output.ExportPath)}}
	if s.Output.ExportPath != "" {
		rows = append(rows,
			[2]string{t("File Size"), FormatFileSize(s.Output.ExportSize)},
			[2]string{t("Format"), strings.ToUpper(s.Output.Format)},
		)
	}
	if s.Output.PreviewPath != "" {
		rows = append(rows, [2]string{t("Preview"), s.Output.PreviewPath})
	}
	if s.Output.SheetPath != "" {
		rows = append(rows, [2]string{t("History Sheet"), s.Output.SheetPath})
	}
	table(&sb, t, rows)

	sb.WriteString("---\n\n")
	footer := fmt.Sprintf("%s %s", t("Generated at"), s.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	if f.version != "" {
		footer += fmt.Sprintf(" · picly %s", f.version)
	}
	sb.WriteString(footer + "\n")

	return sb.String()
}

func table(sb *strings.Builder, t Translator, rows [][2]string) {
	fmt.Fprintf(sb, "| %s | %s |\n", t("Property"), t("Value"))
	sb.WriteString("|---|---|\n")
	for _, r := range rows {
		fmt.Fprintf(sb, "| %s | %s |\n", r[0], escapeCell(r[1]))
	}
	sb.WriteString("\n")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// HTMLFormatter renders the Markdown summary to an HTML page.
type HTMLFormatter struct {
	markdown *MarkdownFormatter
}

// NewHTMLFormatter wraps a MarkdownFormatter.
func NewHTMLFormatter(markdown *MarkdownFormatter) *HTMLFormatter {
	return &HTMLFormatter{markdown: markdown}
}

// Format implements the Formatter interface.
func (f *HTMLFormatter) Format(s *Summary) string {
	var body bytes.Buffer
	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	if err := md.Convert([]byte(f.markdown.Format(s)), &body); err != nil {
		return fmt.Sprintf("<pre>%v</pre>", err)
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&sb, "<title>%s</title>\n", html.EscapeString(f.markdown.t("Editing Summary")))
	sb.WriteString("</head>\n<body>\n")
	sb.Write(body.Bytes())
	sb.WriteString("</body>\n</html>\n")
	return sb.String()
}

// FormatFileSize formats a byte count as B, KB or MB with two decimals.
func FormatFileSize(n int64) string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case n < kb:
		return fmt.Sprintf("%d B", n)
	case n < mb:
		return fmt.Sprintf("%.2f KB", float64(n)/kb)
	default:
		return fmt.Sprintf("%.2f MB", float64(n)/mb)
	}
}

// FormatDimensions formats a size as "W × Hpx".
func FormatDimensions(width, height int) string {
	if width == 0 && height == 0 {
		return "-"
	}
	return fmt.Sprintf("%d × %dpx", width, height)
}
