package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/user/picly/pkg/adapters/ggrenderer"
	"github.com/user/picly/pkg/adapters/sqlitejournal"
)

// writeTestImage writes a solid 20x10 PNG and returns its path.
func writeTestImage(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for y := 0; y < 10; y++ {
		for x := 0; x < 20; x++ {
			img.Set(x, y, color.RGBA{120, 90, 60, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "photo.png")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"picly"}, args...))
	return out.String(), err
}

func TestNewApp_Commands(t *testing.T) {
	app := newApp()
	for _, name := range []string{"edit", "remote", "preview", "journal", "version"} {
		if app.Command(name) == nil {
			t.Errorf("expected command %q", name)
		}
	}
}

func TestEdit_RequiresInput(t *testing.T) {
	if _, err := runApp(t, "-Q", "edit"); err == nil {
		t.Error("expected an error without an input image")
	}
}

func TestRemote_UnknownOperation(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir)

	_, err := runApp(t, "-Q", "remote", "teleport", input)
	if err == nil || !strings.Contains(err.Error(), "unknown remote operation") {
		t.Fatalf("expected an unknown operation error, got %v", err)
	}
}

func TestEdit_WritesOutputAndJournal(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir)
	output := filepath.Join(dir, "out", "edited.png")
	summary := filepath.Join(dir, "summary.md")
	journal := filepath.Join(dir, "picly.db")

	_, err := runApp(t,
		"-Q", "--journal", journal, "--summary", summary,
		"edit", "-o", output, "--filter", "sepia", "--brightness", "15", input,
	)
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("expected output: %v", err)
	}
	img, _, err := ggrenderer.New().DecodeImage(data)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 10 {
		t.Errorf("unexpected output size %v", img.Bounds())
	}

	md, err := os.ReadFile(summary)
	if err != nil {
		t.Fatalf("expected summary: %v", err)
	}
	if !strings.Contains(string(md), "filter:sepia") {
		t.Errorf("expected the filter checkpoint in the summary:\n%s", md)
	}

	j, err := sqlitejournal.OpenReadOnly(journal)
	if err != nil {
		t.Fatalf("open journal: %v", err)
	}
	defer j.Close()
	sessions, err := j.Sessions(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	// load, filter, adjust
	if len(sessions) != 1 || sessions[0].Checkpoints != 3 {
		t.Fatalf("unexpected journal sessions: %+v", sessions)
	}

	out, err := runApp(t, "journal", journal)
	if err != nil {
		t.Fatalf("journal failed: %v", err)
	}
	if !strings.Contains(out, sessions[0].ID) {
		t.Errorf("expected the session id in %q", out)
	}

	out, err = runApp(t, "journal", "--session", sessions[0].ID, journal)
	if err != nil {
		t.Fatalf("journal --session failed: %v", err)
	}
	if !strings.Contains(out, "filter:sepia") {
		t.Errorf("expected checkpoint labels in %q", out)
	}

	extracted := filepath.Join(dir, "first.png")
	if _, err := runApp(t, "journal", "--session", sessions[0].ID, "--extract", "1", "-o", extracted, journal); err != nil {
		t.Fatalf("journal --extract failed: %v", err)
	}
	if _, err := os.Stat(extracted); err != nil {
		t.Errorf("expected extracted checkpoint: %v", err)
	}
}

func TestPreview_RequiresOutput(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir)

	if _, err := runApp(t, "-Q", "preview", input); err == nil {
		t.Error("expected an error without --output")
	}
}

func TestPreview_WritesImage(t *testing.T) {
	dir := t.TempDir()
	input := writeTestImage(t, dir)
	output := filepath.Join(dir, "preview.png")

	if _, err := runApp(t, "-Q", "preview", "-o", output, "--zoom", "200%", input); err != nil {
		t.Fatalf("preview failed: %v", err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Errorf("expected preview: %v", err)
	}
}
