package sqlitejournal

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"testing"

	"github.com/user/picly/pkg/mocks"
)

func openTest(t *testing.T, path string) *Journal {
	t.Helper()
	j, err := Open(path, &mocks.Renderer{})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestOpen_CreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.db")
	j := openTest(t, path)

	if !j.Enabled() {
		t.Error("expected a recording journal to be enabled")
	}
	if j.SessionID() == "" {
		t.Error("expected a session id")
	}

	var version int
	if err := j.db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		t.Fatalf("failed to read user_version: %v", err)
	}
	if version != CurrentSchemaVersion {
		t.Errorf("user_version = %d, want %d", version, CurrentSchemaVersion)
	}
}

func TestJournal_RecordsCheckpoints(t *testing.T) {
	j := openTest(t, filepath.Join(t.TempDir(), "journal.db"))
	ctx := context.Background()

	img := image.NewRGBA(image.Rect(0, 0, 6, 4))
	if err := j.SaveCheckpoint(1, "load", img); err != nil {
		t.Fatalf("SaveCheckpoint failed: %v", err)
	}
	if err := j.SaveCheckpoint(2, "filter:sepia", img); err != nil {
		t.Fatalf("SaveCheckpoint failed: %v", err)
	}
	// Re-saving a sequence number replaces it.
	if err := j.SaveCheckpoint(2, "brush", img); err != nil {
		t.Fatalf("SaveCheckpoint failed: %v", err)
	}

	cps, err := j.Checkpoints(ctx, j.SessionID())
	if err != nil {
		t.Fatalf("Checkpoints failed: %v", err)
	}
	if len(cps) != 2 {
		t.Fatalf("expected 2 checkpoints, got %d", len(cps))
	}
	if cps[0].Seq != 1 || cps[1].Label != "brush" {
		t.Errorf("unexpected checkpoints: %+v", cps)
	}
	if cps[0].Width != 6 || cps[0].Height != 4 || cps[0].Size != len("encoded:png") {
		t.Errorf("unexpected checkpoint metadata: %+v", cps[0])
	}

	data, err := j.CheckpointPNG(ctx, j.SessionID(), 1)
	if err != nil {
		t.Fatalf("CheckpointPNG failed: %v", err)
	}
	if string(data) != "encoded:png" {
		t.Errorf("unexpected blob %q", data)
	}

	_, err = j.CheckpointPNG(ctx, j.SessionID(), 9)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestJournal_SummaryAndOverlay(t *testing.T) {
	j := openTest(t, filepath.Join(t.TempDir(), "journal.db"))
	ctx := context.Background()

	summary, err := j.Summary(ctx, j.SessionID())
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if summary != nil {
		t.Errorf("expected no summary yet, got %q", summary)
	}

	if err := j.SaveOverlay(image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("SaveOverlay failed: %v", err)
	}
	if err := j.SaveSessionJSON([]byte(`{"history":3}`)); err != nil {
		t.Fatalf("SaveSessionJSON failed: %v", err)
	}

	summary, err = j.Summary(ctx, j.SessionID())
	if err != nil {
		t.Fatalf("Summary failed: %v", err)
	}
	if string(summary) != `{"history":3}` {
		t.Errorf("unexpected summary %q", summary)
	}

	if _, err := j.Summary(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestJournal_SessionsAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	first, err := Open(path, &mocks.Renderer{})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := first.db.Exec("UPDATE sessions SET started_at = ?", 1000); err != nil {
		t.Fatal(err)
	}
	if err := first.SaveCheckpoint(1, "load", image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatal(err)
	}
	first.Close()

	second := openTest(t, path)

	reader, err := OpenReadOnly(path)
	if err != nil {
		t.Fatalf("OpenReadOnly() error = %v", err)
	}
	defer reader.Close()
	if reader.Enabled() {
		t.Error("expected a read-only journal to be disabled as a sink")
	}

	sessions, err := reader.Sessions(context.Background())
	if err != nil {
		t.Fatalf("Sessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(sessions))
	}
	if sessions[0].ID != second.SessionID() {
		t.Errorf("expected the newest session first, got %s", sessions[0].ID)
	}
	if sessions[1].Checkpoints != 1 || sessions[0].Checkpoints != 0 {
		t.Errorf("unexpected checkpoint counts: %+v", sessions)
	}
}

func TestOpenReadOnly_Missing(t *testing.T) {
	if _, err := OpenReadOnly(filepath.Join(t.TempDir(), "none.db")); err == nil {
		t.Error("expected an error for a missing journal")
	}
}
