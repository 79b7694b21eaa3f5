// Package sqlitejournal records editing sessions into a SQLite database.
// Each run becomes one session row; every history checkpoint is stored as
// a PNG blob so a session can be inspected later.
package sqlitejournal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/user/picly/pkg/ports"
	"github.com/user/picly/pkg/task"
)

// CurrentSchemaVersion is the latest schema version.
const CurrentSchemaVersion = 1

// ErrNotFound is returned when a session or checkpoint does not exist.
var ErrNotFound = errors.New("not found")

// SessionRecord describes a recorded session.
type SessionRecord struct {
	ID          string
	StartedAt   time.Time
	Checkpoints int
	HasSummary  bool
}

// CheckpointRecord describes a recorded checkpoint without its pixels.
type CheckpointRecord struct {
	Seq       int
	Label     string
	Width     int
	Height    int
	Size      int
	CreatedAt time.Time
}

// Journal implements ports.DebugSink on top of SQLite.
type Journal struct {
	db        *sql.DB
	renderer  ports.Renderer
	sessionID string
	now       func() time.Time
}

// Open opens or creates the database at path and starts a new session.
func Open(path string, renderer ports.Renderer) (*Journal, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}

	j := &Journal{
		db:        db,
		renderer:  renderer,
		sessionID: task.NewID(),
		now:       time.Now,
	}
	if _, err := db.Exec(
		"INSERT INTO sessions (id, started_at) VALUES (?, ?)",
		j.sessionID, j.now().UnixMilli(),
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("create session: %w", err)
	}
	return j, nil
}

// OpenReadOnly opens an existing database for inspection without starting a
// session. The returned Journal must not be used as a sink.
func OpenReadOnly(path string) (*Journal, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	return &Journal{db: db, now: time.Now}, nil
}

func openDB(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create journal directory: %w", err)
		}
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS sessions (
		  id           TEXT PRIMARY KEY,
		  started_at   INTEGER NOT NULL,
		  summary_json TEXT,
		  overlay_png  BLOB
		);

		CREATE TABLE IF NOT EXISTS checkpoints (
		  session_id TEXT NOT NULL REFERENCES sessions(id),
		  seq        INTEGER NOT NULL,
		  label      TEXT NOT NULL,
		  width      INTEGER NOT NULL,
		  height     INTEGER NOT NULL,
		  png        BLOB NOT NULL,
		  created_at INTEGER NOT NULL,
		  PRIMARY KEY (session_id, seq)
		);

		CREATE INDEX IF NOT EXISTS idx_sessions_started
		ON sessions(started_at DESC);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", 1)); err != nil {
			return fmt.Errorf("set schema version: %w", err)
		}
	}
	return nil
}

// SessionID is the id of the session this journal records into.
func (j *Journal) SessionID() string {
	return j.sessionID
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) Enabled() bool {
	return j.sessionID != ""
}

func (j *Journal) SaveCheckpoint(seq int, label string, img image.Image) error {
	data, err := j.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode checkpoint %d: %w", seq, err)
	}
	b := img.Bounds()
	_, err = j.db.Exec(`
		INSERT OR REPLACE INTO checkpoints (session_id, seq, label, width, height, png, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		j.sessionID, seq, label, b.Dx(), b.Dy(), data, j.now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("save checkpoint %d: %w", seq, err)
	}
	return nil
}

func (j *Journal) SaveOverlay(img image.Image) error {
	data, err := j.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode overlay: %w", err)
	}
	if _, err := j.db.Exec("UPDATE sessions SET overlay_png = ? WHERE id = ?", data, j.sessionID); err != nil {
		return fmt.Errorf("save overlay: %w", err)
	}
	return nil
}

func (j *Journal) SaveSessionJSON(data []byte) error {
	if _, err := j.db.Exec("UPDATE sessions SET summary_json = ? WHERE id = ?", string(data), j.sessionID); err != nil {
		return fmt.Errorf("save session summary: %w", err)
	}
	return nil
}

// Sessions lists recorded sessions, newest first.
func (j *Journal) Sessions(ctx context.Context) ([]SessionRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT s.id, s.started_at, s.summary_json IS NOT NULL, COUNT(c.seq)
		FROM sessions s
		LEFT JOIN checkpoints c ON c.session_id = s.id
		GROUP BY s.id
		ORDER BY s.started_at DESC, s.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRecord
	for rows.Next() {
		var (
			rec     SessionRecord
			started int64
		)
		if err := rows.Scan(&rec.ID, &started, &rec.HasSummary, &rec.Checkpoints); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		rec.StartedAt = time.UnixMilli(started)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Checkpoints lists the checkpoints of a session in sequence order.
func (j *Journal) Checkpoints(ctx context.Context, sessionID string) ([]CheckpointRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT seq, label, width, height, length(png), created_at
		FROM checkpoints
		WHERE session_id = ?
		ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list checkpoints: %w", err)
	}
	defer rows.Close()

	var out []CheckpointRecord
	for rows.Next() {
		var (
			rec     CheckpointRecord
			created int64
		)
		if err := rows.Scan(&rec.Seq, &rec.Label, &rec.Width, &rec.Height, &rec.Size, &created); err != nil {
			return nil, fmt.Errorf("scan checkpoint: %w", err)
		}
		rec.CreatedAt = time.UnixMilli(created)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// CheckpointPNG returns the encoded image of one checkpoint.
func (j *Journal) CheckpointPNG(ctx context.Context, sessionID string, seq int) ([]byte, error) {
	var data []byte
	err := j.db.QueryRowContext(ctx,
		"SELECT png FROM checkpoints WHERE session_id = ? AND seq = ?", sessionID, seq,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("checkpoint %d of session %s: %w", seq, sessionID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load checkpoint %d: %w", seq, err)
	}
	return data, nil
}

// Summary returns the session JSON stored for a session.
func (j *Journal) Summary(ctx context.Context, sessionID string) ([]byte, error) {
	var data sql.NullString
	err := j.db.QueryRowContext(ctx, "SELECT summary_json FROM sessions WHERE id = ?", sessionID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load summary: %w", err)
	}
	if !data.Valid {
		return nil, nil
	}
	return []byte(data.String), nil
}

var _ ports.DebugSink = (*Journal)(nil)
