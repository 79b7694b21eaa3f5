package history

import (
	"testing"

	"github.com/user/picly/pkg/raster"
)

func filled(v uint8) *raster.Buffer {
	b := raster.New(2, 2)
	b.Fill(raster.RGBA{R: v, G: v, B: v, A: 255})
	return b
}

func TestNew_DefaultCapacity(t *testing.T) {
	s := New(0)
	if s.Capacity() != DefaultCapacity {
		t.Errorf("expected capacity %d, got %d", DefaultCapacity, s.Capacity())
	}
	if s.Cursor() != -1 {
		t.Errorf("expected cursor -1 on empty stack, got %d", s.Cursor())
	}
	if _, ok := s.Current(); ok {
		t.Error("expected no current entry on empty stack")
	}
}

func TestPush_StoresCopy(t *testing.T) {
	s := New(5)
	buf := filled(10)

	s.Push(buf, "load")
	buf.Fill(raster.RGBA{R: 99, A: 255})

	cur, _ := s.Current()
	if cur.Snapshot.Equal(buf) {
		t.Error("expected snapshot to be independent of the pushed buffer")
	}
	if !cur.Snapshot.Equal(filled(10)) {
		t.Error("expected snapshot to hold the original contents")
	}
}

func TestUndoRedo_ByteExact(t *testing.T) {
	s := New(10)
	s.Push(filled(1), "a")
	s.Push(filled(2), "b")

	got, ok := s.Undo()
	if !ok {
		t.Fatal("expected undo to succeed")
	}
	if !got.Equal(filled(1)) {
		t.Error("expected undo to restore the first snapshot")
	}

	got, ok = s.Redo()
	if !ok {
		t.Fatal("expected redo to succeed")
	}
	if !got.Equal(filled(2)) {
		t.Error("expected redo to restore the second snapshot")
	}
}

func TestUndo_AtFirstEntryIsNoop(t *testing.T) {
	s := New(10)
	s.Push(filled(1), "a")

	if _, ok := s.Undo(); ok {
		t.Error("expected undo at index 0 to be a no-op")
	}
	if s.Cursor() != 0 {
		t.Errorf("expected cursor 0, got %d", s.Cursor())
	}
}

func TestRedo_AtLastEntryIsNoop(t *testing.T) {
	s := New(10)
	s.Push(filled(1), "a")
	s.Push(filled(2), "b")

	if _, ok := s.Redo(); ok {
		t.Error("expected redo at last index to be a no-op")
	}
	if s.Cursor() != 1 {
		t.Errorf("expected cursor 1, got %d", s.Cursor())
	}
}

func TestPush_TruncatesRedoBranch(t *testing.T) {
	s := New(10)
	s.Push(filled(1), "a")
	s.Push(filled(2), "b")
	s.Push(filled(3), "c")
	s.Undo()
	s.Undo()

	s.Push(filled(4), "d")

	if s.Len() != 2 {
		t.Fatalf("expected 2 entries after truncation, got %d", s.Len())
	}
	if s.CanRedo() {
		t.Error("expected redo branch to be gone")
	}
	cur, _ := s.Current()
	if !cur.Snapshot.Equal(filled(4)) {
		t.Error("expected newest entry to be current")
	}
}

func TestPush_EvictsOldest(t *testing.T) {
	s := New(DefaultCapacity)
	for i := 0; i <= DefaultCapacity; i++ {
		s.Push(filled(uint8(i)), "step")
	}

	if s.Len() != DefaultCapacity {
		t.Fatalf("expected %d entries, got %d", DefaultCapacity, s.Len())
	}
	if s.Cursor() != DefaultCapacity-1 {
		t.Errorf("expected cursor %d, got %d", DefaultCapacity-1, s.Cursor())
	}

	entries := s.Entries()
	if !entries[0].Snapshot.Equal(filled(1)) {
		t.Error("expected first snapshot to have been evicted")
	}
	if entries[0].Seq != 2 {
		t.Errorf("expected oldest surviving seq 2, got %d", entries[0].Seq)
	}
}

func TestSeq_NeverReused(t *testing.T) {
	s := New(10)
	s.Push(filled(1), "a")
	s.Push(filled(2), "b")
	s.Undo()
	e := s.Push(filled(3), "c")

	if e.Seq != 3 {
		t.Errorf("expected seq 3 after truncation, got %d", e.Seq)
	}
}

func TestUndo_ReturnsIndependentCopy(t *testing.T) {
	s := New(10)
	s.Push(filled(1), "a")
	s.Push(filled(2), "b")

	got, _ := s.Undo()
	got.Fill(raster.RGBA{R: 200, A: 255})

	cur, _ := s.Current()
	if !cur.Snapshot.Equal(filled(1)) {
		t.Error("expected stored snapshot to be unaffected by caller mutation")
	}
}

func TestClear(t *testing.T) {
	s := New(10)
	s.Push(filled(1), "a")
	s.Push(filled(2), "b")

	s.Clear()

	if s.Len() != 0 || s.Cursor() != -1 {
		t.Errorf("expected empty stack, got len=%d cursor=%d", s.Len(), s.Cursor())
	}
	if s.CanUndo() || s.CanRedo() {
		t.Error("expected no undo or redo after clear")
	}
}
