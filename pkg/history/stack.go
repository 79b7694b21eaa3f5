// Package history keeps the bounded undo/redo list of buffer snapshots.
package history

import "github.com/user/picly/pkg/raster"

// DefaultCapacity is the number of snapshots retained before the oldest is
// evicted.
const DefaultCapacity = 50

// Entry is one checkpoint. Seq increases monotonically across the lifetime
// of a Stack and is never reused, even after eviction or truncation.
type Entry struct {
	Seq      int
	Label    string
	Snapshot *raster.Buffer
}

// Stack is a linear history with a cursor. Entries after the cursor form
// the redo branch. Stack is not safe for concurrent use; the owning session
// serializes access.
type Stack struct {
	entries  []Entry
	cursor   int
	capacity int
	nextSeq  int
}

// New creates an empty stack. capacity <= 0 uses DefaultCapacity.
func New(capacity int) *Stack {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Stack{
		entries:  make([]Entry, 0, capacity),
		cursor:   -1,
		capacity: capacity,
	}
}

// Push stores a deep copy of buf as the newest checkpoint. Any redo branch
// is discarded. When the stack is full the oldest entry is dropped.
func (s *Stack) Push(buf *raster.Buffer, label string) Entry {
	// Truncate the redo branch, releasing the snapshots it held.
	for i := s.cursor + 1; i < len(s.entries); i++ {
		s.entries[i] = Entry{}
	}
	s.entries = s.entries[:s.cursor+1]

	s.nextSeq++
	e := Entry{Seq: s.nextSeq, Label: label, Snapshot: buf.Clone()}
	s.entries = append(s.entries, e)
	s.cursor++

	if len(s.entries) > s.capacity {
		s.entries[0] = Entry{}
		s.entries = append(s.entries[:0], s.entries[1:]...)
		s.cursor--
	}
	return e
}

// Undo moves the cursor back and returns a copy of the snapshot it now
// points at. ok is false when there is nothing to undo.
func (s *Stack) Undo() (buf *raster.Buffer, ok bool) {
	if !s.CanUndo() {
		return nil, false
	}
	s.cursor--
	return s.entries[s.cursor].Snapshot.Clone(), true
}

// Redo moves the cursor forward and returns a copy of the snapshot it now
// points at. ok is false when there is nothing to redo.
func (s *Stack) Redo() (buf *raster.Buffer, ok bool) {
	if !s.CanRedo() {
		return nil, false
	}
	s.cursor++
	return s.entries[s.cursor].Snapshot.Clone(), true
}

// Current returns the entry at the cursor.
func (s *Stack) Current() (Entry, bool) {
	if s.cursor < 0 {
		return Entry{}, false
	}
	return s.entries[s.cursor], true
}

func (s *Stack) CanUndo() bool { return s.cursor > 0 }
func (s *Stack) CanRedo() bool { return s.cursor < len(s.entries)-1 }
func (s *Stack) Len() int      { return len(s.entries) }
func (s *Stack) Capacity() int { return s.capacity }

// Cursor returns the index of the current entry, or -1 when empty.
func (s *Stack) Cursor() int { return s.cursor }

// Clear drops every entry. Sequence numbers keep counting.
func (s *Stack) Clear() {
	for i := range s.entries {
		s.entries[i] = Entry{}
	}
	s.entries = s.entries[:0]
	s.cursor = -1
}

// Entries returns the checkpoints oldest first. Snapshots are shared with
// the stack and must not be modified.
func (s *Stack) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
