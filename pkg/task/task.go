// Package task runs a single asynchronous request whose outcome can be
// polled or awaited.
package task

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// State is the observable phase of a task.
type State int

const (
	Pending State = iota
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// NewID returns a fresh ULID string.
func NewID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// Task is the handle of a running function.
type Task[T any] struct {
	id      string
	label   string
	started time.Time
	done    chan struct{}

	mu       sync.Mutex
	state    State
	value    T
	err      error
	finished time.Time
}

// Go starts fn in a new goroutine. fn receives ctx unchanged; the task
// itself never cancels it.
func Go[T any](ctx context.Context, label string, fn func(ctx context.Context) (T, error)) *Task[T] {
	t := &Task[T]{
		id:      NewID(),
		label:   label,
		started: time.Now(),
		done:    make(chan struct{}),
	}
	go func() {
		v, err := fn(ctx)
		t.mu.Lock()
		t.value, t.err = v, err
		if err != nil {
			t.state = Failed
		} else {
			t.state = Succeeded
		}
		t.finished = time.Now()
		t.mu.Unlock()
		close(t.done)
	}()
	return t
}

func (t *Task[T]) ID() string    { return t.id }
func (t *Task[T]) Label() string { return t.label }

// Done is closed once the task has succeeded or failed.
func (t *Task[T]) Done() <-chan struct{} { return t.done }

func (t *Task[T]) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Result returns the outcome so far. While pending it returns the zero
// value and a nil error.
func (t *Task[T]) Result() (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value, t.err
}

// Elapsed is the run time so far, or the total once finished.
func (t *Task[T]) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.finished.IsZero() {
		return time.Since(t.started)
	}
	return t.finished.Sub(t.started)
}

// Wait blocks until the task finishes or ctx is done.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.Result()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
