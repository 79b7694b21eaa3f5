// Package pipeline defines the stage abstraction shared by the file-level
// steps around an editing session (load, export, preview) and their data
// types.
package pipeline

import (
	"context"
	"fmt"
)

// Stage turns an input into an output.
type Stage[In, Out any] interface {
	Execute(ctx context.Context, input In) (Out, error)
}

// StageFunc adapts a function to Stage.
type StageFunc[In, Out any] func(ctx context.Context, input In) (Out, error)

func (f StageFunc[In, Out]) Execute(ctx context.Context, input In) (Out, error) {
	return f(ctx, input)
}

// Then runs first, checks ctx, and feeds the result to second.
func Then[A, B, C any](first Stage[A, B], second Stage[B, C]) Stage[A, C] {
	return StageFunc[A, C](func(ctx context.Context, in A) (C, error) {
		var zero C
		mid, err := first.Execute(ctx, in)
		if err != nil {
			return zero, err
		}
		if err := ctx.Err(); err != nil {
			return zero, fmt.Errorf("pipeline interrupted: %w", err)
		}
		return second.Execute(ctx, mid)
	})
}
