// Package composite implements the history sheet composition stage.
package composite

import (
	"context"
	"fmt"
	"image"
	"runtime"
	"sync"

	"github.com/user/picly/pkg/pipeline"
	"github.com/user/picly/pkg/ports"
	"github.com/user/picly/pkg/stages/layout"
)

// Stage draws history checkpoints onto a contact sheet.
type Stage struct {
	renderer   ports.Renderer
	logger     ports.Logger
	numWorkers int
}

// NewStage creates a new composite stage.
func NewStage(renderer ports.Renderer, logger ports.Logger, numWorkers int) *Stage {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &Stage{
		renderer:   renderer,
		logger:     logger.WithComponent("composite"),
		numWorkers: numWorkers,
	}
}

// Execute renders the sheet. Thumbnails are scaled in parallel and then
// drawn in order.
func (s *Stage) Execute(ctx context.Context, input pipeline.SheetInput) (pipeline.SheetResult, error) {
	if len(input.Entries) != len(input.Layout.Cells) {
		return pipeline.SheetResult{}, fmt.Errorf("layout has %d cells for %d entries", len(input.Layout.Cells), len(input.Entries))
	}

	s.logger.Debug("Compositing %d checkpoints with %d workers", len(input.Entries), s.numWorkers)

	thumbs, err := s.scaleParallel(ctx, input)
	if err != nil {
		return pipeline.SheetResult{}, err
	}

	canvas := s.renderer.CreateCanvas(input.Layout.CanvasWidth, input.Layout.CanvasHeight, input.Theme.Background)
	textStyle := ports.TextStyle{
		FontSize: input.Theme.FontSize,
		FontPath: input.Theme.FontPath,
		Color:    input.Theme.Text,
		Align:    ports.AlignCenter,
	}

	for i, entry := range input.Entries {
		cell := input.Layout.Cells[i]
		fit := thumbs[i].rect
		canvas.DrawImage(thumbs[i].image, fit.X, fit.Y)

		if i == input.Current {
			canvas.DrawRectStroke(cell.X, cell.Y, cell.Width, cell.Height, input.Theme.CurrentBorder, 3)
		} else {
			canvas.DrawRectStroke(cell.X, cell.Y, cell.Width, cell.Height, input.Theme.CellBorder, 1)
		}

		label := input.Layout.Labels[i]
		if label.Height > 0 {
			caption := fmt.Sprintf("#%d %s", entry.Seq, entry.Label)
			canvas.DrawText(caption, label.X+label.Width/2, label.Y+label.Height/2, textStyle)
		}
	}

	s.logger.Debug("Composition completed")
	return pipeline.SheetResult{Image: canvas.ToImage()}, nil
}

type thumb struct {
	image image.Image
	rect  pipeline.Rectangle
}

type indexedThumb struct {
	index int
	thumb thumb
}

// scaleParallel scales every entry to fit its cell using a worker pool.
func (s *Stage) scaleParallel(ctx context.Context, input pipeline.SheetInput) ([]thumb, error) {
	n := len(input.Entries)
	jobs := make(chan int, n)
	results := make(chan indexedThumb, n)
	errChan := make(chan error, s.numWorkers)

	var wg sync.WaitGroup
	for w := 0; w < s.numWorkers; w++ {
		wg.Add(1)
		go s.worker(ctx, &wg, input, jobs, results, errChan)
	}

	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
		close(errChan)
	}()

	thumbs := make([]thumb, n)
	received := 0
	for r := range results {
		thumbs[r.index] = r.thumb
		received++
	}

	if err := <-errChan; err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if received != n {
		return nil, fmt.Errorf("scaled %d of %d checkpoints", received, n)
	}
	return thumbs, nil
}

func (s *Stage) worker(
	ctx context.Context,
	wg *sync.WaitGroup,
	input pipeline.SheetInput,
	jobs <-chan int,
	results chan<- indexedThumb,
	errChan chan<- error,
) {
	defer wg.Done()

	for idx := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		entry := input.Entries[idx]
		if entry.Image == nil {
			select {
			case errChan <- fmt.Errorf("checkpoint %d has no image", entry.Seq):
			default:
			}
			return
		}

		b := entry.Image.Bounds()
		rect := layout.FitRect(b.Dx(), b.Dy(), input.Layout.Cells[idx])
		img := entry.Image
		if rect.Width != b.Dx() || rect.Height != b.Dy() {
			img = s.renderer.ResizeImage(img, rect.Width, rect.Height)
		}
		results <- indexedThumb{index: idx, thumb: thumb{image: img, rect: rect}}
	}
}
