// Package layout implements the history sheet layout stage.
package layout

import (
	"context"

	"github.com/user/picly/pkg/pipeline"
)

// Stage places history checkpoints on a contact sheet grid.
// This is a pure function with no external dependencies.
type Stage struct{}

// NewStage creates a new layout stage.
func NewStage() *Stage {
	return &Stage{}
}

// Execute calculates the sheet layout for input.Count checkpoints.
func (s *Stage) Execute(ctx context.Context, input pipeline.SheetLayoutInput) (pipeline.SheetLayout, error) {
	return ComputeSheetLayout(input), nil
}

// ComputeSheetLayout lays cells out left to right, top to bottom.
// Each cell is CellWidth×CellHeight with a LabelHeight caption strip below
// it; Gap separates cells and Padding surrounds the grid.
//
// The column count shrinks to Count when there are fewer checkpoints than
// columns, so a short history does not leave an empty right margin.
func ComputeSheetLayout(input pipeline.SheetLayoutInput) pipeline.SheetLayout {
	columns := input.Columns
	if columns <= 0 {
		columns = 1
	}
	if input.Count > 0 && input.Count < columns {
		columns = input.Count
	}

	rows := 0
	if input.Count > 0 {
		rows = (input.Count + columns - 1) / columns
	}

	rowHeight := input.CellHeight + input.LabelHeight
	width := input.Padding*2 + columns*input.CellWidth + (columns-1)*input.Gap
	height := input.Padding * 2
	if rows > 0 {
		height += rows*rowHeight + (rows-1)*input.Gap
	}

	cells := make([]pipeline.Rectangle, input.Count)
	labels := make([]pipeline.Rectangle, input.Count)
	for i := 0; i < input.Count; i++ {
		col := i % columns
		row := i / columns
		x := input.Padding + col*(input.CellWidth+input.Gap)
		y := input.Padding + row*(rowHeight+input.Gap)

		cells[i] = pipeline.Rectangle{X: x, Y: y, Width: input.CellWidth, Height: input.CellHeight}
		labels[i] = pipeline.Rectangle{X: x, Y: y + input.CellHeight, Width: input.CellWidth, Height: input.LabelHeight}
	}

	return pipeline.SheetLayout{
		CanvasWidth:  width,
		CanvasHeight: height,
		Rows:         rows,
		Cells:        cells,
		Labels:       labels,
	}
}

// FitRect returns the largest rectangle with the aspect ratio of a w×h
// image that fits inside cell, centred in it. Images are never enlarged.
func FitRect(w, h int, cell pipeline.Rectangle) pipeline.Rectangle {
	if w <= 0 || h <= 0 || cell.Width <= 0 || cell.Height <= 0 {
		return pipeline.Rectangle{X: cell.X, Y: cell.Y}
	}

	tw, th := w, h
	if tw > cell.Width || th > cell.Height {
		// Compare w/h against cell.Width/cell.Height without division.
		if w*cell.Height >= h*cell.Width {
			tw = cell.Width
			th = h * cell.Width / w
		} else {
			th = cell.Height
			tw = w * cell.Height / h
		}
	}
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}

	return pipeline.Rectangle{
		X:      cell.X + (cell.Width-tw)/2,
		Y:      cell.Y + (cell.Height-th)/2,
		Width:  tw,
		Height: th,
	}
}
