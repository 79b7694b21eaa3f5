package layout

import (
	"context"
	"testing"

	"github.com/user/picly/pkg/pipeline"
)

func TestComputeSheetLayout_Grid(t *testing.T) {
	input := pipeline.SheetLayoutInput{
		Count:       6,
		Columns:     4,
		CellWidth:   100,
		CellHeight:  80,
		Gap:         10,
		Padding:     20,
		LabelHeight: 20,
	}

	result := ComputeSheetLayout(input)

	// 20 + 4*100 + 3*10 + 20
	if result.CanvasWidth != 470 {
		t.Errorf("canvas width: expected 470, got %d", result.CanvasWidth)
	}
	// 20 + 2*(80+20) + 10 + 20
	if result.CanvasHeight != 250 {
		t.Errorf("canvas height: expected 250, got %d", result.CanvasHeight)
	}
	if result.Rows != 2 {
		t.Errorf("expected 2 rows, got %d", result.Rows)
	}

	expectedCells := []pipeline.Rectangle{
		{X: 20, Y: 20, Width: 100, Height: 80},
		{X: 130, Y: 20, Width: 100, Height: 80},
		{X: 240, Y: 20, Width: 100, Height: 80},
		{X: 350, Y: 20, Width: 100, Height: 80},
		{X: 20, Y: 130, Width: 100, Height: 80},
		{X: 130, Y: 130, Width: 100, Height: 80},
	}
	if len(result.Cells) != len(expectedCells) {
		t.Fatalf("expected %d cells, got %d", len(expectedCells), len(result.Cells))
	}
	for i, expected := range expectedCells {
		if got := result.Cells[i]; got != expected {
			t.Errorf("cells[%d]: expected %+v, got %+v", i, expected, got)
		}
	}

	label := result.Labels[4]
	expectedLabel := pipeline.Rectangle{X: 20, Y: 210, Width: 100, Height: 20}
	if label != expectedLabel {
		t.Errorf("labels[4]: expected %+v, got %+v", expectedLabel, label)
	}
}

func TestComputeSheetLayout_FewerEntriesThanColumns(t *testing.T) {
	input := pipeline.DefaultSheetLayoutInput()
	input.Count = 2

	result := ComputeSheetLayout(input)

	want := input.Padding*2 + 2*input.CellWidth + input.Gap
	if result.CanvasWidth != want {
		t.Errorf("expected width %d for two columns, got %d", want, result.CanvasWidth)
	}
	if result.Rows != 1 {
		t.Errorf("expected 1 row, got %d", result.Rows)
	}
}

func TestComputeSheetLayout_Empty(t *testing.T) {
	input := pipeline.DefaultSheetLayoutInput()

	result := ComputeSheetLayout(input)

	if len(result.Cells) != 0 || result.Rows != 0 {
		t.Errorf("expected no cells, got %+v", result)
	}
	if result.CanvasHeight != input.Padding*2 {
		t.Errorf("expected padding-only height, got %d", result.CanvasHeight)
	}
}

func TestStage_Execute(t *testing.T) {
	input := pipeline.DefaultSheetLayoutInput()
	input.Count = 5

	result, err := NewStage().Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Cells) != 5 {
		t.Errorf("expected 5 cells, got %d", len(result.Cells))
	}
}

func TestFitRect(t *testing.T) {
	cell := pipeline.Rectangle{X: 10, Y: 10, Width: 200, Height: 100}

	tests := []struct {
		name string
		w, h int
		want pipeline.Rectangle
	}{
		{"wide image fills width", 800, 200, pipeline.Rectangle{X: 10, Y: 35, Width: 200, Height: 50}},
		{"tall image fills height", 100, 400, pipeline.Rectangle{X: 97, Y: 10, Width: 25, Height: 100}},
		{"small image is centred, not enlarged", 50, 20, pipeline.Rectangle{X: 85, Y: 50, Width: 50, Height: 20}},
		{"degenerate image", 0, 10, pipeline.Rectangle{X: 10, Y: 10}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FitRect(tt.w, tt.h, cell); got != tt.want {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}
