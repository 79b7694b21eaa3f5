package export

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"testing"
	"time"

	"github.com/user/picly/pkg/adapters/logger"
	"github.com/user/picly/pkg/editerr"
	"github.com/user/picly/pkg/mocks"
	"github.com/user/picly/pkg/pipeline"
	"github.com/user/picly/pkg/ports"
)

func testImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 8, 8))
}

func TestStage_DefaultName(t *testing.T) {
	fs := mocks.NewFileSystem()
	renderer := &mocks.Renderer{}
	stage := NewStage(renderer, fs, logger.NewNoop())

	now := time.UnixMilli(1718000000123)
	result, err := stage.Execute(context.Background(), pipeline.ExportInput{
		Image: testImage(),
		Dir:   "out",
		Now:   now,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := filepath.Join("out", "edited-1718000000123.png")
	if result.Path != want {
		t.Errorf("expected path %q, got %q", want, result.Path)
	}
	if result.Format != ports.FormatPNG {
		t.Errorf("expected png, got %s", result.Format)
	}
	data, ok := fs.GetFile(want)
	if !ok {
		t.Fatalf("expected %s to be written", want)
	}
	if string(data) != "encoded:png" {
		t.Errorf("unexpected file contents %q", data)
	}
	if result.Size != len(data) {
		t.Errorf("expected size %d, got %d", len(data), result.Size)
	}
}

func TestStage_ExplicitOutputInfersFormat(t *testing.T) {
	fs := mocks.NewFileSystem()
	renderer := &mocks.Renderer{}
	stage := NewStage(renderer, fs, logger.NewNoop())

	result, err := stage.Execute(context.Background(), pipeline.ExportInput{
		Image:  testImage(),
		Output: "result.JPG",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Format != ports.FormatJPEG {
		t.Errorf("expected jpeg from extension, got %s", result.Format)
	}
	if got := renderer.Encoded(); len(got) != 1 || got[0] != ports.FormatJPEG {
		t.Errorf("expected one jpeg encode, got %v", got)
	}
	if _, ok := fs.GetFile("result.JPG"); !ok {
		t.Error("expected output written to the given path")
	}
}

func TestStage_NoImage(t *testing.T) {
	stage := NewStage(&mocks.Renderer{}, mocks.NewFileSystem(), logger.NewNoop())

	_, err := stage.Execute(context.Background(), pipeline.ExportInput{Dir: "."})
	if !editerr.Is(err, editerr.ErrNoImage) {
		t.Errorf("expected NO_IMAGE, got %v", err)
	}
}

func TestStage_WriteError(t *testing.T) {
	fs := mocks.NewFileSystem()
	writeErr := errors.New("disk full")
	fs.WriteFileFunc = func(path string, data []byte) error { return writeErr }
	stage := NewStage(&mocks.Renderer{}, fs, logger.NewNoop())

	_, err := stage.Execute(context.Background(), pipeline.ExportInput{Image: testImage(), Dir: "."})
	if !errors.Is(err, writeErr) {
		t.Errorf("expected wrapped write error, got %v", err)
	}
}

func TestStage_EncodeError(t *testing.T) {
	renderer := &mocks.Renderer{
		EncodeImageFunc: func(img image.Image, format ports.ImageFormat, quality int) ([]byte, error) {
			return nil, errors.New("webp encoding is not supported")
		},
	}
	fs := mocks.NewFileSystem()
	stage := NewStage(renderer, fs, logger.NewNoop())

	_, err := stage.Execute(context.Background(), pipeline.ExportInput{Image: testImage(), Format: ports.FormatWebP, Dir: "."})
	if err == nil {
		t.Fatal("expected encode error")
	}
	if len(fs.Paths()) != 0 {
		t.Error("expected nothing written on encode failure")
	}
}

func TestFileName(t *testing.T) {
	got := FileName(time.UnixMilli(42), ports.FormatJPEG)
	if got != "edited-42.jpg" {
		t.Errorf("unexpected name %q", got)
	}
}
