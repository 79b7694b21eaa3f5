package pipeline

import (
	"image"
	"image/color"
	"time"

	"github.com/user/picly/pkg/ports"
)

// LoadInput names the image file to open.
type LoadInput struct {
	Path string
}

// LoadResult is a decoded image plus the properties shown in the editor's
// image panel.
type LoadResult struct {
	Path     string
	Image    image.Image
	Format   ports.ImageFormat
	FileSize int64
	Width    int
	Height   int
}

// ExportInput describes one export. When Output is empty the file is
// written to Dir as edited-<unix-ms><ext>, using Now for the timestamp.
type ExportInput struct {
	Image   image.Image
	Format  ports.ImageFormat
	Quality int
	Dir     string
	Output  string
	Now     time.Time
}

// ExportResult reports where the image went.
type ExportResult struct {
	Path   string
	Size   int
	Format ports.ImageFormat
}

// PreviewInput is the editor view to rasterize: the document, the optional
// tool overlay at the same size, and the zoom at which both are shown.
type PreviewInput struct {
	Document  image.Image
	Overlay   image.Image
	Zoom      float64
	ShowLabel bool
}

// PreviewResult is the composed view.
type PreviewResult struct {
	Image image.Image
}

// PreviewStyle configures preview composition.
type PreviewStyle struct {
	CheckerSize  int
	CheckerLight color.Color
	CheckerDark  color.Color
	BorderColor  color.Color
	LabelColor   color.Color
	LabelBack    color.Color
	LabelSize    float64
	FontPath     string
}

// DefaultPreviewStyle matches the editor's canvas area.
func DefaultPreviewStyle() PreviewStyle {
	return PreviewStyle{
		CheckerSize:  10,
		CheckerLight: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		CheckerDark:  color.RGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff},
		BorderColor:  color.RGBA{R: 0x66, G: 0x7e, B: 0xea, A: 0xff},
		LabelColor:   color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		LabelBack:    color.RGBA{A: 0xb0},
		LabelSize:    14,
	}
}

// Rectangle is an integer rectangle in canvas pixels.
type Rectangle struct {
	X      int
	Y      int
	Width  int
	Height int
}

// SheetLayoutInput sizes a contact sheet of history checkpoints.
type SheetLayoutInput struct {
	Count       int
	Columns     int
	CellWidth   int
	CellHeight  int
	Gap         int
	Padding     int
	LabelHeight int
}

// DefaultSheetLayoutInput returns a four-column sheet of 240×180 cells.
func DefaultSheetLayoutInput() SheetLayoutInput {
	return SheetLayoutInput{
		Columns:     4,
		CellWidth:   240,
		CellHeight:  180,
		Gap:         12,
		Padding:     20,
		LabelHeight: 24,
	}
}

// SheetLayout places each checkpoint. Cells[i] holds the thumbnail area and
// Labels[i] the caption strip beneath it.
type SheetLayout struct {
	CanvasWidth  int
	CanvasHeight int
	Rows         int
	Cells        []Rectangle
	Labels       []Rectangle
}

// SheetEntry is one checkpoint to draw.
type SheetEntry struct {
	Seq   int
	Label string
	Image image.Image
}

// SheetTheme colours the contact sheet.
type SheetTheme struct {
	Background    color.Color
	CellBorder    color.Color
	CurrentBorder color.Color
	Text          color.Color
	FontSize      float64
	FontPath      string
}

// DefaultSheetTheme matches the editor's palette.
func DefaultSheetTheme() SheetTheme {
	return SheetTheme{
		Background:    color.RGBA{R: 0xf5, G: 0xf5, B: 0xf7, A: 0xff},
		CellBorder:    color.RGBA{R: 0xdd, G: 0xdd, B: 0xdd, A: 0xff},
		CurrentBorder: color.RGBA{R: 0x66, G: 0x7e, B: 0xea, A: 0xff},
		Text:          color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff},
		FontSize:      13,
	}
}

// SheetInput is a laid-out set of checkpoints. Current is the index of the
// entry under the history cursor, or -1.
type SheetInput struct {
	Entries []SheetEntry
	Layout  SheetLayout
	Theme   SheetTheme
	Current int
}

// SheetResult is the rendered contact sheet.
type SheetResult struct {
	Image image.Image
}
