package ggrenderer

import (
	"image"
	"image/color"
	"testing"

	"github.com/user/picly/pkg/ports"
)

func checker(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				img.Set(x, y, color.RGBA{R: 255, A: 255})
			} else {
				img.Set(x, y, color.RGBA{B: 255, A: 255})
			}
		}
	}
	return img
}

func TestRenderer_RoundTripFormats(t *testing.T) {
	r := New()
	src := checker(12, 8)

	for _, format := range []ports.ImageFormat{
		ports.FormatPNG, ports.FormatJPEG, ports.FormatGIF, ports.FormatBMP, ports.FormatTIFF,
	} {
		t.Run(format.String(), func(t *testing.T) {
			data, err := r.EncodeImage(src, format, 90)
			if err != nil {
				t.Fatalf("EncodeImage failed: %v", err)
			}

			decoded, detected, err := r.DecodeImage(data)
			if err != nil {
				t.Fatalf("DecodeImage failed: %v", err)
			}
			if detected != format {
				t.Errorf("expected detected format %s, got %s", format, detected)
			}
			if b := decoded.Bounds(); b.Dx() != 12 || b.Dy() != 8 {
				t.Errorf("expected 12x8, got %dx%d", b.Dx(), b.Dy())
			}
		})
	}
}

func TestRenderer_PNGIsLossless(t *testing.T) {
	r := New()
	src := checker(5, 5)

	data, err := r.EncodeImage(src, ports.FormatPNG, 0)
	if err != nil {
		t.Fatalf("EncodeImage failed: %v", err)
	}
	decoded, _, err := r.DecodeImage(data)
	if err != nil {
		t.Fatalf("DecodeImage failed: %v", err)
	}

	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			want := src.RGBAAt(x, y)
			gr, gg, gb, ga := decoded.At(x, y).RGBA()
			if uint8(gr>>8) != want.R || uint8(gg>>8) != want.G || uint8(gb>>8) != want.B || uint8(ga>>8) != want.A {
				t.Fatalf("pixel (%d,%d) changed", x, y)
			}
		}
	}
}

func TestRenderer_DecodeGarbage(t *testing.T) {
	if _, _, err := New().DecodeImage([]byte("not an image")); err == nil {
		t.Error("expected error for garbage input")
	}
}

func TestRenderer_EncodeWebPUnsupported(t *testing.T) {
	if _, err := New().EncodeImage(checker(2, 2), ports.FormatWebP, 0); err == nil {
		t.Error("expected WebP encoding to be rejected")
	}
}

func TestRenderer_ResizeImage(t *testing.T) {
	r := New()

	shrunk := r.ResizeImage(image.NewRGBA(image.Rect(0, 0, 100, 100)), 50, 25)
	if b := shrunk.Bounds(); b.Dx() != 50 || b.Dy() != 25 {
		t.Errorf("expected 50x25, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestRenderer_EnlargeKeepsHardEdges(t *testing.T) {
	r := New()
	src := checker(2, 2)

	big := r.ResizeImage(src, 8, 8)

	// Each source pixel becomes a 4×4 block.
	rr, _, bb, _ := big.At(1, 1).RGBA()
	if rr>>8 != 255 || bb != 0 {
		t.Error("expected pure red in the top-left block")
	}
	rr, _, bb, _ = big.At(5, 1).RGBA()
	if rr != 0 || bb>>8 != 255 {
		t.Error("expected pure blue in the top-right block")
	}
}

func TestCanvas_DrawRect(t *testing.T) {
	canvas := New().CreateCanvas(100, 100, color.White)

	canvas.DrawRect(10, 10, 30, 30, color.RGBA{R: 255, A: 255})

	_, g, _, _ := canvas.ToImage().At(20, 20).RGBA()
	if g != 0 {
		t.Error("expected red pixel inside rectangle")
	}
}

func TestCanvas_DrawCircleStroke(t *testing.T) {
	canvas := New().CreateCanvas(60, 60, color.Transparent)

	canvas.DrawCircleStroke(30, 30, 10, color.Black, 2)

	img := canvas.ToImage()
	if _, _, _, a := img.At(40, 30).RGBA(); a == 0 {
		t.Error("expected ring pixel at radius 10")
	}
	if _, _, _, a := img.At(30, 30).RGBA(); a != 0 {
		t.Error("expected centre to stay transparent")
	}
}

func TestCanvas_DrawImageScaled(t *testing.T) {
	canvas := New().CreateCanvas(40, 40, color.White)

	canvas.DrawImageScaled(checker(2, 2), 0, 0, 20, 20)

	_, _, b, _ := canvas.ToImage().At(15, 2).RGBA()
	if b>>8 != 255 {
		t.Error("expected scaled blue block in the top-right quadrant")
	}
	r, g, b2, _ := canvas.ToImage().At(30, 30).RGBA()
	if r != 0xffff || g != 0xffff || b2 != 0xffff {
		t.Error("expected background outside the scaled image")
	}
}

func TestCanvas_DrawLine(t *testing.T) {
	canvas := New().CreateCanvas(100, 100, color.White)

	canvas.DrawLine(0, 50, 100, 50, color.Black, 2)

	r, g, b, _ := canvas.ToImage().At(50, 50).RGBA()
	if r == 0xffff && g == 0xffff && b == 0xffff {
		t.Error("expected non-white pixel on line")
	}
}

func TestCanvas_Text(t *testing.T) {
	canvas := New().CreateCanvas(200, 50, color.White)
	style := ports.TextStyle{FontSize: 14, Color: color.Black, Align: ports.AlignCenter}

	canvas.DrawText("100%", 100, 25, style)
	w, h := canvas.MeasureText("100%", style)

	if w <= 0 || h <= 0 {
		t.Errorf("expected positive text extent, got %vx%v", w, h)
	}
}

func TestCanvas_BuiltinFontScales(t *testing.T) {
	canvas := New().CreateCanvas(400, 100, color.White)

	small, _ := canvas.MeasureText("Zoom 100%", ports.TextStyle{FontSize: 10, Color: color.Black})
	large, _ := canvas.MeasureText("Zoom 100%", ports.TextStyle{FontSize: 30, Color: color.Black})
	if large <= small*2 {
		t.Errorf("expected a 30pt string to be much wider than 10pt, got %v and %v", large, small)
	}

	// A missing font file falls back to the built-in face.
	fallback, _ := canvas.MeasureText("Zoom 100%", ports.TextStyle{FontSize: 30, FontPath: "/nonexistent.ttf"})
	if fallback != large {
		t.Errorf("expected fallback width %v, got %v", large, fallback)
	}
}
