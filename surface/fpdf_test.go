package surface

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func TestPDFOutput(t *testing.T) {
	dev := NewPDF()
	dev.SetInfo(Info{Title: "t", Author: "a"})

	page := dev.NewPage(595.27, 841.89)
	page.DrawText("hello", 72, 700, TextOptions{
		Font:  Font{Family: "Helvetica"},
		Size:  12,
		Color: Color{R: 0.2, G: 0.2, B: 0.2},
	})
	page.DrawLine(72, 690, 500, 690, LineOptions{Color: Color{}, Width: 0.5})
	page.DrawRect(72, 600, 100, 50, RectOptions{
		FillColor:   Color{R: 0.9, G: 0.9, B: 0.9},
		StrokeColor: Color{R: 0.5, G: 0.5, B: 0.5},
		LineWidth:   1,
		Radius:      4,
		Fill:        true,
		Stroke:      true,
	})
	page.DrawCircle(300, 650, 2, CircleOptions{FillColor: Color{R: 1}, Fill: true})
	page.Finish()

	out, err := dev.Output()
	if err != nil {
		t.Fatalf("Output: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output does not start with a PDF header: %q", out[:min(16, len(out))])
	}
}

func TestPDFMultiplePages(t *testing.T) {
	dev := NewPDF()
	for i := 0; i < 3; i++ {
		p := dev.NewPage(612, 792)
		p.DrawText("page", 72, 700, TextOptions{Font: Font{Family: "Helvetica"}, Size: 10, Color: Color{}})
		p.Finish()
	}
	out, err := dev.Output()
	if err != nil {
		t.Fatalf("Output: %v", err)
	}
	if len(out) == 0 {
		t.Fatal("empty output")
	}
}

func TestPDFMeasureText(t *testing.T) {
	dev := NewPDF()
	short := dev.MeasureText("hi", 12, Font{Family: "Helvetica"})
	long := dev.MeasureText("a much longer string", 12, Font{Family: "Helvetica"})
	if short <= 0 {
		t.Fatalf("short width = %v", short)
	}
	if long <= short {
		t.Fatalf("long %v not wider than short %v", long, short)
	}
	big := dev.MeasureText("hi", 24, Font{Family: "Helvetica"})
	if big <= short {
		t.Fatalf("doubling the size did not widen the text: %v vs %v", big, short)
	}
}

func TestPDFDrawImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := 0; i < 8; i++ {
		img.Set(i, i, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}

	dev := NewPDF()
	page := dev.NewPage(595.27, 841.89)
	// Same bytes twice: the second draw must reuse the registered image.
	page.DrawImage(buf.Bytes(), "PNG", 72, 600, 50, 50)
	page.DrawImage(buf.Bytes(), "PNG", 200, 600, 50, 50)
	page.Finish()

	out, err := dev.Output()
	if err != nil {
		t.Fatalf("Output: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatal("not a PDF")
	}
}

func TestPDFAlphaRect(t *testing.T) {
	dev := NewPDF()
	page := dev.NewPage(595.27, 841.89)
	page.DrawRect(100, 700, 80, 14, RectOptions{
		FillColor: Color{R: 1, G: 0.9, B: 0.3, A: 0.35},
		Radius:    2,
		Fill:      true,
	})
	page.Finish()
	if _, err := dev.Output(); err != nil {
		t.Fatalf("Output: %v", err)
	}
}
