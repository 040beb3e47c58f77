package surface

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"codeberg.org/go-pdf/fpdf"
)

// fpdfDevice implements Device on top of codeberg.org/go-pdf/fpdf. fpdf uses
// a top-left origin with y growing downward, so every y coordinate is
// flipped against the current page height.
type fpdfDevice struct {
	f      *fpdf.Fpdf
	pageH  float64
	images map[string]bool
}

// NewPDF returns a PDF-backed Device. One device per rendered document.
func NewPDF() Device {
	f := fpdf.New("P", "pt", "A4", "")
	f.SetAutoPageBreak(false, 0)
	return &fpdfDevice{
		f:      f,
		images: make(map[string]bool),
	}
}

func (d *fpdfDevice) NewPage(width, height float64) Page {
	d.f.AddPageFormat("P", fpdf.SizeType{Wd: width, Ht: height})
	d.pageH = height
	return &fpdfPage{devRef: d}
}

func (d *fpdfDevice) SetInfo(info Info) {
	if info.Title != "" {
		d.f.SetTitle(info.Title, true)
	}
	if info.Author != "" {
		d.f.SetAuthor(info.Author, true)
	}
}

func (d *fpdfDevice) RegisterFont(family, style string, ttf []byte) error {
	d.f.AddUTF8FontFromBytes(family, style, ttf)
	if d.f.Err() {
		return fmt.Errorf("surface: registering font %s %q: %w", family, style, d.f.Error())
	}
	return nil
}

func (d *fpdfDevice) MeasureText(text string, size float64, font Font) float64 {
	if text == "" {
		return 0
	}
	d.f.SetFont(font.Family, font.Style, size)
	return d.f.GetStringWidth(text)
}

func (d *fpdfDevice) Output() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.f.Output(&buf); err != nil {
		return nil, fmt.Errorf("surface: encoding document: %w", err)
	}
	return buf.Bytes(), nil
}

// fpdfPage holds the device rather than the raw fpdf handle so coordinate
// conversion always uses the dimensions of the page it belongs to.
type fpdfPage struct {
	devRef *fpdfDevice
}

func (p *fpdfPage) DrawText(text string, x, y float64, opts TextOptions) {
	f := p.devRef.f
	f.SetFont(opts.Font.Family, opts.Font.Style, opts.Size)
	r, g, b := rgb255(opts.Color)
	f.SetTextColor(r, g, b)
	f.Text(x, p.devRef.pageH-y, text)
}

func (p *fpdfPage) DrawLine(x1, y1, x2, y2 float64, opts LineOptions) {
	f := p.devRef.f
	r, g, b := rgb255(opts.Color)
	f.SetDrawColor(r, g, b)
	f.SetLineWidth(opts.Width)
	f.Line(x1, p.devRef.pageH-y1, x2, p.devRef.pageH-y2)
}

func (p *fpdfPage) DrawRect(x, y, w, h float64, opts RectOptions) {
	f := p.devRef.f
	top := p.devRef.pageH - (y + h)
	if opts.Fill {
		r, g, b := rgb255(opts.FillColor)
		f.SetFillColor(r, g, b)
	}
	if opts.Stroke {
		r, g, b := rgb255(opts.StrokeColor)
		f.SetDrawColor(r, g, b)
		f.SetLineWidth(opts.LineWidth)
	}
	alpha := opts.FillColor.Alpha()
	if opts.Fill && alpha < 1 {
		f.SetAlpha(alpha, "Normal")
		defer f.SetAlpha(1, "Normal")
	}
	if opts.Radius > 0 {
		f.RoundedRect(x, top, w, h, opts.Radius, "1234", rectStyle(opts.Fill, opts.Stroke))
	} else {
		f.Rect(x, top, w, h, rectStyle(opts.Fill, opts.Stroke))
	}
}

func (p *fpdfPage) DrawCircle(x, y, r float64, opts CircleOptions) {
	f := p.devRef.f
	if opts.Fill {
		cr, cg, cb := rgb255(opts.FillColor)
		f.SetFillColor(cr, cg, cb)
	}
	if opts.Stroke {
		cr, cg, cb := rgb255(opts.StrokeColor)
		f.SetDrawColor(cr, cg, cb)
		f.SetLineWidth(opts.LineWidth)
	}
	f.Circle(x, p.devRef.pageH-y, r, rectStyle(opts.Fill, opts.Stroke))
}

func (p *fpdfPage) DrawImage(data []byte, format string, x, y, w, h float64) {
	f := p.devRef.f
	sum := sha1.Sum(data)
	name := hex.EncodeToString(sum[:])
	opts := fpdf.ImageOptions{ImageType: format}
	if !p.devRef.images[name] {
		f.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
		p.devRef.images[name] = true
	}
	f.ImageOptions(name, x, p.devRef.pageH-(y+h), w, h, false, opts, 0, "")
}

func (p *fpdfPage) Finish() {}

func rgb255(c Color) (int, int, int) {
	clamp := func(v float64) int {
		n := int(v*255 + 0.5)
		if n < 0 {
			return 0
		}
		if n > 255 {
			return 255
		}
		return n
	}
	return clamp(c.R), clamp(c.G), clamp(c.B)
}

func rectStyle(fill, stroke bool) string {
	switch {
	case fill && stroke:
		return "FD"
	case fill:
		return "F"
	default:
		return "D"
	}
}
