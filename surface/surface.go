// Package surface defines the drawing capabilities the layout engine needs
// from an output backend: page lifecycle, baseline-anchored text, string
// measurement, primitive shapes and raster images. Coordinates are in points
// with the origin at the bottom-left of the page and y growing upward.
package surface

// Device produces pages and, once every page is finished, the encoded
// document bytes. A Device instance covers exactly one document render;
// font registrations on it never outlive the render.
type Device interface {
	// NewPage starts a new page with the given dimensions in points and
	// makes it the current drawing target.
	NewPage(width, height float64) Page

	// SetInfo records document-level metadata. Empty fields are skipped.
	SetInfo(info Info)

	// RegisterFont adds a TrueType face under the given family and style
	// ("", "B", "I" or "BI") for the lifetime of this device.
	RegisterFont(family, style string, ttf []byte) error

	// MeasureText returns the advance width of text at the given size,
	// without drawing it.
	MeasureText(text string, size float64, font Font) float64

	// Output finalizes the document and returns its encoded bytes.
	Output() ([]byte, error)
}

// Page is the drawing target for a single page.
type Page interface {
	// DrawText draws a string with its baseline at y.
	DrawText(text string, x, y float64, opts TextOptions)
	DrawLine(x1, y1, x2, y2 float64, opts LineOptions)
	// DrawRect draws a rectangle whose bottom-left corner is at (x, y).
	DrawRect(x, y, w, h float64, opts RectOptions)
	DrawCircle(x, y, r float64, opts CircleOptions)
	// DrawImage places raster bytes (format "PNG", "JPG" or "GIF") with the
	// image's bottom-left corner at (x, y), scaled to w by h points.
	DrawImage(data []byte, format string, x, y, w, h float64)
	// Finish marks the page complete. No draw call may follow it.
	Finish()
}

// Info carries document metadata.
type Info struct {
	Title  string
	Author string
}

// Font selects a registered or built-in face.
type Font struct {
	Family string
	Style  string // "", "B", "I", "BI"
}

// Color is an RGB color in the 0..1 range. A is the alpha used for fills;
// zero means fully opaque (the zero value draws solid).
type Color struct {
	R, G, B float64
	A       float64
}

// Alpha returns the effective alpha of the color.
func (c Color) Alpha() float64 {
	if c.A == 0 {
		return 1
	}
	return c.A
}

// TextOptions configures text drawing.
type TextOptions struct {
	Font  Font
	Size  float64
	Color Color
}

// LineOptions configures line drawing.
type LineOptions struct {
	Color Color
	Width float64
}

// RectOptions configures rectangle drawing. Radius > 0 rounds all corners.
type RectOptions struct {
	FillColor   Color
	StrokeColor Color
	LineWidth   float64
	Radius      float64
	Fill        bool
	Stroke      bool
}

// CircleOptions configures circle drawing.
type CircleOptions struct {
	FillColor   Color
	StrokeColor Color
	LineWidth   float64
	Fill        bool
	Stroke      bool
}
