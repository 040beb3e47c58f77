// Package style holds the design tokens of the renderer: font roles, sizes,
// colors, spacing and the per-variant visual constants. A Theme is a plain
// value constructed per render and handed to the engine; nothing in here is
// shared mutable state, so a font-family override on one render can never
// leak into another.
package style

import "github.com/notepress/notepress/surface"

// Points per millimeter.
const mmToPt = 2.83465

// MmToPoints converts millimeters to points.
func MmToPoints(mm float64) float64 { return mm * mmToPt }

// PointsToMm converts points to millimeters.
func PointsToMm(pt float64) float64 { return pt / mmToPt }

// Page dimensions in points.
const (
	A4Width      = 595.27
	A4Height     = 841.89
	LetterWidth  = 612.0
	LetterHeight = 792.0

	DefaultMarginMM = 20.0
)

// RGB is a color in the 0..1 range.
type RGB struct {
	R, G, B float64
}

// Color converts to a solid surface color.
func (c RGB) Color() surface.Color {
	return surface.Color{R: c.R, G: c.G, B: c.B}
}

// WithAlpha converts to a surface color with the given fill alpha.
func (c RGB) WithAlpha(a float64) surface.Color {
	return surface.Color{R: c.R, G: c.G, B: c.B, A: a}
}

// FontSet maps font roles to concrete faces.
type FontSet struct {
	Heading    surface.Font
	Body       surface.Font
	Caption    surface.Font
	Code       surface.Font
	Bold       surface.Font
	Italic     surface.Font
	BoldItalic surface.Font
}

// FontSizes in points.
type FontSizes struct {
	H1      float64
	H2      float64
	H3      float64
	Body    float64
	Caption float64
	Code    float64
}

// Palette is the fixed color scheme.
type Palette struct {
	BrandBrown  RGB
	TextPrimary RGB
	TextMuted   RGB
	CodeBg      RGB
	CodeBorder  RGB
	LineLight   RGB
	LineStrong  RGB
	TableHeader RGB
	White       RGB
	Black       RGB
}

// Spacing values in points, base unit 8pt.
type Spacing struct {
	SectionGap       float64
	ParagraphGap     float64
	ListIndent       float64
	ListItemGap      float64
	CodePadding      float64
	TableCellPadding float64
	CaptionGap       float64
}

// Markers are the glyphs used by list variants.
type Markers struct {
	Bullet          string
	ToggleCollapsed string
	ToggleExpanded  string
}

// LineWidths for rules and separators.
type LineWidths struct {
	Thin    float64
	Regular float64
	Thick   float64
}

// ExercisePattern holds the tiling constants for exercise areas.
type ExercisePattern struct {
	RuledSpacing   float64
	DotGridSpacing float64
	SquareSpacing  float64
	CornerRadius   float64
	DotRadius      float64
}

// Theme bundles every token the engine needs for one render.
type Theme struct {
	Fonts      FontSet
	Sizes      FontSizes
	Colors     Palette
	Spacing    Spacing
	Markers    Markers
	Lines      LineWidths
	Exercise   ExercisePattern
	Highlights map[string]RGB
	TextColors map[string]RGB
}

// New returns a theme populated with the built-in tokens. Each call returns
// an independent value, maps included.
func New() *Theme {
	return &Theme{
		Fonts: FontSet{
			Heading:    surface.Font{Family: "Helvetica", Style: "B"},
			Body:       surface.Font{Family: "Helvetica"},
			Caption:    surface.Font{Family: "Helvetica", Style: "I"},
			Code:       surface.Font{Family: "Courier"},
			Bold:       surface.Font{Family: "Helvetica", Style: "B"},
			Italic:     surface.Font{Family: "Helvetica", Style: "I"},
			BoldItalic: surface.Font{Family: "Helvetica", Style: "BI"},
		},
		Sizes: FontSizes{
			H1:      32,
			H2:      24,
			H3:      18,
			Body:    12,
			Caption: 10,
			Code:    10,
		},
		Colors: Palette{
			BrandBrown:  RGB{0.431, 0.388, 0.275}, // #6E6346
			TextPrimary: RGB{0.169, 0.169, 0.169}, // #2B2B2B
			TextMuted:   RGB{0.416, 0.416, 0.416}, // #6A6A6A
			CodeBg:      RGB{0.961, 0.961, 0.961}, // #F5F5F5
			CodeBorder:  RGB{0.898, 0.898, 0.898}, // #E5E5E5
			LineLight:   RGB{0.839, 0.827, 0.808}, // #D6D3CE
			LineStrong:  RGB{0.431, 0.388, 0.275}, // #6E6346
			TableHeader: RGB{0.97, 0.97, 0.97},
			White:       RGB{1, 1, 1},
			Black:       RGB{0, 0, 0},
		},
		Spacing: Spacing{
			SectionGap:       16,
			ParagraphGap:     12,
			ListIndent:       20,
			ListItemGap:      6,
			CodePadding:      8,
			TableCellPadding: 6,
			CaptionGap:       4,
		},
		Markers: Markers{
			Bullet:          "•",
			ToggleCollapsed: "▶",
			ToggleExpanded:  "▼",
		},
		Lines: LineWidths{
			Thin:    0.5,
			Regular: 1.0,
			Thick:   2.0,
		},
		Exercise: ExercisePattern{
			RuledSpacing:   12,
			DotGridSpacing: 10,
			SquareSpacing:  14.17, // 5mm
			CornerRadius:   4,
			DotRadius:      0.75,
		},
		Highlights: map[string]RGB{
			"yellow":     {1.0, 0.961, 0.616},   // #FFF59D
			"green":      {0.725, 0.965, 0.792}, // #B9F6CA
			"aqua":       {0.655, 1.0, 0.922},   // #A7FFEB
			"blue":       {0.702, 0.898, 0.988}, // #B3E5FC
			"cornflower": {0.816, 0.886, 1.0},   // #D0E2FF
			"lavender":   {0.882, 0.745, 0.906}, // #E1BEE7
			"pink":       {0.973, 0.733, 0.816}, // #F8BBD0
			"peach":      {1.0, 0.8, 0.737},     // #FFCCBC
			"gray":       {0.878, 0.878, 0.878}, // #E0E0E0
		},
		TextColors: map[string]RGB{
			"blue":    {0.118, 0.533, 0.898}, // #1E88E5
			"purple":  {0.494, 0.341, 0.761}, // #7E57C2
			"magenta": {0.925, 0.251, 0.478}, // #EC407A
			"orange":  {0.984, 0.549, 0.0},   // #FB8C00
			"gold":    {0.984, 0.753, 0.176}, // #FBC02D
			"teal":    {0.0, 0.537, 0.482},   // #00897B
		},
	}
}

// SpanFont resolves the face for an inline style combination. Code wins over
// bold and italic.
func (t *Theme) SpanFont(code, bold, italic bool) surface.Font {
	switch {
	case code:
		return t.Fonts.Code
	case bold && italic:
		return t.Fonts.BoldItalic
	case bold:
		return t.Fonts.Bold
	case italic:
		return t.Fonts.Italic
	default:
		return t.Fonts.Body
	}
}

// HeadingSize maps a heading level to its font size. Levels outside 1..3
// fall back to the smallest heading size.
func (t *Theme) HeadingSize(level int) float64 {
	switch level {
	case 1:
		return t.Sizes.H1
	case 2:
		return t.Sizes.H2
	default:
		return t.Sizes.H3
	}
}

// PageDims returns the page dimensions in points for a page size name.
// Anything other than LETTER is treated as A4.
func PageDims(pageSize string) (w, h float64) {
	if pageSize == "LETTER" {
		return LetterWidth, LetterHeight
	}
	return A4Width, A4Height
}
