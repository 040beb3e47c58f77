// Package document defines the validated in-memory document tree: metadata
// plus an ordered sequence of typed content blocks carrying rich-text spans.
// The block set is a closed union; the layout engine dispatches on it with an
// exhaustive type switch.
package document

import (
	"errors"
	"fmt"
)

// Page sizes.
const (
	PageA4     = "A4"
	PageLetter = "LETTER"
)

// List variants.
const (
	ListBullet = "bullet"
	ListNumber = "number"
	ListTask   = "task"
	ListToggle = "toggle"
)

// Break strengths.
const (
	BreakExtraLight = "extra_light"
	BreakLight      = "light"
	BreakRegular    = "regular"
	BreakStrong     = "strong"
)

// Image fit modes.
const (
	FitContain = "contain"
	FitCover   = "cover"
)

// Exercise area variants.
const (
	ExerciseRuled   = "ruled"
	ExerciseDotGrid = "dotgrid"
	ExerciseSquare  = "square"
	ExerciseBlank   = "blank"
)

// ErrInvalid is wrapped by every validation failure reported by this package.
var ErrInvalid = errors.New("invalid document")

var highlightNames = map[string]bool{
	"yellow": true, "green": true, "aqua": true, "blue": true,
	"cornflower": true, "lavender": true, "pink": true, "peach": true,
	"gray": true,
}

var textColorNames = map[string]bool{
	"blue": true, "purple": true, "magenta": true, "orange": true,
	"gold": true, "teal": true,
}

// RichText is one run of text sharing a set of inline attributes. Spans are
// value objects; a line of content is an ordered slice of them.
type RichText struct {
	Text      string `json:"text"`
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Code      bool   `json:"code,omitempty"`
	Emoji     bool   `json:"emoji,omitempty"`
	Highlight string `json:"highlight,omitempty"`
	Color     string `json:"color,omitempty"`

	// Math marks a span as an indivisible inline formula. It is set by the
	// shaper when splitting $...$ segments and never appears on the wire.
	Math bool `json:"-"`
}

// Meta is the document metadata.
// DefaultMarginMM is applied when a document omits its page margin.
const DefaultMarginMM = 20.0

type Meta struct {
	Title      string  `json:"title,omitempty"`
	Author     string  `json:"author,omitempty"`
	PageSize   string  `json:"page_size,omitempty"`
	MarginMM   float64 `json:"margin_mm"`
	FontFamily string  `json:"font_family,omitempty"`
}

// ListItem is a list entry with optional recursive children. Each item
// exclusively owns its subtree.
type ListItem struct {
	Text     []RichText `json:"text,omitempty"`
	Checked  bool       `json:"checked,omitempty"`
	Children []ListItem `json:"children,omitempty"`
}

// TableRow is one row of table cells; each cell is a rich-text sequence.
type TableRow struct {
	Cells [][]RichText `json:"cells"`
}

// Block is the closed union of content block types.
type Block interface {
	// blockType returns the wire tag and closes the union.
	blockType() string
}

// Heading is a level 1..3 heading.
type Heading struct {
	Level int        `json:"level"`
	Text  []RichText `json:"text"`
}

// Paragraph is body text, wrapped and justified.
type Paragraph struct {
	Text []RichText `json:"text"`
}

// Caption is small muted text.
type Caption struct {
	Text []RichText `json:"text"`
}

// ListBlock is a bullet, numbered, task or toggle list.
type ListBlock struct {
	Variant string     `json:"variant"`
	Items   []ListItem `json:"items"`
}

// Break is an ornamental separator.
type Break struct {
	Strength string `json:"strength"`
}

// PageBreak forces a new page.
type PageBreak struct{}

// Code is a monospace block with an optional language hint.
type Code struct {
	Language string `json:"language,omitempty"`
	Content  string `json:"content"`
}

// Formula is a display math block.
type Formula struct {
	LaTeX string `json:"latex"`
}

// Table is a rectangular grid. Widths, when present, are column ratios and
// must have exactly Columns entries.
type Table struct {
	Columns int        `json:"columns"`
	Rows    []TableRow `json:"rows"`
	Widths  []float64  `json:"widths,omitempty"`
}

// Image embeds a raster image from a file path or URL.
type Image struct {
	Src      string  `json:"src"`
	Alt      string  `json:"alt,omitempty"`
	WidthMM  float64 `json:"width_mm,omitempty"`
	HeightMM float64 `json:"height_mm,omitempty"`
	Fit      string  `json:"fit,omitempty"`
}

// ExerciseArea is a bordered, patterned blank region for handwritten work.
type ExerciseArea struct {
	Variant  string  `json:"variant"`
	HeightMM float64 `json:"height_mm"`
}

func (Heading) blockType() string      { return "heading" }
func (Paragraph) blockType() string    { return "paragraph" }
func (Caption) blockType() string      { return "caption" }
func (ListBlock) blockType() string    { return "list" }
func (Break) blockType() string        { return "break" }
func (PageBreak) blockType() string    { return "page_break" }
func (Code) blockType() string         { return "code" }
func (Formula) blockType() string      { return "formula" }
func (Table) blockType() string        { return "table" }
func (Image) blockType() string        { return "image" }
func (ExerciseArea) blockType() string { return "exercise" }

// Document is the root: metadata plus the ordered block sequence. It owns
// its blocks exclusively and is treated as immutable once handed to the
// layout engine.
type Document struct {
	Meta   Meta
	Blocks []Block
}

// NewTable builds a table and enforces the widths/columns invariant at the
// model boundary so the renderer never observes a mismatch.
func NewTable(columns int, rows []TableRow, widths []float64) (Table, error) {
	t := Table{Columns: columns, Rows: rows, Widths: widths}
	if err := t.validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

func (t Table) validate() error {
	if t.Columns < 1 {
		return fmt.Errorf("%w: table must have at least one column", ErrInvalid)
	}
	if t.Widths != nil && len(t.Widths) != t.Columns {
		return fmt.Errorf("%w: table widths length %d does not match columns %d",
			ErrInvalid, len(t.Widths), t.Columns)
	}
	for i, row := range t.Rows {
		if len(row.Cells) != t.Columns {
			return fmt.Errorf("%w: table row %d has %d cells, want %d",
				ErrInvalid, i, len(row.Cells), t.Columns)
		}
	}
	return nil
}

// Validate checks every model invariant. The layout engine assumes a valid
// document; callers that decode untrusted input should validate first.
func (d *Document) Validate() error {
	if err := d.Meta.validate(); err != nil {
		return err
	}
	for i, b := range d.Blocks {
		if err := validateBlock(b); err != nil {
			return fmt.Errorf("block %d (%s): %w", i, b.blockType(), err)
		}
	}
	return nil
}

func (m Meta) validate() error {
	if m.PageSize != "" && m.PageSize != PageA4 && m.PageSize != PageLetter {
		return fmt.Errorf("%w: unknown page size %q", ErrInvalid, m.PageSize)
	}
	if m.MarginMM < 0 || m.MarginMM > 50 {
		return fmt.Errorf("%w: margin %.1fmm out of range [0, 50]", ErrInvalid, m.MarginMM)
	}
	return nil
}

func validateBlock(b Block) error {
	switch v := b.(type) {
	case Heading:
		if v.Level < 1 || v.Level > 3 {
			return fmt.Errorf("%w: heading level %d out of range [1, 3]", ErrInvalid, v.Level)
		}
		return validateSpans(v.Text)
	case Paragraph:
		return validateSpans(v.Text)
	case Caption:
		return validateSpans(v.Text)
	case ListBlock:
		switch v.Variant {
		case ListBullet, ListNumber, ListTask, ListToggle:
		default:
			return fmt.Errorf("%w: unknown list variant %q", ErrInvalid, v.Variant)
		}
		return validateItems(v.Items)
	case Break:
		switch v.Strength {
		case BreakExtraLight, BreakLight, BreakRegular, BreakStrong:
			return nil
		}
		return fmt.Errorf("%w: unknown break strength %q", ErrInvalid, v.Strength)
	case PageBreak, Code, Formula:
		return nil
	case Table:
		return v.validate()
	case Image:
		if v.Src == "" {
			return fmt.Errorf("%w: image src is empty", ErrInvalid)
		}
		if v.Fit != "" && v.Fit != FitContain && v.Fit != FitCover {
			return fmt.Errorf("%w: unknown image fit %q", ErrInvalid, v.Fit)
		}
		return nil
	case ExerciseArea:
		switch v.Variant {
		case ExerciseRuled, ExerciseDotGrid, ExerciseSquare, ExerciseBlank:
		default:
			return fmt.Errorf("%w: unknown exercise variant %q", ErrInvalid, v.Variant)
		}
		if v.HeightMM < 10 || v.HeightMM > 200 {
			return fmt.Errorf("%w: exercise height %.1fmm out of range [10, 200]", ErrInvalid, v.HeightMM)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown block type %T", ErrInvalid, b)
	}
}

func validateItems(items []ListItem) error {
	for _, it := range items {
		if err := validateSpans(it.Text); err != nil {
			return err
		}
		if err := validateItems(it.Children); err != nil {
			return err
		}
	}
	return nil
}

func validateSpans(spans []RichText) error {
	for _, s := range spans {
		if s.Highlight != "" && !highlightNames[s.Highlight] {
			return fmt.Errorf("%w: unknown highlight color %q", ErrInvalid, s.Highlight)
		}
		if s.Color != "" && !textColorNames[s.Color] {
			return fmt.Errorf("%w: unknown text color %q", ErrInvalid, s.Color)
		}
	}
	return nil
}
