// Package mathtex turns LaTeX expressions into measured, drawable boxes.
// Expressions are converted to MathML and laid out against the surface's
// font metrics, so inline math can be spliced into running text with its
// baseline aligned to the surrounding words.
//
// All results are memoized for the lifetime of one renderer, which is one
// document render. A failed expression is remembered as a zero-size result;
// callers are expected to fall back to drawing the literal source text.
package mathtex

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	treeblood "github.com/wyatt915/goldmark-treeblood"
	"github.com/yuin/goldmark"
	"golang.org/x/net/html"

	"github.com/notepress/notepress/surface"
)

// ErrEmpty is returned for expressions that normalize to nothing.
var ErrEmpty = errors.New("mathtex: empty expression")

// Metrics describes a typeset expression. Depth is the distance the drawn
// shape extends below the baseline.
type Metrics struct {
	Width  float64
	Height float64
	Depth  float64
}

// Typesetter is the capability the layout engine consumes. Implementations
// must be safe to call repeatedly with the same arguments at no extra cost.
type Typesetter interface {
	Metrics(expr string, size float64) (Metrics, error)
	Typeset(expr string, size float64, color surface.Color) (*Box, error)
}

// TextMeasurer measures string advance widths. surface.Device satisfies it.
type TextMeasurer interface {
	MeasureText(text string, size float64, font surface.Font) float64
}

// Normalize wraps a bare expression in $...$ delimiters and converts the
// \[...\] and \(...\) forms to $$...$$ and $...$. Already-delimited input
// passes through unchanged.
func Normalize(expr string) string {
	expr = strings.TrimSpace(expr)
	switch {
	case expr == "":
		return ""
	case strings.HasPrefix(expr, "$$") && strings.HasSuffix(expr, "$$") && len(expr) > 3:
		return expr
	case strings.HasPrefix(expr, "$") && strings.HasSuffix(expr, "$") && len(expr) > 1:
		return expr
	case strings.HasPrefix(expr, `\[`) && strings.HasSuffix(expr, `\]`):
		return "$$" + expr[2:len(expr)-2] + "$$"
	case strings.HasPrefix(expr, `\(`) && strings.HasSuffix(expr, `\)`):
		return "$" + expr[2:len(expr)-2] + "$"
	default:
		return "$" + expr + "$"
	}
}

type metricsKey struct {
	expr string
	size float64
}

type boxKey struct {
	expr  string
	size  float64
	color surface.Color
}

type metricsEntry struct {
	m   Metrics
	err error
}

type boxEntry struct {
	box *Box
	err error
}

// Renderer is the production Typesetter: LaTeX -> MathML (goldmark +
// treeblood) -> box layout measured with the surface's font metrics.
type Renderer struct {
	meas    TextMeasurer
	font    surface.Font
	md      goldmark.Markdown
	metrics map[metricsKey]metricsEntry
	boxes   map[boxKey]boxEntry
	hits    int
}

// NewRenderer builds a renderer measuring text in the given font.
func NewRenderer(meas TextMeasurer, font surface.Font) *Renderer {
	return &Renderer{
		meas: meas,
		font: font,
		md: goldmark.New(
			goldmark.WithExtensions(treeblood.MathML()),
		),
		metrics: make(map[metricsKey]metricsEntry),
		boxes:   make(map[boxKey]boxEntry),
	}
}

// CacheHits reports how many lookups were served from the caches.
func (r *Renderer) CacheHits() int { return r.hits }

// Metrics returns width, height and depth for an expression without
// committing to a color.
func (r *Renderer) Metrics(expr string, size float64) (Metrics, error) {
	key := metricsKey{expr: expr, size: size}
	if e, ok := r.metrics[key]; ok {
		r.hits++
		return e.m, e.err
	}
	box, err := r.build(expr, size, surface.Color{})
	entry := metricsEntry{err: err}
	if err == nil {
		entry.m = box.Metrics()
	}
	r.metrics[key] = entry
	return entry.m, entry.err
}

// Typeset returns a drawable box for the expression in the given color.
func (r *Renderer) Typeset(expr string, size float64, color surface.Color) (*Box, error) {
	key := boxKey{expr: expr, size: size, color: color}
	if e, ok := r.boxes[key]; ok {
		r.hits++
		return e.box, e.err
	}
	box, err := r.build(expr, size, color)
	r.boxes[key] = boxEntry{box: box, err: err}
	if err == nil {
		mk := metricsKey{expr: expr, size: size}
		if _, ok := r.metrics[mk]; !ok {
			r.metrics[mk] = metricsEntry{m: box.Metrics()}
		}
	}
	return box, err
}

func (r *Renderer) build(expr string, size float64, color surface.Color) (*Box, error) {
	normalized := Normalize(expr)
	if normalized == "" {
		return nil, ErrEmpty
	}
	core := strings.Trim(normalized, "$")
	if strings.TrimSpace(core) == "" {
		return nil, ErrEmpty
	}

	// Display delimiters regardless of the inline/display form: goldmark
	// recognizes $$...$$ unconditionally, and the box model does not
	// distinguish the two styles.
	var buf bytes.Buffer
	if err := r.md.Convert([]byte("$$"+core+"$$"), &buf); err != nil {
		return nil, fmt.Errorf("mathtex: converting %q: %w", expr, err)
	}

	doc, err := html.Parse(bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, fmt.Errorf("mathtex: parsing MathML for %q: %w", expr, err)
	}
	mathNode := findMathNode(doc)
	if mathNode == nil {
		return nil, fmt.Errorf("mathtex: no MathML produced for %q", expr)
	}

	box := r.measure(mathNode, size, color)
	if box == nil || box.width == 0 {
		return nil, fmt.Errorf("mathtex: %q measured empty", expr)
	}
	return box, nil
}

func findMathNode(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "math" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findMathNode(c); found != nil {
			return found
		}
	}
	return nil
}
