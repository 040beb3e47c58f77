package mathtex

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/notepress/notepress/surface"
)

// Box is a measured MathML subtree. Child positions are relative to the
// parent's origin on the baseline: x grows right, y grows up.
type Box struct {
	width    float64
	ascent   float64
	descent  float64
	x, y     float64
	tag      string
	text     string
	fontSize float64
	color    surface.Color
	children []*Box
}

// Metrics returns the box's outer dimensions.
func (b *Box) Metrics() Metrics {
	return Metrics{Width: b.width, Height: b.ascent + b.descent, Depth: b.descent}
}

// measure lays out a MathML node at the given font size. Scripts (msup,
// msub) shrink their non-base children.
func (r *Renderer) measure(n *html.Node, fontSize float64, color surface.Color) *Box {
	box := &Box{fontSize: fontSize, color: color}

	if n.Type == html.TextNode {
		text := strings.TrimSpace(n.Data)
		if text == "" {
			return nil
		}
		box.text = text
		box.width = r.meas.MeasureText(text, fontSize, r.font)
		box.ascent = fontSize * 0.8
		box.descent = fontSize * 0.2
		return box
	}
	if n.Type != html.ElementNode {
		return nil
	}
	// Annotation subtrees repeat the source expression; they carry no
	// visual geometry.
	if n.Data == "annotation" || n.Data == "annotation-xml" {
		return nil
	}
	box.tag = n.Data

	var children []*Box
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		fs := fontSize
		if (n.Data == "msup" || n.Data == "msub") && len(children) > 0 {
			fs = fontSize * 0.7
		}
		if child := r.measure(c, fs, color); child != nil {
			children = append(children, child)
		}
	}
	box.children = children

	switch n.Data {
	case "mfrac":
		if len(children) >= 2 {
			num, den := children[0], children[1]
			w := num.width
			if den.width > w {
				w = den.width
			}
			box.width = w + 4
			num.x = (box.width - num.width) / 2
			den.x = (box.width - den.width) / 2

			const lineH = 0.5
			num.y = num.descent + lineH + 2
			den.y = -(den.ascent + lineH + 2)

			box.ascent = num.y + num.ascent
			box.descent = -den.y + den.descent
			return box
		}
		layoutRow(box)

	case "msup":
		if len(children) >= 2 {
			base, sup := children[0], children[1]
			box.width = base.width + sup.width
			sup.x = base.width
			sup.y = base.ascent * 0.5
			box.ascent = base.ascent
			if sup.y+sup.ascent > box.ascent {
				box.ascent = sup.y + sup.ascent
			}
			box.descent = base.descent
			return box
		}
		layoutRow(box)

	case "msub":
		if len(children) >= 2 {
			base, sub := children[0], children[1]
			box.width = base.width + sub.width
			sub.x = base.width
			sub.y = -base.descent * 0.5
			box.ascent = base.ascent
			box.descent = base.descent
			if -sub.y+sub.descent > box.descent {
				box.descent = -sub.y + sub.descent
			}
			return box
		}
		layoutRow(box)

	case "msqrt":
		var w, asc, desc float64
		for _, c := range children {
			c.x = w + 5 // room for the radical stroke
			w += c.width
			if c.ascent > asc {
				asc = c.ascent
			}
			if c.descent > desc {
				desc = c.descent
			}
		}
		box.width = w + 5
		box.ascent = asc + 2
		box.descent = desc

	default:
		// math, mrow, mi, mn, mo and anything unrecognized lay out as a
		// horizontal row on a shared baseline.
		layoutRow(box)
	}

	return box
}

func layoutRow(box *Box) {
	var w, asc, desc float64
	for _, c := range box.children {
		c.x = w
		w += c.width
		if c.ascent > asc {
			asc = c.ascent
		}
		if c.descent > desc {
			desc = c.descent
		}
	}
	box.width = w
	box.ascent = asc
	box.descent = desc
}

// Draw renders the box with its baseline at y.
func (b *Box) Draw(p surface.Page, x, y float64, font surface.Font) {
	if b == nil {
		return
	}

	if b.text != "" {
		p.DrawText(b.text, x, y, surface.TextOptions{
			Font:  font,
			Size:  b.fontSize,
			Color: b.color,
		})
	}

	line := surface.LineOptions{Color: b.color, Width: 0.5}
	switch b.tag {
	case "mfrac":
		p.DrawLine(x, y+2, x+b.width, y+2, line)
	case "msqrt":
		topY := y + b.ascent - 1
		p.DrawLine(x+2, topY, x+b.width, topY, line)
		p.DrawLine(x, y+b.ascent/2, x+2, y-b.descent, line)
		p.DrawLine(x+2, y-b.descent, x+5, topY, line)
	}

	for _, c := range b.children {
		c.Draw(p, x+c.x, y+c.y, font)
	}
}
