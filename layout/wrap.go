package layout

import (
	"strings"
	"unicode"

	"github.com/notepress/notepress/document"
	"github.com/notepress/notepress/observability"
	"github.com/notepress/notepress/surface"
)

// Inline math is delimited by unescaped $...$ pairs. Escaped dollars are
// swapped for a private-use rune before matching, then restored, which keeps
// the pattern free of lookbehind.
const dollarPlaceholder = "\uF8FF"

// expandInlineSpans rewrites a span sequence so that every $...$ segment
// becomes its own span tagged as math. Order is preserved.
func expandInlineSpans(spans []document.RichText) []document.RichText {
	var out []document.RichText
	for _, span := range spans {
		out = append(out, splitSpanForInlineMath(span)...)
	}
	return out
}

func splitSpanForInlineMath(span document.RichText) []document.RichText {
	if span.Math {
		return []document.RichText{span}
	}
	if span.Text == "" || !strings.Contains(span.Text, "$") {
		return []document.RichText{span}
	}

	sanitized := strings.ReplaceAll(span.Text, `\$`, dollarPlaceholder)
	restore := func(s string) string {
		return strings.ReplaceAll(s, dollarPlaceholder, "$")
	}

	var segments []document.RichText
	last := 0
	for {
		open := strings.IndexByte(sanitized[last:], '$')
		if open < 0 {
			break
		}
		open += last
		end := strings.IndexByte(sanitized[open+1:], '$')
		if end < 0 {
			break
		}
		end += open + 1
		if end == open+1 {
			// "$$" with nothing between: not inline math, skip past it.
			last = end
			continue
		}

		if open > last {
			prefix := span
			prefix.Text = restore(sanitized[last:open])
			segments = append(segments, prefix)
		}
		formula := span
		formula.Text = restore(sanitized[open+1 : end])
		formula.Math = true
		segments = append(segments, formula)
		last = end + 1
	}

	if segments == nil {
		restored := span
		restored.Text = restore(sanitized)
		return []document.RichText{restored}
	}
	if last < len(sanitized) {
		suffix := span
		suffix.Text = restore(sanitized[last:])
		segments = append(segments, suffix)
	}
	return segments
}

// splitWhitespace splits text into alternating word and whitespace tokens,
// keeping each whitespace run as its own token so line starts can drop it.
func splitWhitespace(s string) []string {
	var tokens []string
	var cur strings.Builder
	curSpace := false
	for _, r := range s {
		isSpace := unicode.IsSpace(r)
		if cur.Len() > 0 && isSpace != curSpace {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
		curSpace = isSpace
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens
}

// wrapRichText splits styled spans into atomic tokens (words, whitespace
// runs, inline math) and greedily packs them into lines no wider than
// maxWidth. Math tokens are indivisible. A single token wider than maxWidth
// sits alone on its own line. Empty input yields one line with one empty
// span so vertical accounting never degenerates.
func (e *Engine) wrapRichText(spans []document.RichText, maxWidth, size float64) [][]document.RichText {
	var lines [][]document.RichText
	var cur []document.RichText
	curWidth := 0.0

	for _, span := range expandInlineSpans(spans) {
		if span.Text == "" {
			continue
		}
		var tokens []document.RichText
		if span.Math {
			tokens = []document.RichText{span}
		} else {
			for _, part := range splitWhitespace(span.Text) {
				tok := span
				tok.Text = part
				tokens = append(tokens, tok)
			}
		}

		for _, tok := range tokens {
			if tok.Text == "" {
				continue
			}
			isSpace := !tok.Math && strings.TrimSpace(tok.Text) == ""
			width := e.tokenWidth(&tok, size)
			if width == 0 {
				continue
			}

			if curWidth+width > maxWidth && len(cur) > 0 {
				lines = append(lines, cur)
				cur = nil
				curWidth = 0

				if isSpace {
					continue
				}
				if !tok.Math && strings.HasPrefix(tok.Text, " ") {
					trimmed := strings.TrimLeft(tok.Text, " ")
					if trimmed == "" {
						continue
					}
					tok.Text = trimmed
					width = e.tokenWidth(&tok, size)
				}
			}

			if isSpace && len(cur) == 0 {
				continue
			}
			cur = append(cur, tok)
			curWidth += width
		}
	}

	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	if len(lines) == 0 {
		return [][]document.RichText{{document.RichText{}}}
	}
	return lines
}

// tokenWidth measures one token. A math token whose typesetting fails is
// demoted in place to a literal text token in its resolved font, which is
// the fallback the renderer draws.
func (e *Engine) tokenWidth(tok *document.RichText, size float64) float64 {
	if tok.Math {
		m, err := e.ts.Metrics(tok.Text, size)
		if err == nil && m.Width > 0 {
			return m.Width
		}
		e.log.Warn("layout: math measurement failed, using literal text",
			observability.String("expr", tok.Text))
		tok.Math = false
	}
	return e.dev.MeasureText(tok.Text, size, e.spanFont(*tok))
}

// lineWidth sums token widths, measuring inline math through the typesetter
// metrics cache so justification sees the same widths wrapping did.
func (e *Engine) lineWidth(line []document.RichText, size float64) float64 {
	total := 0.0
	for _, tok := range line {
		if tok.Math {
			if m, err := e.ts.Metrics(tok.Text, size); err == nil {
				total += m.Width
				continue
			}
		}
		total += e.dev.MeasureText(tok.Text, size, e.spanFont(tok))
	}
	return total
}

func (e *Engine) spanFont(span document.RichText) surface.Font {
	return e.th.SpanFont(span.Code, span.Bold, span.Italic)
}

func (e *Engine) spanColor(span document.RichText, useBlack bool) surface.Color {
	if useBlack {
		return e.th.Colors.Black.Color()
	}
	if span.Color != "" {
		if rgb, ok := e.th.TextColors[span.Color]; ok {
			return rgb.Color()
		}
	}
	return e.th.Colors.TextPrimary.Color()
}

// drawSpan renders one span with its line top at y and returns the new x.
func (e *Engine) drawSpan(span document.RichText, x, y, size float64, useBlack bool) float64 {
	if span.Text == "" {
		return x
	}
	if span.Math {
		return e.drawInlineMath(span, x, y, size, useBlack)
	}

	font := e.spanFont(span)
	w := e.dev.MeasureText(span.Text, size, font)
	if w == 0 {
		return x
	}

	if span.Highlight != "" {
		if hl, ok := e.th.Highlights[span.Highlight]; ok {
			e.page.DrawRect(x-1, y-size-1, w+2, size+2, surface.RectOptions{
				FillColor: hl.WithAlpha(0.35),
				Radius:    2,
				Fill:      true,
			})
		}
	}

	e.page.DrawText(span.Text, x, y-size, surface.TextOptions{
		Font:  font,
		Size:  size,
		Color: e.spanColor(span, useBlack),
	})
	return x + w
}

// drawInlineMath draws a math span with its baseline aligned to the
// surrounding text. Typesetting failure falls back to the literal source.
func (e *Engine) drawInlineMath(span document.RichText, x, y, size float64, useBlack bool) float64 {
	color := e.spanColor(span, useBlack)
	box, err := e.ts.Typeset(span.Text, size, color)
	if err != nil || box == nil {
		lit := span
		lit.Math = false
		return e.drawSpan(lit, x, y, size, useBlack)
	}

	m := box.Metrics()
	baseline := y - size
	if span.Highlight != "" {
		if hl, ok := e.th.Highlights[span.Highlight]; ok {
			e.page.DrawRect(x-1, baseline-m.Depth-1, m.Width+2, m.Height+2, surface.RectOptions{
				FillColor: hl.WithAlpha(0.35),
				Radius:    2,
				Fill:      true,
			})
		}
	}
	box.Draw(e.page, x, baseline, e.th.Fonts.Body)
	return x + m.Width
}

// renderInlineSequence draws a span sequence (inline math included) on one
// line with its top at y and returns the final x.
func (e *Engine) renderInlineSequence(spans []document.RichText, x, y, size float64) float64 {
	for _, seg := range expandInlineSpans(spans) {
		x = e.drawSpan(seg, x, y, size, false)
	}
	return x
}
