package layout

import (
	"strings"

	"github.com/notepress/notepress/document"
	"github.com/notepress/notepress/mathtex"
	"github.com/notepress/notepress/observability"
	"github.com/notepress/notepress/surface"
)

func (e *Engine) renderHeading(h document.Heading) {
	size := e.th.HeadingSize(h.Level)

	// Headings never split across pages; reserve a conservative three lines.
	e.checkPageBreak(size*3 + e.th.Spacing.SectionGap)
	e.y -= e.th.Spacing.SectionGap

	for _, line := range e.wrapRichText(h.Text, e.contentW, size) {
		x := e.x
		for _, span := range line {
			x = e.drawSpan(span, x, e.y, size, true)
		}
		e.y -= size + 4
	}
	e.y -= e.th.Spacing.ParagraphGap - 4
}

func (e *Engine) renderParagraph(p document.Paragraph) {
	body := e.th.Sizes.Body
	e.checkPageBreak(body * 5)
	e.y -= e.th.Spacing.ParagraphGap

	lines := e.wrapRichText(p.Text, e.contentW, body)
	for i, line := range lines {
		// A single line never splits, but a later line may start a new
		// page; re-check before every line to avoid clipping.
		e.checkPageBreak(body + 4)

		extra := 0.0
		if len(lines) > 1 && i < len(lines)-1 {
			gaps := float64(len(line) - 1)
			if gaps < 1 {
				gaps = 1
			}
			extra = (e.contentW - e.lineWidth(line, body)) / gaps
		}

		x := e.x
		for j, span := range line {
			x = e.drawSpan(span, x, e.y, body, false)
			if extra > 0 && j < len(line)-1 {
				x += extra
			}
		}
		e.y -= body + 4
	}
	e.y -= e.th.Spacing.ParagraphGap - 4
}

func (e *Engine) renderCaption(c document.Caption) {
	size := e.th.Sizes.Caption
	e.checkPageBreak(size * 2)
	e.y -= e.th.Spacing.CaptionGap

	var sb strings.Builder
	for _, span := range c.Text {
		sb.WriteString(span.Text)
	}
	e.page.DrawText(sb.String(), e.x, e.y-size, surface.TextOptions{
		Font:  e.th.Fonts.Caption,
		Size:  size,
		Color: e.th.Colors.TextMuted.Color(),
	})
	e.y -= size + e.th.Spacing.CaptionGap
}

func (e *Engine) renderBreak(b document.Break) {
	e.checkPageBreak(30)
	e.y -= e.th.Spacing.SectionGap

	switch b.Strength {
	case document.BreakRegular:
		y := e.y - 5
		e.page.DrawLine(e.x, y, e.x+e.contentW, y, surface.LineOptions{
			Color: e.th.Colors.LineLight.Color(),
			Width: e.th.Lines.Regular,
		})
	case document.BreakStrong:
		y := e.y - 5
		e.page.DrawLine(e.x, y, e.x+e.contentW, y, surface.LineOptions{
			Color: e.th.Colors.LineStrong.Color(),
			Width: e.th.Lines.Thick,
		})
	default:
		// extra_light and light: three delicate dots.
		center := e.x + e.contentW/2
		for i := 0; i < 3; i++ {
			e.page.DrawCircle(center-10+float64(i)*10, e.y-5, 1.5, surface.CircleOptions{
				FillColor: e.th.Colors.LineLight.Color(),
				Fill:      true,
			})
		}
	}
	e.y -= 20 + e.th.Spacing.SectionGap
}

func (e *Engine) renderCode(c document.Code) {
	lines := strings.Split(c.Content, "\n")
	lineH := e.th.Sizes.Code + 4
	blockH := float64(len(lines))*lineH + e.th.Spacing.CodePadding*2

	e.checkPageBreak(blockH + e.th.Spacing.SectionGap)
	e.y -= e.th.Spacing.SectionGap

	e.page.DrawRect(e.x, e.y-blockH, e.contentW, blockH, surface.RectOptions{
		FillColor:   e.th.Colors.CodeBg.Color(),
		StrokeColor: e.th.Colors.CodeBorder.Color(),
		LineWidth:   0.5,
		Radius:      6,
		Fill:        true,
		Stroke:      true,
	})

	textY := e.y - e.th.Spacing.CodePadding - e.th.Sizes.Code
	for _, ln := range lines {
		e.page.DrawText(ln, e.x+e.th.Spacing.CodePadding, textY, surface.TextOptions{
			Font:  e.th.Fonts.Code,
			Size:  e.th.Sizes.Code,
			Color: e.th.Colors.TextPrimary.Color(),
		})
		textY -= lineH
	}
	e.y -= blockH + e.th.Spacing.SectionGap
}

func (e *Engine) renderFormula(f document.Formula) {
	latex := strings.TrimSpace(f.LaTeX)
	if latex == "" {
		return
	}

	size := e.th.Sizes.Body * 1.1
	m, merr := e.ts.Metrics(latex, size)
	e.checkPageBreak(m.Height + e.th.Spacing.SectionGap*2)
	e.y -= e.th.Spacing.SectionGap

	var box *mathtex.Box
	if merr == nil {
		if b, err := e.ts.Typeset(latex, size, e.th.Colors.TextPrimary.Color()); err == nil {
			box = b
		}
	}
	if box == nil {
		e.log.Warn("layout: formula typesetting failed, drawing literal source",
			observability.String("latex", latex))
		e.page.DrawText(latex, e.x, e.y-e.th.Sizes.Body, surface.TextOptions{
			Font:  e.th.Fonts.Body,
			Size:  e.th.Sizes.Body,
			Color: e.th.Colors.TextPrimary.Color(),
		})
		e.y -= e.th.Sizes.Body + e.th.Spacing.SectionGap
		return
	}

	bm := box.Metrics()
	x := e.x + (e.contentW-bm.Width)/2
	baseline := e.y - (bm.Height - bm.Depth)
	box.Draw(e.page, x, baseline, e.th.Fonts.Body)
	e.y -= bm.Height + e.th.Spacing.SectionGap
}
