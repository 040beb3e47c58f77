package layout

import (
	"github.com/notepress/notepress/document"
	"github.com/notepress/notepress/surface"
)

// colWidths resolves the column widths in points. Explicit ratios are
// normalized against their sum so sloppy inputs (ratios not summing to 1)
// still fill the content width exactly.
func (e *Engine) colWidths(t document.Table) []float64 {
	widths := make([]float64, t.Columns)
	if len(t.Widths) == t.Columns {
		var sum float64
		for _, w := range t.Widths {
			sum += w
		}
		if sum > 0 {
			for i, w := range t.Widths {
				widths[i] = w / sum * e.contentW
			}
			return widths
		}
	}
	for i := range widths {
		widths[i] = e.contentW / float64(t.Columns)
	}
	return widths
}

func (e *Engine) renderTable(t document.Table) {
	body := e.th.Sizes.Body
	pad := e.th.Spacing.TableCellPadding
	rowH := body + pad*3
	tableH := float64(len(t.Rows)) * rowH

	e.checkPageBreak(tableH + e.th.Spacing.SectionGap)
	e.y -= e.th.Spacing.SectionGap

	widths := e.colWidths(t)
	lineColor := e.th.Colors.LineLight.Color()

	e.page.DrawRect(e.x, e.y-tableH, e.contentW, tableH, surface.RectOptions{
		StrokeColor: lineColor,
		LineWidth:   e.th.Lines.Regular,
		Radius:      4,
		Stroke:      true,
	})

	curY := e.y
	for rowIdx, row := range t.Rows {
		if rowIdx == 0 {
			e.page.DrawRect(e.x, curY-rowH, e.contentW, rowH, surface.RectOptions{
				FillColor: e.th.Colors.TableHeader.Color(),
				Radius:    4,
				Fill:      true,
			})
		}
		curX := e.x
		for colIdx, cell := range row.Cells {
			if colIdx > 0 {
				e.page.DrawLine(curX, curY, curX, curY-rowH, surface.LineOptions{
					Color: lineColor,
					Width: e.th.Lines.Thin,
				})
			}
			if len(cell) > 0 {
				textY := curY - rowH/2 + body/2 + 2
				e.renderInlineSequence(cell, curX+pad, textY, body)
			}
			curX += widths[colIdx]
		}
		if rowIdx < len(t.Rows)-1 {
			e.page.DrawLine(e.x, curY-rowH, e.x+e.contentW, curY-rowH, surface.LineOptions{
				Color: lineColor,
				Width: e.th.Lines.Thin,
			})
		}
		curY -= rowH
	}
	e.y = curY - e.th.Spacing.SectionGap
}
