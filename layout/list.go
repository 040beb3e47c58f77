package layout

import (
	"fmt"

	"github.com/notepress/notepress/document"
	"github.com/notepress/notepress/surface"
)

func (e *Engine) renderList(l document.ListBlock) {
	e.checkPageBreak(e.th.Sizes.Body * 3)
	e.y -= e.th.Spacing.SectionGap

	// One flat counter per ListBlock: nested numbered sub-items continue
	// the same sequence as their siblings.
	counter := 1
	for _, item := range l.Items {
		e.renderListItem(item, l.Variant, 0, &counter)
	}
	e.y -= e.th.Spacing.ParagraphGap
}

func (e *Engine) renderListItem(item document.ListItem, variant string, depth int, counter *int) {
	body := e.th.Sizes.Body
	indent := e.x + float64(depth)*e.th.Spacing.ListIndent

	// Each item is one line; re-check space per item so a long list flows
	// across pages without clipping.
	e.checkPageBreak(body * 2)

	marker := ""
	markerColor := e.th.Colors.TextPrimary
	switch variant {
	case document.ListBullet:
		marker = e.th.Markers.Bullet
	case document.ListNumber:
		marker = fmt.Sprintf("%d.", *counter)
		*counter++
	case document.ListTask:
		e.drawCheckbox(indent, item.Checked)
	case document.ListToggle:
		if len(item.Children) > 0 {
			marker = e.th.Markers.ToggleExpanded
		} else {
			marker = e.th.Markers.ToggleCollapsed
		}
		markerColor = e.th.Colors.TextMuted
	}

	if marker != "" {
		e.page.DrawText(marker, indent, e.y-body, surface.TextOptions{
			Font:  e.th.Fonts.Body,
			Size:  body,
			Color: markerColor.Color(),
		})
	}
	if len(item.Text) > 0 {
		e.renderInlineSequence(item.Text, indent+e.th.Spacing.ListIndent, e.y, body)
	}
	e.y -= body + e.th.Spacing.ListItemGap

	for _, child := range item.Children {
		e.renderListItem(child, variant, depth+1, counter)
	}
}

// drawCheckbox renders the task-list box and, when checked, its mark.
func (e *Engine) drawCheckbox(x float64, checked bool) {
	const boxSize = 10.0
	boxY := e.y - e.th.Sizes.Body + 2

	e.page.DrawRect(x, boxY, boxSize, boxSize, surface.RectOptions{
		StrokeColor: e.th.Colors.LineLight.Color(),
		LineWidth:   1,
		Radius:      2,
		Stroke:      true,
	})
	if checked {
		opts := surface.LineOptions{
			Color: e.th.Colors.BrandBrown.Color(),
			Width: 1.5,
		}
		e.page.DrawLine(x+2, boxY+5, x+4, boxY+2, opts)
		e.page.DrawLine(x+4, boxY+2, x+8, boxY+8, opts)
	}
}
