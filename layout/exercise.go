package layout

import (
	"github.com/notepress/notepress/document"
	"github.com/notepress/notepress/style"
	"github.com/notepress/notepress/surface"
)

func (e *Engine) renderExercise(ex document.ExerciseArea) {
	h := style.MmToPoints(ex.HeightMM)
	e.checkPageBreak(h + e.th.Spacing.SectionGap)
	e.y -= e.th.Spacing.SectionGap

	lineColor := e.th.Colors.LineLight.Color()
	e.page.DrawRect(e.x, e.y-h, e.contentW, h, surface.RectOptions{
		StrokeColor: lineColor,
		LineWidth:   e.th.Lines.Thin,
		Radius:      e.th.Exercise.CornerRadius,
		Stroke:      true,
	})

	switch ex.Variant {
	case document.ExerciseRuled:
		e.drawRuledPattern(h, lineColor)
	case document.ExerciseDotGrid:
		e.drawDotGridPattern(h)
	case document.ExerciseSquare:
		e.drawSquarePattern(h, lineColor)
	}
	// blank keeps only the border

	e.y -= h + e.th.Spacing.SectionGap
}

func (e *Engine) drawRuledPattern(h float64, color surface.Color) {
	opts := surface.LineOptions{Color: color, Width: 0.3}
	for y := e.y - e.th.Exercise.RuledSpacing; y > e.y-h; y -= e.th.Exercise.RuledSpacing {
		e.page.DrawLine(e.x+5, y, e.x+e.contentW-5, y, opts)
	}
}

func (e *Engine) drawDotGridPattern(h float64) {
	spacing := e.th.Exercise.DotGridSpacing
	opts := surface.CircleOptions{
		FillColor: e.th.Colors.LineLight.Color(),
		Fill:      true,
	}
	for y := e.y - spacing; y > e.y-h; y -= spacing {
		for x := e.x + spacing; x < e.x+e.contentW; x += spacing {
			e.page.DrawCircle(x, y, e.th.Exercise.DotRadius, opts)
		}
	}
}

// drawSquarePattern rules a 5mm grid inside the area.
func (e *Engine) drawSquarePattern(h float64, color surface.Color) {
	spacing := e.th.Exercise.SquareSpacing
	opts := surface.LineOptions{Color: color, Width: 0.3}
	for x := e.x + spacing; x < e.x+e.contentW; x += spacing {
		e.page.DrawLine(x, e.y, x, e.y-h, opts)
	}
	for y := e.y - spacing; y > e.y-h; y -= spacing {
		e.page.DrawLine(e.x, y, e.x+e.contentW, y, opts)
	}
}
