package layout

import (
	"fmt"

	"github.com/notepress/notepress/assets"
	"github.com/notepress/notepress/document"
	"github.com/notepress/notepress/observability"
	"github.com/notepress/notepress/style"
	"github.com/notepress/notepress/surface"
)

func (e *Engine) renderImage(img document.Image) {
	res, ok := e.resolved[img.Src]
	if !ok || res.err != nil || res.asset == nil {
		err := res.err
		if err == nil {
			err = fmt.Errorf("image %q not resolved", img.Src)
		}
		e.renderImageError(err)
		return
	}
	a := res.asset

	dispW, dispH := e.displaySize(img, a)
	if img.Fit == document.FitCover && img.WidthMM > 0 && img.HeightMM > 0 {
		cropped, err := assets.CropCover(a, dispW, dispH)
		if err != nil {
			e.log.Warn("cover crop failed, rendering uncropped",
				observability.String("src", img.Src), observability.Err(err))
		} else {
			a = cropped
		}
	}

	e.checkPageBreak(dispH + e.th.Spacing.SectionGap)
	e.y -= e.th.Spacing.SectionGap

	x := e.x + (e.contentW-dispW)/2
	e.page.DrawImage(a.Data, a.Format, x, e.y-dispH, dispW, dispH)
	e.y -= dispH + e.th.Spacing.SectionGap
}

// displaySize resolves the on-page dimensions in points. Explicit sizes win;
// a single axis derives the other from the pixel aspect ratio; with neither,
// the image spans at most the content width at its natural pixel size.
func (e *Engine) displaySize(img document.Image, a *assets.Asset) (w, h float64) {
	aspect := 1.0
	if a.Width > 0 && a.Height > 0 {
		aspect = float64(a.Height) / float64(a.Width)
	}
	switch {
	case img.WidthMM > 0 && img.HeightMM > 0:
		w = style.MmToPoints(img.WidthMM)
		h = style.MmToPoints(img.HeightMM)
	case img.WidthMM > 0:
		w = style.MmToPoints(img.WidthMM)
		h = w * aspect
	case img.HeightMM > 0:
		h = style.MmToPoints(img.HeightMM)
		w = h / aspect
	default:
		w = float64(a.Width)
		if w > e.contentW || w == 0 {
			w = e.contentW
		}
		h = w * aspect
	}
	if w > e.contentW {
		scale := e.contentW / w
		w *= scale
		h *= scale
	}
	return w, h
}

// renderImageError leaves an inline placeholder instead of failing the page.
func (e *Engine) renderImageError(err error) {
	e.log.Warn("image unavailable", observability.Err(err))
	size := e.th.Sizes.Caption
	e.checkPageBreak(size * 2)
	e.page.DrawText(fmt.Sprintf("[Image error: %v]", err), e.x, e.y-size, surface.TextOptions{
		Font:  e.th.Fonts.Caption,
		Size:  size,
		Color: e.th.Colors.TextMuted.Color(),
	})
	e.y -= size + e.th.Spacing.ParagraphGap
}
