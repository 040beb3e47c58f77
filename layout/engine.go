// Package layout is the pagination and cursor engine. It walks a document's
// block sequence once, top to bottom, deciding before each block (and before
// each line of a paragraph or list) whether it still fits above the bottom
// margin, and renders by mutating the cursor and issuing drawing commands to
// the surface.
package layout

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/notepress/notepress/assets"
	"github.com/notepress/notepress/document"
	"github.com/notepress/notepress/mathtex"
	"github.com/notepress/notepress/observability"
	"github.com/notepress/notepress/style"
	"github.com/notepress/notepress/surface"
	"github.com/notepress/notepress/webfont"
)

// Engine renders documents onto a surface.Device. An Engine is not safe for
// concurrent use; rendering is single-threaded and one document is laid out
// to completion before the next begins.
type Engine struct {
	dev    surface.Device
	theme  *style.Theme
	log    observability.Logger
	math   mathtex.Typesetter
	fonts  *webfont.Fetcher
	images *assets.Resolver

	// Per-render state.
	th       *style.Theme
	ts       mathtex.Typesetter
	page     surface.Page
	x, y     float64
	pageW    float64
	pageH    float64
	margin   float64
	contentW float64
	pages    int
	resolved map[string]imageResult
}

type imageResult struct {
	asset *assets.Asset
	err   error
}

// Option configures an Engine.
type Option func(*Engine)

// WithTheme sets the style tokens used for rendering. The engine copies the
// theme at the start of every render, so a font-family override never leaks
// back into the supplied value.
func WithTheme(t *style.Theme) Option {
	return func(e *Engine) { e.theme = t }
}

// WithLogger sets the logger for fallback warnings and render metrics.
func WithLogger(l observability.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithTypesetter overrides the math typesetter. Without it, every render
// builds a fresh mathtex.Renderer so math caches stay render-scoped.
func WithTypesetter(ts mathtex.Typesetter) Option {
	return func(e *Engine) { e.math = ts }
}

// WithFontFetcher overrides the web font fetcher.
func WithFontFetcher(f *webfont.Fetcher) Option {
	return func(e *Engine) { e.fonts = f }
}

// WithImageResolver overrides the image resolver.
func WithImageResolver(r *assets.Resolver) Option {
	return func(e *Engine) { e.images = r }
}

// NewEngine creates an engine drawing onto dev.
func NewEngine(dev surface.Device, opts ...Option) *Engine {
	e := &Engine{
		dev:    dev,
		theme:  style.New(),
		log:    observability.NopLogger{},
		images: assets.NewResolver(nil),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Render lays out the document and returns the finished output bytes. The
// context bounds only the pre-layout resource resolution (web fonts, remote
// images); layout itself never blocks.
//
// The document is assumed valid; see document.Document.Validate.
func (e *Engine) Render(ctx context.Context, doc *document.Document) ([]byte, error) {
	start := time.Now()

	th := *e.theme // render-scoped copy; the font override mutates only this
	e.th = &th
	e.page = nil
	e.pages = 0

	e.pageW, e.pageH = style.PageDims(doc.Meta.PageSize)
	e.margin = style.MmToPoints(doc.Meta.MarginMM)
	shorter := e.pageW
	if e.pageH < shorter {
		shorter = e.pageH
	}
	if e.margin < 0 || 2*e.margin >= shorter {
		clamped := shorter / 4
		e.log.Warn("layout: margin out of range, clamping",
			observability.Float64("margin_pt", e.margin),
			observability.Float64("clamped_pt", clamped))
		e.margin = clamped
	}
	e.contentW = e.pageW - 2*e.margin

	e.dev.SetInfo(surface.Info{Title: doc.Meta.Title, Author: doc.Meta.Author})

	// Blocking, cancelable resource resolution happens before any cursor
	// state exists.
	if doc.Meta.FontFamily != "" {
		e.applyFontFamily(ctx, doc.Meta.FontFamily)
	}
	e.prefetchImages(ctx, doc)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	e.ts = e.math
	if e.ts == nil {
		e.ts = mathtex.NewRenderer(e.dev, e.th.Fonts.Body)
	}

	e.newPage()
	for _, b := range doc.Blocks {
		e.renderBlock(b)
	}
	e.page.Finish()

	out, err := e.dev.Output()
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}

	metrics := []observability.Field{
		observability.Int(observability.MetricPages, e.pages),
		observability.Int(observability.MetricDurationMS, int(time.Since(start).Milliseconds())),
	}
	if r, ok := e.ts.(*mathtex.Renderer); ok {
		metrics = append(metrics, observability.Int(observability.MetricMathCacheHit, r.CacheHits()))
	}
	e.log.Info("layout: render complete", metrics...)
	return out, nil
}

// renderBlock dispatches on the closed block union.
func (e *Engine) renderBlock(b document.Block) {
	switch v := b.(type) {
	case document.Heading:
		e.renderHeading(v)
	case document.Paragraph:
		e.renderParagraph(v)
	case document.Caption:
		e.renderCaption(v)
	case document.ListBlock:
		e.renderList(v)
	case document.Break:
		e.renderBreak(v)
	case document.PageBreak:
		e.breakPage()
	case document.Code:
		e.renderCode(v)
	case document.Formula:
		e.renderFormula(v)
	case document.Table:
		e.renderTable(v)
	case document.Image:
		e.renderImage(v)
	case document.ExerciseArea:
		e.renderExercise(v)
	}
}

// newPage starts a fresh page and resets the cursor to the top margin.
func (e *Engine) newPage() {
	e.page = e.dev.NewPage(e.pageW, e.pageH)
	e.pages++
	e.x = e.margin
	e.y = e.pageH - e.margin
}

// breakPage unconditionally flushes the current page.
func (e *Engine) breakPage() {
	e.page.Finish()
	e.newPage()
}

// checkPageBreak flushes the page if the next required height would cross
// the bottom margin. Block renderers call it before drawing anything.
func (e *Engine) checkPageBreak(required float64) {
	if e.y-required < e.margin {
		e.breakPage()
	}
}

// applyFontFamily resolves a Google font family and rebinds the text font
// roles to it. Any failure keeps the built-in fonts; the Code role always
// stays monospace.
func (e *Engine) applyFontFamily(ctx context.Context, family string) {
	fetcher := e.fonts
	if fetcher == nil {
		fetcher = webfont.NewFetcher(webfont.WithLogger(e.log))
	}
	fam, err := fetcher.Fetch(ctx, family)
	if err != nil {
		e.log.Warn("layout: font family unavailable, using built-in fonts",
			observability.String("family", family),
			observability.Err(err))
		return
	}

	base := strings.ReplaceAll(family, " ", "")
	regular, ok := fam.Faces[webfont.Regular]
	if !ok {
		e.log.Warn("layout: font family has no regular face",
			observability.String("family", family))
		return
	}
	if err := e.dev.RegisterFont(base, "", regular); err != nil {
		e.log.Warn("layout: registering font failed, using built-in fonts",
			observability.String("family", family),
			observability.Err(err))
		return
	}

	fonts := &e.th.Fonts
	fonts.Body = surface.Font{Family: base}
	fonts.Heading = surface.Font{Family: base}
	fonts.Bold = fonts.Body
	fonts.Italic = fonts.Body
	fonts.Caption = fonts.Body

	if data, ok := fam.Faces[webfont.Bold]; ok {
		if err := e.dev.RegisterFont(base, "B", data); err == nil {
			fonts.Bold = surface.Font{Family: base, Style: "B"}
		}
	}
	if data, ok := fam.Faces[webfont.Italic]; ok {
		if err := e.dev.RegisterFont(base, "I", data); err == nil {
			fonts.Italic = surface.Font{Family: base, Style: "I"}
			fonts.Caption = fonts.Italic
		}
	}
	fonts.BoldItalic = fonts.Bold
	if data, ok := fam.Faces[webfont.BoldItalic]; ok {
		if err := e.dev.RegisterFont(base, "BI", data); err == nil {
			fonts.BoldItalic = surface.Font{Family: base, Style: "BI"}
		}
	}

	e.log.Info("layout: font family loaded", observability.String("family", family))
}

// prefetchImages resolves every image source once, before layout begins.
func (e *Engine) prefetchImages(ctx context.Context, doc *document.Document) {
	e.resolved = make(map[string]imageResult)
	for _, b := range doc.Blocks {
		img, ok := b.(document.Image)
		if !ok {
			continue
		}
		if _, done := e.resolved[img.Src]; done {
			continue
		}
		a, err := e.images.Resolve(ctx, img.Src)
		if err != nil {
			e.log.Warn("layout: image unavailable",
				observability.String("src", img.Src),
				observability.Err(err))
		}
		e.resolved[img.Src] = imageResult{asset: a, err: err}
	}
}
