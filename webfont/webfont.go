// Package webfont resolves a requested font family from the Google Fonts
// service into TrueType faces the drawing surface can register. Resolution
// is a best-effort, pre-layout step: any failure leaves the caller on its
// built-in fonts.
package webfont

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	gofont "github.com/go-text/typesetting/font"

	"github.com/notepress/notepress/observability"
)

// Variant names the four faces a family resolves to.
type Variant string

const (
	Regular    Variant = "regular"
	Bold       Variant = "bold"
	Italic     Variant = "italic"
	BoldItalic Variant = "bolditalic"
)

// variantOrder matches the order the CSS endpoint lists faces in for the
// ital,wght@0,400;0,700;1,400;1,700 query.
var variantOrder = []Variant{Regular, Bold, Italic, BoldItalic}

var ttfURLPattern = regexp.MustCompile(`url\(([^)]+\.ttf)\)`)

// ErrNoFaces is returned when the CSS response yields no usable TTF files.
var ErrNoFaces = errors.New("webfont: no usable faces")

// Family is a resolved font family.
type Family struct {
	Name  string
	Faces map[Variant][]byte
}

// Fetcher downloads families. The zero value is not usable; use NewFetcher.
type Fetcher struct {
	client  *http.Client
	baseURL string
	log     observability.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient sets the HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

// WithBaseURL overrides the CSS endpoint, mainly for tests.
func WithBaseURL(u string) Option {
	return func(f *Fetcher) { f.baseURL = u }
}

// WithLogger sets the logger for per-face warnings.
func WithLogger(l observability.Logger) Option {
	return func(f *Fetcher) { f.log = l }
}

// NewFetcher builds a Fetcher with the Google Fonts endpoint and the default
// HTTP client.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:  http.DefaultClient,
		baseURL: "https://fonts.googleapis.com",
		log:     observability.NopLogger{},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch resolves a family name into its faces. Each downloaded face is
// parsed before it is accepted, so a corrupt download is skipped rather
// than poisoning font registration later. At least one valid face must
// survive or an error wrapping ErrNoFaces is returned.
func (f *Fetcher) Fetch(ctx context.Context, family string) (*Family, error) {
	if strings.TrimSpace(family) == "" {
		return nil, fmt.Errorf("%w: empty family name", ErrNoFaces)
	}

	cssURL := fmt.Sprintf(
		"%s/css2?family=%s:ital,wght@0,400;0,700;1,400;1,700&display=swap",
		f.baseURL, strings.ReplaceAll(family, " ", "+"),
	)
	css, err := f.get(ctx, cssURL)
	if err != nil {
		return nil, fmt.Errorf("webfont: fetching css for %q: %w", family, err)
	}

	matches := ttfURLPattern.FindAllStringSubmatch(string(css), -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: no TTF files listed for %q", ErrNoFaces, family)
	}

	fam := &Family{Name: family, Faces: make(map[Variant][]byte)}
	for i, m := range matches {
		if i >= len(variantOrder) {
			break
		}
		variant := variantOrder[i]
		data, err := f.get(ctx, m[1])
		if err != nil {
			f.log.Warn("webfont: face download failed",
				observability.String("family", family),
				observability.String("variant", string(variant)),
				observability.Err(err))
			continue
		}
		if _, err := gofont.ParseTTF(bytes.NewReader(data)); err != nil {
			f.log.Warn("webfont: face is not a valid TrueType file",
				observability.String("family", family),
				observability.String("variant", string(variant)),
				observability.Err(err))
			continue
		}
		fam.Faces[variant] = data
	}

	if len(fam.Faces) == 0 {
		return nil, fmt.Errorf("%w: all faces failed for %q", ErrNoFaces, family)
	}
	if _, ok := fam.Faces[Regular]; !ok {
		for _, v := range variantOrder {
			if data, ok := fam.Faces[v]; ok {
				fam.Faces[Regular] = data
				break
			}
		}
	}
	return fam, nil
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
