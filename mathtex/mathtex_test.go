package mathtex

import (
	"errors"
	"testing"

	"github.com/notepress/notepress/surface"
)

type runeMeasurer struct{ calls int }

func (m *runeMeasurer) MeasureText(text string, size float64, font surface.Font) float64 {
	m.calls++
	return float64(len([]rune(text))) * size * 0.5
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"  ", ""},
		{"x^2", "$x^2$"},
		{"$x^2$", "$x^2$"},
		{"$$x^2$$", "$$x^2$$"},
		{`\(a+b\)`, "$a+b$"},
		{`\[a+b\]`, "$$a+b$$"},
		{"  e = mc^2  ", "$e = mc^2$"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMetricsEmptyExpression(t *testing.T) {
	r := NewRenderer(&runeMeasurer{}, surface.Font{Family: "Helvetica"})
	if _, err := r.Metrics("", 12); !errors.Is(err, ErrEmpty) {
		t.Fatalf("err = %v, want ErrEmpty", err)
	}
	if _, err := r.Metrics("   ", 12); !errors.Is(err, ErrEmpty) {
		t.Fatalf("err = %v, want ErrEmpty", err)
	}
}

func TestMetricsSimpleExpression(t *testing.T) {
	r := NewRenderer(&runeMeasurer{}, surface.Font{Family: "Helvetica"})
	m, err := r.Metrics("x+1", 12)
	if err != nil {
		t.Fatalf("Metrics: %v", err)
	}
	if m.Width <= 0 {
		t.Fatalf("width = %v, want > 0", m.Width)
	}
	if m.Height <= 0 {
		t.Fatalf("height = %v, want > 0", m.Height)
	}
}

func TestFractionDeeperThanPlainText(t *testing.T) {
	r := NewRenderer(&runeMeasurer{}, surface.Font{Family: "Helvetica"})
	plain, err := r.Metrics("x", 12)
	if err != nil {
		t.Fatalf("plain: %v", err)
	}
	frac, err := r.Metrics(`\frac{a}{b}`, 12)
	if err != nil {
		t.Fatalf("fraction: %v", err)
	}
	if frac.Height <= plain.Height {
		t.Fatalf("fraction height %v not taller than plain %v", frac.Height, plain.Height)
	}
	if frac.Depth <= plain.Depth {
		t.Fatalf("fraction depth %v not deeper than plain %v", frac.Depth, plain.Depth)
	}
}

func TestMetricsCached(t *testing.T) {
	meas := &runeMeasurer{}
	r := NewRenderer(meas, surface.Font{Family: "Helvetica"})
	if _, err := r.Metrics("a+b", 12); err != nil {
		t.Fatalf("first: %v", err)
	}
	callsAfterFirst := meas.calls
	for i := 0; i < 5; i++ {
		if _, err := r.Metrics("a+b", 12); err != nil {
			t.Fatalf("repeat %d: %v", i, err)
		}
	}
	if meas.calls != callsAfterFirst {
		t.Fatalf("measurer called %d times after warm cache, want %d", meas.calls, callsAfterFirst)
	}
	if r.CacheHits() != 5 {
		t.Fatalf("cache hits = %d, want 5", r.CacheHits())
	}
}

func TestErrorsCached(t *testing.T) {
	r := NewRenderer(&runeMeasurer{}, surface.Font{Family: "Helvetica"})
	if _, err := r.Metrics("", 12); err == nil {
		t.Fatal("want error")
	}
	if _, err := r.Metrics("", 12); err == nil {
		t.Fatal("want cached error")
	}
	if r.CacheHits() != 1 {
		t.Fatalf("cache hits = %d, want 1", r.CacheHits())
	}
}

func TestTypesetPopulatesMetricsCache(t *testing.T) {
	r := NewRenderer(&runeMeasurer{}, surface.Font{Family: "Helvetica"})
	box, err := r.Typeset("x^2", 12, surface.Color{R: 0.1, G: 0.1, B: 0.1})
	if err != nil {
		t.Fatalf("Typeset: %v", err)
	}
	if box == nil {
		t.Fatal("nil box")
	}
	bm := box.Metrics()
	if _, err := r.Metrics("x^2", 12); err != nil {
		t.Fatalf("Metrics after Typeset: %v", err)
	}
	if r.CacheHits() != 1 {
		t.Fatalf("cache hits = %d, want metrics served from typeset result", r.CacheHits())
	}
	m, _ := r.Metrics("x^2", 12)
	if m != bm {
		t.Fatalf("metrics %+v disagree with box %+v", m, bm)
	}
}

func TestTypesetDistinctColorsDistinctEntries(t *testing.T) {
	r := NewRenderer(&runeMeasurer{}, surface.Font{Family: "Helvetica"})
	a, err := r.Typeset("y", 12, surface.Color{R: 1})
	if err != nil {
		t.Fatal(err)
	}
	b, err := r.Typeset("y", 12, surface.Color{B: 1})
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatal("different colors share one box")
	}
	if a.Metrics() != b.Metrics() {
		t.Fatalf("color must not change geometry: %+v vs %+v", a.Metrics(), b.Metrics())
	}
}
