package webfont

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"
)

// fontServer serves a css2-style response listing TTF URLs, plus the TTF
// files themselves. Bad variants serve bytes that do not parse as TrueType.
func fontServer(t *testing.T, goodVariants, badVariants int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server

	mux.HandleFunc("/css2", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("family") == "" {
			http.Error(w, "missing family", http.StatusBadRequest)
			return
		}
		var css strings.Builder
		for i := 0; i < goodVariants; i++ {
			fmt.Fprintf(&css, "@font-face { src: url(%s/font/good%d.ttf); }\n", srv.URL, i)
		}
		for i := 0; i < badVariants; i++ {
			fmt.Fprintf(&css, "@font-face { src: url(%s/font/bad%d.ttf); }\n", srv.URL, i)
		}
		w.Header().Set("Content-Type", "text/css")
		fmt.Fprint(w, css.String())
	})
	mux.HandleFunc("/font/", func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "bad") {
			w.Write([]byte("this is not a font"))
			return
		}
		w.Write(goregular.TTF)
	})

	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchAllVariants(t *testing.T) {
	srv := fontServer(t, 4, 0)
	f := NewFetcher(WithBaseURL(srv.URL), WithClient(srv.Client()))

	fam, err := f.Fetch(context.Background(), "Test Family")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if fam.Name != "Test Family" {
		t.Fatalf("name = %q", fam.Name)
	}
	for _, v := range []Variant{Regular, Bold, Italic, BoldItalic} {
		if len(fam.Faces[v]) == 0 {
			t.Fatalf("variant %s missing", v)
		}
	}
}

func TestFetchSkipsCorruptFaces(t *testing.T) {
	// Regular face is corrupt; bold is valid and must be promoted to fill
	// the regular slot.
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/css2", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "src: url(%s/bad.ttf);\nsrc: url(%s/good.ttf);\n", srv.URL, srv.URL)
	})
	mux.HandleFunc("/bad.ttf", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("garbage"))
	})
	mux.HandleFunc("/good.ttf", func(w http.ResponseWriter, r *http.Request) {
		w.Write(goregular.TTF)
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	f := NewFetcher(WithBaseURL(srv.URL), WithClient(srv.Client()))
	fam, err := f.Fetch(context.Background(), "Partial")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(fam.Faces[Regular]) == 0 {
		t.Fatal("regular slot not backfilled from a surviving face")
	}
	if len(fam.Faces[Bold]) == 0 {
		t.Fatal("bold face missing")
	}
}

func TestFetchAllFacesCorrupt(t *testing.T) {
	srv := fontServer(t, 0, 2)
	f := NewFetcher(WithBaseURL(srv.URL), WithClient(srv.Client()))
	if _, err := f.Fetch(context.Background(), "Broken"); !errors.Is(err, ErrNoFaces) {
		t.Fatalf("err = %v, want ErrNoFaces", err)
	}
}

func TestFetchNoTTFListed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "/* woff2 only */ src: url(https://example.com/f.woff2);")
	}))
	defer srv.Close()

	f := NewFetcher(WithBaseURL(srv.URL), WithClient(srv.Client()))
	if _, err := f.Fetch(context.Background(), "Woffy"); !errors.Is(err, ErrNoFaces) {
		t.Fatalf("err = %v, want ErrNoFaces", err)
	}
}

func TestFetchEmptyFamily(t *testing.T) {
	f := NewFetcher()
	if _, err := f.Fetch(context.Background(), "  "); !errors.Is(err, ErrNoFaces) {
		t.Fatalf("err = %v, want ErrNoFaces", err)
	}
}

func TestFetchCanceledContext(t *testing.T) {
	srv := fontServer(t, 1, 0)
	f := NewFetcher(WithBaseURL(srv.URL), WithClient(srv.Client()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := f.Fetch(ctx, "Anything"); err == nil {
		t.Fatal("want error from canceled context")
	}
}

func TestTTFURLPattern(t *testing.T) {
	css := `
@font-face { src: url(https://example.com/a.ttf) format('truetype'); }
@font-face { src: url(https://example.com/b.woff2) format('woff2'); }
@font-face { src: url(https://example.com/c.ttf); }
`
	matches := ttfURLPattern.FindAllStringSubmatch(css, -1)
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	if matches[0][1] != "https://example.com/a.ttf" || matches[1][1] != "https://example.com/c.ttf" {
		t.Fatalf("matches = %v", matches)
	}
}
