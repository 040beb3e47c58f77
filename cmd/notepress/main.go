// Command notepress renders a block-document JSON file to a paginated PDF.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/notepress/notepress/document"
	"github.com/notepress/notepress/layout"
	"github.com/notepress/notepress/observability"
	"github.com/notepress/notepress/surface"
)

type options struct {
	inputPath  string
	outputPath string
	timeout    time.Duration
	verbose    bool
}

func main() {
	opts, err := parseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "notepress: %v\n", err)
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "notepress: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags() (options, error) {
	var opts options
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: notepress [flags] <document.json>\n")
		flag.PrintDefaults()
	}
	out := flag.String("o", "", "Output PDF path (default: input name with .pdf)")
	timeout := flag.Duration("timeout", 60*time.Second, "Overall render deadline, covering font and image fetches")
	verbose := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return options{}, fmt.Errorf("missing document path")
	}
	opts.inputPath = flag.Arg(0)
	opts.outputPath = *out
	if opts.outputPath == "" {
		base := strings.TrimSuffix(opts.inputPath, filepath.Ext(opts.inputPath))
		opts.outputPath = base + ".pdf"
	}
	opts.timeout = *timeout
	opts.verbose = *verbose
	return opts, nil
}

func run(opts options) error {
	data, err := os.ReadFile(opts.inputPath)
	if err != nil {
		return err
	}
	doc, err := document.Decode(data)
	if err != nil {
		return err
	}

	log := observability.NewTextLogger(os.Stderr)
	if opts.verbose {
		log.MinLvl = observability.LevelDebug
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	engine := layout.NewEngine(surface.NewPDF(), layout.WithLogger(log))
	pdf, err := engine.Render(ctx, doc)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", opts.inputPath, err)
	}
	if err := os.WriteFile(opts.outputPath, pdf, 0o644); err != nil {
		return err
	}
	log.Info("wrote pdf",
		observability.String("path", opts.outputPath),
		observability.Int("bytes", len(pdf)))
	return nil
}
