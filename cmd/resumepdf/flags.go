package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	envFile string
	quiet   bool
	verbose bool
}

// renderFlags holds flags for the render command.
type renderFlags struct {
	common  commonFlags
	input   string
	output  string
	html    bool
	layout  string
	css     string
	timeout time.Duration
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common     commonFlags
	port       int
	renderOnly bool
}

// recordFlags holds flags for commands that act on one stored record.
type recordFlags struct {
	common  commonFlags
	timeout time.Duration
}

func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path (default $RESUMEPDF_CONFIG)")
	fs.StringVar(&f.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only log errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log every pipeline stage")
}

func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// parse tags flag errors with ErrUsage; --help passes through as flag.ErrHelp.
func parse(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

func parseRenderFlags(args []string, w io.Writer) (*renderFlags, []string, error) {
	f := &renderFlags{}
	fs := newFlagSet("render", w, printRenderUsage)

	fs.StringVarP(&f.input, "input", "i", "", "markdown file (default: first argument, or stdin when \"-\")")
	fs.StringVarP(&f.output, "output", "o", "", "PDF path (default: input with .pdf extension)")
	fs.BoolVar(&f.html, "html", false, "also write the rendered HTML next to the PDF")
	fs.StringVarP(&f.layout, "layout", "l", "", "layout: compact, table, absolute, grid")
	fs.StringVar(&f.css, "css", "", "CSS file appended after the layout")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "render timeout (e.g., 30s, 2m)")
	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func parseServeFlags(args []string, w io.Writer) (*serveFlags, []string, error) {
	f := &serveFlags{}
	fs := newFlagSet("serve", w, printServeUsage)

	fs.IntVarP(&f.port, "port", "p", 0, "listen port (default: server.port, $RESUMEPDF_PORT or $PORT)")
	fs.BoolVar(&f.renderOnly, "render-only", false, "serve /generate-pdf only, without Notion or the bucket")
	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func parseRecordFlags(name string, args []string, w io.Writer, usage func(io.Writer)) (*recordFlags, []string, error) {
	f := &recordFlags{}
	fs := newFlagSet(name, w, usage)

	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "render timeout (e.g., 30s, 2m)")
	addCommonFlags(fs, &f.common)

	if err := parse(fs, args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
