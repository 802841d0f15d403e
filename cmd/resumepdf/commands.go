package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alnah/go-resumepdf/internal/config"
	"github.com/alnah/go-resumepdf/internal/fileutil"
	"github.com/alnah/go-resumepdf/internal/server"
)

// runServe starts the HTTP service and blocks until ctx is canceled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	f, rest, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		return fmt.Errorf("%w: serve takes no arguments, got %q", ErrUsage, rest)
	}
	cfg, log, err := loadConfig(&f.common, env)
	if err != nil {
		return err
	}
	if f.port > 0 {
		cfg.Server.Port = f.port
	}
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	deps := server.Deps{Log: log, Now: env.Now}
	if f.renderOnly {
		gen, err := buildRenderOnly(cfg, log, env, "")
		if err != nil {
			return err
		}
		deps.Renderer = gen
	} else {
		svc, err := buildServices(ctx, cfg, log, env)
		if err != nil {
			return err
		}
		deps.Renderer = svc.generator
		deps.Publisher = svc.generator
		deps.Deriver = svc.deriver
		if cfg.Artifact.Driver == config.DriverLocal {
			deps.ArtifactDir = cfg.Artifact.Dir
		}
	}

	addr := ":" + strconv.Itoa(cfg.Server.Port)
	return env.Serve(ctx, addr, server.New(deps), cfg.ShutdownTimeout(), log)
}

// runGenerate publishes one stored resume and prints its URL.
func runGenerate(ctx context.Context, args []string, env *Environment) error {
	f, rest, err := parseRecordFlags("generate", args, env.Stderr, printGenerateUsage)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("%w: generate takes exactly one record id", ErrUsage)
	}
	cfg, log, err := loadConfig(&f.common, env)
	if err != nil {
		return err
	}
	if f.timeout > 0 {
		cfg.Render.Timeout = f.timeout.String()
	}

	svc, err := buildServices(ctx, cfg, log, env)
	if err != nil {
		return err
	}
	ref, err := svc.generator.Generate(ctx, rest[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(env.Stdout, ref.URL)
	return nil
}

// runDerive creates a resume for an application and prints the new id.
func runDerive(ctx context.Context, args []string, env *Environment) error {
	f, rest, err := parseRecordFlags("derive", args, env.Stderr, printDeriveUsage)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("%w: derive takes exactly one application id", ErrUsage)
	}
	cfg, log, err := loadConfig(&f.common, env)
	if err != nil {
		return err
	}

	svc, err := buildServices(ctx, cfg, log, env)
	if err != nil {
		return err
	}
	id, err := svc.deriver.Derive(ctx, rest[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(env.Stdout, id)
	return nil
}

// runRender renders a local markdown file to PDF, with no stores involved.
func runRender(ctx context.Context, args []string, env *Environment) error {
	f, rest, err := parseRenderFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	input, err := resolveInput(f.input, rest)
	if err != nil {
		return err
	}
	output, err := resolveOutput(input, f.output)
	if err != nil {
		return err
	}

	cfg, log, err := loadConfig(&f.common, env)
	if err != nil {
		return err
	}
	if f.layout != "" {
		cfg.Render.Layout = f.layout
	}
	if f.timeout > 0 {
		cfg.Render.Timeout = f.timeout.String()
	}

	markdown, err := readMarkdown(input)
	if err != nil {
		return err
	}
	extraCSS, err := readCSS(f.css)
	if err != nil {
		return err
	}

	if f.html {
		renderer, err := newRenderer(cfg, extraCSS)
		if err != nil {
			return err
		}
		doc, err := renderer.Render(ctx, markdown)
		if err != nil {
			return err
		}
		htmlPath := strings.TrimSuffix(output, filepath.Ext(output)) + ".html"
		if err := writeOutput(htmlPath, []byte(doc)); err != nil {
			return err
		}
		log.Info("html written", "path", htmlPath)
	}

	gen, err := buildRenderOnly(cfg, log, env, extraCSS)
	if err != nil {
		return err
	}
	pdf, err := gen.RenderMarkdown(ctx, markdown)
	if err != nil {
		return err
	}
	if err := writeOutput(output, pdf); err != nil {
		return err
	}
	fmt.Fprintln(env.Stdout, output)
	return nil
}

// resolveInput picks --input, else the single positional argument.
func resolveInput(flagInput string, rest []string) (string, error) {
	switch {
	case flagInput != "" && len(rest) > 0:
		return "", fmt.Errorf("%w: both --input and an argument given", ErrUsage)
	case flagInput != "":
		return flagInput, nil
	case len(rest) == 1:
		return rest[0], nil
	case len(rest) > 1:
		return "", fmt.Errorf("%w: render takes one input, got %d", ErrUsage, len(rest))
	}
	return "", fmt.Errorf("%w: no input file (use -i or \"-\" for stdin)", ErrUsage)
}

// resolveOutput defaults to the input path with a .pdf extension.
// Stdin input needs an explicit output.
func resolveOutput(input, output string) (string, error) {
	if output != "" {
		return output, nil
	}
	if input == "-" {
		return "", fmt.Errorf("%w: --output is required when reading stdin", ErrUsage)
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".pdf", nil
}

func readMarkdown(path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path) // #nosec G304 -- user-provided input path
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadMarkdown, err)
	}
	return string(data), nil
}

func readCSS(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided stylesheet path
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadCSS, err)
	}
	return string(data), nil
}

func writeOutput(path string, data []byte) error {
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}
