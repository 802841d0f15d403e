package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	resumepdf "github.com/alnah/go-resumepdf"
	"github.com/alnah/go-resumepdf/internal/config"
	"github.com/alnah/go-resumepdf/internal/hints"
	"github.com/alnah/go-resumepdf/internal/logger"
)

// Sentinel errors for CLI operations.
var (
	ErrUsage        = errors.New("invalid usage")
	ErrReadMarkdown = errors.New("failed to read markdown")
	ErrReadCSS      = errors.New("failed to read CSS")
	ErrWriteOutput  = errors.New("failed to write output")
)

// loadConfig applies the dotenv file, then the config file (flag, else
// $RESUMEPDF_CONFIG), then the environment, and builds the CLI logger.
// Verbose and quiet override log.level.
func loadConfig(f *commonFlags, env *Environment) (*config.Config, *slog.Logger, error) {
	if f.envFile != "" {
		if err := config.LoadDotEnv(f.envFile); err != nil {
			return nil, nil, err
		}
	}

	name := f.config
	if name == "" {
		name = os.Getenv("RESUMEPDF_CONFIG")
	}
	cfg, err := config.Load(name)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, nil, fmt.Errorf("%w%s", err, hints.ForConfigNotFound(name))
		}
		return nil, nil, err
	}

	switch {
	case f.verbose:
		cfg.Log.Level = "debug"
	case f.quiet:
		cfg.Log.Level = "error"
	}
	log := logger.New(env.Stderr, logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	config.WarnUnknownEnvVars(log)
	return cfg, log, nil
}

// newRenderer builds the document renderer from the render and identity
// sections. extraCSS is appended after the layout.
func newRenderer(cfg *config.Config, extraCSS string) (*resumepdf.Renderer, error) {
	opts := []resumepdf.RenderOption{
		resumepdf.WithLayout(cfg.Render.Layout),
		resumepdf.WithAssetPath(cfg.Assets.BasePath),
		resumepdf.WithSections(cfg.Render.Sections.Break, cfg.Render.Sections.Inline),
	}
	if cfg.Identity.Name != "" {
		opts = append(opts, resumepdf.WithTitle(cfg.Identity.Name))
	}
	if extraCSS != "" {
		opts = append(opts, resumepdf.WithCSS(extraCSS))
	}
	if n := len(cfg.Render.HeadingLinks); n > 0 {
		links := make([]resumepdf.HeadingLink, n)
		for i, l := range cfg.Render.HeadingLinks {
			links[i] = resumepdf.HeadingLink(l)
		}
		opts = append(opts, resumepdf.WithHeadingLinks(links))
	}
	return resumepdf.NewRenderer(identityFrom(cfg.Identity), opts...)
}

func identityFrom(c config.IdentityConfig) resumepdf.Identity {
	links := make([]resumepdf.Link, len(c.Links))
	for i, l := range c.Links {
		links[i] = resumepdf.Link(l)
	}
	return resumepdf.Identity{
		Name:    c.Name,
		Links:   links,
		Contact: c.Contact,
		Summary: c.Summary,
	}
}

func pageSettings(cfg *config.Config) *resumepdf.PageSettings {
	m := cfg.Render.Page.Margins
	return &resumepdf.PageSettings{
		Size:    cfg.Render.Page.Size,
		Margins: resumepdf.Margins{Top: m.Top, Right: m.Right, Bottom: m.Bottom, Left: m.Left},
	}
}

// services holds the pipeline built from one configuration.
type services struct {
	generator *resumepdf.Generator
	deriver   *resumepdf.Deriver
}

// buildRenderOnly wires a Generator that can only RenderMarkdown.
func buildRenderOnly(cfg *config.Config, log *slog.Logger, env *Environment, extraCSS string) (*resumepdf.Generator, error) {
	renderer, err := newRenderer(cfg, extraCSS)
	if err != nil {
		return nil, err
	}
	return resumepdf.NewGenerator(nil, renderer, env.NewRasterizer(cfg), nil,
		resumepdf.WithLogger(log), resumepdf.WithClock(env.Now)), nil
}

// buildServices checks credentials first, then wires Notion, the artifact
// store, the publisher and both orchestrators.
func buildServices(ctx context.Context, cfg *config.Config, log *slog.Logger, env *Environment) (*services, error) {
	if err := cfg.RequireRecordStore(); err != nil {
		return nil, err
	}
	if err := cfg.RequireArtifactStore(); err != nil {
		return nil, err
	}

	renderer, err := newRenderer(cfg, "")
	if err != nil {
		return nil, err
	}
	records, err := env.NewRecordStore(cfg, log)
	if err != nil {
		return nil, err
	}
	store, err := env.NewArtifactStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	publisher, err := resumepdf.NewPublisher(store, resumepdf.URLPolicy{PublicBaseURL: cfg.Artifact.PublicURL})
	if err != nil {
		return nil, err
	}
	log.Debug("services ready",
		"artifact_driver", cfg.Artifact.Driver,
		"artifact_base", publisher.URL(""),
		"layout", cfg.Render.Layout)

	opts := []resumepdf.Option{resumepdf.WithLogger(log), resumepdf.WithClock(env.Now)}
	return &services{
		generator: resumepdf.NewGenerator(records, renderer, env.NewRasterizer(cfg), publisher, opts...),
		deriver:   resumepdf.NewDeriver(records, opts...),
	}, nil
}
