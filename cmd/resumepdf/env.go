package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	resumepdf "github.com/alnah/go-resumepdf"
	"github.com/alnah/go-resumepdf/internal/artifact"
	"github.com/alnah/go-resumepdf/internal/config"
	"github.com/alnah/go-resumepdf/internal/notion"
	"github.com/alnah/go-resumepdf/internal/server"
)

// Environment holds injectable dependencies for testability:
// I/O, time, and the factories that reach Chrome, Notion and the bucket.
type Environment struct {
	Now    func() time.Time
	Stdout io.Writer
	Stderr io.Writer

	NewRasterizer    func(cfg *config.Config) resumepdf.Rasterizer
	NewRecordStore   func(cfg *config.Config, log *slog.Logger) (resumepdf.RecordStore, error)
	NewArtifactStore func(ctx context.Context, cfg *config.Config) (resumepdf.ArtifactStore, error)
	Serve            func(ctx context.Context, addr string, h http.Handler, shutdown time.Duration, log *slog.Logger) error
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:              time.Now,
		Stdout:           os.Stdout,
		Stderr:           os.Stderr,
		NewRasterizer:    defaultRasterizer,
		NewRecordStore:   defaultRecordStore,
		NewArtifactStore: defaultArtifactStore,
		Serve:            server.Run,
	}
}

// defaultRasterizer bounds concurrent Chrome instances by render.workers.
func defaultRasterizer(cfg *config.Config) resumepdf.Rasterizer {
	raster := resumepdf.NewRasterizer(
		resumepdf.WithPage(pageSettings(cfg)),
		resumepdf.WithRenderTimeout(cfg.RenderTimeout()),
	)
	return resumepdf.NewLimitedRasterizer(raster, resumepdf.ResolvePoolSize(cfg.Render.Workers))
}

func defaultRecordStore(cfg *config.Config, log *slog.Logger) (resumepdf.RecordStore, error) {
	client, err := notion.NewClient(&cfg.Notion, notion.WithLogger(log))
	if err != nil {
		return nil, err
	}
	return client, nil
}

func defaultArtifactStore(ctx context.Context, cfg *config.Config) (resumepdf.ArtifactStore, error) {
	return artifact.New(ctx, &cfg.Artifact)
}
