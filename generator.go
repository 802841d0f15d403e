package resumepdf

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/alnah/go-resumepdf/internal/logger"
)

// RecordStore is the remote database holding resume records.
type RecordStore interface {
	// FetchMarkdown returns the full markdown of a record. Fails with
	// ErrNotFound when the record or its markdown field is missing.
	FetchMarkdown(ctx context.Context, recordID string) (string, error)
	// AttachArtifact replaces the record's PDF attachment with url.
	AttachArtifact(ctx context.Context, recordID, url string) error
	// LatestBaseRecord returns the newest record flagged as base template,
	// or ErrNoBaseTemplate.
	LatestBaseRecord(ctx context.Context) (*ResumeRecord, error)
	// CreateRecord stores a new non-base resume and returns its id.
	CreateRecord(ctx context.Context, rec NewRecord) (string, error)
	// LinkRecord relates targetID to recordID.
	LinkRecord(ctx context.Context, targetID, recordID string) error
}

// Generator runs the pipeline: fetch, render, rasterize, publish, backlink.
// Stages run in order and the first failure aborts the run.
type Generator struct {
	records    RecordStore
	renderer   DocumentRenderer
	rasterizer Rasterizer
	publisher  ArtifactPublisher
	opts       options
}

// NewGenerator wires the pipeline stages.
func NewGenerator(records RecordStore, renderer DocumentRenderer, rasterizer Rasterizer,
	publisher ArtifactPublisher, opts ...Option,
) *Generator {
	return &Generator{
		records:    records,
		renderer:   renderer,
		rasterizer: rasterizer,
		publisher:  publisher,
		opts:       applyOptions(opts),
	}
}

// Generate builds the PDF for recordID, publishes it and links it back.
// The record is patched only after a successful upload.
func (g *Generator) Generate(ctx context.Context, recordID string) (*ArtifactReference, error) {
	log := logger.WithContext(ctx, g.opts.logger).With("record_id", recordID)

	if err := ValidateRecordID(recordID); err != nil {
		return nil, stageErr(StageFetch, recordID, err)
	}

	start := time.Now()
	md, err := g.records.FetchMarkdown(ctx, recordID)
	if err != nil {
		return nil, stageErr(StageFetch, recordID, err)
	}
	log.Debug("stage done", "stage", StageFetch, "bytes", len(md), "duration", time.Since(start))

	pdf, err := g.render(ctx, log, recordID, md)
	if err != nil {
		return nil, err
	}

	start = time.Now()
	ref, err := g.publisher.Publish(ctx, recordID, pdf)
	if err != nil {
		return nil, stageErr(StagePublish, recordID, err)
	}
	log.Debug("stage done", "stage", StagePublish, "key", ref.Key, "duration", time.Since(start))

	start = time.Now()
	if err := g.records.AttachArtifact(ctx, recordID, ref.URL); err != nil {
		return nil, stageErr(StageBacklink, recordID, err)
	}
	log.Debug("stage done", "stage", StageBacklink, "duration", time.Since(start))

	log.Info("resume published", "url", ref.URL)
	return ref, nil
}

// RenderMarkdown renders and rasterizes markdown without touching any store.
func (g *Generator) RenderMarkdown(ctx context.Context, markdown string) ([]byte, error) {
	log := logger.WithContext(ctx, g.opts.logger)
	return g.render(ctx, log, "", markdown)
}

func (g *Generator) render(ctx context.Context, log *slog.Logger, recordID, md string) ([]byte, error) {
	if strings.TrimSpace(md) == "" {
		return nil, stageErr(StageRender, recordID, ErrEmptyMarkdown)
	}

	start := time.Now()
	doc, err := g.renderer.Render(ctx, md)
	if err != nil {
		return nil, stageErr(StageRender, recordID, err)
	}
	log.Debug("stage done", "stage", StageRender, "bytes", len(doc), "duration", time.Since(start))

	start = time.Now()
	pdf, err := g.rasterizer.Rasterize(ctx, doc)
	if err != nil {
		return nil, stageErr(StageRasterize, recordID, err)
	}

	attrs := []any{"stage", StageRasterize, "bytes", len(pdf), "duration", time.Since(start)}
	if g.opts.inspect {
		info, err := Inspect(pdf)
		if err != nil {
			return nil, stageErr(StageRasterize, recordID, err)
		}
		attrs = append(attrs, "pages", info.Pages)
	}
	log.Debug("stage done", attrs...)

	return pdf, nil
}
