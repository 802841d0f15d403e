// Package server exposes the resume pipeline over HTTP with gin.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	resumepdf "github.com/alnah/go-resumepdf"
	"github.com/alnah/go-resumepdf/internal/artifact"
	"github.com/alnah/go-resumepdf/internal/logger"
)

// MaxMarkdownBody caps the /generate-pdf request body.
const MaxMarkdownBody = 1 << 20

// Renderer renders markdown to PDF without touching any store.
type Renderer interface {
	RenderMarkdown(ctx context.Context, markdown string) ([]byte, error)
}

// Publisher runs the full pipeline for a stored record.
type Publisher interface {
	Generate(ctx context.Context, recordID string) (*resumepdf.ArtifactReference, error)
}

// Deriver creates a resume for a target record.
type Deriver interface {
	Derive(ctx context.Context, targetID string) (string, error)
}

// Compile-time interface checks
var (
	_ Renderer  = (*resumepdf.Generator)(nil)
	_ Publisher = (*resumepdf.Generator)(nil)
	_ Deriver   = (*resumepdf.Deriver)(nil)
)

// Deps are the handlers' collaborators. Nil Publisher or Deriver leaves
// the matching route unregistered.
type Deps struct {
	Renderer  Renderer
	Publisher Publisher
	Deriver   Deriver
	Log       *slog.Logger
	// ArtifactDir, when set, is served under artifact.LocalRoute.
	ArtifactDir string
	// Now stamps health responses; defaults to time.Now.
	Now func() time.Time
}

type handler struct {
	deps Deps
}

// New builds the router with request id, recovery and access logging.
func New(deps Deps) *gin.Engine {
	if deps.Log == nil {
		deps.Log = logger.Discard()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	h := &handler{deps: deps}

	router := gin.New()
	router.Use(RequestID())
	router.Use(Recovery(deps.Log))
	router.Use(RequestLogger(deps.Log))

	router.GET("/health", h.health)
	if deps.Renderer != nil {
		router.POST("/generate-pdf", h.generatePDF)
	}

	api := router.Group("/api")
	if deps.Publisher != nil {
		api.POST("/resumes/:id/pdf", h.publishResume)
	}
	if deps.Deriver != nil {
		api.POST("/applications/:id/resume", h.deriveResume)
	}

	if deps.ArtifactDir != "" {
		router.Static(artifact.LocalRoute, deps.ArtifactDir)
	}
	return router
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": h.deps.Now().UTC().Format(time.RFC3339),
	})
}

type generateRequest struct {
	Markdown string `json:"markdown"`
}

// generatePDF renders the posted markdown and streams the PDF back.
func (h *handler) generatePDF(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxMarkdownBody)

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, "invalid JSON body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Markdown) == "" {
		h.badRequest(c, "Markdown content required")
		return
	}

	pdf, err := h.deps.Renderer.RenderMarkdown(c.Request.Context(), req.Markdown)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="output.pdf"`)
	c.Data(http.StatusOK, resumepdf.PDFContentType, pdf)
}

type publishResponse struct {
	RecordID string `json:"record_id"`
	URL      string `json:"url"`
	Key      string `json:"key"`
}

func (h *handler) publishResume(c *gin.Context) {
	id := c.Param("id")
	ref, err := h.deps.Publisher.Generate(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, publishResponse{RecordID: id, URL: ref.URL, Key: ref.Key})
}

type deriveResponse struct {
	TargetID string `json:"target_id"`
	ResumeID string `json:"resume_id"`
}

func (h *handler) deriveResume(c *gin.Context) {
	target := c.Param("id")
	id, err := h.deps.Deriver.Derive(c.Request.Context(), target)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, deriveResponse{TargetID: target, ResumeID: id})
}

func (h *handler) badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{
		Error:     msg,
		Code:      "bad_request",
		RequestID: GetRequestID(c),
	})
}

// fail logs err once and writes the mapped status.
func (h *handler) fail(c *gin.Context, err error) {
	status, code := statusFor(err)
	stage, _ := resumepdf.StageOf(err)

	log := logger.WithContext(c.Request.Context(), h.deps.Log)
	attrs := []any{"error", err, "code", code}
	if stage != "" {
		attrs = append(attrs, "stage", stage)
	}
	var ue *resumepdf.UpstreamError
	if errors.As(err, &ue) {
		attrs = append(attrs, "upstream_status", ue.StatusCode, "upstream_body", string(ue.Body))
	}
	if status >= http.StatusInternalServerError {
		log.Error("request failed", attrs...)
	} else {
		log.Warn("request failed", attrs...)
	}

	c.AbortWithStatusJSON(status, errorResponse{
		Error:     err.Error(),
		Code:      code,
		Stage:     string(stage),
		RequestID: GetRequestID(c),
	})
}

// Run serves handler on addr until ctx is done, then shuts down within
// shutdownTimeout.
func Run(ctx context.Context, addr string, handler http.Handler, shutdownTimeout time.Duration, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listening on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Info("server exited gracefully")
	return nil
}
