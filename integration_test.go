//go:build integration

package resumepdf

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ledongthuc/pdf"
)

// pdfText extracts the plain text of every page.
func pdfText(t *testing.T, data []byte) string {
	t.Helper()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("reading PDF: %v", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		t.Fatalf("extracting text: %v", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		t.Fatalf("copying text: %v", err)
	}
	return buf.String()
}

// TestRenderMarkdown_Integration renders through a real browser.
// Rod downloads Chromium on first run if ROD_BROWSER_BIN is unset.
func TestRenderMarkdown_Integration(t *testing.T) {
	renderer, err := NewRenderer(Identity{
		Name:    "Jane Doe",
		Contact: []string{"jane@example.com", "Paris"},
	})
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}

	g := NewGenerator(nil, renderer, NewRasterizer(WithRenderTimeout(2*time.Minute)), nil)

	md := "# Jane Doe\n\n## Experience\n\nProgramming: Go, TypeScript Tools: Docker\n\n- Built the resume pipeline"
	data, err := g.RenderMarkdown(context.Background(), md)
	if err != nil {
		t.Fatalf("RenderMarkdown() error = %v", err)
	}

	info, err := Inspect(data)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if info.Pages != 1 {
		t.Errorf("Pages = %d, want 1", info.Pages)
	}

	text := pdfText(t, data)
	for _, want := range []string{"Jane", "Experience", "Programming"} {
		if !strings.Contains(text, want) {
			t.Errorf("PDF text missing %q", want)
		}
	}
}

func TestRasterize_Integration_Timeout(t *testing.T) {
	// A resource that never answers keeps the network busy.
	stall := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(30 * time.Second):
		}
	}))
	defer stall.Close()

	// The browser must start, otherwise the deadline would only cover a
	// failed launch.
	if _, err := NewRasterizer().Rasterize(context.Background(), "<html><body>ok</body></html>"); err != nil {
		t.Fatalf("baseline Rasterize() error = %v", err)
	}

	r := NewRasterizer(WithRenderTimeout(3 * time.Second))
	doc := `<html><body><img src="` + stall.URL + `/photo.png"></body></html>`

	_, err := r.Rasterize(context.Background(), doc)
	if !errors.Is(err, ErrRenderTimeout) {
		t.Fatalf("error = %v, want ErrRenderTimeout", err)
	}
	if errors.Is(err, ErrEngine) {
		t.Errorf("timeout reported as engine failure: %v", err)
	}
}
