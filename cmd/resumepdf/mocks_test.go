package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	resumepdf "github.com/alnah/go-resumepdf"
	"github.com/alnah/go-resumepdf/internal/config"
)

// ---------------------------------------------------------------------------
// Fakes for the factories in Environment
// ---------------------------------------------------------------------------

type fakeRasterizer struct {
	mu   sync.Mutex
	pdf  []byte
	err  error
	html []string
}

func (f *fakeRasterizer) Rasterize(_ context.Context, html string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.html = append(f.html, html)
	if f.err != nil {
		return nil, f.err
	}
	return f.pdf, nil
}

type fakeRecords struct {
	mu          sync.Mutex
	markdown    string
	fetchErr    error
	base        *resumepdf.ResumeRecord
	baseErr     error
	attachedID  string
	attachedURL string
	created     []resumepdf.NewRecord
	links       [][2]string
}

func (f *fakeRecords) FetchMarkdown(_ context.Context, _ string) (string, error) {
	if f.fetchErr != nil {
		return "", f.fetchErr
	}
	return f.markdown, nil
}

func (f *fakeRecords) AttachArtifact(_ context.Context, recordID, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.attachedID, f.attachedURL = recordID, url
	return nil
}

func (f *fakeRecords) LatestBaseRecord(_ context.Context) (*resumepdf.ResumeRecord, error) {
	return f.base, f.baseErr
}

func (f *fakeRecords) CreateRecord(_ context.Context, rec resumepdf.NewRecord) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, rec)
	return fmt.Sprintf("new-%d", len(f.created)), nil
}

func (f *fakeRecords) LinkRecord(_ context.Context, targetID, recordID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.links = append(f.links, [2]string{targetID, recordID})
	return nil
}

type serveCall struct {
	addr     string
	handler  http.Handler
	shutdown time.Duration
}

// testEnv bundles an Environment with its fakes and captured output.
type testEnv struct {
	*Environment
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
	raster  *fakeRasterizer
	records *fakeRecords
	served  *serveCall
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	te := &testEnv{
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
		raster:  &fakeRasterizer{pdf: minimalPDF()},
		records: &fakeRecords{markdown: "## Experience\n\nBuilt things."},
	}
	te.Environment = &Environment{
		Now:           func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) },
		Stdout:        te.stdout,
		Stderr:        te.stderr,
		NewRasterizer: func(*config.Config) resumepdf.Rasterizer { return te.raster },
		NewRecordStore: func(*config.Config, *slog.Logger) (resumepdf.RecordStore, error) {
			return te.records, nil
		},
		NewArtifactStore: defaultArtifactStore,
		Serve: func(_ context.Context, addr string, h http.Handler, shutdown time.Duration, _ *slog.Logger) error {
			te.served = &serveCall{addr: addr, handler: h, shutdown: shutdown}
			return nil
		},
	}
	return te
}

// cleanEnv blanks every variable the config layer reads so the host
// environment cannot leak into a test. Not parallel-safe.
func cleanEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"NOTION_API_KEY", "NOTION_RESUMES_DB_ID", "NOTION_JOB_APPLICATIONS_DB_ID",
		"RESUMEPDF_CONFIG", "RESUMEPDF_PORT", "PORT", "RESUMEPDF_LOG_LEVEL", "RESUMEPDF_LOG_FORMAT",
		"RESUMEPDF_ARTIFACT_DRIVER", "RESUMEPDF_ARTIFACT_ENDPOINT", "RESUMEPDF_ARTIFACT_REGION",
		"RESUMEPDF_ARTIFACT_BUCKET", "RESUMEPDF_ARTIFACT_ACCESS_KEY", "RESUMEPDF_ARTIFACT_SECRET_KEY",
		"RESUMEPDF_ARTIFACT_PUBLIC_URL", "RESUMEPDF_TIMEOUT", "RESUMEPDF_WORKERS", "RESUMEPDF_LAYOUT",
		"RESUMEPDF_CONTAINER", "ROD_BROWSER_BIN", "ROD_NO_SANDBOX",
	} {
		t.Setenv(name, "")
	}
}

// writeLocalConfig writes a config using the local artifact driver and
// returns its path and the artifact directory.
func writeLocalConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	artifacts := filepath.Join(dir, "artifacts")
	cfg := fmt.Sprintf(`notion:
  apiKey: secret
  resumesDatabaseId: resumes-db
  applicationsDatabaseId: applications-db
artifact:
  driver: local
  dir: %s
  publicUrl: https://cdn.example.com/resumes
identity:
  name: Jane Doe
`, artifacts)
	path := filepath.Join(dir, "resumepdf.yaml")
	if err := os.WriteFile(path, []byte(cfg), 0o600); err != nil {
		t.Fatal(err)
	}
	return path, artifacts
}

// minimalPDF returns a one-page document that passes resumepdf.Inspect.
func minimalPDF() []byte {
	var buf bytes.Buffer
	var offsets []int

	buf.WriteString("%PDF-1.4\n")
	for _, obj := range []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] >>\nendobj\n",
	} {
		offsets = append(offsets, buf.Len())
		buf.WriteString(obj)
	}

	xref := buf.Len()
	size := len(offsets) + 1
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", size)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", size, xref)
	return buf.Bytes()
}
