package resumepdf

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/go-rod/rod/lib/proto"
)

// Mock implementations for testing.

type mockRecordStore struct {
	mu sync.Mutex

	markdown    string
	fetchErr    error
	attachErr   error
	base        *ResumeRecord
	baseErr     error
	createErr   error
	linkErr     error
	nextID      int
	attachedID  string
	attachedURL string
	created     []NewRecord
	links       [][2]string
	calls       []string
}

func (m *mockRecordStore) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockRecordStore) FetchMarkdown(ctx context.Context, recordID string) (string, error) {
	m.record("fetch")
	if m.fetchErr != nil {
		return "", m.fetchErr
	}
	return m.markdown, nil
}

func (m *mockRecordStore) AttachArtifact(ctx context.Context, recordID, url string) error {
	m.record("attach")
	if m.attachErr != nil {
		return m.attachErr
	}
	m.attachedID, m.attachedURL = recordID, url
	return nil
}

func (m *mockRecordStore) LatestBaseRecord(ctx context.Context) (*ResumeRecord, error) {
	m.record("base")
	return m.base, m.baseErr
}

func (m *mockRecordStore) CreateRecord(ctx context.Context, rec NewRecord) (string, error) {
	m.record("create")
	if m.createErr != nil {
		return "", m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.created = append(m.created, rec)
	return fmt.Sprintf("new-%d", m.nextID), nil
}

func (m *mockRecordStore) LinkRecord(ctx context.Context, targetID, recordID string) error {
	m.record("link")
	if m.linkErr != nil {
		return m.linkErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links = append(m.links, [2]string{targetID, recordID})
	return nil
}

type mockDocumentRenderer struct {
	called bool
	input  string
	output string
	err    error
}

func (m *mockDocumentRenderer) Render(ctx context.Context, markdown string) (string, error) {
	m.called = true
	m.input = markdown
	if m.err != nil {
		return "", m.err
	}
	if m.output != "" {
		return m.output, nil
	}
	return "<html>" + markdown + "</html>", nil
}

type mockRasterizer struct {
	called bool
	input  string
	output []byte
	err    error
}

func (m *mockRasterizer) Rasterize(ctx context.Context, html string) ([]byte, error) {
	m.called = true
	m.input = html
	if m.err != nil {
		return nil, m.err
	}
	if m.output != nil {
		return m.output, nil
	}
	return minimalPDF(1), nil
}

type mockPublisher struct {
	called bool
	pdf    []byte
	err    error
}

func (m *mockPublisher) Publish(ctx context.Context, recordID string, pdf []byte) (*ArtifactReference, error) {
	m.called = true
	m.pdf = pdf
	if m.err != nil {
		return nil, m.err
	}
	key := ArtifactKey(recordID)
	return &ArtifactReference{URL: "https://cdn.example.com/" + key, Key: key}, nil
}

type mockArtifactStore struct {
	endpoint    string
	err         error
	key         string
	contentType string
	body        []byte
}

func (m *mockArtifactStore) PutObject(ctx context.Context, key, contentType string, body []byte) error {
	if m.err != nil {
		return m.err
	}
	m.key, m.contentType, m.body = key, contentType, body
	return nil
}

func (m *mockArtifactStore) Endpoint() string { return m.endpoint }

type mockPDFRenderer struct {
	result     []byte
	err        error
	block      bool // wait for ctx to end
	calledWith string
	opts       *proto.PagePrintToPDF
}

func (m *mockPDFRenderer) RenderFromFile(ctx context.Context, filePath string, opts *proto.PagePrintToPDF) ([]byte, error) {
	m.calledWith = filePath
	m.opts = opts
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return m.result, m.err
}

// minimalPDF builds a structurally valid PDF with the given page count.
func minimalPDF(pages int) []byte {
	var buf bytes.Buffer
	var offsets []int

	buf.WriteString("%PDF-1.4\n")
	write := func(obj string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(obj)
	}

	kids := ""
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf("%d 0 R ", 3+i)
	}
	write("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	write(fmt.Sprintf("2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n", kids, pages))
	for i := 0; i < pages; i++ {
		write(fmt.Sprintf("%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] >>\nendobj\n", 3+i))
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
