package local

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestStore_PutObject(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "artifacts")
	s, err := New(dir, "http://localhost:3000/artifacts/")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	for _, body := range []string{"%PDF-first", "%PDF-second"} {
		if err := s.PutObject(context.Background(), "resume_abc.pdf", "application/pdf", []byte(body)); err != nil {
			t.Fatalf("PutObject() error = %v", err)
		}
		got, err := os.ReadFile(filepath.Join(dir, "resume_abc.pdf"))
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != body {
			t.Errorf("content = %q, want %q", got, body)
		}
	}

	if s.Endpoint() != "http://localhost:3000/artifacts" {
		t.Errorf("Endpoint() = %q", s.Endpoint())
	}
	if s.Dir() != dir {
		t.Errorf("Dir() = %q", s.Dir())
	}
}

func TestStore_PutObject_InvalidKey(t *testing.T) {
	t.Parallel()

	s, err := New(t.TempDir(), "http://localhost")
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"", "..", "../escape.pdf", "sub/dir.pdf", `win\dir.pdf`} {
		if err := s.PutObject(context.Background(), key, "application/pdf", []byte("x")); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("PutObject(%q) error = %v, want ErrInvalidKey", key, err)
		}
	}
}

func TestStore_PutObject_CanceledContext(t *testing.T) {
	t.Parallel()

	s, err := New(t.TempDir(), "http://localhost")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.PutObject(ctx, "a.pdf", "application/pdf", []byte("x")); !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestNew_RequiresDir(t *testing.T) {
	t.Parallel()

	if _, err := New("", "http://localhost"); err == nil {
		t.Error("expected error for empty dir")
	}
}
