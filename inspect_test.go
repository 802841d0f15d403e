package resumepdf

import (
	"errors"
	"testing"
)

func TestInspect(t *testing.T) {
	t.Parallel()

	for _, pages := range []int{1, 3} {
		data := minimalPDF(pages)
		info, err := Inspect(data)
		if err != nil {
			t.Fatalf("Inspect(%d pages) error = %v", pages, err)
		}
		if info.Pages != pages {
			t.Errorf("Pages = %d, want %d", info.Pages, pages)
		}
		if info.Size != len(data) {
			t.Errorf("Size = %d, want %d", info.Size, len(data))
		}
	}
}

func TestInspect_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"html", []byte("<html></html>")},
		{"signature only", []byte("%PDF-1.4\n")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Inspect(tt.data); !errors.Is(err, ErrEngine) {
				t.Errorf("error = %v, want ErrEngine", err)
			}
		})
	}
}
