package resumepdf

import (
	"errors"
	"math"
	"slices"
	"testing"
)

func TestPageSettings_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		page    *PageSettings
		wantErr error
	}{
		{"nil uses defaults", nil, nil},
		{"default", DefaultPageSettings(), nil},
		{"letter upper-case", &PageSettings{Size: "LETTER"}, nil},
		{"unknown size", &PageSettings{Size: "a3"}, ErrInvalidPageSize},
		{"negative margin", &PageSettings{Size: "a4", Margins: Margins{Top: -1}}, ErrInvalidMargin},
		{"huge margin", &PageSettings{Size: "a4", Margins: Margins{Left: MaxMarginPx + 1}}, ErrInvalidMargin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.page.Validate()
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildPDFOptions(t *testing.T) {
	t.Parallel()

	opts := buildPDFOptions(DefaultPageSettings())

	assertFloat(t, "PaperWidth", *opts.PaperWidth, 8.27)
	assertFloat(t, "PaperHeight", *opts.PaperHeight, 11.69)
	assertFloat(t, "MarginTop", *opts.MarginTop, 15.0/96)
	assertFloat(t, "MarginBottom", *opts.MarginBottom, 15.0/96)
	assertFloat(t, "MarginLeft", *opts.MarginLeft, 20.0/96)
	assertFloat(t, "MarginRight", *opts.MarginRight, 20.0/96)
	if !opts.PrintBackground || !opts.PreferCSSPageSize {
		t.Errorf("PrintBackground = %v, PreferCSSPageSize = %v, want both true",
			opts.PrintBackground, opts.PreferCSSPageSize)
	}
}

func assertFloat(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func TestValidateLayout(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", LayoutCompact, LayoutTable, LayoutAbsolute, LayoutGrid} {
		if err := ValidateLayout(name); err != nil {
			t.Errorf("ValidateLayout(%q) = %v", name, err)
		}
	}
	if err := ValidateLayout("fancy"); !errors.Is(err, ErrInvalidLayout) {
		t.Errorf("ValidateLayout(fancy) = %v, want ErrInvalidLayout", err)
	}
	if !slices.Equal(Layouts(), []string{"absolute", "compact", "grid", "table"}) {
		t.Errorf("Layouts() = %v", Layouts())
	}
}

func TestValidateRecordID(t *testing.T) {
	t.Parallel()

	valid := []string{"1a2b3c4d5e6f7a8b9c0d1e2f3a4b5c6d", "1a2b3c4d-5e6f-7a8b-9c0d-1e2f3a4b5c6d", "rec-1"}
	for _, id := range valid {
		if err := ValidateRecordID(id); err != nil {
			t.Errorf("ValidateRecordID(%q) = %v", id, err)
		}
	}

	invalid := []string{"", "../etc", "a b", "id/with/slash", "x?y=1"}
	for _, id := range invalid {
		if err := ValidateRecordID(id); !errors.Is(err, ErrInvalidRecordID) {
			t.Errorf("ValidateRecordID(%q) = %v, want ErrInvalidRecordID", id, err)
		}
	}
}
