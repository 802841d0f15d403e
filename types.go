package resumepdf

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/alnah/go-resumepdf/internal/assets"
)

// ResumeRecord is a resume as stored in the record store.
type ResumeRecord struct {
	ID          string
	Markdown    string
	IsBase      bool
	CreatedAt   time.Time
	ArtifactURL string
}

// NewRecord is the payload for creating a derived resume.
type NewRecord struct {
	Markdown  string
	CreatedAt time.Time
	RelatedTo string // target record the new resume belongs to; empty = none
}

// ArtifactReference locates a published PDF.
type ArtifactReference struct {
	URL string
	Key string
}

// Identity is the static header printed above every resume body.
type Identity struct {
	Name    string
	Links   []Link
	Contact []string // plain-text items, e.g. city, phone, email
	Summary string
}

// Link represents a clickable link.
type Link struct {
	Label string
	URL   string
}

// HeadingLink turns an "<h3>Heading | Label</h3>" heading into one whose
// label links to URL.
type HeadingLink struct {
	Heading string
	Label   string
	URL     string
}

// Page size constants.
const (
	PageSizeA4     = "a4"
	PageSizeLetter = "letter"
	PageSizeLegal  = "legal"
)

// Margin bounds in CSS pixels.
const (
	MinMarginPx = 0
	MaxMarginPx = 200

	pxPerInch = 96.0
)

// paperSizes holds width and height in inches.
var paperSizes = map[string][2]float64{
	PageSizeA4:     {8.27, 11.69},
	PageSizeLetter: {8.5, 11},
	PageSizeLegal:  {8.5, 14},
}

// Margins holds page margins in CSS pixels.
type Margins struct {
	Top, Right, Bottom, Left int
}

// PageSettings configures PDF page dimensions.
type PageSettings struct {
	Size    string // "a4", "letter", "legal"
	Margins Margins
}

// DefaultPageSettings returns A4 with 15px vertical and 20px horizontal margins.
func DefaultPageSettings() *PageSettings {
	return &PageSettings{
		Size:    PageSizeA4,
		Margins: Margins{Top: 15, Right: 20, Bottom: 15, Left: 20},
	}
}

// Validate checks that page settings are valid.
// Returns nil if p is nil (nil means use defaults).
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}
	if _, ok := paperSizes[strings.ToLower(p.Size)]; !ok {
		return fmt.Errorf("%w: %q", ErrInvalidPageSize, p.Size)
	}
	for _, m := range []int{p.Margins.Top, p.Margins.Right, p.Margins.Bottom, p.Margins.Left} {
		if m < MinMarginPx || m > MaxMarginPx {
			return fmt.Errorf("%w: %dpx (must be between %d and %d)", ErrInvalidMargin, m, MinMarginPx, MaxMarginPx)
		}
	}
	return nil
}

// paperInches returns width and height in inches. p must be valid.
func (p *PageSettings) paperInches() (float64, float64) {
	dims := paperSizes[strings.ToLower(p.Size)]
	return dims[0], dims[1]
}

func pxToInches(px int) float64 {
	return float64(px) / pxPerInch
}

// Layout names.
const (
	LayoutCompact  = "compact"
	LayoutTable    = "table"
	LayoutAbsolute = "absolute"
	LayoutGrid     = "grid"
)

// Layouts returns the available layout names, sorted.
func Layouts() []string {
	return assets.Layouts()
}

// ValidateLayout checks that name is an available layout.
// The empty string selects the base stylesheet alone.
func ValidateLayout(name string) error {
	if name == "" || slices.Contains(Layouts(), name) {
		return nil
	}
	return fmt.Errorf("%w: %q (available: %s)", ErrInvalidLayout, name, strings.Join(Layouts(), ", "))
}

var recordIDPattern = regexp.MustCompile(`^[A-Za-z0-9-]{1,64}$`)

// ValidateRecordID checks that id looks like a record store identifier.
// The id is embedded in object keys and URLs, so only letters, digits and
// dashes are accepted.
func ValidateRecordID(id string) error {
	if !recordIDPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidRecordID, id)
	}
	return nil
}
