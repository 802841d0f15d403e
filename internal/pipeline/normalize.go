package pipeline

import (
	"context"
	"regexp"
	"sort"
	"strings"
)

// DefaultBreakSections are the section titles that start on their own line.
var DefaultBreakSections = []string{
	"Frontend",
	"Backend",
	"Infrastructure & DevOps",
	"AI & Data",
	"Tooling",
}

// DefaultInlineSections are bolded like break sections but stay inline.
var DefaultInlineSections = []string{"Programming"}

// SectionBreak is inserted before each break section title.
const SectionBreak = "<br>"

var (
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// The record store escapes emphasis markers when it exports markdown.
	escapedEmphasis = regexp.MustCompile(`\\([*_])`)
)

// MarkdownNormalizer defines the contract for markdown normalization.
type MarkdownNormalizer interface {
	Normalize(ctx context.Context, content string) string
}

// Sections lists the recognized section-title keywords.
type Sections struct {
	Break  []string
	Inline []string
}

// DefaultSections returns the built-in section keyword sets.
func DefaultSections() Sections {
	return Sections{
		Break:  append([]string(nil), DefaultBreakSections...),
		Inline: append([]string(nil), DefaultInlineSections...),
	}
}

// ResumeNormalizer applies textual corrections before Goldmark parses the
// markdown. It is safe for concurrent use.
type ResumeNormalizer struct {
	sectionPattern *regexp.Regexp // nil when no keywords are configured
	inline         map[string]bool
}

// NewResumeNormalizer builds a normalizer for the given section keywords.
func NewResumeNormalizer(sections Sections) *ResumeNormalizer {
	n := &ResumeNormalizer{inline: make(map[string]bool, len(sections.Inline))}

	var keywords []string
	for _, kw := range sections.Break {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	for _, kw := range sections.Inline {
		if kw = strings.TrimSpace(kw); kw != "" {
			keywords = append(keywords, kw)
			n.inline[kw] = true
		}
	}
	if len(keywords) == 0 {
		return n
	}

	// Longest first so "AI & Data" wins over a shorter "Data" keyword.
	sort.SliceStable(keywords, func(i, j int) bool { return len(keywords[i]) > len(keywords[j]) })
	quoted := make([]string, len(keywords))
	for i, kw := range keywords {
		quoted[i] = regexp.QuoteMeta(kw)
	}
	n.sectionPattern = regexp.MustCompile(`(` + strings.Join(quoted, "|") + `):`)

	return n
}

// Normalize returns content with line endings unified, escaped emphasis
// markers restored and section titles bolded, in that order.
// Re-normalizing already normalized markdown inserts the markers again.
func (n *ResumeNormalizer) Normalize(ctx context.Context, content string) string {
	if ctx.Err() != nil {
		return content
	}

	content = normalizeLineEndings(content)
	content = UnescapeEmphasis(content)
	content = n.markSections(content)
	return content
}

func normalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// UnescapeEmphasis restores \* and \_ to literal emphasis markers.
func UnescapeEmphasis(content string) string {
	return escapedEmphasis.ReplaceAllString(content, "$1")
}

func (n *ResumeNormalizer) markSections(content string) string {
	if n.sectionPattern == nil {
		return content
	}
	return n.sectionPattern.ReplaceAllStringFunc(content, func(match string) string {
		kw := strings.TrimSuffix(match, ":")
		if n.inline[kw] {
			return "**" + kw + ":**"
		}
		return SectionBreak + "**" + kw + ":**"
	})
}
