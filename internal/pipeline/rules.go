package pipeline

import (
	"fmt"
	"html"
	"regexp"
)

var (
	mailtoLink = regexp.MustCompile(`(?is)<a\s[^>]*?href\s*=\s*["']?\s*mailto:[^>]*>(.*?)</a\s*>`)

	// The body's first element, ignoring leading whitespace and comments.
	leadingTitle = regexp.MustCompile(`(?s)^(?:\s|<!--.*?-->)*<h1[^>]*>.*?</h1>\n?`)
)

// Rule is a named transformation applied to the converted HTML body.
type Rule struct {
	Name  string
	Apply func(body string) string
}

// RuleSet is an ordered list of rules.
type RuleSet []Rule

// Apply runs every rule in order.
func (rs RuleSet) Apply(body string) string {
	for _, r := range rs {
		body = r.Apply(body)
	}
	return body
}

// Names returns the rule names in application order.
func (rs RuleSet) Names() []string {
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = r.Name
	}
	return names
}

// DefaultRules returns the mandatory rules: mailto unlinking, then title removal.
func DefaultRules() RuleSet {
	return RuleSet{StripMailtoLinks(), RemoveLeadingTitle()}
}

// StripMailtoLinks unwraps mailto anchors, keeping their visible text.
// Linkify can nest an anchor inside a raw HTML one, so unwrapping repeats
// until no mailto anchor is left.
func StripMailtoLinks() Rule {
	return Rule{
		Name: "strip-mailto-links",
		Apply: func(body string) string {
			for mailtoLink.MatchString(body) {
				body = mailtoLink.ReplaceAllString(body, "$1")
			}
			return body
		},
	}
}

// RemoveLeadingTitle drops a top-level heading that opens the body; the
// document header already carries the title.
func RemoveLeadingTitle() Rule {
	return Rule{
		Name: "remove-leading-title",
		Apply: func(body string) string {
			return leadingTitle.ReplaceAllString(body, "")
		},
	}
}

// HeadingLink turns "<h3>Heading | Label</h3>" into a heading whose label links to URL.
type HeadingLink struct {
	Heading string
	Label   string
	URL     string
}

// LinkHeadings builds a rule applying every heading link.
func LinkHeadings(links []HeadingLink) Rule {
	type compiled struct {
		pattern     *regexp.Regexp
		replacement string
	}

	var all []compiled
	for _, l := range links {
		if l.Heading == "" || l.Label == "" || l.URL == "" {
			continue
		}
		heading := html.EscapeString(l.Heading)
		label := html.EscapeString(l.Label)
		all = append(all, compiled{
			pattern: regexp.MustCompile(`<h3>` + regexp.QuoteMeta(heading) + `\s*\|\s*` + regexp.QuoteMeta(label) + `</h3>`),
			replacement: fmt.Sprintf(`<h3>%s | <a href="%s" style="text-decoration: underline;">%s</a></h3>`,
				heading, html.EscapeString(l.URL), label),
		})
	}

	return Rule{
		Name: "link-headings",
		Apply: func(body string) string {
			for _, c := range all {
				// Literal replacement: the URL may contain "$".
				body = c.pattern.ReplaceAllLiteralString(body, c.replacement)
			}
			return body
		},
	}
}

// HasLeadingTitle reports whether a body fragment opens with a top-level
// heading. Leading comments are skipped.
func HasLeadingTitle(body string) bool {
	return leadingTitle.MatchString(body)
}
