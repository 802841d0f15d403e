package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// ErrTemplate indicates the document template failed to parse or execute.
var ErrTemplate = errors.New("document template failed")

// DefaultTitle is the <title> of every rendered document.
const DefaultTitle = "Resume"

// Link is a labelled hyperlink in the identity header.
type Link struct {
	Label string
	URL   string
}

// Identity is the static header block printed above the resume body.
type Identity struct {
	Name    string
	Links   []Link
	Contact []string // plain-text items after the links (city, phone, email)
	Summary string
}

// DocumentData is the input of a document template execution.
type DocumentData struct {
	Title    string
	CSS      string
	Identity Identity
	Body     string // trusted HTML produced by the converter
}

type headerItem struct {
	Label string
	URL   string
}

type documentView struct {
	Title       string
	CSS         template.CSS
	Identity    Identity
	HeaderItems []headerItem
	Body        template.HTML
}

// DocumentTemplate wraps a converted body in a complete HTML document.
type DocumentTemplate struct {
	tmpl *template.Template
}

// NewDocumentTemplate parses the template source.
func NewDocumentTemplate(source string) (*DocumentTemplate, error) {
	if strings.TrimSpace(source) == "" {
		return nil, fmt.Errorf("%w: empty template", ErrTemplate)
	}
	tmpl, err := template.New("document").Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	return &DocumentTemplate{tmpl: tmpl}, nil
}

// Render executes the template. An empty body still yields a full document.
func (d *DocumentTemplate) Render(ctx context.Context, data DocumentData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	title := data.Title
	if title == "" {
		title = DefaultTitle
	}

	view := documentView{
		Title:       title,
		CSS:         template.CSS(sanitizeCSS(data.CSS)), // #nosec G203 -- CSS comes from trusted assets
		Identity:    data.Identity,
		HeaderItems: headerItems(data.Identity),
		Body:        template.HTML(data.Body), // #nosec G203 -- body is converter output
	}

	var buf bytes.Buffer
	if err := d.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	return buf.String(), nil
}

func headerItems(id Identity) []headerItem {
	items := make([]headerItem, 0, len(id.Links)+len(id.Contact))
	for _, l := range id.Links {
		items = append(items, headerItem(l))
	}
	for _, c := range id.Contact {
		items = append(items, headerItem{Label: c})
	}
	return items
}

// sanitizeCSS escapes sequences that could break out of a <style> block.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
