package resumepdf

import (
	"context"
	"errors"
	"fmt"

	"github.com/alnah/go-resumepdf/internal/assets"
	"github.com/alnah/go-resumepdf/internal/pipeline"
)

// DocumentRenderer turns resume markdown into a complete HTML document.
type DocumentRenderer interface {
	Render(ctx context.Context, markdown string) (string, error)
}

var _ DocumentRenderer = (*Renderer)(nil)

// Renderer normalizes markdown, converts it with goldmark, applies the
// ordered HTML rules and wraps the body in the resume template.
type Renderer struct {
	identity   Identity
	title      string
	css        string
	normalizer pipeline.MarkdownNormalizer
	converter  pipeline.HTMLConverter
	rules      pipeline.RuleSet
	template   *pipeline.DocumentTemplate
}

// RenderOption configures a Renderer.
type RenderOption func(*renderConfig)

type renderConfig struct {
	layout       string
	assetPath    string
	extraCSS     string
	title        string
	sections     pipeline.Sections
	headingLinks []HeadingLink
}

// WithLayout selects a layout fragment appended to the base stylesheet.
func WithLayout(name string) RenderOption {
	return func(c *renderConfig) { c.layout = name }
}

// WithAssetPath serves styles and templates from dir, falling back to the
// embedded ones for anything missing.
func WithAssetPath(dir string) RenderOption {
	return func(c *renderConfig) { c.assetPath = dir }
}

// WithCSS appends custom CSS after the base stylesheet and layout.
func WithCSS(css string) RenderOption {
	return func(c *renderConfig) { c.extraCSS = css }
}

// WithTitle sets the document <title>.
func WithTitle(title string) RenderOption {
	return func(c *renderConfig) { c.title = title }
}

// WithSections replaces the skill keywords the normalizer bolds.
// Break keywords also start a new line; inline keywords do not.
func WithSections(breakKeywords, inlineKeywords []string) RenderOption {
	return func(c *renderConfig) {
		c.sections = pipeline.Sections{Break: breakKeywords, Inline: inlineKeywords}
	}
}

// WithHeadingLinks adds the heading link rule after the mandatory rules.
func WithHeadingLinks(links []HeadingLink) RenderOption {
	return func(c *renderConfig) { c.headingLinks = links }
}

// NewRenderer loads the stylesheet and template and builds a Renderer.
func NewRenderer(identity Identity, opts ...RenderOption) (*Renderer, error) {
	cfg := renderConfig{
		layout:   LayoutCompact,
		title:    pipeline.DefaultTitle,
		sections: pipeline.DefaultSections(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := ValidateLayout(cfg.layout); err != nil {
		return nil, err
	}

	resolver, err := assets.NewAssetResolver(cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	css, err := resolver.LoadStyle(assets.DefaultStyleName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	if cfg.layout != "" {
		layoutCSS, err := resolver.LoadStyle(assets.LayoutStyleName(cfg.layout))
		if err != nil {
			if errors.Is(err, assets.ErrStyleNotFound) {
				return nil, fmt.Errorf("%w: %q", ErrInvalidLayout, cfg.layout)
			}
			return nil, fmt.Errorf("%w: %v", ErrRender, err)
		}
		css += "\n" + layoutCSS
	}
	if cfg.extraCSS != "" {
		css += "\n" + cfg.extraCSS
	}

	src, err := resolver.LoadTemplate(assets.DefaultTemplateName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	tmpl, err := pipeline.NewDocumentTemplate(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	rules := pipeline.DefaultRules()
	if len(cfg.headingLinks) > 0 {
		links := make([]pipeline.HeadingLink, len(cfg.headingLinks))
		for i, l := range cfg.headingLinks {
			links[i] = pipeline.HeadingLink(l)
		}
		rules = append(rules, pipeline.LinkHeadings(links))
	}

	return &Renderer{
		identity:   identity,
		title:      cfg.title,
		css:        css,
		normalizer: pipeline.NewResumeNormalizer(cfg.sections),
		converter:  pipeline.NewGoldmarkConverter(),
		rules:      rules,
		template:   tmpl,
	}, nil
}

// Normalize applies escape repair and section markers.
func (r *Renderer) Normalize(markdown string) string {
	return r.normalizer.Normalize(context.Background(), markdown)
}

// Rules returns the names of the HTML rules in application order.
func (r *Renderer) Rules() []string {
	return r.rules.Names()
}

// Render produces a complete HTML document. An empty body still yields the
// header and an empty resume section.
func (r *Renderer) Render(ctx context.Context, markdown string) (string, error) {
	normalized := r.normalizer.Normalize(ctx, markdown)

	body, err := r.converter.ToHTML(ctx, normalized)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}

	body = r.rules.Apply(body)

	doc, err := r.template.Render(ctx, pipeline.DocumentData{
		Title:    r.title,
		CSS:      r.css,
		Identity: r.identity.toPipeline(),
		Body:     body,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		return "", fmt.Errorf("%w: %v", ErrRender, err)
	}
	return doc, nil
}

func (id Identity) toPipeline() pipeline.Identity {
	links := make([]pipeline.Link, len(id.Links))
	for i, l := range id.Links {
		links[i] = pipeline.Link(l)
	}
	return pipeline.Identity{
		Name:    id.Name,
		Links:   links,
		Contact: id.Contact,
		Summary: id.Summary,
	}
}
