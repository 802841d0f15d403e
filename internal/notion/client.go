package notion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gonotion "github.com/dstotijn/go-notion"

	resumepdf "github.com/alnah/go-resumepdf"
	"github.com/alnah/go-resumepdf/internal/config"
	"github.com/alnah/go-resumepdf/internal/logger"
)

// defaultHTTPTimeout bounds one request when no client is supplied.
const defaultHTTPTimeout = 30 * time.Second

var _ resumepdf.RecordStore = (*Client)(nil)

// Client talks to the Notion API on behalf of one resumes database.
type Client struct {
	api            *gonotion.Client
	http           *http.Client
	baseURL        *url.URL
	version        string
	resumesDB      string
	attachmentName string
	props          config.NotionProperties
	log            *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger for request tracing at debug level.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClient builds a client from cfg. The API key and resumes database id
// are required.
func NewClient(cfg *config.NotionConfig, opts ...ClientOption) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: notion", config.ErrMissingField)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: notion.apiKey", config.ErrMissingField)
	}
	if strings.TrimSpace(cfg.ResumesDatabaseID) == "" {
		return nil, fmt.Errorf("%w: notion.resumesDatabaseId", config.ErrMissingField)
	}

	defaults := config.DefaultConfig().Notion
	base, err := url.Parse(strings.TrimRight(orDefault(cfg.BaseURL, defaults.BaseURL), "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%w: notion.baseUrl %q", config.ErrInvalidValue, cfg.BaseURL)
	}

	c := &Client{
		http:           &http.Client{Timeout: defaultHTTPTimeout},
		baseURL:        base,
		version:        orDefault(cfg.Version, defaults.Version),
		resumesDB:      cfg.ResumesDatabaseID,
		attachmentName: orDefault(cfg.AttachmentName, defaults.AttachmentName),
		props:          cfg.Properties,
		log:            logger.Discard(),
	}
	c.props.Markdown = orDefault(c.props.Markdown, defaults.Properties.Markdown)
	c.props.Base = orDefault(c.props.Base, defaults.Properties.Base)
	c.props.Created = orDefault(c.props.Created, defaults.Properties.Created)
	c.props.PDF = orDefault(c.props.PDF, defaults.Properties.PDF)
	c.props.ResumeRelation = orDefault(c.props.ResumeRelation, defaults.Properties.ResumeRelation)
	c.props.ApplicationRelation = orDefault(c.props.ApplicationRelation, defaults.Properties.ApplicationRelation)

	for _, opt := range opts {
		opt(c)
	}

	hc := *c.http
	hc.Transport = &apiTransport{
		next:    c.http.Transport,
		base:    c.baseURL,
		version: c.version,
		log:     c.log,
	}
	c.api = gonotion.NewClient(cfg.APIKey, gonotion.WithHTTPClient(&hc))
	return c, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// FetchMarkdown returns the full markdown property of a record.
func (c *Client) FetchMarkdown(ctx context.Context, recordID string) (string, error) {
	p, err := c.api.FindPageByID(ctx, recordID)
	if err != nil {
		return "", c.upstream(ctx, "pages.retrieve", err)
	}
	return c.markdownOf(ctx, &p)
}

// markdownOf reads the markdown property of p, following the property
// endpoint when the inline value may be truncated.
func (c *Client) markdownOf(ctx context.Context, p *gonotion.Page) (string, error) {
	props, _ := p.Properties.(gonotion.DatabasePageProperties)
	prop, ok := findProperty(props, c.props.Markdown)
	if !ok {
		return "", fmt.Errorf("%w: property %q on %s", resumepdf.ErrNotFound, c.props.Markdown, p.ID)
	}
	if prop.Type != "" && prop.Type != gonotion.DBPropTypeRichText {
		return "", fmt.Errorf("%w: property %q is %s, not rich_text", resumepdf.ErrNotFound, c.props.Markdown, prop.Type)
	}
	if len(prop.RichText) < pageValueLimit {
		return JoinRichText(prop.RichText), nil
	}
	return c.fetchRichText(ctx, p.ID, prop.ID)
}

// fetchRichText pages through every segment of a rich text property.
func (c *Client) fetchRichText(ctx context.Context, pageID, propID string) (string, error) {
	var segments []gonotion.RichText
	cursor := ""
	for {
		var query *gonotion.PaginationQuery
		if cursor != "" {
			query = &gonotion.PaginationQuery{StartCursor: cursor}
		}
		res, err := c.api.FindPagePropertyByID(ctx, pageID, propID, query)
		if err != nil {
			return "", c.upstream(ctx, "pages.properties.retrieve", err)
		}
		for _, item := range res.Results {
			segments = append(segments, item.RichText)
		}
		if !res.HasMore || res.NextCursor == "" {
			break
		}
		cursor = res.NextCursor
	}
	return JoinRichText(segments), nil
}

// AttachArtifact replaces the PDF property with a single external file.
func (c *Client) AttachArtifact(ctx context.Context, recordID, artifactURL string) error {
	_, err := c.api.UpdatePage(ctx, recordID, gonotion.UpdatePageParams{
		DatabasePageProperties: gonotion.DatabasePageProperties{
			c.props.PDF: {Files: []gonotion.File{{
				Name:     c.attachmentName,
				Type:     gonotion.FileTypeExternal,
				External: &gonotion.FileExternal{URL: artifactURL},
			}}},
		},
	})
	if err != nil {
		return c.upstream(ctx, "pages.update", err)
	}
	return nil
}

// LatestBaseRecord returns the most recently created base resume.
func (c *Client) LatestBaseRecord(ctx context.Context) (*resumepdf.ResumeRecord, error) {
	res, err := c.api.QueryDatabase(ctx, c.resumesDB, &gonotion.DatabaseQuery{
		Filter: &gonotion.DatabaseQueryFilter{
			Property: c.props.Base,
			DatabaseQueryPropertyFilter: gonotion.DatabaseQueryPropertyFilter{
				Checkbox: &gonotion.CheckboxDatabaseQueryFilter{Equals: ptr(true)},
			},
		},
		Sorts:    []gonotion.DatabaseQuerySort{{Property: c.props.Created, Direction: gonotion.SortDirDesc}},
		PageSize: 1,
	})
	if err != nil {
		return nil, c.upstream(ctx, "databases.query", err)
	}
	if len(res.Results) == 0 {
		return nil, resumepdf.ErrNoBaseTemplate
	}

	p := &res.Results[0]
	md, err := c.markdownOf(ctx, p)
	if err != nil {
		return nil, err
	}
	return &resumepdf.ResumeRecord{
		ID:        p.ID,
		Markdown:  md,
		IsBase:    true,
		CreatedAt: c.createdAt(p),
	}, nil
}

// createdAt prefers the configured date property over the page metadata.
func (c *Client) createdAt(p *gonotion.Page) time.Time {
	props, _ := p.Properties.(gonotion.DatabasePageProperties)
	if prop, ok := findProperty(props, c.props.Created); ok && prop.Date != nil && !prop.Date.Start.IsZero() {
		return prop.Date.Start.Time
	}
	return p.CreatedTime
}

// CreateRecord stores a non-base resume and returns its page id.
func (c *Client) CreateRecord(ctx context.Context, rec resumepdf.NewRecord) (string, error) {
	props := gonotion.DatabasePageProperties{
		c.props.Markdown: {RichText: TextSegments(rec.Markdown)},
		c.props.Base:     {Checkbox: ptr(false)},
		c.props.Created:  {Date: &gonotion.Date{Start: gonotion.NewDateTime(rec.CreatedAt.UTC(), true)}},
	}
	if rec.RelatedTo != "" {
		props[c.props.ResumeRelation] = gonotion.DatabasePageProperty{
			Relation: []gonotion.Relation{{ID: rec.RelatedTo}},
		}
	}

	created, err := c.api.CreatePage(ctx, gonotion.CreatePageParams{
		ParentType:             gonotion.ParentTypeDatabase,
		ParentID:               c.resumesDB,
		DatabasePageProperties: &props,
	})
	if err != nil {
		return "", c.upstream(ctx, "pages.create", err)
	}
	return created.ID, nil
}

// LinkRecord points the target's relation property at recordID.
func (c *Client) LinkRecord(ctx context.Context, targetID, recordID string) error {
	_, err := c.api.UpdatePage(ctx, targetID, gonotion.UpdatePageParams{
		DatabasePageProperties: gonotion.DatabasePageProperties{
			c.props.ApplicationRelation: {Relation: []gonotion.Relation{{ID: recordID}}},
		},
	})
	if err != nil {
		return c.upstream(ctx, "pages.update", err)
	}
	return nil
}

// findProperty looks a property up by display name, then by property id.
func findProperty(props gonotion.DatabasePageProperties, nameOrID string) (gonotion.DatabasePageProperty, bool) {
	if p, ok := props[nameOrID]; ok {
		return p, true
	}
	for _, p := range props {
		if p.ID == nameOrID {
			return p, true
		}
	}
	return gonotion.DatabasePageProperty{}, false
}

// upstream maps an SDK failure to *resumepdf.UpstreamError. Cancellation
// of ctx wins over whatever the transport reported.
func (c *Client) upstream(ctx context.Context, op string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var apiErr *gonotion.APIError
	if errors.As(err, &apiErr) {
		body, _ := json.Marshal(apiErr)
		return &resumepdf.UpstreamError{
			Op:         op,
			StatusCode: apiErr.Status,
			Code:       string(apiErr.Code),
			Message:    apiErr.Message,
			Body:       body,
		}
	}
	return fmt.Errorf("%w: %s: %v", resumepdf.ErrUpstream, op, err)
}

func ptr[T any](v T) *T { return &v }
