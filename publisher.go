package resumepdf

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// PDFContentType is the media type of every published artifact.
const PDFContentType = "application/pdf"

// ArtifactStore is an S3-compatible object store.
type ArtifactStore interface {
	// PutObject stores body under key in a single request.
	PutObject(ctx context.Context, key, contentType string, body []byte) error
	// Endpoint returns the base URL objects are addressable under,
	// endpoint plus bucket.
	Endpoint() string
}

// ArtifactPublisher uploads a PDF and returns where it lives.
type ArtifactPublisher interface {
	Publish(ctx context.Context, recordID string, pdf []byte) (*ArtifactReference, error)
}

var _ ArtifactPublisher = (*Publisher)(nil)

// URLPolicy decides how public URLs are built. It is fixed per deployment.
type URLPolicy struct {
	// PublicBaseURL, when set, prefixes every key (e.g. a CDN or r2.dev
	// domain). Otherwise the store's endpoint is used.
	PublicBaseURL string
}

// Publisher uploads artifacts under deterministic keys.
type Publisher struct {
	store   ArtifactStore
	baseURL string
}

// NewPublisher validates the policy against the store.
func NewPublisher(store ArtifactStore, policy URLPolicy) (*Publisher, error) {
	if store == nil {
		return nil, errors.New("resumepdf: nil artifact store")
	}
	base := policy.PublicBaseURL
	if base == "" {
		base = store.Endpoint()
	}
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid public base URL %q", ErrUpload, base)
	}
	return &Publisher{store: store, baseURL: strings.TrimRight(base, "/")}, nil
}

// ArtifactKey returns the object key for a record: resume_<id>.pdf.
func ArtifactKey(recordID string) string {
	return "resume_" + recordID + ".pdf"
}

// URL returns the public URL for key.
func (p *Publisher) URL(key string) string {
	return p.baseURL + "/" + url.PathEscape(key)
}

// Publish stores pdf under ArtifactKey(recordID). Regenerating a record
// overwrites the previous object.
func (p *Publisher) Publish(ctx context.Context, recordID string, pdf []byte) (*ArtifactReference, error) {
	if err := ValidateRecordID(recordID); err != nil {
		return nil, err
	}
	if len(pdf) == 0 {
		return nil, fmt.Errorf("%w: empty PDF", ErrUpload)
	}

	key := ArtifactKey(recordID)
	if err := p.store.PutObject(ctx, key, PDFContentType, pdf); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUpload, key, err)
	}
	return &ArtifactReference{URL: p.URL(key), Key: key}, nil
}
