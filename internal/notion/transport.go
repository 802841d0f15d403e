package notion

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// sdkPathPrefix is the path of the API base the SDK builds URLs on.
const sdkPathPrefix = "/v1"

// apiTransport points SDK requests at the configured base URL, pins the
// Notion-Version header and traces each round trip.
type apiTransport struct {
	next    http.RoundTripper
	base    *url.URL
	version string
	log     *slog.Logger
}

func (t *apiTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	if t.version != "" {
		r.Header.Set("Notion-Version", t.version)
	}
	if t.base != nil {
		// Property ids arrive URL-encoded, so the escaped path is kept.
		escaped := strings.TrimRight(t.base.EscapedPath(), "/") +
			strings.TrimPrefix(req.URL.EscapedPath(), sdkPathPrefix)
		path, err := url.PathUnescape(escaped)
		if err != nil {
			return nil, err
		}
		r.URL.Scheme = t.base.Scheme
		r.URL.Host = t.base.Host
		r.Host = t.base.Host
		r.URL.Path = path
		r.URL.RawPath = escaped
	}

	next := t.next
	if next == nil {
		next = http.DefaultTransport
	}

	start := time.Now()
	resp, err := next.RoundTrip(r)
	if err != nil {
		t.log.Debug("notion request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		return nil, err
	}
	t.log.Debug("notion request", "method", r.Method, "path", r.URL.Path,
		"status", resp.StatusCode, "duration", time.Since(start))
	return resp, nil
}
