// Package minio stores artifacts through the MinIO client, which speaks
// to MinIO and any S3-compatible endpoint.
package minio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// defaultRegion skips the bucket location lookup minio-go does otherwise.
const defaultRegion = "us-east-1"

// Options configures the MinIO client.
type Options struct {
	// Endpoint is host[:port] or a URL; an http:// scheme disables TLS.
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	PathStyle bool
	// Transport replaces the default round tripper (tests).
	Transport http.RoundTripper
}

// Store implements the artifact store on MinIO.
type Store struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// New creates a MinIO-backed store. It does not contact the server.
func New(opts Options) (*Store, error) {
	if opts.Bucket == "" {
		return nil, errors.New("minio bucket is required")
	}
	host, secure, err := splitEndpoint(opts.Endpoint)
	if err != nil {
		return nil, err
	}

	region := opts.Region
	if region == "" || region == "auto" {
		region = defaultRegion
	}
	lookup := minio.BucketLookupAuto
	if opts.PathStyle {
		lookup = minio.BucketLookupPath
	}

	client, err := minio.New(host, &minio.Options{
		Creds:        credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure:       secure,
		Region:       region,
		BucketLookup: lookup,
		Transport:    opts.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	scheme := "http"
	if secure {
		scheme = "https"
	}
	return &Store{
		client:  client,
		bucket:  opts.Bucket,
		baseURL: fmt.Sprintf("%s://%s/%s", scheme, host, opts.Bucket),
	}, nil
}

// splitEndpoint accepts "host:port" (TLS on) or a URL.
func splitEndpoint(endpoint string) (host string, secure bool, err error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return "", false, errors.New("minio endpoint is required")
	}
	if !strings.Contains(endpoint, "://") {
		return endpoint, true, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return "", false, fmt.Errorf("invalid minio endpoint %q", endpoint)
	}
	switch u.Scheme {
	case "http":
		return u.Host, false, nil
	case "https":
		return u.Host, true, nil
	}
	return "", false, fmt.Errorf("invalid minio endpoint scheme %q", u.Scheme)
}

// PutObject uploads body under key in one request.
func (s *Store) PutObject(ctx context.Context, key, contentType string, body []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("failed to upload file: %w", err)
	}
	return nil
}

// Endpoint returns scheme://host/bucket.
func (s *Store) Endpoint() string { return s.baseURL }
