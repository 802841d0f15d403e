// Package s3 stores artifacts in Amazon S3 or an S3-compatible service
// such as Cloudflare R2.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Options configures the S3 client.
type Options struct {
	// Endpoint overrides the AWS endpoint, e.g.
	// https://<account>.r2.cloudflarestorage.com. Empty means AWS.
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string // empty = default AWS credential chain
	SecretKey string
	PathStyle bool
	// HTTPClient replaces the SDK's HTTP client (tests).
	HTTPClient *http.Client
}

// Store implements the artifact store on S3.
type Store struct {
	client   *s3.Client
	bucket   string
	endpoint string
}

// New creates an S3-backed store.
func New(ctx context.Context, opts Options) (*Store, error) {
	if opts.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := strings.TrimRight(opts.Endpoint, "/")
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
		o.UsePathStyle = opts.PathStyle
		// Set here, not on the load options: LoadDefaultConfig rejects a
		// plain *http.Client when AWS_CA_BUNDLE is set.
		if opts.HTTPClient != nil {
			o.HTTPClient = opts.HTTPClient
		}
		// R2 and most S3 clones reject the default CRC32 trailer.
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
	})

	return &Store{
		client:   client,
		bucket:   opts.Bucket,
		endpoint: baseURL(endpoint, cfg.Region, opts.Bucket, opts.PathStyle),
	}, nil
}

// baseURL is the address objects are reachable under without a public
// base URL.
func baseURL(endpoint, region, bucket string, pathStyle bool) string {
	if endpoint == "" {
		if region == "" {
			return "https://" + bucket + ".s3.amazonaws.com"
		}
		return "https://" + bucket + ".s3." + region + ".amazonaws.com"
	}
	if !pathStyle {
		if scheme, host, ok := strings.Cut(endpoint, "://"); ok {
			return scheme + "://" + bucket + "." + host
		}
	}
	return endpoint + "/" + bucket
}

// PutObject uploads body under key in one request.
func (s *Store) PutObject(ctx context.Context, key, contentType string, body []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("s3 put object bucket=%s key=%s: %w", s.bucket, key, err)
	}
	return nil
}

// Endpoint returns the bucket base URL.
func (s *Store) Endpoint() string { return s.endpoint }
