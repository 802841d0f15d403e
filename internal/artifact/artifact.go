// Package artifact selects the object store that receives generated PDFs.
//
// Every backend stores a whole object in one put request, so a failed
// upload never leaves a partial object behind.
package artifact

import (
	"context"
	"errors"
	"fmt"

	resumepdf "github.com/alnah/go-resumepdf"
	"github.com/alnah/go-resumepdf/internal/artifact/local"
	"github.com/alnah/go-resumepdf/internal/artifact/minio"
	"github.com/alnah/go-resumepdf/internal/artifact/s3"
	"github.com/alnah/go-resumepdf/internal/config"
)

// ErrUnknownDriver is returned for an unsupported artifact.driver.
var ErrUnknownDriver = errors.New("unknown artifact driver")

// LocalRoute is where the server exposes the local driver's directory.
const LocalRoute = "/artifacts"

// Store is the put-object contract every backend satisfies.
type Store = resumepdf.ArtifactStore

// Compile-time interface checks
var (
	_ Store = (*s3.Store)(nil)
	_ Store = (*minio.Store)(nil)
	_ Store = (*local.Store)(nil)
)

// New builds the backend named by cfg.Driver.
func New(ctx context.Context, cfg *config.ArtifactConfig) (Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: artifact", config.ErrMissingField)
	}

	switch cfg.Driver {
	case config.DriverS3, "":
		return s3.New(ctx, s3.Options{
			Endpoint:  cfg.Endpoint,
			Region:    cfg.Region,
			Bucket:    cfg.Bucket,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			PathStyle: cfg.PathStyle,
		})
	case config.DriverMinio:
		return minio.New(minio.Options{
			Endpoint:  cfg.Endpoint,
			Region:    cfg.Region,
			Bucket:    cfg.Bucket,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			PathStyle: cfg.PathStyle,
		})
	case config.DriverLocal:
		base := cfg.Endpoint
		if base == "" {
			base = fmt.Sprintf("http://localhost:%d%s", config.DefaultPort, LocalRoute)
		}
		return local.New(cfg.Dir, base)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
