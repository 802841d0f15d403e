package main

import (
	"errors"
	"os"

	resumepdf "github.com/alnah/go-resumepdf"
	"github.com/alnah/go-resumepdf/internal/artifact"
	"github.com/alnah/go-resumepdf/internal/config"
	"github.com/alnah/go-resumepdf/internal/hints"
)

// Exit codes for the resumepdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess  = 0 // Command completed
	ExitGeneral  = 1 // General/unexpected error
	ExitUsage    = 2 // Invalid flags, config, or validation
	ExitIO       = 3 // File not found, permission denied
	ExitBrowser  = 4 // Chrome failed or timed out
	ExitUpstream = 5 // Notion or the artifact store refused the request
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, resumepdf.ErrEngine) ||
		errors.Is(err, resumepdf.ErrRenderTimeout) {
		return ExitBrowser
	}

	// Remote store errors (exit 5)
	if errors.Is(err, resumepdf.ErrUpstream) ||
		errors.Is(err, resumepdf.ErrUpload) ||
		errors.Is(err, resumepdf.ErrNotFound) ||
		errors.Is(err, resumepdf.ErrNoBaseTemplate) {
		return ExitUpstream
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadMarkdown) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, ErrWriteOutput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, config.ErrMissingField) ||
		errors.Is(err, artifact.ErrUnknownDriver) ||
		errors.Is(err, resumepdf.ErrEmptyMarkdown) ||
		errors.Is(err, resumepdf.ErrInvalidPageSize) ||
		errors.Is(err, resumepdf.ErrInvalidMargin) ||
		errors.Is(err, resumepdf.ErrInvalidLayout) ||
		errors.Is(err, resumepdf.ErrInvalidRecordID) {
		return ExitUsage
	}

	return ExitGeneral
}

// hintFor returns an actionable hint to print after err, or "".
func hintFor(err error) string {
	var upstream *resumepdf.UpstreamError
	switch {
	case errors.Is(err, resumepdf.ErrRenderTimeout):
		return hints.ForTimeout()
	case errors.Is(err, resumepdf.ErrEngine):
		return hints.ForBrowserConnect()
	case errors.As(err, &upstream):
		return hints.ForUpstream(upstream.StatusCode)
	case errors.Is(err, resumepdf.ErrUpload):
		return hints.ForUpload()
	case errors.Is(err, config.ErrMissingField):
		return hints.ForMissingCredentials()
	case errors.Is(err, resumepdf.ErrInvalidLayout):
		return hints.ForLayout(resumepdf.Layouts())
	case errors.Is(err, ErrWriteOutput):
		return hints.ForOutputDirectory()
	}
	return ""
}
