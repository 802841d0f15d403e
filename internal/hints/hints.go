// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-resumepdf/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	// Detect CI environment
	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	// Suggest ROD_NO_SANDBOX for container/CI environments
	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	// Suggest ROD_BROWSER_BIN if not set
	if os.Getenv("ROD_BROWSER_BIN") == "" {
		hints = append(hints, "set ROD_BROWSER_BIN to use custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow renders.
func ForTimeout() string {
	return format("for long resumes, use --timeout or RESUMEPDF_TIMEOUT")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and creating the file under ~/.config/go-resumepdf/.
func ForConfigNotFound(name string) string {
	hint := "use --config /path/to/file.yaml"
	if name == "" || strings.ContainsAny(name, `/\`) {
		return format(hint)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		hint += " or create " + filepath.Join(dir, "go-resumepdf", name+".yaml")
	}
	return format(hint)
}

// ForOutputDirectory returns hints for output file write errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForLayout lists the available layouts.
func ForLayout(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available: " + strings.Join(available, ", "))
}

// ForMissingCredentials points at the variables that configure both stores.
func ForMissingCredentials() string {
	return format("set NOTION_API_KEY, NOTION_RESUMES_DB_ID and NOTION_JOB_APPLICATIONS_DB_ID " +
		"and the RESUMEPDF_ARTIFACT_* variables (a .env file works)")
}

// ForUpstream returns a hint for a record store failure with the given
// HTTP status. Unknown statuses get no hint.
func ForUpstream(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return format("check NOTION_API_KEY")
	case http.StatusForbidden, http.StatusNotFound:
		return format("share the page or database with the integration and check the id")
	case http.StatusBadRequest:
		return format("check notion.properties match the database schema")
	case http.StatusTooManyRequests:
		return format("rate limited; retry later")
	}
	return ""
}

// ForUpload returns a hint for artifact upload failures.
func ForUpload() string {
	return format("check the bucket exists and RESUMEPDF_ARTIFACT_ACCESS_KEY/SECRET_KEY can write to it")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
