package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix namespaces the service's own environment variables.
const EnvPrefix = "RESUMEPDF_"

// Env holds configuration read from environment variables.
// Zero values mean "not set".
type Env struct {
	// Record store (unprefixed, shared with other Notion tooling)
	NotionAPIKey       string // NOTION_API_KEY
	NotionResumesDB    string // NOTION_RESUMES_DB_ID
	NotionApplications string // NOTION_JOB_APPLICATIONS_DB_ID

	// Service
	ConfigPath string // RESUMEPDF_CONFIG
	Port       int    // RESUMEPDF_PORT, falls back to PORT
	LogLevel   string // RESUMEPDF_LOG_LEVEL
	LogFormat  string // RESUMEPDF_LOG_FORMAT

	// Artifact store
	Driver    string // RESUMEPDF_ARTIFACT_DRIVER
	Endpoint  string // RESUMEPDF_ARTIFACT_ENDPOINT
	Region    string // RESUMEPDF_ARTIFACT_REGION
	Bucket    string // RESUMEPDF_ARTIFACT_BUCKET
	AccessKey string // RESUMEPDF_ARTIFACT_ACCESS_KEY
	SecretKey string // RESUMEPDF_ARTIFACT_SECRET_KEY
	PublicURL string // RESUMEPDF_ARTIFACT_PUBLIC_URL

	// Rendering
	Timeout string // RESUMEPDF_TIMEOUT
	Workers int    // RESUMEPDF_WORKERS
	Layout  string // RESUMEPDF_LAYOUT
}

// knownEnvVars lists valid RESUMEPDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"RESUMEPDF_CONFIG":              true,
	"RESUMEPDF_PORT":                true,
	"RESUMEPDF_LOG_LEVEL":           true,
	"RESUMEPDF_LOG_FORMAT":          true,
	"RESUMEPDF_ARTIFACT_DRIVER":     true,
	"RESUMEPDF_ARTIFACT_ENDPOINT":   true,
	"RESUMEPDF_ARTIFACT_REGION":     true,
	"RESUMEPDF_ARTIFACT_BUCKET":     true,
	"RESUMEPDF_ARTIFACT_ACCESS_KEY": true,
	"RESUMEPDF_ARTIFACT_SECRET_KEY": true,
	"RESUMEPDF_ARTIFACT_PUBLIC_URL": true,
	"RESUMEPDF_TIMEOUT":             true,
	"RESUMEPDF_WORKERS":             true,
	"RESUMEPDF_LAYOUT":              true,
	"RESUMEPDF_CONTAINER":           true, // read by the doctor command
}

// LoadEnv reads the recognized environment variables.
// Malformed numbers are ignored, not reported.
func LoadEnv() *Env {
	env := &Env{
		NotionAPIKey:       os.Getenv("NOTION_API_KEY"),
		NotionResumesDB:    os.Getenv("NOTION_RESUMES_DB_ID"),
		NotionApplications: os.Getenv("NOTION_JOB_APPLICATIONS_DB_ID"),

		ConfigPath: os.Getenv("RESUMEPDF_CONFIG"),
		LogLevel:   strings.ToLower(os.Getenv("RESUMEPDF_LOG_LEVEL")),
		LogFormat:  strings.ToLower(os.Getenv("RESUMEPDF_LOG_FORMAT")),

		Driver:    strings.ToLower(os.Getenv("RESUMEPDF_ARTIFACT_DRIVER")),
		Endpoint:  os.Getenv("RESUMEPDF_ARTIFACT_ENDPOINT"),
		Region:    os.Getenv("RESUMEPDF_ARTIFACT_REGION"),
		Bucket:    os.Getenv("RESUMEPDF_ARTIFACT_BUCKET"),
		AccessKey: os.Getenv("RESUMEPDF_ARTIFACT_ACCESS_KEY"),
		SecretKey: os.Getenv("RESUMEPDF_ARTIFACT_SECRET_KEY"),
		PublicURL: os.Getenv("RESUMEPDF_ARTIFACT_PUBLIC_URL"),

		Timeout: os.Getenv("RESUMEPDF_TIMEOUT"),
		Layout:  os.Getenv("RESUMEPDF_LAYOUT"),
	}

	env.Port = positiveInt(os.Getenv("RESUMEPDF_PORT"))
	if env.Port == 0 {
		env.Port = positiveInt(os.Getenv("PORT"))
	}
	env.Workers = positiveInt(os.Getenv("RESUMEPDF_WORKERS"))

	return env
}

func positiveInt(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

// ApplyEnv overrides cfg with every variable that is set.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later by the caller).
func ApplyEnv(env *Env, cfg *Config) {
	setString(&cfg.Notion.APIKey, env.NotionAPIKey)
	setString(&cfg.Notion.ResumesDatabaseID, env.NotionResumesDB)
	setString(&cfg.Notion.ApplicationsDatabaseID, env.NotionApplications)

	if env.Port > 0 {
		cfg.Server.Port = env.Port
	}
	setString(&cfg.Log.Level, env.LogLevel)
	setString(&cfg.Log.Format, env.LogFormat)

	setString(&cfg.Artifact.Driver, env.Driver)
	setString(&cfg.Artifact.Endpoint, env.Endpoint)
	setString(&cfg.Artifact.Region, env.Region)
	setString(&cfg.Artifact.Bucket, env.Bucket)
	setString(&cfg.Artifact.AccessKey, env.AccessKey)
	setString(&cfg.Artifact.SecretKey, env.SecretKey)
	setString(&cfg.Artifact.PublicURL, env.PublicURL)

	setString(&cfg.Render.Timeout, env.Timeout)
	setString(&cfg.Render.Layout, env.Layout)
	if env.Workers > 0 {
		cfg.Render.Workers = env.Workers
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// UnknownEnvVars returns RESUMEPDF_* variables that are not recognized.
func UnknownEnvVars() []string {
	var unknown []string
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, EnvPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// WarnUnknownEnvVars logs a warning per unrecognized RESUMEPDF_* variable.
// Helps catch typos like RESUMEPDF_TIMOUT.
func WarnUnknownEnvVars(log *slog.Logger) {
	for _, name := range UnknownEnvVars() {
		log.Warn("unknown environment variable (typo?)", "name", name)
	}
}

// LoadDotEnv loads KEY=VALUE files into the process environment without
// overriding variables that are already set. Missing files are skipped.
// With no paths, ".env" in the working directory is tried.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}
