package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/alnah/go-resumepdf/internal/assets"
	"github.com/alnah/go-resumepdf/internal/fileutil"
	"github.com/alnah/go-resumepdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
	ErrMissingField    = errors.New("required config field missing")
)

// Field length limits.
const (
	MaxNameLength    = 100  // Full name
	MaxLabelLength   = 100  // Link label
	MaxURLLength     = 2048 // Browser limit
	MaxContactLength = 254  // RFC 5321 email is the longest expected item
	MaxSummaryLength = 1000 // Summary paragraph
	MaxKeywordLength = 64   // Section keyword
	MaxIDLength      = 64   // Notion ids (32 hex chars, 36 with dashes)
	MaxMarginPx      = 200
)

// Defaults.
const (
	DefaultPort          = 3000
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "text"
	DefaultNotionBaseURL = "https://api.notion.com/v1"
	DefaultNotionVersion = "2022-06-28"
	DefaultDriver        = DriverS3
	DefaultRegion        = "auto"
	DefaultLayout        = "compact"
	DefaultTimeout       = 30 * time.Second
	DefaultPageSize      = "a4"
	DefaultAttachment    = "Resume.pdf"
)

// Artifact store drivers.
const (
	DriverS3    = "s3"
	DriverMinio = "minio"
	DriverLocal = "local"
)

// Config holds all configuration for the resume service and CLI.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Notion   NotionConfig   `yaml:"notion"`
	Artifact ArtifactConfig `yaml:"artifact"`
	Render   RenderConfig   `yaml:"render"`
	Identity IdentityConfig `yaml:"identity"`
	Assets   AssetsConfig   `yaml:"assets"`
}

// ServerConfig defines the HTTP listener.
type ServerConfig struct {
	Port            int    `yaml:"port"`
	ShutdownTimeout string `yaml:"shutdownTimeout"` // Go duration, default "10s"
}

// LogConfig defines structured logging output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// NotionConfig defines the record store connection and schema.
type NotionConfig struct {
	APIKey                 string           `yaml:"apiKey"`
	ResumesDatabaseID      string           `yaml:"resumesDatabaseId"`
	ApplicationsDatabaseID string           `yaml:"applicationsDatabaseId"`
	BaseURL                string           `yaml:"baseUrl"`
	Version                string           `yaml:"version"`
	AttachmentName         string           `yaml:"attachmentName"` // display name of the PDF file entry
	Properties             NotionProperties `yaml:"properties"`
}

// NotionProperties names the database properties the pipeline reads and patches.
// A property may be given by display name or by opaque property id.
type NotionProperties struct {
	Markdown            string `yaml:"markdown"`
	Base                string `yaml:"base"`
	Created             string `yaml:"created"`
	PDF                 string `yaml:"pdf"`
	ResumeRelation      string `yaml:"resumeRelation"`      // on the new resume, points at the application
	ApplicationRelation string `yaml:"applicationRelation"` // on the application, points at the resume
}

// ArtifactConfig defines the object store receiving generated PDFs.
type ArtifactConfig struct {
	Driver    string `yaml:"driver"`   // s3, minio, local
	Endpoint  string `yaml:"endpoint"` // e.g. https://<account>.r2.cloudflarestorage.com
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	PublicURL string `yaml:"publicUrl"` // empty = endpoint/bucket/key
	PathStyle bool   `yaml:"pathStyle"`
	Dir       string `yaml:"dir"` // local driver root
}

// RenderConfig defines the document renderer and rasterizer.
type RenderConfig struct {
	Layout       string        `yaml:"layout"`
	Timeout      string        `yaml:"timeout"` // Go duration
	Workers      int           `yaml:"workers"` // 0 = auto
	Page         PageConfig    `yaml:"page"`
	Sections     SectionConfig `yaml:"sections"`
	HeadingLinks []HeadingLink `yaml:"headingLinks"`
}

// PageConfig defines PDF page geometry.
type PageConfig struct {
	Size    string        `yaml:"size"` // a4, letter, legal
	Margins MarginsConfig `yaml:"margins"`
}

// MarginsConfig holds page margins in CSS pixels.
type MarginsConfig struct {
	Top    int `yaml:"top"`
	Right  int `yaml:"right"`
	Bottom int `yaml:"bottom"`
	Left   int `yaml:"left"`
}

// SectionConfig lists the skill keywords the normalizer bolds.
type SectionConfig struct {
	Break  []string `yaml:"break"`
	Inline []string `yaml:"inline"`
}

// HeadingLink maps an "<h3>Heading | Label</h3>" heading to a URL.
type HeadingLink struct {
	Heading string `yaml:"heading"`
	Label   string `yaml:"label"`
	URL     string `yaml:"url"`
}

// IdentityConfig is the static header block of every resume.
type IdentityConfig struct {
	Name    string   `yaml:"name"`
	Links   []Link   `yaml:"links"`
	Contact []string `yaml:"contact"`
	Summary string   `yaml:"summary"`
}

// Link is a labelled hyperlink.
type Link struct {
	Label string `yaml:"label"`
	URL   string `yaml:"url"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded assets
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: DefaultPort, ShutdownTimeout: "10s"},
		Log:    LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Notion: NotionConfig{
			BaseURL:        DefaultNotionBaseURL,
			Version:        DefaultNotionVersion,
			AttachmentName: DefaultAttachment,
			Properties: NotionProperties{
				Markdown:            "Markdown",
				Base:                "Base Resume",
				Created:             "Created Date",
				PDF:                 "PDF",
				ResumeRelation:      "Resume",
				ApplicationRelation: "%7DpR%3A",
			},
		},
		Artifact: ArtifactConfig{Driver: DefaultDriver, Region: DefaultRegion, PathStyle: true},
		Render: RenderConfig{
			Layout:  DefaultLayout,
			Timeout: DefaultTimeout.String(),
			Page: PageConfig{
				Size:    DefaultPageSize,
				Margins: MarginsConfig{Top: 15, Right: 20, Bottom: 15, Left: 20},
			},
			Sections: SectionConfig{
				Break:  []string{"Frontend", "Backend", "Infrastructure & DevOps", "AI & Data", "Tooling"},
				Inline: []string{"Programming"},
			},
		},
	}
}

// Validate checks field shapes. It does not require credentials; see
// RequireRecordStore and RequireArtifactStore.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port %d out of range", ErrInvalidValue, c.Server.Port)
	}
	if err := validateDuration("server.shutdownTimeout", c.Server.ShutdownTimeout); err != nil {
		return err
	}

	if err := validateEnum("log.level", c.Log.Level, "debug", "info", "warn", "error"); err != nil {
		return err
	}
	if err := validateEnum("log.format", c.Log.Format, "text", "json"); err != nil {
		return err
	}

	if err := validateFieldLength("notion.resumesDatabaseId", c.Notion.ResumesDatabaseID, MaxIDLength); err != nil {
		return err
	}
	if err := validateFieldLength("notion.applicationsDatabaseId", c.Notion.ApplicationsDatabaseID, MaxIDLength); err != nil {
		return err
	}
	if err := validateFieldLength("notion.baseUrl", c.Notion.BaseURL, MaxURLLength); err != nil {
		return err
	}

	if err := validateEnum("artifact.driver", c.Artifact.Driver, DriverS3, DriverMinio, DriverLocal); err != nil {
		return err
	}
	if err := validateFieldLength("artifact.endpoint", c.Artifact.Endpoint, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength("artifact.publicUrl", c.Artifact.PublicURL, MaxURLLength); err != nil {
		return err
	}

	if err := c.validateRender(); err != nil {
		return err
	}
	return c.validateIdentity()
}

func (c *Config) validateRender() error {
	r := c.Render
	if r.Layout != "" && !slices.Contains(assets.Layouts(), r.Layout) {
		return fmt.Errorf("%w: render.layout %q (available: %s)",
			ErrInvalidValue, r.Layout, strings.Join(assets.Layouts(), ", "))
	}
	if err := validateDuration("render.timeout", r.Timeout); err != nil {
		return err
	}
	if r.Workers < 0 {
		return fmt.Errorf("%w: render.workers must be >= 0, got %d", ErrInvalidValue, r.Workers)
	}
	if err := validateEnum("render.page.size", strings.ToLower(r.Page.Size), "a4", "letter", "legal"); err != nil {
		return err
	}
	m := r.Page.Margins
	for name, v := range map[string]int{"top": m.Top, "right": m.Right, "bottom": m.Bottom, "left": m.Left} {
		if v < 0 || v > MaxMarginPx {
			return fmt.Errorf("%w: render.page.margins.%s must be between 0 and %d, got %d",
				ErrInvalidValue, name, MaxMarginPx, v)
		}
	}
	for i, kw := range append(slices.Clone(r.Sections.Break), r.Sections.Inline...) {
		if err := validateFieldLength(fmt.Sprintf("render.sections[%d]", i), kw, MaxKeywordLength); err != nil {
			return err
		}
	}
	for i, hl := range r.HeadingLinks {
		if hl.Heading == "" || hl.Label == "" || hl.URL == "" {
			return fmt.Errorf("%w: render.headingLinks[%d] needs heading, label and url", ErrInvalidValue, i)
		}
		if err := validateFieldLength(fmt.Sprintf("render.headingLinks[%d].url", i), hl.URL, MaxURLLength); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateIdentity() error {
	id := c.Identity
	if err := validateFieldLength("identity.name", id.Name, MaxNameLength); err != nil {
		return err
	}
	if err := validateFieldLength("identity.summary", id.Summary, MaxSummaryLength); err != nil {
		return err
	}
	for i, link := range id.Links {
		if err := validateFieldLength(fmt.Sprintf("identity.links[%d].label", i), link.Label, MaxLabelLength); err != nil {
			return err
		}
		if err := validateFieldLength(fmt.Sprintf("identity.links[%d].url", i), link.URL, MaxURLLength); err != nil {
			return err
		}
	}
	for i, item := range id.Contact {
		if err := validateFieldLength(fmt.Sprintf("identity.contact[%d]", i), item, MaxContactLength); err != nil {
			return err
		}
	}
	return nil
}

// RequireRecordStore fails if the Notion credentials are incomplete.
func (c *Config) RequireRecordStore() error {
	return requireFields(map[string]string{
		"notion.apiKey":                 c.Notion.APIKey,
		"notion.resumesDatabaseId":      c.Notion.ResumesDatabaseID,
		"notion.applicationsDatabaseId": c.Notion.ApplicationsDatabaseID,
	})
}

// RequireArtifactStore fails if the selected artifact driver lacks settings.
func (c *Config) RequireArtifactStore() error {
	a := c.Artifact
	switch a.Driver {
	case DriverLocal:
		return requireFields(map[string]string{"artifact.dir": a.Dir})
	case DriverMinio:
		return requireFields(map[string]string{
			"artifact.endpoint":  a.Endpoint,
			"artifact.bucket":    a.Bucket,
			"artifact.accessKey": a.AccessKey,
			"artifact.secretKey": a.SecretKey,
		})
	default:
		// The s3 driver falls back to the default AWS credential chain.
		return requireFields(map[string]string{"artifact.bucket": a.Bucket})
	}
}

// RenderTimeout returns the parsed render timeout, or DefaultTimeout.
func (c *Config) RenderTimeout() time.Duration {
	return parseDurationOr(c.Render.Timeout, DefaultTimeout)
}

// ShutdownTimeout returns the parsed server shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	return parseDurationOr(c.Server.ShutdownTimeout, 10*time.Second)
}

func parseDurationOr(s string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return def
}

func requireFields(fields map[string]string) error {
	var missing []string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
}

func validateEnum(fieldName, value string, allowed ...string) error {
	if value == "" || slices.Contains(allowed, value) {
		return nil
	}
	return fmt.Errorf("%w: %s %q (must be one of %s)", ErrInvalidValue, fieldName, value, strings.Join(allowed, ", "))
}

func validateDuration(fieldName, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fmt.Errorf("%w: %s %q is not a positive duration", ErrInvalidValue, fieldName, value)
	}
	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// Load builds the effective configuration: defaults, then the optional YAML
// file, then environment overrides. An empty nameOrPath skips the file.
func Load(nameOrPath string) (*Config, error) {
	cfg := DefaultConfig()
	if nameOrPath != "" {
		if err := loadFile(nameOrPath, cfg); err != nil {
			return nil, err
		}
	}
	ApplyEnv(LoadEnv(), cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig loads configuration from a file path or config name on top of
// the defaults. If nameOrPath contains a path separator, it's treated as a
// file path. Otherwise, it's searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}
	cfg := DefaultConfig()
	if err := loadFile(nameOrPath, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(nameOrPath string, cfg *Config) error {
	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-resumepdf/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-resumepdf", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// Redacted returns a copy safe to print: secrets are masked.
func (c *Config) Redacted() *Config {
	out := *c
	out.Notion.APIKey = mask(c.Notion.APIKey)
	out.Artifact.AccessKey = mask(c.Artifact.AccessKey)
	out.Artifact.SecretKey = mask(c.Artifact.SecretKey)
	return &out
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "****"
}
