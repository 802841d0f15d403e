package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "resumepdf.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Notion.Version != "2022-06-28" {
		t.Errorf("Notion.Version = %q", cfg.Notion.Version)
	}
	if cfg.Notion.Properties.ApplicationRelation != "%7DpR%3A" {
		t.Errorf("ApplicationRelation = %q", cfg.Notion.Properties.ApplicationRelation)
	}
	if cfg.Render.Page.Size != "a4" {
		t.Errorf("Page.Size = %q, want a4", cfg.Render.Page.Size)
	}
	want := MarginsConfig{Top: 15, Right: 20, Bottom: 15, Left: 20}
	if cfg.Render.Page.Margins != want {
		t.Errorf("Margins = %+v, want %+v", cfg.Render.Page.Margins, want)
	}
	if cfg.RenderTimeout() != DefaultTimeout {
		t.Errorf("RenderTimeout() = %v, want %v", cfg.RenderTimeout(), DefaultTimeout)
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"defaults", func(*Config) {}, nil},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, ErrInvalidValue},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, ErrInvalidValue},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, ErrInvalidValue},
		{"bad driver", func(c *Config) { c.Artifact.Driver = "gcs" }, ErrInvalidValue},
		{"unknown layout", func(c *Config) { c.Render.Layout = "fancy" }, ErrInvalidValue},
		{"known layout", func(c *Config) { c.Render.Layout = "grid" }, nil},
		{"bad timeout", func(c *Config) { c.Render.Timeout = "soon" }, ErrInvalidValue},
		{"negative timeout", func(c *Config) { c.Render.Timeout = "-1s" }, ErrInvalidValue},
		{"negative workers", func(c *Config) { c.Render.Workers = -1 }, ErrInvalidValue},
		{"bad page size", func(c *Config) { c.Render.Page.Size = "a3" }, ErrInvalidValue},
		{"upper-case page size", func(c *Config) { c.Render.Page.Size = "A4" }, nil},
		{"margin too large", func(c *Config) { c.Render.Page.Margins.Left = MaxMarginPx + 1 }, ErrInvalidValue},
		{"negative margin", func(c *Config) { c.Render.Page.Margins.Top = -1 }, ErrInvalidValue},
		{"incomplete heading link", func(c *Config) {
			c.Render.HeadingLinks = []HeadingLink{{Heading: "Project"}}
		}, ErrInvalidValue},
		{"name too long", func(c *Config) { c.Identity.Name = strings.Repeat("x", MaxNameLength+1) }, ErrFieldTooLong},
		{"link url too long", func(c *Config) {
			c.Identity.Links = []Link{{Label: "site", URL: strings.Repeat("x", MaxURLLength+1)}}
		}, ErrFieldTooLong},
		{"contact too long", func(c *Config) {
			c.Identity.Contact = []string{strings.Repeat("x", MaxContactLength+1)}
		}, ErrFieldTooLong},
		{"keyword too long", func(c *Config) {
			c.Render.Sections.Inline = []string{strings.Repeat("k", MaxKeywordLength+1)}
		}, ErrFieldTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_RequireRecordStore(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	err := cfg.RequireRecordStore()
	if !errors.Is(err, ErrMissingField) {
		t.Fatalf("error = %v, want ErrMissingField", err)
	}
	if !strings.Contains(err.Error(), "notion.apiKey") {
		t.Errorf("error %q should name the missing field", err)
	}

	cfg.Notion.APIKey = "secret"
	cfg.Notion.ResumesDatabaseID = "db1"
	cfg.Notion.ApplicationsDatabaseID = "db2"
	if err := cfg.RequireRecordStore(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestConfig_RequireArtifactStore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     ArtifactConfig
		wantErr bool
	}{
		{"s3 without bucket", ArtifactConfig{Driver: DriverS3}, true},
		{"s3 with bucket", ArtifactConfig{Driver: DriverS3, Bucket: "resumes"}, false},
		{"minio without keys", ArtifactConfig{Driver: DriverMinio, Endpoint: "localhost:9000", Bucket: "b"}, true},
		{"minio complete", ArtifactConfig{
			Driver: DriverMinio, Endpoint: "localhost:9000", Bucket: "b", AccessKey: "a", SecretKey: "s",
		}, false},
		{"local without dir", ArtifactConfig{Driver: DriverLocal}, true},
		{"local with dir", ArtifactConfig{Driver: DriverLocal, Dir: "/tmp/out"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			cfg.Artifact = tt.cfg
			err := cfg.RequireArtifactStore()
			if (err != nil) != tt.wantErr {
				t.Errorf("RequireArtifactStore() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrMissingField) {
				t.Errorf("error = %v, want ErrMissingField", err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("empty name returns ErrEmptyConfigName", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("")
		if !errors.Is(err, ErrEmptyConfigName) {
			t.Errorf("error = %v, want ErrEmptyConfigName", err)
		}
	})

	t.Run("file overrides defaults and keeps the rest", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, `
server:
  port: 8080
notion:
  resumesDatabaseId: "abc"
render:
  layout: table
  timeout: 45s
identity:
  name: Jane Doe
  links:
    - label: GitHub
      url: https://github.com/jane
  contact: [Lisbon]
`)
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Server.Port != 8080 {
			t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
		}
		if cfg.Render.Layout != "table" {
			t.Errorf("Render.Layout = %q, want table", cfg.Render.Layout)
		}
		if cfg.RenderTimeout() != 45*time.Second {
			t.Errorf("RenderTimeout() = %v, want 45s", cfg.RenderTimeout())
		}
		if cfg.Identity.Name != "Jane Doe" || len(cfg.Identity.Links) != 1 {
			t.Errorf("Identity = %+v", cfg.Identity)
		}
		if cfg.Notion.Properties.Markdown != "Markdown" {
			t.Errorf("default property lost: %q", cfg.Notion.Properties.Markdown)
		}
		if cfg.Log.Level != DefaultLogLevel {
			t.Errorf("Log.Level = %q, want default", cfg.Log.Level)
		}
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "render:\n  layuot: grid\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrConfigParse) {
			t.Errorf("error = %v, want ErrConfigParse", err)
		}
	})

	t.Run("invalid value fails validation", func(t *testing.T) {
		t.Parallel()

		path := writeConfig(t, "log:\n  level: loud\n")
		_, err := LoadConfig(path)
		if !errors.Is(err, ErrInvalidValue) {
			t.Errorf("error = %v, want ErrInvalidValue", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})

	t.Run("unknown config name", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig("definitely-not-a-config-name")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("error = %v, want ErrConfigNotFound", err)
		}
	})
}

func TestConfig_Redacted(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Notion.APIKey = "secret_abc"
	cfg.Artifact.SecretKey = "s3cr3t"

	r := cfg.Redacted()
	if r.Notion.APIKey != "****" || r.Artifact.SecretKey != "****" {
		t.Errorf("secrets not masked: %+v", r)
	}
	if r.Artifact.AccessKey != "" {
		t.Errorf("empty key should stay empty, got %q", r.Artifact.AccessKey)
	}
	if cfg.Notion.APIKey != "secret_abc" {
		t.Error("Redacted() modified the original")
	}
}
