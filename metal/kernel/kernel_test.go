package kernel

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/perspective/pkg/portal"
)

func validEnvVars(t *testing.T) {
	t.Setenv("ENV_APP_NAME", "perspective")
	t.Setenv("ENV_APP_URL", "https://perspective.example.com")
	t.Setenv("ENV_APP_ENV_TYPE", "local")
	t.Setenv("ENV_DB_USER_NAME", "usernamefoo")
	t.Setenv("ENV_DB_USER_PASSWORD", "passwordfoo")
	t.Setenv("ENV_DB_DATABASE_NAME", "dbnamefoo")
	t.Setenv("ENV_DB_PORT", "5432")
	t.Setenv("ENV_DB_HOST", "localhost")
	t.Setenv("ENV_DB_SSL_MODE", "require")
	t.Setenv("ENV_DB_TIMEZONE", "UTC")
	t.Setenv("ENV_APP_LOG_LEVEL", "debug")
	t.Setenv("ENV_APP_LOGS_DIR", "logs_%s.log")
	t.Setenv("ENV_APP_LOGS_DATE_FORMAT", "2006_01_02")
	t.Setenv("ENV_HTTP_HOST", "localhost")
	t.Setenv("ENV_HTTP_PORT", "8080")
	t.Setenv("ENV_SENTRY_DSN", "dsn")
	t.Setenv("ENV_SENTRY_CSP", "csp")
	t.Setenv("ENV_PING_USERNAME", "1234567890abcdef")
	t.Setenv("ENV_PING_PASSWORD", "abcdef1234567890")
	t.Setenv("ENV_AUTH_JWT_SECRET", "12345678901234567890123456789012")
	t.Setenv("ENV_SEO_BASE_URL", "https://perspective.example.com/")
	t.Setenv("ENV_SEO_SITE_TITLE", "Perspective")
}

func TestNewEnv(t *testing.T) {
	validEnvVars(t)

	env, err := NewEnv(portal.GetDefaultValidator())
	if err != nil {
		t.Fatalf("new env: %v", err)
	}

	if env.App.Name != "perspective" {
		t.Fatalf("env not loaded")
	}

	if env.Auth.TokenTTL != defaultTokenTTL {
		t.Fatalf("token ttl %s", env.Auth.TokenTTL)
	}

	if env.Seo.SitemapSchedule != defaultSitemapSchedule {
		t.Fatalf("schedule %q", env.Seo.SitemapSchedule)
	}

	if env.Seo.GetBaseURL() != "https://perspective.example.com" {
		t.Fatalf("base url %q", env.Seo.GetBaseURL())
	}

	if env.Tracing.Enabled {
		t.Fatalf("tracing should be off by default")
	}
}

func TestNewEnvOverrides(t *testing.T) {
	validEnvVars(t)
	t.Setenv("ENV_AUTH_TOKEN_TTL", "90m")
	t.Setenv("ENV_SEO_SITEMAP_SCHEDULE", "*/15 * * * *")
	t.Setenv("ENV_TRACING_ENABLED", "true")

	env, err := NewEnv(portal.GetDefaultValidator())
	if err != nil {
		t.Fatalf("new env: %v", err)
	}

	if env.Auth.TokenTTL != 90*time.Minute {
		t.Fatalf("token ttl %s", env.Auth.TokenTTL)
	}

	if env.Seo.SitemapSchedule != "*/15 * * * *" {
		t.Fatalf("schedule %q", env.Seo.SitemapSchedule)
	}

	if !env.Tracing.Enabled || env.Tracing.Endpoint == "" {
		t.Fatalf("tracing %+v", env.Tracing)
	}
}

func TestNewEnvRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"db port":       {"ENV_DB_PORT", "nope"},
		"token ttl":     {"ENV_AUTH_TOKEN_TTL", "forever"},
		"short secret":  {"ENV_AUTH_JWT_SECRET", "short"},
		"bad schedule":  {"ENV_SEO_SITEMAP_SCHEDULE", "every hour"},
		"bad base url":  {"ENV_SEO_BASE_URL", "not a url"},
		"short ping":    {"ENV_PING_PASSWORD", "short"},
		"tracing flag":  {"ENV_TRACING_ENABLED", "maybe"},
		"unknown stage": {"ENV_APP_ENV_TYPE", "qa"},
	}

	for name, override := range cases {
		t.Run(name, func(t *testing.T) {
			validEnvVars(t)
			t.Setenv(override[0], override[1])

			if _, err := NewEnv(portal.GetDefaultValidator()); err == nil {
				t.Fatalf("expected %s=%q to be rejected", override[0], override[1])
			}
		})
	}
}

func TestIgnite(t *testing.T) {
	validEnvVars(t)

	content := "ENV_HTTP_PORT=9090\n"

	f, err := os.CreateTemp(t.TempDir(), "envfile")
	if err != nil {
		t.Fatalf("temp file err: %v", err)
	}

	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	_ = f.Close()

	env, err := Ignite(f.Name(), portal.GetDefaultValidator())
	if err != nil {
		t.Fatalf("ignite: %v", err)
	}

	// godotenv never overrides variables that are already set.
	if env.Network.HttpPort != "8080" {
		t.Fatalf("unexpected port %s", env.Network.HttpPort)
	}

	if _, err := Ignite(f.Name()+".missing", portal.GetDefaultValidator()); err == nil || !strings.Contains(err.Error(), "load environment") {
		t.Fatalf("expected a load error, got %v", err)
	}
}
