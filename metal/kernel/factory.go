package kernel

import (
	"fmt"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/perspective/database"
	"github.com/perspective/metal/env"
	"github.com/perspective/pkg/llogs"
	"github.com/perspective/pkg/portal"
)

const (
	defaultTokenTTL        = 24 * time.Hour
	defaultSitemapSchedule = "@hourly"
)

func MakeSentry(env *env.Environment) (*portal.Sentry, error) {
	cOptions := sentry.ClientOptions{
		Dsn:         env.Sentry.DSN,
		Debug:       !env.App.IsProduction(),
		Environment: env.App.Type,
	}

	if err := sentry.Init(cOptions); err != nil {
		return nil, fmt.Errorf("sentry.Init: %w", err)
	}

	options := sentryhttp.Options{Repanic: true}
	handler := sentryhttp.New(options)

	return &portal.Sentry{
		Handler: handler,
		Options: &options,
		Env:     env,
	}, nil
}

func MakeDbConnection(env *env.Environment) (*database.Connection, error) {
	dbConn, err := database.MakeConnection(env)

	if err != nil {
		return nil, fmt.Errorf("sql: error connecting to PostgreSQL: %w", err)
	}

	return dbConn, nil
}

func MakeLogs(env *env.Environment) (llogs.Driver, error) {
	lDriver, err := llogs.MakeFilesLogs(env)

	if err != nil {
		return nil, fmt.Errorf("logs: error opening logs file: %w", err)
	}

	return lDriver, nil
}

// NewEnv reads the process environment (and docker secrets) into a validated Environment.
func NewEnv(validate *portal.Validator) (*env.Environment, error) {
	errorSuffix := "environment: "

	port, err := strconv.Atoi(env.GetEnvVar("ENV_DB_PORT"))
	if err != nil {
		return nil, fmt.Errorf("%sinvalid value for ENV_DB_PORT: %w", errorSuffix, err)
	}

	tokenTTL := defaultTokenTTL
	if raw := env.GetEnvVar("ENV_AUTH_TOKEN_TTL"); raw != "" {
		if tokenTTL, err = time.ParseDuration(raw); err != nil {
			return nil, fmt.Errorf("%sinvalid value for ENV_AUTH_TOKEN_TTL: %w", errorSuffix, err)
		}
	}

	tracingEnabled := false
	if raw := env.GetEnvVar("ENV_TRACING_ENABLED"); raw != "" {
		if tracingEnabled, err = strconv.ParseBool(raw); err != nil {
			return nil, fmt.Errorf("%sinvalid value for ENV_TRACING_ENABLED: %w", errorSuffix, err)
		}
	}

	schedule := env.GetEnvVar("ENV_SEO_SITEMAP_SCHEDULE")
	if schedule == "" {
		schedule = defaultSitemapSchedule
	}

	app := env.AppEnvironment{
		Name: env.GetEnvVar("ENV_APP_NAME"),
		URL:  env.GetEnvVar("ENV_APP_URL"),
		Type: env.GetEnvVar("ENV_APP_ENV_TYPE"),
	}

	db := env.DBEnvironment{
		UserName:     env.GetSecretOrEnv("pg_username", "ENV_DB_USER_NAME"),
		UserPassword: env.GetSecretOrEnv("pg_password", "ENV_DB_USER_PASSWORD"),
		DatabaseName: env.GetSecretOrEnv("pg_dbname", "ENV_DB_DATABASE_NAME"),
		Port:         port,
		Host:         env.GetEnvVar("ENV_DB_HOST"),
		DriverName:   database.DriverName,
		SSLMode:      env.GetEnvVar("ENV_DB_SSL_MODE"),
		TimeZone:     env.GetEnvVar("ENV_DB_TIMEZONE"),
	}

	logsEnv := env.LogsEnvironment{
		Level:      env.GetEnvVar("ENV_APP_LOG_LEVEL"),
		Dir:        env.GetEnvVar("ENV_APP_LOGS_DIR"),
		DateFormat: env.GetEnvVar("ENV_APP_LOGS_DATE_FORMAT"),
	}

	netEnv := env.NetEnvironment{
		HttpHost: env.GetEnvVar("ENV_HTTP_HOST"),
		HttpPort: env.GetEnvVar("ENV_HTTP_PORT"),
		DevHost:  env.GetEnvVar("ENV_DEV_HOST"),
	}

	sentryEnv := env.SentryEnvironment{
		DSN: env.GetEnvVar("ENV_SENTRY_DSN"),
		CSP: env.GetEnvVar("ENV_SENTRY_CSP"),
	}

	pingEnv := env.PingEnvironment{
		Username: env.GetEnvVar("ENV_PING_USERNAME"),
		Password: env.GetEnvVar("ENV_PING_PASSWORD"),
	}

	authEnv := env.AuthEnvironment{
		JWTSecret: env.GetSecretOrEnv("jwt_secret", "ENV_AUTH_JWT_SECRET"),
		TokenTTL:  tokenTTL,
	}

	seoEnv := env.SeoEnvironment{
		BaseURL:         env.GetEnvVar("ENV_SEO_BASE_URL"),
		SiteTitle:       env.GetEnvVar("ENV_SEO_SITE_TITLE"),
		SitemapSchedule: schedule,
	}

	tracingEnv := env.NewTracingEnvironment(tracingEnabled, env.GetEnvVar("ENV_TRACING_ENDPOINT"))

	sections := []struct {
		name  string
		model any
	}{
		{"APP", app},
		{"SQL", db},
		{"LOGS", logsEnv},
		{"NETWORK", netEnv},
		{"SENTRY", sentryEnv},
		{"PING", pingEnv},
		{"AUTH", authEnv},
		{"SEO", seoEnv},
		{"TRACING", tracingEnv},
	}

	for _, section := range sections {
		if _, err := validate.Rejects(section.model); err != nil {
			return nil, fmt.Errorf("%sinvalid [%s] model: %s", errorSuffix, section.name, validate.GetErrorsAsJson())
		}
	}

	blog := &env.Environment{
		App:     app,
		DB:      db,
		Logs:    logsEnv,
		Network: netEnv,
		Sentry:  sentryEnv,
		Ping:    pingEnv,
		Auth:    authEnv,
		Seo:     seoEnv,
		Tracing: tracingEnv,
	}

	if _, err := validate.Rejects(blog); err != nil {
		return nil, fmt.Errorf("%sinvalid [perspective] model: %s", errorSuffix, validate.GetErrorsAsJson())
	}

	return blog, nil
}
