package env

import (
	"os"
	"path/filepath"
	"strings"
)

type Environment struct {
	App     AppEnvironment     `validate:"required"`
	DB      DBEnvironment      `validate:"required"`
	Logs    LogsEnvironment    `validate:"required"`
	Network NetEnvironment     `validate:"required"`
	Sentry  SentryEnvironment  `validate:"required"`
	Ping    PingEnvironment    `validate:"required"`
	Auth    AuthEnvironment    `validate:"required"`
	Seo     SeoEnvironment     `validate:"required"`
	Tracing TracingEnvironment `validate:"required"`
}

// SecretsDir defines where docker secret files are read from. Tests override it.
var SecretsDir = "/run/secrets"

func GetEnvVar(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func GetSecretOrEnv(secretName string, envVarName string) string {
	content, err := os.ReadFile(filepath.Join(SecretsDir, secretName))

	if err == nil {
		return strings.TrimSpace(string(content))
	}

	return GetEnvVar(envVarName)
}
