package env

// TracingEnvironment holds the OpenTelemetry exporter configuration.
type TracingEnvironment struct {
	Enabled  bool
	Endpoint string `validate:"omitempty,required_if=Enabled true,url"`
}

const defaultTracingEndpoint = "http://localhost:4318"

// NewTracingEnvironment falls back to the local collector when tracing is on but no endpoint was given.
func NewTracingEnvironment(enabled bool, endpoint string) TracingEnvironment {
	if enabled && endpoint == "" {
		endpoint = defaultTracingEndpoint
	}

	return TracingEnvironment{
		Enabled:  enabled,
		Endpoint: endpoint,
	}
}
