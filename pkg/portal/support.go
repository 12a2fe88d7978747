package portal

import (
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
)

func SanitiseURL(u string) string {
	trimmed := strings.TrimSpace(u)
	if trimmed == "" {
		return ""
	}

	lower := strings.ToLower(trimmed)

	if orig, err := url.Parse(trimmed); err == nil {
		switch scheme := strings.ToLower(orig.Scheme); scheme {
		case "", "http", "https":
		default:
			return ""
		}
	}

	candidate := trimmed

	switch {
	case strings.HasPrefix(lower, "https://"):
	case strings.HasPrefix(lower, "http://"):
		candidate = "https://" + trimmed[len("http://"):]
	default:
		candidate = "https://" + trimmed
	}

	parsed, err := url.Parse(candidate)
	if err != nil {
		return ""
	}

	hostname := parsed.Hostname()
	if hostname == "" {
		return ""
	}

	if hostname != "localhost" && !strings.Contains(hostname, ".") && net.ParseIP(hostname) == nil {
		return ""
	}

	parsed.User = nil
	parsed.Scheme = "https"
	parsed.Fragment = ""

	return template.HTMLEscapeString(parsed.String())
}

func CloseWithLog(c io.Closer) {
	if c == nil {
		return
	}

	if err := c.Close(); err != nil {
		slog.Error("failed to close resource", "err", err)
	}
}

func ParseClientIP(r *http.Request) string {
	if xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}

	return strings.TrimSpace(r.RemoteAddr)
}

// BearerToken extracts the token of an "Authorization: Bearer <token>" header.
func BearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get(AuthorizationHeader))

	if len(header) < len("bearer ") || !strings.EqualFold(header[:len("bearer ")], "bearer ") {
		return ""
	}

	return strings.TrimSpace(header[len("bearer "):])
}

// ReadWithSizeLimit reads at most maxSize bytes (5MB by default) and fails when the reader holds more.
func ReadWithSizeLimit(reader io.Reader, maxSize ...int64) ([]byte, error) {
	if reader == nil {
		return nil, io.ErrUnexpectedEOF
	}

	const defaultMaxSize int64 = 5 * 1024 * 1024

	limit := defaultMaxSize
	if len(maxSize) > 0 && maxSize[0] > 0 {
		limit = maxSize[0]
	}

	limitedReader := &io.LimitedReader{R: reader, N: limit + 1}
	data, err := io.ReadAll(limitedReader)

	if int64(len(data)) > limit || err != nil {
		return nil, fmt.Errorf("read exceeds size limit: %d, error: %w", limit, err)
	}

	return data, nil
}
