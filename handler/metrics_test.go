package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func scrape(t *testing.T) string {
	t.Helper()

	rec := httptest.NewRecorder()
	NewMetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	return rec.Body.String()
}

func TestMetricsExposeOpenStreams(t *testing.T) {
	done := trackStream("metrics-test")

	if body := scrape(t); !strings.Contains(body, `perspective_http_open_streams{view="metrics-test"} 1`) {
		t.Fatalf("expected an open stream to be reported")
	}

	done()

	if body := scrape(t); !strings.Contains(body, `perspective_http_open_streams{view="metrics-test"} 0`) {
		t.Fatalf("expected the stream to be released")
	}
}
