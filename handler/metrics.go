package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var openStreams = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "perspective",
	Subsystem: "http",
	Name:      "open_streams",
	Help:      "Server-sent event streams currently held open, by view.",
}, []string{"view"})

type MetricsHandler struct {
	exporter http.Handler
}

func NewMetricsHandler() MetricsHandler {
	return MetricsHandler{
		exporter: promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		}),
	}
}

// ServeHTTP bypasses the ApiHandler error flow: Prometheus writes its own format.
func (h MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.exporter.ServeHTTP(w, r)
}

// trackStream counts an open stream for view until the returned func is called.
func trackStream(view string) func() {
	gauge := openStreams.WithLabelValues(view)
	gauge.Inc()

	return gauge.Dec
}
