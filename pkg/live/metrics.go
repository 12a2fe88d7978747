package live

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/perspective/pkg/live")

var refetches = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "perspective_live_refetch_total",
	Help: "Live view refetches by view and outcome.",
}, []string{"view", "outcome"})

func observeRefetch(view string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}

	refetches.WithLabelValues(view, outcome).Inc()
}
