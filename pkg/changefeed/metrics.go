package changefeed

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	published = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "perspective",
		Subsystem: "changefeed",
		Name:      "published_total",
		Help:      "Row changes published to the change feed.",
	}, []string{"table", "op"})

	delivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "perspective",
		Subsystem: "changefeed",
		Name:      "delivered_total",
		Help:      "Changes handed to a subscription.",
	}, []string{"table"})

	coalesced = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "perspective",
		Subsystem: "changefeed",
		Name:      "coalesced_total",
		Help:      "Changes folded into an already pending notification.",
	}, []string{"table"})

	activeSubscriptions = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "perspective",
		Subsystem: "changefeed",
		Name:      "subscriptions",
		Help:      "Live subscriptions per table.",
	}, []string{"table"})
)
