package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	RateLimited = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kundali",
			Subsystem: "ratelimit",
			Name:      "rejected_total",
			Help:      "Requests rejected by the per-client rate limiter",
		},
		[]string{"route"},
	)

	RateLimitClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "kundali",
			Subsystem: "ratelimit",
			Name:      "clients",
			Help:      "Clients currently tracked by the rate limiter",
		},
	)
)

// Register registers the collectors on the default registry once.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(RateLimited, RateLimitClients)
	})
}
