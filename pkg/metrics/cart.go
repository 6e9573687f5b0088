package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CartMetrics exports cart activity. It satisfies cart.Recorder.
type CartMetrics struct {
	actions  *prometheus.CounterVec
	sessions prometheus.Gauge
	catalog  *prometheus.HistogramVec
}

// NewCartMetrics registers the cart metrics on reg. A nil registerer yields a no-op recorder.
func NewCartMetrics(reg prometheus.Registerer) *CartMetrics {
	if reg == nil {
		return &CartMetrics{}
	}
	actions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "reactmeals_cart_actions_total",
		Help: "Cart actions dispatched, by action and result.",
	}, []string{"action", "result"})
	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "reactmeals_cart_sessions",
		Help: "Live cart sessions held in memory.",
	})
	catalog := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "reactmeals_catalog_load_seconds",
		Help:    "Duration of meal catalog loads by source and outcome.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source", "outcome"})
	reg.MustRegister(actions, sessions, catalog)
	return &CartMetrics{actions: actions, sessions: sessions, catalog: catalog}
}

func (c *CartMetrics) ObserveAction(action, result string) {
	if c == nil || c.actions == nil {
		return
	}
	c.actions.WithLabelValues(normalizeLabel(action), normalizeLabel(result)).Inc()
}

// SetSessions publishes the current session count.
func (c *CartMetrics) SetSessions(n int) {
	if c == nil || c.sessions == nil {
		return
	}
	c.sessions.Set(float64(n))
}

// ObserveCatalogLoad records how long a catalog load took.
func (c *CartMetrics) ObserveCatalogLoad(source string, duration time.Duration, err error) {
	if c == nil || c.catalog == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.catalog.WithLabelValues(normalizeLabel(source), outcome).Observe(duration.Seconds())
}
