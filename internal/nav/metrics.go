package nav

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus instruments of the navigation subsystem.
type Metrics struct {
	searches    *prometheus.CounterVec
	expansions  prometheus.Histogram
	duration    prometheus.Histogram
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
}

// NewMetrics creates and registers navigation metrics on the given
// registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nav",
			Name:      "searches_total",
			Help:      "Path searches by outcome.",
		}, []string{"result"}),
		expansions: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nav",
			Name:      "search_expansions",
			Help:      "Cells expanded per path search.",
			Buckets:   prometheus.ExponentialBuckets(8, 4, 8),
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nav",
			Name:      "search_duration_seconds",
			Help:      "Wall time per path search.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 10, 7),
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nav",
			Name:      "grid_cache_hits_total",
			Help:      "Grid cache lookups served from cache.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nav",
			Name:      "grid_cache_misses_total",
			Help:      "Grid cache lookups that triggered a build.",
		}),
	}

	reg.MustRegister(m.searches, m.expansions, m.duration, m.cacheHits, m.cacheMisses)
	return m
}

func (m *Metrics) observeSearch(elapsed time.Duration, expansions int, err error) {
	result := "ok"
	if errors.Is(err, ErrNoPath) {
		result = "no_path"
	} else if err != nil {
		result = "error"
	}
	m.searches.WithLabelValues(result).Inc()
	m.expansions.Observe(float64(expansions))
	m.duration.Observe(elapsed.Seconds())
}
