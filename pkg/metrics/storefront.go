package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Storefront records customization, configuration cache and client storage activity.
// A nil *Storefront is valid and records nothing.
type Storefront struct {
	transitions     *prometheus.CounterVec
	validationFails *prometheus.CounterVec
	completions     prometheus.Counter
	recomputes      prometheus.Counter
	cacheLookups    *prometheus.CounterVec
	fetchDuration   *prometheus.HistogramVec
	storageFailures *prometheus.CounterVec
	activeSessions  prometheus.Gauge
}

// NewStorefront registers the storefront metrics on the provided registerer.
func NewStorefront(reg prometheus.Registerer) *Storefront {
	if reg == nil {
		return &Storefront{}
	}
	m := &Storefront{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "customization_step_transitions_total",
			Help: "Wizard step transitions by direction.",
		}, []string{"direction"}),
		validationFails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "customization_validation_failures_total",
			Help: "Advance attempts blocked by step validation.",
		}, []string{"step"}),
		completions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "customization_completions_total",
			Help: "Customized items added to a cart.",
		}),
		recomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "customization_price_recomputes_total",
			Help: "Debounced price recalculations that actually ran.",
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "customization_config_cache_lookups_total",
			Help: "Configuration cache lookups by result.",
		}, []string{"result"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "customization_config_fetch_seconds",
			Help:    "Duration of configuration fetches on cache miss.",
			Buckets: prometheus.DefBuckets,
		}, []string{"category", "outcome"}),
		storageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "client_storage_write_failures_total",
			Help: "Dropped client state writes by key.",
		}, []string{"key"}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "customization_active_sessions",
			Help: "Customization sessions currently held in memory.",
		}),
	}
	reg.MustRegister(
		m.transitions,
		m.validationFails,
		m.completions,
		m.recomputes,
		m.cacheLookups,
		m.fetchDuration,
		m.storageFailures,
		m.activeSessions,
	)
	return m
}

// IncTransition counts a step change; direction is "next", "back" or "complete".
func (m *Storefront) IncTransition(direction string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(direction)).Inc()
	if direction == "complete" && m.completions != nil {
		m.completions.Inc()
	}
}

func (m *Storefront) IncValidationFailure(step int) {
	if m == nil || m.validationFails == nil {
		return
	}
	m.validationFails.WithLabelValues(strconv.Itoa(step)).Inc()
}

func (m *Storefront) IncPriceRecompute() {
	if m == nil || m.recomputes == nil {
		return
	}
	m.recomputes.Inc()
}

// ObserveCacheLookup records a configuration cache hit or miss.
func (m *Storefront) ObserveCacheLookup(hit bool) {
	if m == nil || m.cacheLookups == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Storefront) ObserveConfigFetch(category string, d time.Duration, err error) {
	if m == nil || m.fetchDuration == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.fetchDuration.WithLabelValues(normalizeLabel(category), outcome).Observe(d.Seconds())
}

// IncStorageFailure counts a client state write that was logged and dropped.
func (m *Storefront) IncStorageFailure(key string) {
	if m == nil || m.storageFailures == nil {
		return
	}
	m.storageFailures.WithLabelValues(normalizeLabel(key)).Inc()
}

func (m *Storefront) SetActiveSessions(n int) {
	if m == nil || m.activeSessions == nil {
		return
	}
	m.activeSessions.Set(float64(n))
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
