package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks request duration
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "app_cadastro_request_duration_seconds",
			Help: "Duration of HTTP requests in seconds",
		},
		[]string{"path", "method", "status"},
	)

	// CacheHits tracks cache hits
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_cadastro_cache_hits_total",
			Help: "Number of cache hits",
		},
		[]string{"operation"},
	)

	// Registrations counts proxied registrations by classified outcome
	Registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_cadastro_registrations_total",
			Help: "Number of registrations forwarded upstream, by outcome",
		},
		[]string{"outcome", "classifier"},
	)

	// UpstreamDuration tracks latency of calls to the affiliate platform
	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "app_cadastro_upstream_duration_seconds",
			Help:    "Duration of calls to the registration endpoint in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)

	// CSRFFetches counts CSRF pre-fetch attempts
	CSRFFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_cadastro_csrf_fetches_total",
			Help: "Number of CSRF token pre-fetches, by result",
		},
		[]string{"result"},
	)

	// CEPLookups counts postal code lookups
	CEPLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_cadastro_cep_lookups_total",
			Help: "Number of postal code lookups, by result",
		},
		[]string{"result"},
	)

	// WizardTransitions counts wizard state transitions
	WizardTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "app_cadastro_wizard_transitions_total",
			Help: "Number of wizard transitions, by action and result",
		},
		[]string{"action", "result"},
	)

	// ActiveConnections tracks active connections
	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_cadastro_active_connections",
			Help: "Number of active connections",
		},
	)
)
