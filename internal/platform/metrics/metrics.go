package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the gateway.
type Metrics struct {
	RequestsTotal      *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	DraftsCreated      prometheus.Counter
	OTPRequests        *prometheus.CounterVec
	OTPVerified        *prometheus.CounterVec
	Registrations      *prometheus.CounterVec
	TokenRefreshes     *prometheus.CounterVec
	UpstreamErrors     *prometheus.CounterVec
	CatalogCacheHits   prometheus.Counter
	CatalogCacheMisses prometheus.Counter
}

// New creates all Prometheus metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates all Prometheus metrics on the given registerer. Tests use
// a fresh registry per call to avoid duplicate registration.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "legalbooks_gateway_requests_total",
			Help: "Total HTTP requests handled, by route and status class.",
		}, []string{"route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "legalbooks_gateway_request_duration_seconds",
			Help:    "HTTP request latency, by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		DraftsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "legalbooks_gateway_drafts_created_total",
			Help: "Total registration drafts created.",
		}),
		OTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "legalbooks_gateway_otp_requests_total",
			Help: "OTP generate requests, by channel and outcome.",
		}, []string{"channel", "outcome"}),
		OTPVerified: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "legalbooks_gateway_otp_verified_total",
			Help: "OTP verifications, by channel and outcome.",
		}, []string{"channel", "outcome"}),
		Registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "legalbooks_gateway_registrations_total",
			Help: "Registration submissions, by outcome.",
		}, []string{"outcome"}),
		TokenRefreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "legalbooks_gateway_token_refreshes_total",
			Help: "Upstream token refresh attempts, by outcome.",
		}, []string{"outcome"}),
		UpstreamErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "legalbooks_gateway_upstream_errors_total",
			Help: "Upstream API failures, by endpoint.",
		}, []string{"endpoint"}),
		CatalogCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "legalbooks_gateway_catalog_cache_hits_total",
			Help: "Reference catalog cache hits.",
		}),
		CatalogCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "legalbooks_gateway_catalog_cache_misses_total",
			Help: "Reference catalog cache misses.",
		}),
	}
}
