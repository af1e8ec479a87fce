package obs

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics groups Prometheus collectors for HTTP observability.
type HTTPMetrics struct {
	ReqTotal *prometheus.CounterVec
	ReqDur   *prometheus.HistogramVec
	InFlight prometheus.Gauge
}

// NewHTTPMetrics registers and returns HTTP metrics collectors.
func NewHTTPMetrics(namespace string, buckets []float64, reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if len(buckets) == 0 {
		buckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500}
	} else {
		sort.Float64s(buckets)
	}
	m := &HTTPMetrics{
		ReqTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests handled by the server.",
		}, []string{"method", "route", "status"}),
		ReqDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency distribution in milliseconds.",
			Buckets:   buckets,
		}, []string{"method", "route"}),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),
	}
	m.ReqTotal = registerOrReuse(reg, m.ReqTotal)
	m.ReqDur = registerOrReuse(reg, m.ReqDur)
	m.InFlight = registerOrReuse(reg, m.InFlight)
	return m
}

// ParseBucketsCSV converts a comma-separated list of bucket boundaries
// (milliseconds) into floats.
func ParseBucketsCSV(csv string) []float64 {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]float64, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		v, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || v <= 0 {
			continue
		}
		out = append(out, v)
	}
	return out
}

// DurationMillis converts a duration to milliseconds for metric observation.
func DurationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func registerOrReuse[C prometheus.Collector](reg prometheus.Registerer, collector C) C {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
			return collector
		}
		panic(fmt.Errorf("register collector: %w", err))
	}
	return collector
}

var (
	domainOnce sync.Once

	// CartMutationsTotal counts cart operations by kind and outcome.
	CartMutationsTotal *prometheus.CounterVec
	// OrdersSubmittedTotal counts checkout submissions by outcome.
	OrdersSubmittedTotal *prometheus.CounterVec
	// OrderMessageDeliveries counts WhatsApp message delivery outcomes.
	OrderMessageDeliveries *prometheus.CounterVec
	// CatalogCacheLookups counts catalog list cache hits and misses.
	CatalogCacheLookups *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers the storefront's
// domain collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CartMutationsTotal = registerOrReuse(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_mutations_total",
			Help:      "Count of cart mutations by operation and result.",
		}, []string{"op", "result"}))
		OrdersSubmittedTotal = registerOrReuse(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_submitted_total",
			Help:      "Count of checkout submissions by result.",
		}, []string{"result"}))
		OrderMessageDeliveries = registerOrReuse(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_message_deliveries_total",
			Help:      "Count of order message delivery attempts by result.",
		}, []string{"result"}))
		CatalogCacheLookups = registerOrReuse(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_cache_lookups_total",
			Help:      "Catalog list cache lookups by result.",
		}, []string{"result"}))
	})
}

// The Observe helpers are no-ops until MustRegisterDomainMetrics has
// run, so packages can call them unconditionally.

// ObserveCartMutation records one cart operation outcome.
func ObserveCartMutation(op, result string) {
	if CartMutationsTotal != nil {
		CartMutationsTotal.WithLabelValues(op, result).Inc()
	}
}

// ObserveOrderSubmitted records one checkout submission outcome.
func ObserveOrderSubmitted(result string) {
	if OrdersSubmittedTotal != nil {
		OrdersSubmittedTotal.WithLabelValues(result).Inc()
	}
}

// ObserveOrderMessageDelivery records one order message delivery attempt.
func ObserveOrderMessageDelivery(result string) {
	if OrderMessageDeliveries != nil {
		OrderMessageDeliveries.WithLabelValues(result).Inc()
	}
}

// ObserveCatalogCacheLookup records one catalog list cache lookup.
func ObserveCatalogCacheLookup(result string) {
	if CatalogCacheLookups != nil {
		CatalogCacheLookups.WithLabelValues(result).Inc()
	}
}
