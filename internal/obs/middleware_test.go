package obs_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/jvitormendess/jaci-api/internal/obs"
)

func TestHTTPMetricsLabels(t *testing.T) {
	registry := prometheus.NewRegistry()
	metrics := obs.NewHTTPMetrics("jaci", []float64{1, 10}, registry)
	handler := obs.HTTPObs{Metrics: metrics}.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	req = req.WithContext(obs.WithRoutePattern(req.Context(), "/health/ready"))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rr.Code)
	}

	total := testutil.ToFloat64(metrics.ReqTotal.WithLabelValues(http.MethodGet, "/health/ready", "204"))
	if total != 1 {
		t.Fatalf("expected counter to be 1, got %v", total)
	}
	if samples := testutil.CollectAndCount(metrics.ReqDur); samples == 0 {
		t.Fatal("expected histogram sample")
	}
	if val := testutil.ToFloat64(metrics.InFlight); val != 0 {
		t.Fatalf("expected no in-flight requests, got %v", val)
	}
}

func TestDomainMetricsRegisterOnce(t *testing.T) {
	registry := prometheus.NewRegistry()
	obs.MustRegisterDomainMetrics("jaci", registry)
	obs.MustRegisterDomainMetrics("jaci", registry)

	obs.OrdersSubmittedTotal.WithLabelValues("ok").Inc()
	if got := testutil.ToFloat64(obs.OrdersSubmittedTotal.WithLabelValues("ok")); got != 1 {
		t.Fatalf("expected 1, got %v", got)
	}
}

func TestObserveHelpersIncrement(t *testing.T) {
	registry := prometheus.NewRegistry()
	obs.MustRegisterDomainMetrics("jaci", registry)

	cartBefore := testutil.ToFloat64(obs.CartMutationsTotal.WithLabelValues("add", "ok"))
	obs.ObserveCartMutation("add", "ok")
	if got := testutil.ToFloat64(obs.CartMutationsTotal.WithLabelValues("add", "ok")); got != cartBefore+1 {
		t.Fatalf("cart mutations = %v, want %v", got, cartBefore+1)
	}

	deliveryBefore := testutil.ToFloat64(obs.OrderMessageDeliveries.WithLabelValues("error"))
	obs.ObserveOrderMessageDelivery("error")
	if got := testutil.ToFloat64(obs.OrderMessageDeliveries.WithLabelValues("error")); got != deliveryBefore+1 {
		t.Fatalf("deliveries = %v, want %v", got, deliveryBefore+1)
	}

	lookupBefore := testutil.ToFloat64(obs.CatalogCacheLookups.WithLabelValues("miss"))
	obs.ObserveCatalogCacheLookup("miss")
	if got := testutil.ToFloat64(obs.CatalogCacheLookups.WithLabelValues("miss")); got != lookupBefore+1 {
		t.Fatalf("cache lookups = %v, want %v", got, lookupBefore+1)
	}

	ordersBefore := testutil.ToFloat64(obs.OrdersSubmittedTotal.WithLabelValues("error"))
	obs.ObserveOrderSubmitted("error")
	if got := testutil.ToFloat64(obs.OrdersSubmittedTotal.WithLabelValues("error")); got != ordersBefore+1 {
		t.Fatalf("orders submitted = %v, want %v", got, ordersBefore+1)
	}
}
