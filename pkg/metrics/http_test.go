package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestObserveRequestRecordsCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest(http.MethodGet, "/api/v1/storefront/products", http.StatusOK, 25*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/v1/storefront/products", http.StatusOK, 40*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	counter := findMetricFamily(mfs, "http_requests_total")
	if counter == nil {
		t.Fatal("http_requests_total not registered")
	}
	if got := counter.GetMetric()[0].GetCounter().GetValue(); got != 2 {
		t.Fatalf("expected 2 requests, got %v", got)
	}
	if !matchesLabel(counter.GetMetric()[0].GetLabel(), "status", "200") {
		t.Fatalf("expected status label 200, got %v", counter.GetMetric()[0].GetLabel())
	}

	hist := findMetricFamily(mfs, "http_request_duration_seconds")
	if hist == nil {
		t.Fatal("http_request_duration_seconds not registered")
	}
	if got := hist.GetMetric()[0].GetHistogram().GetSampleCount(); got != 2 {
		t.Fatalf("expected 2 histogram samples, got %d", got)
	}
}

func TestIncGatewayCallOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.IncGatewayCall("put_user_profile", true)
	m.IncGatewayCall("put_user_profile", false)
	m.IncGatewayCall("", true)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	family := findMetricFamily(mfs, "gateway_calls_total")
	if family == nil {
		t.Fatal("gateway_calls_total not registered")
	}
	if len(family.GetMetric()) != 3 {
		t.Fatalf("expected 3 labeled series, got %d", len(family.GetMetric()))
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	m := NewHTTPMetrics(nil)
	m.ObserveRequest(http.MethodPost, "/x", http.StatusTeapot, time.Second)
	m.IncGatewayCall("op", true)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
