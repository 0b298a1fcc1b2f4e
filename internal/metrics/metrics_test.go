package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	return m.Counter.GetValue()
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.QueriesTotal == nil || r.EditsTotal == nil || r.HTTPRequestsTotal == nil {
		t.Error("counters not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordQuery(t *testing.T) {
	r := NewRegistry()
	r.RecordQuery("related", StatusSuccess, time.Millisecond)
	r.RecordQuery("related", StatusSuccess, time.Millisecond)
	r.RecordQuery("get", StatusNotFound, time.Millisecond)

	c, err := r.QueriesTotal.GetMetricWithLabelValues("related", StatusSuccess)
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	if got := counterValue(t, c); got != 2 {
		t.Errorf("related success = %v, want 2", got)
	}

	c, _ = r.QueriesTotal.GetMetricWithLabelValues("get", StatusNotFound)
	if got := counterValue(t, c); got != 1 {
		t.Errorf("get not_found = %v, want 1", got)
	}
}

func TestRecordEditAndCache(t *testing.T) {
	r := NewRegistry()
	r.RecordEdit("updateVerb", StatusNotFound)
	r.RecordCache(true)
	r.RecordCache(false)
	r.RecordCache(false)

	c, _ := r.EditsTotal.GetMetricWithLabelValues("updateVerb", StatusNotFound)
	if got := counterValue(t, c); got != 1 {
		t.Errorf("edit counter = %v, want 1", got)
	}
	c, _ = r.RelatedCacheTotal.GetMetricWithLabelValues(CacheMiss)
	if got := counterValue(t, c); got != 2 {
		t.Errorf("cache misses = %v, want 2", got)
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.SetCatalog(42, 1)
	r.RecordHTTPRequest("GET", "200", 10*time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		"domainverse_domains_loaded 42",
		"domainverse_dangling_references 1",
		`domainverse_http_requests_total{method="GET",status="200"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
