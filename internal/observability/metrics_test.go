package observability

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"github.com/astrafoundry/focalplane-locator/core"
)

func TestObserveLookupRecordsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewLookupCollector(reg)
	if err != nil {
		t.Fatalf("NewLookupCollector: %v", err)
	}

	results := []core.LookupResult{
		{Kind: core.MatchSingle, Names: []string{"D0"}},
		{Kind: core.MatchSingle, Names: []string{"D1"}},
		{Kind: core.MatchMultiple, Names: []string{"W0", "W1"}},
		{Kind: core.MatchNone},
	}
	collector.ObserveLookup(results, 3*time.Millisecond)

	if got := testutil.ToFloat64(collector.PointsResolved.WithLabelValues("single")); got != 2 {
		t.Errorf("single outcome count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.PointsResolved.WithLabelValues("multiple")); got != 1 {
		t.Errorf("multiple outcome count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.PointsResolved.WithLabelValues("none")); got != 1 {
		t.Errorf("none outcome count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(collector.LookupBatches); got != 1 {
		t.Errorf("batch count = %v, want 1", got)
	}

	if count := histogramSampleCount(t, reg, "locator_lookup_duration_seconds"); count != 1 {
		t.Errorf("duration sample_count = %d, want 1", count)
	}
}

func TestSetDetectorsIndexed(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewLookupCollector(reg)
	if err != nil {
		t.Fatalf("NewLookupCollector: %v", err)
	}

	collector.SetDetectorsIndexed(189)
	if got := testutil.ToFloat64(collector.DetectorsIndexed); got != 189 {
		t.Errorf("detectors indexed = %v, want 189", got)
	}
}

func TestRegisterTwiceReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewLookupCollector(reg)
	if err != nil {
		t.Fatalf("NewLookupCollector: %v", err)
	}
	second, err := NewLookupCollector(reg)
	if err != nil {
		t.Fatalf("NewLookupCollector (again): %v", err)
	}
	if first.PointsResolved != second.PointsResolved {
		t.Errorf("second registration should reuse the existing counter vec")
	}
}

func TestHandlerServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewLookupCollector(reg)
	if err != nil {
		t.Fatalf("NewLookupCollector: %v", err)
	}
	collector.ObserveLookup([]core.LookupResult{{Kind: core.MatchNone}}, time.Millisecond)

	srv := httptest.NewServer(collector.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if !strings.Contains(string(body), "locator_points_resolved_total") {
		t.Errorf("metrics output missing locator_points_resolved_total")
	}
}

func histogramSampleCount(t *testing.T, g prometheus.Gatherer, name string) uint64 {
	t.Helper()
	families, err := g.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var mf *dto.MetricFamily
	for _, f := range families {
		if f.GetName() == name {
			mf = f
			break
		}
	}
	if mf == nil {
		t.Fatalf("histogram %s not found", name)
	}
	for _, m := range mf.GetMetric() {
		if h := m.GetHistogram(); h != nil {
			return h.GetSampleCount()
		}
	}
	t.Fatalf("metric family %s carries no histogram", name)
	return 0
}
