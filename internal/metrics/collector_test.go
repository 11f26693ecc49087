package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCounter_SameKeyReturnsSameCounter(t *testing.T) {
	c := NewMetricsCollector()
	a := c.Counter("x_total", "help", `kind="voice"`)
	b := c.Counter("x_total", "help", `kind="voice"`)
	a.Inc()
	b.Add(2)
	if a != b || a.Value() != 3 {
		t.Fatalf("expected shared counter with value 3, got %d", a.Value())
	}
	if c.Counter("x_total", "help", `kind="text"`).Value() != 0 {
		t.Error("different labels must be a different series")
	}
}

func TestHistogram_BucketsAndInf(t *testing.T) {
	c := NewMetricsCollector()
	h := c.Histogram("lat_seconds", "help", "", []float64{1, 0.5})
	h.Observe(0.2)
	h.Observe(0.7)
	h.Observe(99)

	var sb strings.Builder
	c.WriteText(&sb)
	out := sb.String()

	for _, want := range []string{
		`lat_seconds_bucket{le="0.5"} 1`,
		`lat_seconds_bucket{le="1"} 2`,
		`lat_seconds_bucket{le="+Inf"} 3`,
		"lat_seconds_count 3",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestHandler_RendersLabelledSeries(t *testing.T) {
	c := NewMetricsCollector()
	c.Counter("req_total", "Requests", `result="ok"`).Inc()
	c.Gauge("inflight", "In flight", "").Set(2)

	rec := httptest.NewRecorder()
	c.Handler()(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	if !strings.HasPrefix(rec.Header().Get("Content-Type"), "text/plain") {
		t.Errorf("Content-Type = %q", rec.Header().Get("Content-Type"))
	}
	for _, want := range []string{
		"# TYPE req_total counter",
		`req_total{result="ok"} 1`,
		"# TYPE inflight gauge",
		"inflight 2",
		"linguabot_uptime_seconds",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLLMRequest_CountsErrors(t *testing.T) {
	labels := `provider="fake",purpose="test"`
	reqs := Collector.Counter("linguabot_llm_requests_total", "", labels)
	errs := Collector.Counter("linguabot_llm_errors_total", "", labels)
	r0, e0 := reqs.Value(), errs.Value()

	LLMRequest("fake", "test", time.Second, nil)
	LLMRequest("fake", "test", time.Second, errors.New("boom"))

	if reqs.Value()-r0 != 2 {
		t.Errorf("requests delta = %d, want 2", reqs.Value()-r0)
	}
	if errs.Value()-e0 != 1 {
		t.Errorf("errors delta = %d, want 1", errs.Value()-e0)
	}
}
