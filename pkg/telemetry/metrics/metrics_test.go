package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sycoraxai/voicebroker/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testCollector(enabled bool) *Collector {
	return NewCollector(&config.MetricsConfig{Enabled: enabled, Namespace: "test"}, prometheus.NewRegistry())
}

func TestCollector_ObserveIssuance(t *testing.T) {
	c := testCollector(true)

	tests := []struct {
		provider string
		outcome  string
	}{
		{"targetai", "success"},
		{"targetai", "success"},
		{"retell", "upstream_error"},
		{"unknown", "unsupported_provider"},
	}
	for _, tt := range tests {
		c.ObserveIssuance(tt.provider, tt.outcome, 20*time.Millisecond)
	}

	if got := testutil.ToFloat64(c.issuance.total.WithLabelValues("targetai", "success")); got != 2 {
		t.Errorf("targetai success = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.issuance.total.WithLabelValues("retell", "upstream_error")); got != 1 {
		t.Errorf("retell upstream errors = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(c.issuance.duration); got != 3 {
		t.Errorf("duration series = %d, want 3", got)
	}
}

func TestCollector_ObserveSignaling(t *testing.T) {
	c := testCollector(true)
	c.ObserveSignaling(201, time.Second)
	c.ObserveSignaling(502, time.Second)
	c.ObserveSignaling(201, time.Second)

	if got := testutil.ToFloat64(c.signaling.total.WithLabelValues("201")); got != 2 {
		t.Errorf("201 count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.signaling.total.WithLabelValues("502")); got != 1 {
		t.Errorf("502 count = %v, want 1", got)
	}
}

func TestCollector_StoreMetrics(t *testing.T) {
	c := testCollector(true)
	c.RecordConfigWrite("success")
	c.RecordConfigWrite("error")
	c.RecordExternalChange()
	c.RecordBackup(nil)
	c.RecordBackup(errors.New("disk full"))

	if got := testutil.ToFloat64(c.store.writesTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("write errors = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.store.externalChanges); got != 1 {
		t.Errorf("external changes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.store.backupsTotal.WithLabelValues("success")); got != 1 {
		t.Errorf("backups = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.store.lastBackup); got == 0 {
		t.Error("last backup timestamp not set")
	}
}

func TestCollector_Disabled(t *testing.T) {
	c := testCollector(false)

	c.ObserveIssuance("targetai", "success", time.Millisecond)
	c.ObserveSignaling(200, time.Millisecond)
	c.RecordHTTPRequest("GET", "/health", 200, time.Millisecond)
	c.RecordConfigWrite("success")
	c.RecordExternalChange()
	c.RecordBackup(nil)

	families, err := c.Registry().Gather()
	if err != nil {
		t.Fatal(err)
	}
	if len(families) != 0 {
		t.Errorf("disabled collector registered %d families", len(families))
	}
}

func TestCollector_Handler(t *testing.T) {
	c := testCollector(true)
	c.RecordHTTPRequest("POST", "/connectionDetails", 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	want := `test_http_requests_total{code="200",method="POST",route="/connectionDetails"} 1`
	if !strings.Contains(string(body), want) {
		t.Errorf("scrape output missing %q:\n%s", want, body)
	}
}

func TestNewCollector_DefaultRegistry(t *testing.T) {
	c := NewCollector(&config.MetricsConfig{Enabled: true}, nil)
	c.ObserveIssuance("livekit", "success", time.Millisecond)

	families, err := c.Registry().Gather()
	if err != nil {
		t.Fatal(err)
	}

	var sawGo, sawOwn bool
	for _, f := range families {
		switch {
		case strings.HasPrefix(f.GetName(), "go_"):
			sawGo = true
		case f.GetName() == DefaultNamespace+"_issuance_total":
			sawOwn = true
		}
	}
	if !sawGo || !sawOwn {
		t.Errorf("runtime collectors = %v, issuance family = %v", sawGo, sawOwn)
	}
}
