package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCollector_RecordsAndExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordScanCycle(50 * time.Millisecond)
	c.RecordReminderEmitted("urgent")
	c.RecordReminderEmitted("info")
	c.RecordReminderEmitted("info")
	c.RecordDateParseFailure()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()

	Handler(reg).ServeHTTP(w, req)

	if w.Result().StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Result().StatusCode, http.StatusOK)
	}

	body := w.Body.String()

	wantLines := []string{
		"mediwatch_scan_cycles_total 1",
		`mediwatch_reminders_emitted_total{urgency="urgent"} 1`,
		`mediwatch_reminders_emitted_total{urgency="info"} 2`,
		"mediwatch_refill_date_parse_failures_total 1",
	}
	for _, line := range wantLines {
		if !strings.Contains(body, line) {
			t.Errorf("metrics output missing %q", line)
		}
	}

	if !strings.Contains(body, "mediwatch_scan_duration_seconds") {
		t.Error("metrics output missing scan duration histogram")
	}
}

func TestNewCollector_RegistersAllMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg)

	// 二重登録はMustRegisterがpanicするため、登録済みであることの検証になる
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	NewCollector(reg)
}
