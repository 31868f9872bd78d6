package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func findMetric(t *testing.T, reg *prometheus.Registry, name string) []*dto.Metric {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() == name {
			return mf.GetMetric()
		}
	}
	t.Fatalf("%s metric not found", name)
	return nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}

func TestRecordQuizStarted_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordQuizStarted()
	c.RecordQuizStarted()

	m := findMetric(t, reg, "verben_quizzes_started_total")
	if val := m[0].GetCounter().GetValue(); val != 2 {
		t.Errorf("quizzes_started_total = %v, want 2", val)
	}
}

func TestRecordAnswer_SplitsByCorrectness(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAnswer(true)
	c.RecordAnswer(true)
	c.RecordAnswer(false)

	got := map[string]float64{}
	for _, m := range findMetric(t, reg, "verben_answers_total") {
		got[labelValue(m, "correct")] = m.GetCounter().GetValue()
	}
	if got["true"] != 2 || got["false"] != 1 {
		t.Errorf("answers_total = %v, want true=2 false=1", got)
	}
}

func TestRecordQuizFinished_ObservesRatio(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordQuizFinished(7, 10)

	m := findMetric(t, reg, "verben_quiz_score_ratio")
	h := m[0].GetHistogram()
	if h.GetSampleCount() != 1 {
		t.Fatalf("sample count = %d, want 1", h.GetSampleCount())
	}
	if h.GetSampleSum() < 0.69 || h.GetSampleSum() > 0.71 {
		t.Errorf("sample sum = %v, want 0.7", h.GetSampleSum())
	}
}

func TestRecordDroppedUpdate_SplitsByReason(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordDroppedUpdate("rate_limited")
	c.RecordDroppedUpdate("rate_limited")
	c.RecordDroppedUpdate("queue_full")

	got := map[string]float64{}
	for _, m := range findMetric(t, reg, "verben_updates_dropped_total") {
		got[labelValue(m, "reason")] = m.GetCounter().GetValue()
	}
	if got["rate_limited"] != 2 || got["queue_full"] != 1 {
		t.Errorf("updates_dropped_total = %v, want rate_limited=2 queue_full=1", got)
	}
}

func TestSetupMetricsRoute_ServesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordArchive()
	c.RecordDroppedUpdate("rate_limited")

	handler := SetupMetricsRoute(reg)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	body, _ := io.ReadAll(resp.Body)
	for _, name := range []string{"verben_archives_total", "verben_updates_dropped_total"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("response should contain %s", name)
		}
	}
}
