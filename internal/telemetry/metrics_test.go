package telemetry

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.UpstreamAttempt("bizproc.workflow.start", "failure")
	m.UpstreamAttempt("bizproc.workflow.start", "failure")
	m.UpstreamAttempt("bizproc.workflow.start", "success")
	m.UpstreamExhausted("crm.deal.update")
	m.Dispatch("forwarded")
	m.FieldUpdate("rejected")

	if got := testutil.ToFloat64(m.upstreamAttempts.WithLabelValues("bizproc.workflow.start", "failure")); got != 2 {
		t.Errorf("failure attempts = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.upstreamAttempts.WithLabelValues("bizproc.workflow.start", "success")); got != 1 {
		t.Errorf("success attempts = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.upstreamExhausted.WithLabelValues("crm.deal.update")); got != 1 {
		t.Errorf("exhausted = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.dispatches.WithLabelValues("forwarded")); got != 1 {
		t.Errorf("dispatches = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.fieldUpdates.WithLabelValues("rejected")); got != 1 {
		t.Errorf("field updates = %v, want 1", got)
	}
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.UpstreamAttempt("x", "success")
	m.UpstreamExhausted("x")
	m.Dispatch("x")
	m.FieldUpdate("x")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger_Formats(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "info", "json").Info("hello", slog.String("k", "v"))
	if !strings.Contains(buf.String(), `"msg":"hello"`) {
		t.Errorf("expected JSON output, got %q", buf.String())
	}

	buf.Reset()
	NewLogger(&buf, "info", "text").Info("hello", slog.String("k", "v"))
	if !strings.Contains(buf.String(), "msg=hello") || !strings.Contains(buf.String(), "k=v") {
		t.Errorf("expected text output, got %q", buf.String())
	}

	buf.Reset()
	NewLogger(&buf, "warn", "json").Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered at warn level, got %q", buf.String())
	}
}
