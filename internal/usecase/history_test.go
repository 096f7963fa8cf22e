package usecase

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestEventsWithoutStore(t *testing.T) {
	h := NewHistoryService(nil, "")
	events, err := h.Events(context.Background(), time.Time{}, time.Now(), 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if events == nil || len(events) != 0 {
		t.Fatalf("expected empty slice, got %v", events)
	}
}

func TestPerformanceUnconfigured(t *testing.T) {
	h := NewHistoryService(nil, "")
	summary, err := h.Performance()
	if err != nil || summary != nil {
		t.Fatalf("expected (nil, nil), got %v / %v", summary, err)
	}
}

func TestPerformanceMissingArtifact(t *testing.T) {
	h := NewHistoryService(nil, filepath.Join(t.TempDir(), "missing.json"))
	summary, err := h.Performance()
	if err != nil || summary != nil {
		t.Fatalf("missing artifact should yield (nil, nil), got %v / %v", summary, err)
	}
}

func TestPerformanceLoadsArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	artifact := `{"totalReturn":1.42,"annualReturn":0.18,"sharpe":1.1,"maxDrawdown":-0.22,"finalValue":242000}`
	if err := os.WriteFile(path, []byte(artifact), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	h := NewHistoryService(nil, path)
	summary, err := h.Performance()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary == nil || summary.Sharpe != 1.1 || summary.FinalValue != 242000 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestPerformanceRejectsCorruptArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("write artifact: %v", err)
	}

	h := NewHistoryService(nil, path)
	if _, err := h.Performance(); err == nil {
		t.Fatalf("expected parse error")
	}
}
