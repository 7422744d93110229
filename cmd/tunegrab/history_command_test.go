package main

import (
	"strings"
	"testing"
	"time"

	"tunegrab/internal/journal"
)

func TestHistoryWithEmptyJournal(t *testing.T) {
	configPath := writeTestConfig(t)

	out, err := runCLI(t, []string{"--config", configPath, "history"})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No conversions recorded yet")
}

func TestRenderHistory(t *testing.T) {
	records := []journal.Record{
		{
			ID:         2,
			ChatID:     10,
			VideoID:    "abc123defgh",
			Title:      "Song",
			Status:     journal.StatusCompleted,
			Duration:   200,
			SizeBytes:  3 << 20,
			FinishedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:           1,
			ChatID:       10,
			VideoID:      "xyz987wvuts",
			Status:       journal.StatusFailed,
			ErrorMessage: "retrieve: download stream: network reset",
			FinishedAt:   time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC),
		},
	}

	rendered := renderHistory(records)
	for _, want := range []string{"abc123defgh", "completed", "3:20", "3.0 MiB", "failed", "network reset"} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("expected rendered history to contain %q:\n%s", want, rendered)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("unexpected truncate result %q", got)
	}
	if got := truncate("a very long title that keeps going", 10); got != "a very ..." {
		t.Fatalf("unexpected truncate result %q", got)
	}
}
