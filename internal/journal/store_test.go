package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestAppendAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := Record{
		ChatID:    42,
		VideoID:   "abc123defgh",
		Title:     "Example Song",
		Uploader:  "Example Artist",
		Duration:  200,
		SizeBytes: 3 << 20,
		Status:    StatusCompleted,
		CreatedAt: time.Now().Add(-time.Minute).UTC(),
	}
	if _, err := store.Append(ctx, first); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}

	second := Record{
		ChatID:       42,
		VideoID:      "xyz987wvuts",
		Status:       StatusFailed,
		ErrorMessage: "duration exceeded",
	}
	if _, err := store.Append(ctx, second); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}

	records, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].VideoID != "xyz987wvuts" {
		t.Fatalf("expected newest record first, got %q", records[0].VideoID)
	}
	if records[1].Title != "Example Song" || records[1].Uploader != "Example Artist" {
		t.Fatalf("unexpected stored metadata: %+v", records[1])
	}
	if records[0].Status != StatusFailed || records[0].ErrorMessage != "duration exceeded" {
		t.Fatalf("unexpected failure fields: %+v", records[0])
	}
}

func TestRecentLimit(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := store.Append(ctx, Record{ChatID: int64(i), VideoID: "abc123defgh", Status: StatusCompleted}); err != nil {
			t.Fatalf("Append returned error: %v", err)
		}
	}

	records, err := store.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestReopenExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	store, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if _, err := store.Append(ctx, Record{ChatID: 1, VideoID: "abc123defgh", Status: StatusCompleted}); err != nil {
		t.Fatalf("Append returned error: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}

	reopened, err := Open(ctx, path)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer reopened.Close()

	records, err := reopened.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected persisted record after reopen, got %d", len(records))
	}
}
