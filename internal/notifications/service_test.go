package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tunegrab/internal/config"
	"tunegrab/internal/notifications"
)

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Notifications.NtfyTopic = ""
	svc := notifications.NewService(&cfg)
	if err := svc.ConversionCompleted(context.Background(), "Example", 1<<20); err != nil {
		t.Fatalf("expected noop notifier to return nil, got %v", err)
	}
}

func TestNtfyServiceSendsHeadersAndBody(t *testing.T) {
	var gotTitle, gotTags, gotPriority, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTitle = r.Header.Get("Title")
		gotTags = r.Header.Get("Tags")
		gotPriority = r.Header.Get("Priority")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)

	err := svc.ConversionFailed(context.Background(), "abc123defgh", errors.New("transcode failed"))
	if err != nil {
		t.Fatalf("ConversionFailed returned error: %v", err)
	}
	if gotTitle != "tunegrab - Error" {
		t.Fatalf("unexpected title %q", gotTitle)
	}
	if gotTags != "tunegrab,error,alert" {
		t.Fatalf("unexpected tags %q", gotTags)
	}
	if gotPriority != "high" {
		t.Fatalf("unexpected priority %q", gotPriority)
	}
	if !strings.Contains(gotBody, "abc123defgh") || !strings.Contains(gotBody, "transcode failed") {
		t.Fatalf("unexpected body %q", gotBody)
	}
}

func TestNtfyServiceSurfacesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Notifications.NtfyTopic = server.URL
	svc := notifications.NewService(&cfg)

	if err := svc.TestNotification(context.Background()); err == nil {
		t.Fatal("expected error for non-2xx response")
	}
}
