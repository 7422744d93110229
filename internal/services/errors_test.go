package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestWrapPreservesMarker(t *testing.T) {
	base := fmt.Errorf("exit status 1")
	err := Wrap(ErrTranscodeFailed, "transcode", "run ffmpeg", "non-zero exit", base)
	if !errors.Is(err, ErrTranscodeFailed) {
		t.Fatalf("expected wrapped error to match marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to preserve cause, got %v", err)
	}
	if !strings.Contains(err.Error(), "run ffmpeg") {
		t.Fatalf("expected detail in message, got %q", err.Error())
	}
}

func TestWrapNilMarkerFallsBackToIO(t *testing.T) {
	err := Wrap(nil, "retrieve", "write", "", errors.New("boom"))
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected nil marker to default to ErrIO, got %v", err)
	}
}

func TestDurationExceededErrorMatchesSentinel(t *testing.T) {
	err := error(&DurationExceededError{Limit: 600, Actual: 700})
	if !errors.Is(err, ErrDurationExceeded) {
		t.Fatal("expected DurationExceededError to match ErrDurationExceeded")
	}
	var typed *DurationExceededError
	if !errors.As(err, &typed) {
		t.Fatal("expected errors.As to recover typed error")
	}
	if typed.Limit != 600 || typed.Actual != 700 {
		t.Fatalf("unexpected limit/actual: %d/%d", typed.Limit, typed.Actual)
	}
}

func TestArtifactTooLargeErrorMatchesSentinel(t *testing.T) {
	err := error(&ArtifactTooLargeError{Limit: 1 << 20, Actual: 2 << 20})
	if !errors.Is(err, ErrArtifactTooLarge) {
		t.Fatal("expected ArtifactTooLargeError to match ErrArtifactTooLarge")
	}
	if !strings.Contains(err.Error(), "limit") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
