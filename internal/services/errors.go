package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers for every failure kind the pipeline can surface. Stage code
// wraps its errors with one of these so the orchestrator can classify a
// failure without inspecting strings.
var (
	ErrContentUnavailable = errors.New("content unavailable")
	ErrRetrievalBlocked   = errors.New("retrieval blocked")
	ErrRetrievalFailed    = errors.New("retrieval failed")
	ErrRetrievalTimeout   = errors.New("retrieval timeout")
	ErrTranscodeFailed    = errors.New("transcode failed")
	ErrTranscodeTimeout   = errors.New("transcode timeout")
	ErrStorageFull        = errors.New("storage full")
	ErrIO                 = errors.New("io error")
	ErrDurationExceeded   = errors.New("duration exceeded")
	ErrArtifactTooLarge   = errors.New("artifact too large")
	ErrCancelled          = errors.New("cancelled")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// DurationExceededError reports a probed duration above the configured policy.
// It matches ErrDurationExceeded under errors.Is.
type DurationExceededError struct {
	Limit  int
	Actual int
}

func (e *DurationExceededError) Error() string {
	return fmt.Sprintf("duration exceeded: video is %ds, limit is %ds", e.Actual, e.Limit)
}

func (e *DurationExceededError) Is(target error) bool {
	return target == ErrDurationExceeded
}

// ArtifactTooLargeError reports a produced file above the transport payload
// ceiling. It matches ErrArtifactTooLarge under errors.Is.
type ArtifactTooLargeError struct {
	Limit  int64
	Actual int64
}

func (e *ArtifactTooLargeError) Error() string {
	return fmt.Sprintf("artifact too large: %d bytes, limit is %d bytes", e.Actual, e.Limit)
}

func (e *ArtifactTooLargeError) Is(target error) bool {
	return target == ErrArtifactTooLarge
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
