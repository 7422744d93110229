package pipeline

import (
	"errors"
	"fmt"

	"tunegrab/internal/links"
	"tunegrab/internal/services"
)

// UserMessage maps a pipeline failure to the single concise message shown to
// the chat user. Internal detail stays in the logs.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, links.ErrUnsupportedLink):
		return "❌ That link points at a playlist or channel. Send a link to a single video."
	case errors.Is(err, services.ErrDurationExceeded):
		var duration *services.DurationExceededError
		if errors.As(err, &duration) {
			return fmt.Sprintf("❌ Video is too long (%d minutes). Maximum allowed duration is %d minutes.",
				duration.Actual/60, duration.Limit/60)
		}
		return "❌ Video exceeds the maximum allowed duration."
	case errors.Is(err, services.ErrArtifactTooLarge):
		var size *services.ArtifactTooLargeError
		if errors.As(err, &size) {
			return fmt.Sprintf("❌ The MP3 is too big to send (%d MiB, limit is %d MiB).",
				size.Actual>>20, size.Limit>>20)
		}
		return "❌ The MP3 is too big to send."
	case errors.Is(err, services.ErrContentUnavailable):
		return "❌ This video is unavailable or private."
	case errors.Is(err, services.ErrRetrievalBlocked):
		return "❌ This video is age-restricted or requires sign-in."
	case errors.Is(err, services.ErrRetrievalTimeout):
		return "❌ The download timed out. Please try again."
	case errors.Is(err, services.ErrStorageFull):
		return "❌ Server storage is full. Please try again later."
	case errors.Is(err, services.ErrTranscodeTimeout):
		return "❌ The conversion timed out. Please try again."
	case errors.Is(err, services.ErrTranscodeFailed):
		return "❌ Could not convert this video to MP3."
	case errors.Is(err, services.ErrCancelled):
		return "❌ The request was cancelled."
	case errors.Is(err, services.ErrRetrievalFailed):
		return "❌ The download failed. Please try again."
	case errors.Is(err, services.ErrIO):
		return "❌ A server error occurred. Please try again later."
	default:
		return "❌ An error occurred while processing the video."
	}
}
