package pipeline

import (
	"fmt"
	"os"
	"strings"

	"tunegrab/internal/services"
	"tunegrab/internal/services/ytdlp"
)

// Artifact is the final encoded audio file plus its delivery metadata. It is
// consumed exactly once by the transport handoff and deleted with the
// workspace afterwards.
type Artifact struct {
	Path      string
	Title     string
	Uploader  string
	Duration  int
	SizeBytes int64
	Caption   string
}

// Assemble verifies the produced file and packages it for handoff. maxBytes
// of zero disables the size check.
func Assemble(path string, meta ytdlp.Metadata, maxBytes int64) (Artifact, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Artifact{}, services.Wrap(services.ErrIO, "assemble", "verify artifact", "", err)
	}
	if info.Size() == 0 {
		return Artifact{}, services.Wrap(services.ErrTranscodeFailed, "assemble", "verify artifact", fmt.Sprintf("empty file %s", path), nil)
	}
	if maxBytes > 0 && info.Size() > maxBytes {
		return Artifact{}, &services.ArtifactTooLargeError{Limit: maxBytes, Actual: info.Size()}
	}

	return Artifact{
		Path:      path,
		Title:     meta.Title,
		Uploader:  meta.Uploader,
		Duration:  meta.Duration,
		SizeBytes: info.Size(),
		Caption:   Caption(meta.Title, meta.Uploader, meta.Duration),
	}, nil
}

// Caption composes the short text that accompanies the delivered file.
func Caption(title, uploader string, durationSeconds int) string {
	parts := make([]string, 0, 2)
	if title = strings.TrimSpace(title); title != "" {
		parts = append(parts, title)
	}
	if uploader = strings.TrimSpace(uploader); uploader != "" {
		parts = append(parts, uploader)
	}
	caption := strings.Join(parts, " - ")
	if durationSeconds > 0 {
		caption = fmt.Sprintf("%s (%s)", caption, FormatDuration(durationSeconds))
	}
	return caption
}

// FormatDuration renders seconds as m:ss, or h:mm:ss above one hour.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
