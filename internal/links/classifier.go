// Package links recognizes YouTube link shapes inside free-form chat text and
// normalizes them into a canonical video reference.
package links

import (
	"errors"
	"regexp"
)

// Ref is the canonical form of a recognized video link. Classifying the
// canonical URL reproduces the identical Ref.
type Ref struct {
	VideoID string
	URL     string
}

var (
	// ErrNotAURL means the text contains no recognizable YouTube link at all.
	// It is not a failure; the message is simply not a conversion request.
	ErrNotAURL = errors.New("not a youtube url")

	// ErrUnsupportedLink means the text points at YouTube but not at a single
	// video (playlist, channel, handle, or the site root).
	ErrUnsupportedLink = errors.New("unsupported youtube link")
)

// Video IDs are 11 characters drawn from the base64url alphabet.
var idPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:https?://)?(?:www\.|m\.)?youtube\.com/watch\?(?:[^\s]*?&)?v=([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtu\.be/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`(?:https?://)?(?:www\.|m\.)?youtube\.com/embed/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`(?:https?://)?(?:www\.|m\.)?youtube\.com/shorts/([A-Za-z0-9_-]{11})`),
}

var hostPattern = regexp.MustCompile(`(?:https?://)?(?:www\.|m\.)?(?:youtube\.com|youtu\.be)(?:/\S*)?`)

// Classify scans text for a supported YouTube link and returns its canonical
// reference. ErrNotAURL is returned when no YouTube link is present;
// ErrUnsupportedLink when a YouTube link is present but does not address a
// single video.
func Classify(text string) (Ref, error) {
	for _, pattern := range idPatterns {
		if match := pattern.FindStringSubmatch(text); match != nil {
			id := match[1]
			return Ref{VideoID: id, URL: Canonical(id)}, nil
		}
	}
	if hostPattern.MatchString(text) {
		return Ref{}, ErrUnsupportedLink
	}
	return Ref{}, ErrNotAURL
}

// Canonical returns the normalized watch URL for a video ID.
func Canonical(videoID string) string {
	return "https://www.youtube.com/watch?v=" + videoID
}
