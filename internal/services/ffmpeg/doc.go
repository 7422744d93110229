// Package ffmpeg wraps the ffmpeg command-line encoder for audio extraction:
// a fixed 128 kbps MP3 target with title and artist tags taken from probed
// metadata.
package ffmpeg
