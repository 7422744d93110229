// Package ytdlp wraps the yt-dlp command-line downloader behind a small
// client interface: a metadata-only probe and an audio-stream fetch with
// byte-counter progress reporting. Failures are classified into the shared
// services taxonomy from yt-dlp's stderr surface.
package ytdlp
