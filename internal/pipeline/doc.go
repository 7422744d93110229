// Package pipeline sequences the download-convert-deliver flow for one chat
// request: classify the link, probe metadata, enforce the duration policy,
// fetch the raw audio stream, transcode to tagged MP3, verify and package the
// result, and hand it to the transport. The orchestrator owns the progress
// state machine and maps every failure to one user-facing message; the
// workspace release runs on every exit path.
package pipeline
