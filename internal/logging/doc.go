// Package logging assembles structured slog loggers and formatting helpers
// used across tunegrab components.
//
// It centralizes level and output plumbing, selects console or JSON output
// based on the session (console when stdout is a terminal), and provides a
// no-op logger for tests and wiring code that cannot fail. The progress
// sampler suppresses repetitive download progress records so log files stay
// readable during long fetches.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same shape.
package logging
