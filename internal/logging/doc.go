// Package logging assembles structured slog loggers and formatting helpers used
// across the recorder.
//
// It owns the console/JSON handlers, routes diagnostics to stderr (stdout is
// left alone because the launcher may capture it), and injects the recording
// session ID into every record. The package also provides a no-op logger for
// tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same field names.
package logging
