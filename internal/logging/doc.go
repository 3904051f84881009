// Package logging assembles structured slog loggers and formatting helpers used
// across the booklet pipeline.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so stage code automatically tags
// log lines with the performer, run ID, stage and song being processed. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
package logging
