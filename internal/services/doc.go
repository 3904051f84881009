// Package services defines shared utilities consumed by the booklet pipeline
// stages.
//
// Key responsibilities:
//   - Context helpers that stamp performer names, run identifiers, stages and
//     song labels for logging.
//   - Structured error markers plus the Wrap helper so every fatal condition
//     carries the stage and operation that produced it.
//
// Use these helpers when wiring new stage logic so failures stay classifiable
// (data vs configuration vs I/O) across extraction, resolution and assembly.
package services
