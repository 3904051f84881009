// Package config loads, normalizes, and validates booklet configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// BOOKLET_REPERTOIRE. The Config type centralizes every knob the CLI and the
// pipeline need: where the repertoire and spreadsheet live, how ties between
// matching PDFs are broken, and how annotations are drawn onto pages.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
