// Package sheet extracts per-song records for one performer from the
// performance spreadsheet.
//
// The spreadsheet is delimited text (tab-separated by default). Row 0 is the
// header and is only scanned for the performer's column; row 1 carries
// secondary metadata and is skipped; every later row describes one song. Eight
// fixed columns hold the song-wide data and each performer owns a triplet of
// columns starting at their header cell: file-name tokens joined with "|", the
// instrument patch, and a performer-specific end note.
//
// Extraction is all-or-nothing: a structurally broken row for the requested
// performer fails the whole extraction.
package sheet
