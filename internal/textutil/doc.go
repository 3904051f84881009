// Package textutil provides text helpers shared by the spreadsheet and
// resolution stages.
//
// The primary use cases are:
//   - Unicode-aware case-insensitive substring checks for file-name tokens
//   - Sanitizing performer names into safe output file names
//   - Suggesting close header names when a performer cannot be found
package textutil
