// Package resolve decides which PDF file each song contributes to a
// performer's booklet.
//
// For every song record the resolver enumerates the PDFs under
// <root>/<category>/<song folder>/**, then either picks a single donor page
// for songs the performer sits out or matches the performer's file tokens
// against the file names. Tokens match as case-insensitive substrings of the
// base name; a token starting with "^" vetoes any file containing the rest of
// the token. Ties between several qualifying files are broken by a named
// strategy so alternative heuristics can be swapped in without touching the
// matching rules.
package resolve
