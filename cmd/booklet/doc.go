// Package main hosts the booklet CLI entrypoint and command graph.
//
// The Cobra-based command tree resolves configuration once (config file,
// environment, then --csv/--folder/--output flags), wires the booklet builder
// with the pdfcpu engine and the run ledger, and renders results as tables,
// JSON or YAML on stdout. Logs go to stderr and the state directory.
package main
