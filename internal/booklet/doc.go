// Package booklet runs the per-performer pipeline: extract the performer's
// rows from the spreadsheet, resolve each row to a source PDF, assemble the
// annotated booklet and write it to <output_dir>/<performer>.pdf.
//
// Builder.BuildAll processes performers one after another. A failing
// performer does not stop the batch unless [batch] stop_on_error is set;
// every outcome is returned so callers can print a summary. Each build is
// recorded in the run ledger when one is attached.
package booklet
