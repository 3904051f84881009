// Package preflight provides readiness checks for the inputs and output
// locations a booklet build depends on.
//
// The `booklet doctor` command prints every check; `booklet build` runs the
// same checks first and refuses to start when one fails, so a batch does not
// stop halfway through on a permissions problem.
package preflight
