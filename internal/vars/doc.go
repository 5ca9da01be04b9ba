// Package vars models the -var command-line assignments that drive each
// automation run. An assignment is either a literal, which resolves to the
// same value on every run, or a deferred expression (marked with a "lambda:"
// prefix), which is re-evaluated per run inside a sandboxed HCL evaluation
// context exposing only the run index and a small table of random-number
// functions.
package vars
