// Package pipeline orchestrates the compilation of audit records into
// reports. A pipeline runs a fixed sequence of steps against a job: decode
// the input file, sanitize narrative text, compile the aggregates, render
// the report, and save the audit for later comparison.
//
// The BatchProcessor runs one pipeline per input file with a bounded number
// of concurrent compilations, so a directory of audit records can be
// compiled in a single invocation.
package pipeline
