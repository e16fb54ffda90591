// Package compile turns a validated audit record into an aggregated,
// render-ready report: page and site scores, per-lens averages, score and
// priority distributions, ranked top findings, and the partitioned action
// plan.
//
// Compilation is a pure transformation. It performs no I/O, reads no clocks
// or environment, and holds no global state, so compiling the same record
// with the same options twice yields identical results.
package compile
