// Package database provides SQLite-based persistence for compiled audits.
//
// Saved audits power the compare command: keeping each audit run lets the
// tool diff a new audit against a previous one for the same site and
// report which findings appeared, which were resolved, and how page scores
// moved.
package database
