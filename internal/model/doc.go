// Package model defines the audit data model: findings, page results,
// the audit report, and the closed enumerations (lens, priority, page type,
// effort, impact, score bucket) used throughout the compiler.
//
// All values are constructed once per audit run by decoding the external
// agent's record and are never mutated after compilation begins.
package model
