// Package config provides configuration structures and utilities for
// croaudit. It defines the main options for compiling audit records,
// report output preferences, and per-site overrides loaded from the
// .croaudit configuration file.
package config
