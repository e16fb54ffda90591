// Package log provides logging for croaudit with automatic truncation of
// oversized values, built on top of the standard slog package.
//
// Compiled audits carry embedded screenshots as base64 data URIs that run
// to megabytes. A debug line that logs a page or image attribute would
// otherwise dump the whole payload into the terminal or a log file. The
// TruncatingHandler elides data URIs and caps every string attribute at a
// fixed length, even in verbose mode.
//
// # Usage
//
//	// Create a logger
//	logger := log.NewLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Debug("screenshot embedded",
//	    "page", "homepage",
//	    "data_uri", img.DataURI,  // logged as "data:image/png;base64,... (1482133 bytes elided)"
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
