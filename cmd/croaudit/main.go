// Package main provides the entry point for the croaudit CLI.
//
// croaudit compiles structured CRO audit records produced by an auditing
// agent into client-ready reports (HTML, Markdown, plain text, or JSON).
//
// Usage:
//
//	croaudit compile <audit-record.json>
//	croaudit compile --format markdown -o report.md <audit-record.json>
//	croaudit compare <site-url>
//
// See --help for all available options.
package main

// main is the entry point for croaudit.
func main() {
	Execute()
}
