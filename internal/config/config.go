package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultFormat is the output format used when none is specified.
	// HTML is the default because the self-contained HTML report is the
	// primary client deliverable.
	DefaultFormat = "html"

	// DefaultTopFindings is the number of site-level top findings shown
	// in a report when not overridden.
	DefaultTopFindings = 5

	// DefaultBatchSize of 4 concurrent compilations balances throughput
	// with memory usage: each compilation may hold several embedded
	// screenshots in memory at once.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "croaudit"
)

// Config holds all configuration options for croaudit.
// This struct is designed to be populated from CLI flags and passed through
// the application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (e.g., CompileConfig, ReportConfig) for simplicity. The number of options
// is manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// InputFiles are the audit record JSON files to compile.
	// Must contain at least one path.
	InputFiles []string

	// Format is the output format name: html, markdown, text, or json.
	Format string

	// OutputFile is the report destination path. When empty the report is
	// written to stdout (single input) or derived from the input file name
	// (batch mode).
	OutputFile string

	// EmbedImages controls whether screenshots are inlined as data URIs.
	EmbedImages bool

	// TopFindings is the number of site-level top findings to show.
	TopFindings int

	// Timestamp is the report generation time in RFC 3339 format. When
	// empty, the current wall-clock time is used. Supplying it makes
	// repeated runs byte-identical.
	Timestamp string

	// BatchSize is the number of concurrent compilations in batch mode.
	BatchSize int

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .croaudit in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds site-specific configurations loaded from the
	// config file. Populated by LoadConfigFile.
	SiteConfigs *File

	// DBDir is the directory path for storing the SQLite database.
	// When set, compiled audits are saved for historical comparison.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether to save compiled audits to the database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases. Users can override specific values after creation.
//
// Design decision: We use a constructor function instead of relying on
// zero values because several defaults are non-zero. This also serves as
// documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Format:      DefaultFormat,
		EmbedImages: true,
		TopFindings: DefaultTopFindings,
		BatchSize:   DefaultBatchSize,
		SaveToDB:    true,
	}
}

// XDGDataDir returns the XDG data directory for croaudit.
// On Linux: ~/.local/share/croaudit
// On macOS: ~/Library/Application Support/croaudit
// On Windows: %LOCALAPPDATA%\croaudit
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for croaudit.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront.
// This is called once after CLI parsing, before any compilation begins.
//
// We return the first error found rather than collecting all errors
// because fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	if len(c.InputFiles) == 0 {
		return ErrNoInput
	}

	// TopFindings must be positive; zero would produce an empty section
	if c.TopFindings <= 0 {
		return ErrInvalidTopFindings
	}

	// BatchSize must be positive; zero would mean no compilation
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	return nil
}
