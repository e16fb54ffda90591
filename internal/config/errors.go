package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrNoInput is returned when no audit record file is specified.
	ErrNoInput = errors.New("no input specified: provide at least one audit record file")

	// ErrInvalidTopFindings is returned when the top findings count is not
	// positive.
	ErrInvalidTopFindings = errors.New("invalid top findings count: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no concurrent compilations.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidColor is returned when a color override in the config file
	// is not a hex color of the form #rrggbb.
	ErrInvalidColor = errors.New("invalid color override: must be a hex color like #16a34a")

	// ErrUnknownBucket is returned when a color override names a score
	// band that does not exist.
	ErrUnknownBucket = errors.New("unknown score band in color override")
)
