// Package record decodes audit record documents produced by the external
// auditing agent into the domain model.
//
// The wire format is JSON with free-text enum fields (page types, lenses,
// priorities). Decoding is lenient about casing and common aliases but
// strict about unknown values: an unrecognized enum or a malformed date is
// reported as a validation error naming the offending field path, never
// silently coerced.
package record
