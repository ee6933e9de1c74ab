// Package options provides shared utilities for option validation across packages.
package options

import "github.com/erraggy/oasir/oaserrors"

// ValidateSingleInputSource ensures exactly one input source is specified.
// pkg prefixes the error message (e.g. "loader"); sources reports, per
// candidate source, whether it was set.
func ValidateSingleInputSource(pkg string, sources ...bool) error {
	count := 0
	for _, set := range sources {
		if set {
			count++
		}
	}
	switch {
	case count == 0:
		return &oaserrors.ConfigError{
			Option:  "input",
			Message: pkg + ": must specify an input source (use WithFilePath, WithReader, or WithBytes)",
		}
	case count > 1:
		return &oaserrors.ConfigError{
			Option:  "input",
			Value:   count,
			Message: pkg + ": must specify exactly one input source",
		}
	}
	return nil
}
