// Package validation provides common validation utilities for configuration
// parameters across the cycleflow library.
//
// The helpers return *errors.ValidationError values so constructors report
// rejected arguments in one consistent format.
package validation
