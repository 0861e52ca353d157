// Package validation provides common validation utilities for the cycleflow library.
package validation

import (
	"reflect"
	"time"

	cferrors "github.com/vnykmshr/cycleflow/pkg/common/errors"
)

// ValidatePositive validates that an integer value is positive (> 0).
// Returns a ValidationError if the value is not positive.
func ValidatePositive(module, field string, value int) error {
	if value <= 0 {
		return cferrors.NewValidationError(module, field, value, "must be positive").
			WithHint("value must be greater than 0")
	}
	return nil
}

// ValidateNonNegative validates that an integer value is non-negative (>= 0).
func ValidateNonNegative(module, field string, value int) error {
	if value < 0 {
		return cferrors.NewValidationError(module, field, value, "cannot be negative").
			WithHint("use 0 or a positive value")
	}
	return nil
}

// ValidatePositiveDuration validates that a duration is strictly positive.
func ValidatePositiveDuration(module, field string, value time.Duration) error {
	if value <= 0 {
		return cferrors.NewValidationError(module, field, value, "must be positive").
			WithHint("use a duration greater than 0")
	}
	return nil
}

// ValidateNotNil validates that a value is not nil. Typed nil pointers,
// funcs, maps, channels and slices stored in an interface count as nil.
func ValidateNotNil(module, field string, value interface{}) error {
	if isNil(value) {
		return cferrors.NewValidationError(module, field, nil, "cannot be nil").
			WithHint("provide a valid " + field)
	}
	return nil
}

// ValidateNotEmpty validates that a string value is not empty.
// Returns a ValidationError if the string is empty.
func ValidateNotEmpty(module, field string, value string) error {
	if value == "" {
		return cferrors.NewValidationError(module, field, value, "cannot be empty").
			WithHint("provide a non-empty " + field)
	}
	return nil
}

func isNil(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Func, reflect.Map, reflect.Chan, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}
