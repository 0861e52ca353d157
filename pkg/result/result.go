// Package result defines the code-plus-message outcome reported by cycleflow
// operations to whatever renders responses for a caller.
//
// Positive codes are informational outcomes, negative codes are request
// failures. Declared results are plain values and compare with ==.
package result

import "fmt"

// Result is a numeric code with a human-readable message.
type Result struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var (
	// Valid marks a request that passed validation.
	Valid = Declare(1, "Valid")

	// Undeclared is the zero outcome.
	Undeclared = Declare(0, "Undeclared")

	// Exception reports an unexpected failure.
	Exception = Declare(-1, "Something went wrong")
)

// Declare creates a Result.
func Declare(code int, message string) Result {
	return Result{Code: code, Message: message}
}

// IsValid reports whether r is the Valid result.
func (r Result) IsValid() bool {
	return r == Valid
}

// IsFailure reports whether r carries a failure code.
func (r Result) IsFailure() bool {
	return r.Code < 0
}

func (r Result) String() string {
	return fmt.Sprintf("%d: %s", r.Code, r.Message)
}
