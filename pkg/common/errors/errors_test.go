package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestCommonErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"ErrClosed", ErrClosed, "resource is closed"},
		{"ErrTimeout", ErrTimeout, "operation timed out"},
		{"ErrInvalidConfiguration", ErrInvalidConfiguration, "invalid configuration"},
		{"ErrInvalidCommand", ErrInvalidCommand, "invalid worker command"},
		{"ErrAlreadyStarted", ErrAlreadyStarted, "already started"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "without hint",
			err: &ValidationError{
				Module: "workerpool",
				Field:  "workerCount",
				Value:  -1,
				Reason: "must be positive",
			},
			want: "workerpool: invalid workerCount=-1 (must be positive)",
		},
		{
			name: "with hint",
			err: &ValidationError{
				Module: "cycle",
				Field:  "period",
				Value:  0,
				Reason: "must be positive",
				Hint:   "use a value greater than 0",
			},
			want: "cycle: invalid period=0 (must be positive) - use a value greater than 0",
		},
		{
			name: "string value",
			err: &ValidationError{
				Module: "workerpool",
				Field:  "name",
				Value:  "",
				Reason: "cannot be empty",
			},
			want: "workerpool: invalid name= (cannot be empty)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidationError_Unwrap(t *testing.T) {
	verr := NewValidationError("test", "field", 0, "test")

	if !errors.Is(verr, ErrInvalidConfiguration) {
		t.Error("ValidationError should wrap ErrInvalidConfiguration")
	}
}

func TestValidationError_WithHint(t *testing.T) {
	err := NewValidationError("module", "field", -1, "must be positive")
	result := err.WithHint("try using a positive value")

	if result != err {
		t.Error("WithHint should return the same instance")
	}
	if err.Hint != "try using a positive value" {
		t.Errorf("Hint = %q, want %q", err.Hint, "try using a positive value")
	}
}

func TestOperationError(t *testing.T) {
	cause := errors.New("queue closed")
	err := NewOperationError("workerpool", "Submit", cause)

	if got, want := err.Error(), "workerpool.Submit failed: queue closed"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, cause) {
		t.Error("OperationError should unwrap to its cause")
	}

	err.WithContext("pool shutting down")
	if got, want := err.Error(), "workerpool.Submit failed: queue closed (pool shutting down)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(fmt.Errorf("wrapped: %w", ErrTimeout)) {
		t.Error("wrapped ErrTimeout should be retryable")
	}
	if IsRetryable(ErrClosed) {
		t.Error("ErrClosed should not be retryable")
	}
}

func TestIsValidationError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"validation error", NewValidationError("m", "f", 1, "r"), true},
		{"wrapped validation error", fmt.Errorf("ctx: %w", NewValidationError("m", "f", 1, "r")), true},
		{"plain error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidationError(tt.err); got != tt.want {
				t.Errorf("IsValidationError() = %v, want %v", got, tt.want)
			}
		})
	}
}
