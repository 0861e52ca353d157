// Package command validates inbound worker requests and turns them into
// lifecycle commands.
//
// A request names one of START, STOP, INVOKE, DURATION or STATUS
// (case-insensitive) and, for DURATION, a period such as "30S" or "5m":
// an integer magnitude followed by one unit letter, S, M, H or D.
package command

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	cferrors "github.com/vnykmshr/cycleflow/pkg/common/errors"
	"github.com/vnykmshr/cycleflow/pkg/result"
	"github.com/vnykmshr/cycleflow/pkg/scheduling/lifecycle"
)

// Validation results reported to callers.
var (
	InvalidRequestState  = result.Declare(-200, "Invalid worker state provided")
	MissingRequestState  = result.Declare(-201, "No worker state provided")
	MissingRequestPeriod = result.Declare(-202, "No period value provided")
	InvalidPeriodUnit    = result.Declare(-203, "Invalid period unit provided")
	InvalidRequestPeriod = result.Declare(-204, "Invalid period value provided")
)

// Request is the wire form of a worker command. Nil fields were absent.
type Request struct {
	Request *string `json:"request"`
	Period  *string `json:"period,omitempty"`
}

// Command is a validated request.
type Command struct {
	Kind lifecycle.Command
	// Period is set only for DURATION.
	Period time.Duration
}

func (c Command) String() string {
	if c.Kind == lifecycle.CommandDuration {
		return fmt.Sprintf("%v(%v)", c.Kind, c.Period)
	}
	return c.Kind.String()
}

// ValidationFailure is returned when a request is rejected. Result carries
// the code callers render.
type ValidationFailure struct {
	Result result.Result
	cause  *cferrors.ValidationError
}

func newFailure(r result.Result, field string, value interface{}) *ValidationFailure {
	return &ValidationFailure{
		Result: r,
		cause:  cferrors.NewValidationError("command", field, value, r.Message),
	}
}

func (f *ValidationFailure) Error() string {
	return f.cause.Error()
}

func (f *ValidationFailure) Unwrap() error {
	return f.cause
}

// ResultOf maps an error from this package to the result a caller should
// report. Nil maps to result.Valid and foreign errors to result.Exception.
func ResultOf(err error) result.Result {
	if err == nil {
		return result.Valid
	}
	var failure *ValidationFailure
	if errors.As(err, &failure) {
		return failure.Result
	}
	return result.Exception
}

// New builds a Request from plain strings. An empty period is treated as
// absent.
func New(request, period string) Request {
	r := Request{Request: &request}
	if period != "" {
		r.Period = &period
	}
	return r
}

// Validate checks the request and returns the Command it names.
func (r Request) Validate() (Command, error) {
	if r.Request == nil || strings.TrimSpace(*r.Request) == "" {
		return Command{}, newFailure(MissingRequestState, "request", nil)
	}

	kind, ok := lifecycle.ParseCommand(strings.TrimSpace(*r.Request))
	if !ok {
		return Command{}, newFailure(InvalidRequestState, "request", *r.Request)
	}

	var period string
	if r.Period != nil {
		period = strings.TrimSpace(*r.Period)
	}

	if kind == lifecycle.CommandDuration && period == "" {
		return Command{}, newFailure(MissingRequestPeriod, "period", period)
	}

	cmd := Command{Kind: kind}
	if period == "" {
		return cmd, nil
	}

	d, err := ParsePeriod(period)
	if err != nil {
		return Command{}, err
	}
	if kind == lifecycle.CommandDuration {
		cmd.Period = d
	}
	return cmd, nil
}

// Parse validates a request given as plain strings.
func Parse(request, period string) (Command, error) {
	return New(request, period).Validate()
}

// ParsePeriod parses an integer magnitude followed by a unit letter:
// S seconds, M minutes, H hours, D days, case-insensitive.
func ParsePeriod(s string) (time.Duration, error) {
	if s == "" {
		return 0, newFailure(MissingRequestPeriod, "period", s)
	}
	if len(s) < 2 {
		return 0, newFailure(InvalidRequestPeriod, "period", s)
	}

	last := len(s) - 1
	magnitude, err := strconv.ParseInt(s[:last], 10, 64)
	if err != nil {
		return 0, newFailure(InvalidPeriodUnit, "period", s)
	}

	var unit time.Duration
	switch s[last] {
	case 'S', 's':
		unit = time.Second
	case 'M', 'm':
		unit = time.Minute
	case 'H', 'h':
		unit = time.Hour
	case 'D', 'd':
		unit = 24 * time.Hour
	default:
		return 0, newFailure(InvalidPeriodUnit, "period", s)
	}

	if magnitude <= 0 || magnitude > math.MaxInt64/int64(unit) {
		return 0, newFailure(InvalidRequestPeriod, "period", s)
	}
	return time.Duration(magnitude) * unit, nil
}
