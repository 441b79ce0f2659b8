package errors

import "fmt"

// ParseError wraps a specific error with context about where it occurred.
type ParseError struct {
	Line   int
	Record []string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at line %d: %v (record: %v)", e.Line, e.Err, e.Record)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Demand input errors
var (
	ErrInvalidFieldCount = fmt.Errorf("invalid field count")
	ErrInvalidInterval   = fmt.Errorf("invalid interval")
	ErrIntervalMismatch  = fmt.Errorf("interval is not a half-hour boundary")
	ErrDuplicateInterval = fmt.Errorf("duplicate interval")
	ErrMissingInterval   = fmt.Errorf("missing interval")
	ErrDayMismatch       = fmt.Errorf("day columns do not match Sunday..Saturday")
	ErrInvalidCallsValue = fmt.Errorf("invalid calls offered value")
	ErrInvalidAHTValue   = fmt.Errorf("invalid handling time value")
	ErrEmptyDemand       = fmt.Errorf("empty demand input")
)

// Sweep precondition errors
var (
	ErrInvalidGrid          = fmt.Errorf("invalid demand grid")
	ErrInvalidAxisValue     = fmt.Errorf("invalid scenario axis value")
	ErrMissingHandlingTimes = fmt.Errorf("per-cell handling time mode requires a handling time table")
	ErrInvalidWorkingHours  = fmt.Errorf("working hours per day must be positive")
	ErrInvalidWorkingDays   = fmt.Errorf("working days per week must be positive")
	ErrNilOracle            = fmt.Errorf("staffing oracle is required")
	ErrInvalidDay           = fmt.Errorf("requirement day out of range")
)
