package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInputNotFound means the input file does not exist or cannot be opened.
	ErrInputNotFound = errors.New("input not found")
	// ErrInputParse means the input is not a readable table or lacks required columns.
	ErrInputParse = errors.New("input parse error")
	// ErrDateTimeParse means a record's Date and Time do not form a valid instant.
	ErrDateTimeParse = errors.New("date/time parse error")
	// ErrInsufficientData means there is not enough data to fit or evaluate.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrPersistence means an output artifact could not be written.
	ErrPersistence = errors.New("persistence error")
)

// DateTimeParseError reports the record whose Date/Time could not be parsed.
type DateTimeParseError struct {
	Line int
	Date string
	Time string
	Err  error
}

func (e *DateTimeParseError) Error() string {
	return fmt.Sprintf("line %d: parsing datetime %q: %v", e.Line, e.Date+" "+e.Time, e.Err)
}

func (e *DateTimeParseError) Unwrap() error {
	return e.Err
}

// Is matches ErrDateTimeParse.
func (e *DateTimeParseError) Is(target error) bool {
	return target == ErrDateTimeParse
}
