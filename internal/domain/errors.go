package domain

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by a timeline run.
var (
	ErrParse        = errors.New("parse error")
	ErrExpansion    = errors.New("expansion failure")
	ErrGeocode      = errors.New("geocode failure")
	ErrRouting      = errors.New("routing failure")
	ErrWeatherFetch = errors.New("weather fetch failure")
)

// RunError is the single user-facing failure of a run.
// Message is safe to show to end users; Err keeps the underlying cause for logs.
type RunError struct {
	Kind    error
	Message string
	Err     error
}

func NewRunError(kind error, msg string, err error) *RunError {
	return &RunError{Kind: kind, Message: msg, Err: err}
}

func (e *RunError) Error() string {
	if e.Err != nil {
		return e.Kind.Error() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.Error() + ": " + e.Message
}

func (e *RunError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// UserMessage extracts the human-readable message of a run failure.
func UserMessage(err error) string {
	var re *RunError
	if errors.As(err, &re) {
		return re.Message
	}
	return "internal error"
}

// ErrUnrecognizedLink is returned by a link parser that does not handle the link's shape.
var ErrUnrecognizedLink = fmt.Errorf("%w: not a recognized map link", ErrParse)
