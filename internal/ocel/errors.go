package ocel

import (
	"fmt"

	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Load error codes.
const (
	ErrCodeGeneric           = "E001" // Generic/unknown error
	ErrCodeParseFailed       = "E004" // File could not be parsed
	ErrCodeNotFound          = "E005" // Path not found
	ErrCodeSchema            = "E006" // Document violates the log schema
	ErrCodeDuplicateID       = "E008" // Object or event id declared twice
	ErrCodeUnsupportedFormat = "E009" // Unknown file extension
)

// LoadError represents an error that occurred while loading a log.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// fromCUEError converts a CUE error into a *LoadError carrying the first
// reported position.
func fromCUEError(code string, err error) *LoadError {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: code, Message: err.Error()}
	}
	first := errs[0]
	le := &LoadError{Code: code, Message: first.Error()}
	if positions := errors.Positions(first); len(positions) > 0 {
		le.Pos = positions[0]
	}
	return le
}
