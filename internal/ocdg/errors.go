package ocdg

import (
	"errors"
	"fmt"
)

// IntegrityError reports a log inconsistency detected during a build.
//
// Integrity errors are fatal: later phases depend on ingestion having seen
// every object, so Build aborts and returns no graph.
type IntegrityError struct {
	// Code identifies the error category.
	Code IntegrityErrorCode

	// Message is a human-readable description.
	Message string

	// Object is the offending object id.
	Object ObjectID

	// Event is the event being processed, when known.
	Event EventID

	// HasEvent reports whether Event is set.
	HasEvent bool
}

// IntegrityErrorCode categorizes integrity errors.
type IntegrityErrorCode string

const (
	// ErrCodeUnknownObject indicates an event references an undeclared object.
	ErrCodeUnknownObject IntegrityErrorCode = "UNKNOWN_OBJECT"

	// ErrCodeMissingLifeline indicates a lifeline lookup for an unregistered object.
	ErrCodeMissingLifeline IntegrityErrorCode = "MISSING_LIFELINE"

	// ErrCodeMissingNode indicates an edge endpoint has no node.
	ErrCodeMissingNode IntegrityErrorCode = "MISSING_NODE"

	// ErrCodeUnknownEvent indicates a random-access lookup for an event the log does not hold.
	ErrCodeUnknownEvent IntegrityErrorCode = "UNKNOWN_EVENT"
)

// Error implements the error interface.
func (e *IntegrityError) Error() string {
	if e.HasEvent {
		return fmt.Sprintf("%s: %s (object=%d, event=%d)", e.Code, e.Message, e.Object, e.Event)
	}
	return fmt.Sprintf("%s: %s (object=%d)", e.Code, e.Message, e.Object)
}

// IsIntegrityError returns true if err is or wraps an *IntegrityError.
func IsIntegrityError(err error) bool {
	var ie *IntegrityError
	return errors.As(err, &ie)
}

// IntegrityCode returns the code of a wrapped *IntegrityError, or "".
func IntegrityCode(err error) IntegrityErrorCode {
	var ie *IntegrityError
	if errors.As(err, &ie) {
		return ie.Code
	}
	return ""
}

func newUnknownObjectError(oid ObjectID, eid EventID) *IntegrityError {
	return &IntegrityError{
		Code:     ErrCodeUnknownObject,
		Message:  "event references an object that was never declared",
		Object:   oid,
		Event:    eid,
		HasEvent: true,
	}
}

func newMissingLifelineError(oid ObjectID) *IntegrityError {
	return &IntegrityError{
		Code:    ErrCodeMissingLifeline,
		Message: "no lifeline registered for object",
		Object:  oid,
	}
}

func newMissingNodeError(oid ObjectID) *IntegrityError {
	return &IntegrityError{
		Code:    ErrCodeMissingNode,
		Message: "edge endpoint has no node",
		Object:  oid,
	}
}

func newUnknownEventError(oid ObjectID, eid EventID) *IntegrityError {
	return &IntegrityError{
		Code:     ErrCodeUnknownEvent,
		Message:  "lifeline references an event the log cannot resolve",
		Object:   oid,
		Event:    eid,
		HasEvent: true,
	}
}
