// Package errclass carries the error taxonomy shared by the acquisition
// chain, the platform handlers, and the batch orchestrator. Classification
// decides whether a failed strategy may be retried, abandoned, or must
// abort the whole batch.
package errclass

import (
	"errors"
	"fmt"
)

// Kind is the structured category attached to a failure at its origin.
type Kind string

const (
	KindValidation    Kind = "validation"     // malformed input, rejected before any I/O
	KindNetwork       Kind = "network"        // connectivity, timeout, rate limit
	KindAccessBlocked Kind = "access_blocked" // source-side restriction signal
	KindProcessing    Kind = "processing"     // downstream conversion/transcription failure
	KindConfiguration Kind = "configuration"  // batch-wide setup problem
	KindUnknown       Kind = "unknown"
)

// Class is the retry decision derived from a Kind.
type Class int

const (
	Retryable Class = iota
	Permanent
	Fatal
)

func (c Class) String() string {
	switch c {
	case Retryable:
		return "retryable"
	case Permanent:
		return "permanent"
	case Fatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error is the typed failure passed between components. Op names the
// operation that failed (strategy or tool name).
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Msg != "":
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

func Wrap(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func Validation(op, msg string) *Error    { return New(KindValidation, op, msg) }
func Network(op string, err error) *Error { return Wrap(KindNetwork, op, err) }
func AccessBlocked(op, msg string) *Error { return New(KindAccessBlocked, op, msg) }
func Processing(op string, err error) *Error {
	return Wrap(KindProcessing, op, err)
}
func Configuration(op, msg string) *Error {
	return New(KindConfiguration, op, msg)
}

// KindOf returns the structured kind of err, or KindUnknown when no typed
// error is present in the chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Classify maps a failure to its retry class. The structured kind wins
// whenever one is present; raw tool output falls back to text hints.
func Classify(err error) Class {
	if err == nil {
		return Permanent
	}
	switch KindOf(err) {
	case KindNetwork:
		return Retryable
	case KindValidation, KindAccessBlocked, KindProcessing:
		return Permanent
	case KindConfiguration:
		return Fatal
	default:
		if matchesRetryableHint(err.Error()) {
			return Retryable
		}
		return Permanent
	}
}
