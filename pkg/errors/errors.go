// Package errors provides structured error reporting for reel.
//
// Configuration mistakes are returned to callers as *ReelError values.
// Failures that happen inside the frame loop, where there is no caller to
// return to, are sent to a process-wide [ErrorHandler] instead.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConfig indicates an invalid sheet descriptor or option.
	KindConfig
	// KindRange indicates a frame index outside the sheet.
	KindRange
	// KindPart indicates a lookup of an undefined named part.
	KindPart
	// KindRender indicates a failure while painting a frame.
	KindRender
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindTransport indicates a failure publishing or streaming frame events.
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindRange:
		return "range"
	case KindPart:
		return "part"
	case KindRender:
		return "render"
	case KindPanic:
		return "panic"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// ReelError represents a structured error.
type ReelError struct {
	// Op is the operation that failed (e.g., "sprite.PlayPart").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Part is the named part involved, if any.
	Part string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *ReelError) Error() string {
	if e.Part != "" {
		return fmt.Sprintf("%s [%s] part=%s: %v", e.Op, e.Kind, e.Part, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *ReelError) Unwrap() error {
	return e.Err
}

// New returns a ReelError for op wrapping err.
func New(op string, kind ErrorKind, err error) *ReelError {
	return &ReelError{Op: op, Kind: kind, Err: err}
}

// KindOf returns the kind of the first ReelError in err's chain, or
// KindUnknown.
func KindOf(err error) ErrorKind {
	for err != nil {
		if re, ok := err.(*ReelError); ok {
			return re.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return KindUnknown
		}
		err = u.Unwrap()
	}
	return KindUnknown
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "animation.Ticker").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported from the frame loop.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *ReelError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
