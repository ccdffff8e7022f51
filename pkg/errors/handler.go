package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

// maxStackDepth bounds the frames recorded by CaptureStack.
const maxStackDepth = 32

type handlerHolder struct {
	h ErrorHandler
}

var current atomic.Pointer[handlerHolder]

func init() {
	current.Store(&handlerHolder{h: &LogHandler{}})
}

// SetHandler installs h as the process-wide handler for Report, ReportPanic
// and Recover, and returns the handler it replaced. Nil installs a
// LogHandler on the global zerolog logger.
func SetHandler(h ErrorHandler) ErrorHandler {
	if h == nil {
		h = &LogHandler{}
	}
	return current.Swap(&handlerHolder{h: h}).h
}

// Handler returns the installed handler.
func Handler() ErrorHandler {
	return current.Load().h
}

// Report hands err to the installed handler, stamping it with the current
// time if it has none.
func Report(err *ReelError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleError(err)
}

// ReportPanic hands a recovered panic to the installed handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandlePanic(err)
}

// Recover reports a panic in progress as a PanicError for op. It must be
// deferred directly:
//
//	defer errors.Recover("animation.Dispatch")
func Recover(op string) {
	if r := recover(); r != nil {
		ReportPanic(&PanicError{Op: op, Value: r, StackTrace: CaptureStack()})
	}
}

// Guard runs fn, reporting and absorbing any panic as op. It returns true
// if fn panicked.
func Guard(op string, fn func()) (panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			ReportPanic(&PanicError{Op: op, Value: r, StackTrace: CaptureStack()})
		}
	}()
	fn()
	return false
}

// CaptureStack formats the stack of its caller's caller, one
// "function\n\tfile:line" entry per frame.
func CaptureStack() string {
	var pcs [maxStackDepth]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return ""
	}
	var sb strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for more := true; more; {
		var frame runtime.Frame
		frame, more = frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
	}
	return sb.String()
}
