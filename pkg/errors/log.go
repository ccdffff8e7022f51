package errors

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogHandler is an ErrorHandler that writes structured log events.
type LogHandler struct {
	// Logger receives the events. Nil uses the global zerolog logger.
	Logger *zerolog.Logger
	// Verbose attaches stack traces.
	Verbose bool
}

func (h *LogHandler) logger() *zerolog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return &log.Logger
}

// HandleError logs a ReelError at error level.
func (h *LogHandler) HandleError(err *ReelError) {
	if err == nil {
		return
	}
	ev := h.logger().Error().
		Str("op", err.Op).
		Str("kind", err.Kind.String()).
		Err(err.Err)
	if err.Part != "" {
		ev = ev.Str("part", err.Part)
	}
	if h.Verbose && err.StackTrace != "" {
		ev = ev.Str("stack", err.StackTrace)
	}
	ev.Msg("reel error")
}

// HandlePanic logs a PanicError at error level.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	ev := h.logger().Error().
		Str("op", err.Op).
		Interface("value", err.Value)
	if h.Verbose && err.StackTrace != "" {
		ev = ev.Str("stack", err.StackTrace)
	}
	ev.Msg("reel panic")
}
