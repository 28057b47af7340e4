package sim

import (
	"fmt"
	"log"
)

// LogHookBase provides the common logic for all the hooks that write into a
// logger.
type LogHookBase struct {
	*log.Logger
}

// EventLogger is a hook that prints every element pushed into a buffer, which
// is how simulation events reach a log.
type EventLogger struct {
	LogHookBase
}

// NewEventLogger returns a new EventLogger which will write into the logger.
func NewEventLogger(logger *log.Logger) *EventLogger {
	h := new(EventLogger)
	h.Logger = logger
	return h
}

// Func writes the pushed element into the logger.
func (h *EventLogger) Func(ctx HookCtx) {
	if ctx.Pos != HookPosBufPush {
		return
	}

	if s, ok := ctx.Item.(fmt.Stringer); ok {
		h.Logger.Println(s.String())
		return
	}

	h.Logger.Printf("%+v", ctx.Item)
}
