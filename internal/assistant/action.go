// Package assistant implements the conversational command-execution core:
// the action registry, the per-entity action handlers, the conversation
// router, and the entity mention linker.
package assistant

import (
	"context"
	"errors"
	"fmt"

	appErrors "github.com/jwalitptl/clinic-assistant/pkg/errors"
)

// FailurePrefix marks every user-visible failure message so callers and
// tests can tell failures from successes by a fixed marker.
const FailurePrefix = "⚠️ "

// Outcome is the structured result of executing an action.
type Outcome struct {
	OK      bool        `json:"ok"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// HandlerFunc executes one action against loosely-typed parameters.
type HandlerFunc func(ctx context.Context, params Params) Outcome

// Action binds a canonical action name and its aliases to a handler.
// Mutating actions are gated on database reachability before dispatch.
type Action struct {
	Name    string
	Aliases []string
	Mutates bool
	Handle  HandlerFunc
}

func ok(format string, args ...interface{}) Outcome {
	return Outcome{OK: true, Message: fmt.Sprintf(format, args...)}
}

func okData(data interface{}, format string, args ...interface{}) Outcome {
	return Outcome{OK: true, Message: fmt.Sprintf(format, args...), Data: data}
}

func fail(format string, args ...interface{}) Outcome {
	return Outcome{OK: false, Message: FailurePrefix + fmt.Sprintf(format, args...)}
}

// outcomeFromErr folds a service error into a user-facing failure
// outcome. AppError messages are shown as-is; anything else becomes a
// generic failure so internals never leak into chat.
func outcomeFromErr(err error, fallback string) Outcome {
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		return fail("%s", appErr.Message)
	}
	return fail("%s", fallback)
}
