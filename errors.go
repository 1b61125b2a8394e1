package channelhandler

import "fmt"

// NoRouteError is returned by Dispatch when no route in the table matches
// the event. It is always surfaced to the caller, never retried or swallowed.
type NoRouteError struct {
	Event string
}

func (e *NoRouteError) Error() string {
	return fmt.Sprintf("no route matches event %q", e.Event)
}

// NoMessageRouteError is returned by DispatchMessage when no message route
// matches the message value.
type NoMessageRouteError struct {
	Message any
}

func (e *NoMessageRouteError) Error() string {
	return fmt.Sprintf("no message route matches %v", e.Message)
}

// BuildError reports an invalid route table passed to New. Scope is the full
// prefix of the scope containing the offending declaration ("" for the top
// level); Pattern is set when a specific route is at fault.
type BuildError struct {
	Scope   string
	Pattern string
	Reason  string
}

func (e *BuildError) Error() string {
	msg := "invalid route table"
	if e.Scope != "" {
		msg += fmt.Sprintf(" in scope %q", e.Scope)
	}
	if e.Pattern != "" {
		msg += fmt.Sprintf(", pattern %q", e.Pattern)
	}
	return msg + ": " + e.Reason
}
