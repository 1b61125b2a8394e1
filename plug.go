package channelhandler

// Plug is a middleware step run in front of a handler. It receives the
// in-flight transport, payload, and Context along with the options bound at
// registration time, and decides whether the dispatch continues.
//
// A plug returns either Continue with the (possibly transformed) triple, or
// Halt with a terminal value. Halting stops the pipeline immediately; the
// handler is never invoked and the halt value becomes the dispatch result.
//
// Example:
//
//	func ensureRole(transport, payload any, ctx channelhandler.Context, options any) channelhandler.Outcome {
//	    role, _ := options.(string)
//	    if !hasRole(transport, role) {
//	        return channelhandler.Halt("unauthorized")
//	    }
//	    return channelhandler.Continue(transport, payload, ctx.Assign("role", role))
//	}
type Plug func(transport, payload any, ctx Context, options any) Outcome

// Outcome is a plug's continuation decision. Construct one with Continue or
// Halt; the zero value is a continue with zero-valued state and should not
// be returned.
type Outcome struct {
	halted    bool
	value     any
	transport any
	payload   any
	ctx       Context
}

// Continue proceeds to the next plug (or the handler) with the given triple.
func Continue(transport, payload any, ctx Context) Outcome {
	return Outcome{transport: transport, payload: payload, ctx: ctx}
}

// Halt stops the pipeline. The handler is not invoked and value is returned
// as the dispatch result.
func Halt(value any) Outcome {
	return Outcome{halted: true, value: value}
}

// Halted reports whether the outcome stops the pipeline.
func (o Outcome) Halted() bool { return o.halted }

// Value returns the terminal value of a halted outcome.
func (o Outcome) Value() any { return o.value }

// Guard decides whether a handler-local plug fires for a resolved dispatch.
// Guards are pure functions of the local event and action, evaluated once
// while the plug list is assembled; they must not depend on payload contents.
type Guard func(event, action string) bool

// WhenAction returns a Guard accepting dispatches to any of the named actions.
func WhenAction(actions ...string) Guard {
	return func(_, action string) bool {
		for _, a := range actions {
			if a == action {
				return true
			}
		}
		return false
	}
}

// WhenEvent returns a Guard accepting dispatches whose local event equals any
// of the named events.
func WhenEvent(events ...string) Guard {
	return func(event, _ string) bool {
		for _, e := range events {
			if e == event {
				return true
			}
		}
		return false
	}
}

// boundPlug pairs a plug with the options bound at registration time.
type boundPlug struct {
	fn      Plug
	options any
}

// guardedPlug is a handler-local plug with its firing predicate.
type guardedPlug struct {
	boundPlug
	guard Guard
}
