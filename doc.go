// Package channelhandler provides an event-dispatch core for pub/sub channel
// abstractions.
//
// Given an incoming named event (a string) or an out-of-band message (an
// arbitrary value), the router selects exactly one registered handler, runs
// an ordered chain of middleware ("plugs") in front of it, and invokes the
// handler with a request-scoped Context. Everything about the transport —
// socket lifecycle, join negotiation, wire encoding — stays with external
// collaborators; this package only routes.
//
// # Quick Start
//
// Declare routes and build a router:
//
//	posts := &PostHandler{store: store}
//
//	router, err := channelhandler.New(
//	    channelhandler.Routes(
//	        channelhandler.Event("create", posts.Create, "create"),
//	        channelhandler.Scope("posts:",
//	            channelhandler.Use(requireAuthor, nil),
//	            channelhandler.Event("update", posts.Update, "update"),
//	        ),
//	    ),
//	)
//	if err != nil {
//	    return err
//	}
//
//	// Dispatch events
//	result, err := router.Dispatch("posts:update", payload, socket)
//
// # Design Philosophy
//
// The package separates concerns into three layers:
//
//   - Routes: Declarative match rules assembled once into an immutable table
//   - Router: Resolves events to routes, runs plugs, invokes handlers
//   - Handlers: Business logic receiving a per-dispatch Context
//
// This separation allows:
//   - Transport-agnostic handler code
//   - Middleware shared across whole scopes of routes
//   - Consistent observability via hooks
//   - Race-free concurrent dispatch without locks
//
// # Routes and Scopes
//
// Three event route kinds exist, matched in declaration order with the first
// match winning — declaration order is the sole tie-break, there is no
// longest-prefix preference:
//
//	channelhandler.Event("create", h.Create, "create")        // exact match
//	channelhandler.Catchall("comments:*", h.Comment, "comment") // prefix + sub-event
//	channelhandler.DelegateTo("admin:", adminHandler)           // forward to HandleIn
//
// Scopes group routes under a shared prefix and may nest; a scope's
// effective prefix is the concatenation of all ancestor prefixes, resolved
// once when the router is built. A scope whose prefix matches is entered
// before later siblings; if nothing inside matches, the walk resumes at the
// next sibling.
//
// The Context passed to handlers records both views of the path: FullEvent
// is the entire original event including every scope prefix, Event is the
// portion local to the matched route.
//
// # Plugs
//
// A plug observes or transforms the in-flight transport/payload/Context
// triple, or halts the pipeline:
//
//	func requireAuthor(transport, payload any, ctx channelhandler.Context, options any) channelhandler.Outcome {
//	    if !isAuthor(transport) {
//	        return channelhandler.Halt("forbidden")
//	    }
//	    return channelhandler.Continue(transport, payload, ctx)
//	}
//
// Scope plugs (declared with Use) run for every route under their scope,
// outermost scope first. Handler-local plugs (attached with WithPlug or
// WithGuardedPlug) run after all scope plugs, and guarded plugs fire only
// when their Guard accepts the resolved event/action:
//
//	channelhandler.Event("update", h.Update, "update",
//	    channelhandler.WithGuardedPlug(audit, nil, channelhandler.WhenAction("update")),
//	)
//
// A halt prevents the handler from running; the halt value becomes the
// dispatch result with a nil error.
//
// # Message Routes
//
// Out-of-band messages bypass the scope tree entirely and match against a
// flat route list by structural equality or JSON field matchers:
//
//	channelhandler.Messages(
//	    channelhandler.Message(channelhandler.Exactly("refresh"), onRefresh, "refresh"),
//	    channelhandler.Message(channelhandler.And(
//	        channelhandler.HasFields("kind"),
//	        channelhandler.FieldEquals("kind", "presence"),
//	    ), onPresence, "presence"),
//	)
//
// The JSON matchers accept string, []byte, and json.RawMessage values and
// use gjson path syntax for nested fields.
//
// # Hooks
//
// Hooks provide observability without coupling to specific logging or
// metrics systems. Use functional options to configure hooks:
//
//	router, err := channelhandler.New(
//	    channelhandler.Routes(...),
//	    channelhandler.WithOnSuccess(func(event, action string, d time.Duration) {
//	        metrics.Timing("channel.dispatch", d, "action:"+action)
//	    }),
//	    channelhandler.WithOnFailure(func(event, action string, err error, d time.Duration) {
//	        slog.Error("handler failed", "event", event, "error", err)
//	    }),
//	)
//
// Available hooks:
//   - WithOnDispatch: Called just before the handler executes
//   - WithOnSuccess: Called after the handler succeeds
//   - WithOnFailure: Called after the handler fails
//   - WithOnHalt: Called when a plug halts the pipeline
//   - WithOnNoRoute: Called when no route matches
//
// Multiple hooks of the same type are called in order.
//
// # Error Handling
//
// Dispatch distinguishes three terminal states:
//
//   - No route matched: *NoRouteError (events) or *NoMessageRouteError
//     (messages), always returned, never swallowed
//   - Pipeline halted: the halt value with a nil error — a deliberate
//     short-circuit, not a failure
//   - Handler or plug failure: the handler's error, propagated unchanged
//     with no catching, wrapping, or retrying
//
// Malformed route tables — duplicate patterns at one scope level, wildcard
// patterns on exact routes, missing handlers — are build-time errors: New
// returns a *BuildError before any dispatch can occur.
//
// # Thread Safety
//
// A Router is immutable after New returns. Any number of dispatches may run
// concurrently; Context, payload, and pipeline state are per-call and never
// shared. The router imposes no ordering across concurrent dispatches, only
// within a single call's plug chain.
package channelhandler
