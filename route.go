package channelhandler

import "strings"

// EventHandler handles an exact-match event. The payload and transport are
// the values produced by the plug pipeline; the result and error are
// returned verbatim from Dispatch.
//
// Example:
//
//	func (h *PostHandler) Create(payload any, ctx channelhandler.Context, transport any) (any, error) {
//	    return h.store.Insert(payload)
//	}
type EventHandler func(payload any, ctx Context, transport any) (any, error)

// CatchallHandler handles a catchall event. The first argument is the
// sub-event: the remainder of the path after the route's prefix.
type CatchallHandler func(subEvent string, payload any, ctx Context, transport any) (any, error)

// MessageHandler handles an out-of-band message matched by a message route.
// The message is passed through unmodified.
type MessageHandler func(message any, ctx Context, transport any) (any, error)

// Delegate receives every event matched by a prefix-delegate route through a
// single HandleIn entry point, carrying the stripped sub-event. Dispatching
// within the delegate is the delegate's own responsibility.
type Delegate interface {
	HandleIn(event string, payload any, ctx Context, transport any) (any, error)
}

// DelegateFunc adapts a function to the Delegate interface.
type DelegateFunc func(event string, payload any, ctx Context, transport any) (any, error)

// HandleIn implements the Delegate interface.
func (f DelegateFunc) HandleIn(event string, payload any, ctx Context, transport any) (any, error) {
	return f(event, payload, ctx, transport)
}

// Node is a child of a scope: a route declared with Event, Catchall, or
// Delegate, a nested Scope, or a scope-level plug declared with Use.
type Node interface {
	node()
}

// RouteOption attaches handler-local configuration to a single route.
type RouteOption func(*route)

// WithPlug attaches a handler-local plug to a route. It runs after all scope
// plugs, in declared order, on every dispatch to this route.
func WithPlug(fn Plug, options any) RouteOption {
	return WithGuardedPlug(fn, options, nil)
}

// WithGuardedPlug attaches a handler-local plug that only fires when guard
// accepts the resolved event/action. A nil guard always fires.
func WithGuardedPlug(fn Plug, options any, guard Guard) RouteOption {
	return func(rt *route) {
		rt.plugs = append(rt.plugs, guardedPlug{
			boundPlug: boundPlug{fn: fn, options: options},
			guard:     guard,
		})
	}
}

type routeKind int

const (
	exactEvent routeKind = iota
	catchallEvent
	prefixDelegate
	messageExact
)

// wildcard marks a catchall pattern's trailing match-anything segment.
const wildcard = "*"

type route struct {
	kind     routeKind
	pattern  string // pattern as declared
	prefix   string // matching prefix for catchall/delegate routes, set at build
	action   string
	handler  EventHandler
	catchall CatchallHandler
	delegate Delegate
	message  MessageHandler
	matcher  MessageMatcher
	plugs    []guardedPlug
}

func (*route) node() {}

// Event declares a route matching the local event string exactly. The action
// names the handler for handler-local plug guards; if empty, the pattern is
// used. Patterns must not end in the wildcard marker; use Catchall for
// prefix matching.
func Event(pattern string, h EventHandler, action string, opts ...RouteOption) Node {
	rt := &route{kind: exactEvent, pattern: pattern, action: action, handler: h}
	return buildRoute(rt, opts)
}

// Catchall declares a route whose pattern is a prefix ending in "*", such as
// "comments:*". The remainder after the prefix becomes the sub-event passed
// as the handler's first argument.
func Catchall(pattern string, h CatchallHandler, action string, opts ...RouteOption) Node {
	rt := &route{kind: catchallEvent, pattern: pattern, action: action, catchall: h}
	return buildRoute(rt, opts)
}

// DelegateTo declares a route forwarding every event under prefix to the
// delegate's HandleIn entry point. The prefix is a bare string with no
// wildcard marker; the remainder (possibly empty) is the sub-event, while
// Context.FullEvent still records the entire original path.
func DelegateTo(prefix string, d Delegate, opts ...RouteOption) Node {
	rt := &route{kind: prefixDelegate, pattern: prefix, action: "handle_in", delegate: d}
	return buildRoute(rt, opts)
}

// Message declares an out-of-band message route. Message routes live in a
// flat list outside the scope tree: no prefixing applies, and the first
// route whose matcher accepts the message wins in declaration order.
func Message(m MessageMatcher, h MessageHandler, action string, opts ...RouteOption) Node {
	rt := &route{kind: messageExact, action: action, message: h, matcher: m}
	return buildRoute(rt, opts)
}

func buildRoute(rt *route, opts []RouteOption) *route {
	for _, opt := range opts {
		opt(rt)
	}
	if rt.action == "" {
		rt.action = rt.pattern
	}
	return rt
}

// match tests the route against the event relative to the prefixes already
// consumed by enclosing scopes. For catchall and delegate routes, sub is the
// remainder after the route's own prefix; for exact routes it is rel itself.
func (rt *route) match(rel string) (sub string, ok bool) {
	switch rt.kind {
	case exactEvent:
		if rel == rt.pattern {
			return rel, true
		}
	case catchallEvent, prefixDelegate:
		if strings.HasPrefix(rel, rt.prefix) {
			return rel[len(rt.prefix):], true
		}
	}
	return "", false
}

// localPlugs returns the route's handler-local plugs whose guards accept the
// resolved event/action.
func (rt *route) localPlugs(event, action string) []boundPlug {
	if len(rt.plugs) == 0 {
		return nil
	}
	plugs := make([]boundPlug, 0, len(rt.plugs))
	for _, p := range rt.plugs {
		if p.guard == nil || p.guard(event, action) {
			plugs = append(plugs, p.boundPlug)
		}
	}
	return plugs
}
