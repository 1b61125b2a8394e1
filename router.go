package channelhandler

import (
	"encoding/json"
	"fmt"
	"time"
)

// channelAssign is the assigns key under which the channel identifier set
// with WithChannel is visible to plugs and handlers.
const channelAssign = "channel"

// JoinFunc accepts or rejects a channel join. The returned value and error
// propagate verbatim to the transport layer; this core treats both as opaque.
type JoinFunc func(topic string, payload, transport any) (any, error)

// Router resolves incoming events and out-of-band messages to registered
// handlers, running the applicable plug pipeline in front of each.
//
// Usage:
//  1. Declare routes, scopes, and plugs with Event, Catchall, DelegateTo,
//     Scope, and Use
//  2. Build the router with New
//  3. Dispatch with Dispatch and DispatchMessage
//
// A Router is immutable after New returns and is safe for any number of
// concurrent dispatches without synchronization.
type Router struct {
	root     *compiledScope
	messages []*route
	join     JoinFunc
	channel  string
	hooks    hooks
}

// config collects declarations and hooks during New.
type config struct {
	routes       []Node
	messageNodes []Node
	join         JoinFunc
	channel      string
	hooks        hooks
}

// Option configures a Router during New.
type Option func(*config)

// Routes declares the router's top-level children: routes, scopes, and
// plugs, in the order they should be matched.
//
// Example:
//
//	channelhandler.Routes(
//	    channelhandler.Event("create", posts.Create, "create"),
//	    channelhandler.Scope("posts:",
//	        channelhandler.Event("update", posts.Update, "update"),
//	    ),
//	)
func Routes(children ...Node) Option {
	return func(c *config) {
		c.routes = append(c.routes, children...)
	}
}

// Messages declares the router's out-of-band message routes, matched in
// declaration order independently of the event scope tree.
//
// Example:
//
//	channelhandler.Messages(
//	    channelhandler.Message(channelhandler.Exactly("refresh"), onRefresh, "refresh"),
//	    channelhandler.Message(channelhandler.FieldEquals("kind", "presence"), onPresence, "presence"),
//	)
func Messages(routes ...Node) Option {
	return func(c *config) {
		c.messageNodes = append(c.messageNodes, routes...)
	}
}

// WithJoin registers the channel join callback invoked by Join.
func WithJoin(fn JoinFunc) Option {
	return func(c *config) {
		c.join = fn
	}
}

// WithChannel records a static channel identifier. Every dispatch seeds it
// into the Context assigns under the "channel" key so plugs and handlers can
// introspect which channel they serve.
func WithChannel(name string) Option {
	return func(c *config) {
		c.channel = name
	}
}

// New builds an immutable Router from the given declarations. The route
// table is validated and scope prefixes are concatenated here, before any
// dispatch can occur: duplicate patterns at one scope level, wildcard
// patterns on exact routes, and missing handlers or plugs all fail with a
// *BuildError.
func New(opts ...Option) (*Router, error) {
	c := &config{}
	for _, opt := range opts {
		opt(c)
	}

	root, err := compileScope("", c.routes, "", nil)
	if err != nil {
		return nil, err
	}

	messages, err := compileMessages(c.messageNodes)
	if err != nil {
		return nil, err
	}

	return &Router{
		root:     root,
		messages: messages,
		join:     c.join,
		channel:  c.channel,
		hooks:    c.hooks,
	}, nil
}

func compileMessages(nodes []Node) ([]*route, error) {
	messages := make([]*route, 0, len(nodes))
	for _, n := range nodes {
		rt, ok := n.(*route)
		if !ok || rt.kind != messageExact {
			return nil, &BuildError{Reason: "Messages accepts only Message routes"}
		}
		if rt.matcher == nil {
			return nil, &BuildError{Reason: "nil message matcher"}
		}
		if rt.message == nil {
			return nil, &BuildError{Pattern: rt.action, Reason: "nil message handler"}
		}
		for _, p := range rt.plugs {
			if p.fn == nil {
				return nil, &BuildError{Pattern: rt.action, Reason: "nil plug"}
			}
		}
		messages = append(messages, rt)
	}
	return messages, nil
}

// Dispatch resolves event to a route, runs its plug pipeline, and invokes
// the handler. The handler's result and error are returned verbatim. If a
// plug halts the pipeline, the halt value is returned with a nil error and
// the handler never runs. If nothing matches, Dispatch returns *NoRouteError.
//
// The dispatch flow:
//  1. Walk the scope tree in declaration order; first match wins
//  2. Build a fresh Context recording the full and local event
//  3. Assemble plugs: outer scope plugs first, then guard-accepted
//     handler-local plugs
//  4. Run the pipeline; halt short-circuits the handler
//  5. Invoke the handler with the pipeline's final triple
func (r *Router) Dispatch(event string, payload, transport any) (any, error) {
	rt, sub, owner, ok := r.root.resolve(event)
	if !ok {
		r.hooks.noRoute(event)
		return nil, &NoRouteError{Event: event}
	}

	ctx := r.newContext(event, sub, rt.action)
	plugs := combinePlugs(owner.chain, rt.localPlugs(sub, rt.action))

	out := runPlugs(plugs, transport, payload, ctx)
	if out.halted {
		r.hooks.halt(event, rt.action, out.value)
		return out.value, nil
	}

	r.hooks.dispatch(event, rt.action)

	start := time.Now()
	result, err := invoke(rt, sub, out)
	duration := time.Since(start)

	if err != nil {
		r.hooks.failure(event, rt.action, err, duration)
		return result, err
	}
	r.hooks.success(event, rt.action, duration)
	return result, nil
}

// DispatchMessage resolves an out-of-band message against the flat message
// route list by matcher, in declaration order. No prefixing or scoping
// applies; only the matched route's own guard-accepted plugs run. If nothing
// matches, DispatchMessage returns *NoMessageRouteError.
func (r *Router) DispatchMessage(message, transport any) (any, error) {
	for _, rt := range r.messages {
		if !rt.matcher.Match(message) {
			continue
		}

		event := eventString(message)
		ctx := r.newContext(event, event, rt.action)
		plugs := combinePlugs(nil, rt.localPlugs(event, rt.action))

		out := runPlugs(plugs, transport, message, ctx)
		if out.halted {
			r.hooks.halt(event, rt.action, out.value)
			return out.value, nil
		}

		r.hooks.dispatch(event, rt.action)

		start := time.Now()
		result, err := rt.message(out.payload, out.ctx, out.transport)
		duration := time.Since(start)

		if err != nil {
			r.hooks.failure(event, rt.action, err, duration)
			return result, err
		}
		r.hooks.success(event, rt.action, duration)
		return result, nil
	}

	r.hooks.noRoute(eventString(message))
	return nil, &NoMessageRouteError{Message: message}
}

// Join invokes the registered join callback. Routers built without WithJoin
// accept every join with a nil result.
func (r *Router) Join(topic string, payload, transport any) (any, error) {
	if r.join == nil {
		return nil, nil
	}
	return r.join(topic, payload, transport)
}

func (r *Router) newContext(full, local, action string) Context {
	ctx := Context{
		FullEvent: full,
		Event:     local,
		Action:    action,
		Assigns:   make(map[string]any),
	}
	if r.channel != "" {
		ctx.Assigns[channelAssign] = r.channel
	}
	return ctx
}

// invoke calls the matched route's handler with the pipeline's final triple.
func invoke(rt *route, sub string, out Outcome) (any, error) {
	switch rt.kind {
	case catchallEvent:
		return rt.catchall(sub, out.payload, out.ctx, out.transport)
	case prefixDelegate:
		return rt.delegate.HandleIn(sub, out.payload, out.ctx, out.transport)
	default:
		return rt.handler(out.payload, out.ctx, out.transport)
	}
}

// combinePlugs joins the scope chain and handler-local plugs without
// aliasing the chain, which is shared by every dispatch through that scope.
func combinePlugs(chain, local []boundPlug) []boundPlug {
	if len(local) == 0 {
		return chain
	}
	plugs := make([]boundPlug, 0, len(chain)+len(local))
	plugs = append(plugs, chain...)
	return append(plugs, local...)
}

// eventString renders a message value for Context.Event and hook reporting.
func eventString(message any) string {
	switch v := message.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case json.RawMessage:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
