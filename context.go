package channelhandler

import "maps"

// Context is the per-dispatch record threaded through the plug pipeline and
// into the handler. It tracks how the event was matched and carries free-form
// assigns for passing data from plugs to the handler.
//
// Context is a value type. Plugs receive the current Context and return a
// (possibly modified) one; nothing is shared between concurrent dispatches,
// and no plug may retain a Context beyond its own call.
type Context struct {
	// FullEvent is the entire matched path, including every scope prefix
	// consumed on the way to the route.
	FullEvent string

	// Event is the portion of the path local to the matched route: the
	// remainder after stripping the route's own prefix for catchall and
	// delegate routes, and identical to FullEvent's relative form for
	// exact routes.
	Event string

	// Action identifies the handler function selected for this dispatch.
	// It exists so handler-local plug guards can address specific handlers.
	Action string

	// Assigns holds data passed from plugs to the handler.
	Assigns map[string]any
}

// Assign returns a copy of the Context with key set in its assigns. The
// receiver is not modified.
func (c Context) Assign(key string, value any) Context {
	assigns := make(map[string]any, len(c.Assigns)+1)
	maps.Copy(assigns, c.Assigns)
	assigns[key] = value
	c.Assigns = assigns
	return c
}

// Get returns the assign stored under key.
func (c Context) Get(key string) (any, bool) {
	v, ok := c.Assigns[key]
	return v, ok
}
