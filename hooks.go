package channelhandler

import "time"

// OnDispatchFunc is called after a route is resolved and its plug pipeline
// completes, just before the handler executes.
type OnDispatchFunc func(event, action string)

// OnSuccessFunc is called after the handler completes without error.
type OnSuccessFunc func(event, action string, duration time.Duration)

// OnFailureFunc is called after the handler returns an error.
type OnFailureFunc func(event, action string, err error, duration time.Duration)

// OnHaltFunc is called when a plug halts the pipeline. The halt value is the
// dispatch result; the handler never runs.
type OnHaltFunc func(event, action string, value any)

// OnNoRouteFunc is called when no route matches an event or message. Hooks
// observe only; the no-route error is returned to the caller regardless.
type OnNoRouteFunc func(event string)

// hooks holds all configured hook functions.
type hooks struct {
	onDispatch []OnDispatchFunc
	onSuccess  []OnSuccessFunc
	onFailure  []OnFailureFunc
	onHalt     []OnHaltFunc
	onNoRoute  []OnNoRouteFunc
}

// WithOnDispatch adds a hook called just before the handler executes.
// Multiple hooks are called in order.
//
// Example:
//
//	channelhandler.WithOnDispatch(func(event, action string) {
//	    slog.Info("dispatching", "event", event, "action", action)
//	})
func WithOnDispatch(fn OnDispatchFunc) Option {
	return func(c *config) {
		c.hooks.onDispatch = append(c.hooks.onDispatch, fn)
	}
}

// WithOnSuccess adds a hook called after the handler completes successfully.
// Multiple hooks are called in order.
//
// Example:
//
//	channelhandler.WithOnSuccess(func(event, action string, d time.Duration) {
//	    metrics.Timing("channel.dispatch", d, "action:"+action)
//	})
func WithOnSuccess(fn OnSuccessFunc) Option {
	return func(c *config) {
		c.hooks.onSuccess = append(c.hooks.onSuccess, fn)
	}
}

// WithOnFailure adds a hook called after the handler returns an error.
// Multiple hooks are called in order.
func WithOnFailure(fn OnFailureFunc) Option {
	return func(c *config) {
		c.hooks.onFailure = append(c.hooks.onFailure, fn)
	}
}

// WithOnHalt adds a hook called when a plug halts the pipeline.
// Multiple hooks are called in order.
func WithOnHalt(fn OnHaltFunc) Option {
	return func(c *config) {
		c.hooks.onHalt = append(c.hooks.onHalt, fn)
	}
}

// WithOnNoRoute adds a hook called when no route matches. The hook cannot
// suppress the returned error; it exists for logging and metrics.
func WithOnNoRoute(fn OnNoRouteFunc) Option {
	return func(c *config) {
		c.hooks.onNoRoute = append(c.hooks.onNoRoute, fn)
	}
}

func (h *hooks) dispatch(event, action string) {
	for _, fn := range h.onDispatch {
		fn(event, action)
	}
}

func (h *hooks) success(event, action string, d time.Duration) {
	for _, fn := range h.onSuccess {
		fn(event, action, d)
	}
}

func (h *hooks) failure(event, action string, err error, d time.Duration) {
	for _, fn := range h.onFailure {
		fn(event, action, err, d)
	}
}

func (h *hooks) halt(event, action string, value any) {
	for _, fn := range h.onHalt {
		fn(event, action, value)
	}
}

func (h *hooks) noRoute(event string) {
	for _, fn := range h.onNoRoute {
		fn(event)
	}
}
