package channelhandler

// runPlugs executes plugs strictly left-to-right, threading the
// transport/payload/Context triple through each step. The first halt stops
// the run; no plug is ever skipped.
func runPlugs(plugs []boundPlug, transport, payload any, ctx Context) Outcome {
	for _, p := range plugs {
		out := p.fn(transport, payload, ctx, p.options)
		if out.halted {
			return out
		}
		transport, payload, ctx = out.transport, out.payload, out.ctx
	}
	return Continue(transport, payload, ctx)
}
