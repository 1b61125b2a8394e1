package channelhandler

import "strings"

// Scope groups routes and nested scopes under a shared prefix. Every route
// inside the scope matches relative to the prefix, and every plug declared
// with Use inside the scope runs for every route reachable under it.
//
// An empty prefix is allowed; such a scope is purely a grouping device for
// sharing plugs.
//
// Example:
//
//	channelhandler.Scope("posts:",
//	    channelhandler.Use(requireAuthor, nil),
//	    channelhandler.Event("update", posts.Update, "update"),
//	    channelhandler.Catchall("comments:*", posts.Comment, "comment"),
//	)
func Scope(prefix string, children ...Node) Node {
	return &scopeDecl{prefix: prefix, children: children}
}

// Use declares a scope-level plug. It applies to every route under the
// enclosing scope (or under the router's top level when declared there),
// regardless of where in the scope it appears; plugs run in declared order.
func Use(fn Plug, options any) Node {
	return &plugDecl{boundPlug{fn: fn, options: options}}
}

type scopeDecl struct {
	prefix   string
	children []Node
}

func (*scopeDecl) node() {}

type plugDecl struct {
	plug boundPlug
}

func (*plugDecl) node() {}

// compiledScope is the immutable dispatch-time form of a scope. The chain of
// plugs accumulated from the root (outermost first) and the full prefix are
// resolved once at build, never per dispatch.
type compiledScope struct {
	prefix   string
	full     string
	chain    []boundPlug
	children []any // *compiledScope | *route, in declaration order
}

// compileScope flattens a scope declaration: Use nodes are collected into
// the scope's plug chain, routes and nested scopes stay children in order.
func compileScope(prefix string, children []Node, parentFull string, parentChain []boundPlug) (*compiledScope, error) {
	cs := &compiledScope{
		prefix: prefix,
		full:   parentFull + prefix,
	}

	chain := make([]boundPlug, len(parentChain), len(parentChain)+len(children))
	copy(chain, parentChain)
	for _, child := range children {
		if p, ok := child.(*plugDecl); ok {
			if p.plug.fn == nil {
				return nil, &BuildError{Scope: cs.full, Reason: "nil plug"}
			}
			chain = append(chain, p.plug)
		}
	}
	cs.chain = chain

	for _, child := range children {
		switch c := child.(type) {
		case *plugDecl:
			// already collected
		case *scopeDecl:
			nested, err := compileScope(c.prefix, c.children, cs.full, cs.chain)
			if err != nil {
				return nil, err
			}
			cs.children = append(cs.children, nested)
		case *route:
			if err := validateRoute(c, cs.full); err != nil {
				return nil, err
			}
			cs.children = append(cs.children, c)
		default:
			return nil, &BuildError{Scope: cs.full, Reason: "unknown node type"}
		}
	}

	if err := checkDuplicates(cs); err != nil {
		return nil, err
	}
	return cs, nil
}

func validateRoute(rt *route, scope string) error {
	switch rt.kind {
	case exactEvent:
		if rt.pattern == "" {
			return &BuildError{Scope: scope, Reason: "empty event pattern"}
		}
		if strings.HasSuffix(rt.pattern, wildcard) {
			return &BuildError{Scope: scope, Pattern: rt.pattern, Reason: "wildcard pattern on exact route; use Catchall"}
		}
		if rt.handler == nil {
			return &BuildError{Scope: scope, Pattern: rt.pattern, Reason: "nil handler"}
		}
	case catchallEvent:
		if !strings.HasSuffix(rt.pattern, wildcard) {
			return &BuildError{Scope: scope, Pattern: rt.pattern, Reason: "catchall pattern must end in " + wildcard}
		}
		if rt.catchall == nil {
			return &BuildError{Scope: scope, Pattern: rt.pattern, Reason: "nil handler"}
		}
		rt.prefix = strings.TrimSuffix(rt.pattern, wildcard)
	case prefixDelegate:
		if rt.pattern == "" {
			return &BuildError{Scope: scope, Reason: "empty delegate prefix"}
		}
		if rt.delegate == nil {
			return &BuildError{Scope: scope, Pattern: rt.pattern, Reason: "nil delegate"}
		}
		rt.prefix = rt.pattern
	case messageExact:
		return &BuildError{Scope: scope, Reason: "message route declared inside the event tree; use Messages"}
	}
	for _, p := range rt.plugs {
		if p.fn == nil {
			return &BuildError{Scope: scope, Pattern: rt.pattern, Reason: "nil plug"}
		}
	}
	return nil
}

// checkDuplicates rejects two routes at the same scope level that can never
// both be reached: identical exact patterns, or identical catchall/delegate
// prefixes. The same pattern at different levels is legal since the prefix
// context differs.
func checkDuplicates(cs *compiledScope) error {
	exact := make(map[string]bool)
	prefixes := make(map[string]bool)
	for _, child := range cs.children {
		rt, ok := child.(*route)
		if !ok {
			continue
		}
		switch rt.kind {
		case exactEvent:
			if exact[rt.pattern] {
				return &BuildError{Scope: cs.full, Pattern: rt.pattern, Reason: "duplicate event pattern"}
			}
			exact[rt.pattern] = true
		case catchallEvent, prefixDelegate:
			prefix := strings.TrimSuffix(rt.pattern, wildcard)
			if prefixes[prefix] {
				return &BuildError{Scope: cs.full, Pattern: rt.pattern, Reason: "duplicate route prefix"}
			}
			prefixes[prefix] = true
		}
	}
	return nil
}

// resolve finds the first matching route for rel, the event relative to the
// prefixes consumed so far. Children are tried in declaration order; a
// nested scope whose prefix matches is entered before later siblings, and if
// it yields no match the walk resumes at the next sibling without re-entering.
func (cs *compiledScope) resolve(rel string) (*route, string, *compiledScope, bool) {
	for _, child := range cs.children {
		switch c := child.(type) {
		case *compiledScope:
			if strings.HasPrefix(rel, c.prefix) {
				if rt, sub, owner, ok := c.resolve(rel[len(c.prefix):]); ok {
					return rt, sub, owner, true
				}
			}
		case *route:
			if sub, ok := c.match(rel); ok {
				return c, sub, cs, true
			}
		}
	}
	return nil, "", nil, false
}
