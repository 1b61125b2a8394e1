package channelhandler

import (
	"encoding/json"
	"reflect"

	"github.com/tidwall/gjson"
)

// MessageMatcher decides whether a message route handles an out-of-band
// message value. Matchers are evaluated in route declaration order; the
// first match wins.
type MessageMatcher interface {
	Match(message any) bool
}

// Exactly returns a matcher testing structural equality against pattern.
func Exactly(pattern any) MessageMatcher {
	return exactly{pattern: pattern}
}

type exactly struct {
	pattern any
}

func (m exactly) Match(message any) bool {
	return reflect.DeepEqual(m.pattern, message)
}

// HasFields returns a matcher for raw JSON messages that matches when all
// paths exist. Paths use gjson syntax, so nested fields like "meta.kind"
// work. Non-JSON messages never match.
func HasFields(paths ...string) MessageMatcher {
	return hasFields{paths: paths}
}

type hasFields struct {
	paths []string
}

func (m hasFields) Match(message any) bool {
	raw, ok := messageBytes(message)
	if !ok {
		return false
	}
	for _, p := range m.paths {
		if !gjson.GetBytes(raw, p).Exists() {
			return false
		}
	}
	return true
}

// FieldEquals returns a matcher for raw JSON messages that matches when the
// path exists and equals the given string value.
func FieldEquals(path, value string) MessageMatcher {
	return fieldEquals{path: path, value: value}
}

type fieldEquals struct {
	path  string
	value string
}

func (m fieldEquals) Match(message any) bool {
	raw, ok := messageBytes(message)
	if !ok {
		return false
	}
	r := gjson.GetBytes(raw, m.path)
	return r.Exists() && r.Type == gjson.String && r.String() == m.value
}

// And returns a matcher that matches when all matchers match.
func And(ms ...MessageMatcher) MessageMatcher {
	return and{ms: ms}
}

type and struct {
	ms []MessageMatcher
}

func (m and) Match(message any) bool {
	for _, matcher := range m.ms {
		if !matcher.Match(message) {
			return false
		}
	}
	return true
}

// Or returns a matcher that matches when any matcher matches.
func Or(ms ...MessageMatcher) MessageMatcher {
	return or{ms: ms}
}

type or struct {
	ms []MessageMatcher
}

func (m or) Match(message any) bool {
	for _, matcher := range m.ms {
		if matcher.Match(message) {
			return true
		}
	}
	return false
}

// messageBytes extracts raw bytes from string-ish message values for the
// JSON matchers, rejecting anything that is not valid JSON.
func messageBytes(message any) ([]byte, bool) {
	var raw []byte
	switch v := message.(type) {
	case []byte:
		raw = v
	case json.RawMessage:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return nil, false
	}
	if !gjson.ValidBytes(raw) {
		return nil, false
	}
	return raw, true
}
