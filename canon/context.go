package canon

import (
	"sort"
	"strconv"
	"strings"
)

// Context maps a namespace prefix to its full URI.
type Context map[string]string

const (
	contextKey = "@context"
	// declarationMarker starts a key that declares a namespace inline, as
	// in {"xmlns:example": "https://ns.example.com/epcis/"}.
	declarationMarker = "xmlns:"
	defaultKey        = "default"
)

// NewContext merges the caller-supplied context with the namespaces the
// event declares itself.
//
// ctx may be a string, an object, an array of either, a Context or nil.
// Bare strings are assigned the synthetic keys default, default2, ... in the
// order they appear. The event's own @context entries are merged after the
// caller's, then its xmlns: declarations: those on the event root override,
// those on nested nodes only fill prefixes not yet declared.
func NewContext(ctx any, event Node) Context {
	c := make(Context)
	defaults := 0
	c.merge(ctx, &defaults)
	if event != nil {
		if inline, ok := event[contextKey]; ok {
			c.merge(inline, &defaults)
		}
		c.declare(event, true)
	}
	return c
}

func (c Context) merge(v any, defaults *int) {
	switch t := v.(type) {
	case nil:
	case Context:
		for k, uri := range t {
			c[k] = uri
		}
	case string:
		*defaults++
		key := defaultKey
		if *defaults > 1 {
			key += strconv.Itoa(*defaults)
		}
		c[key] = t
	default:
		if n, ok := asNode(t); ok {
			for _, k := range sortedKeys(n) {
				if uri, ok := n[k].(string); ok {
					c[k] = uri
				}
			}
			return
		}
		if list, ok := asList(t); ok {
			for _, item := range list {
				c.merge(item, defaults)
			}
		}
	}
}

// declare collects xmlns: declarations from n and its descendants.
func (c Context) declare(n Node, root bool) {
	keys := sortedKeys(n)
	for _, k := range keys {
		prefix, ok := strings.CutPrefix(k, declarationMarker)
		if !ok || prefix == "" {
			continue
		}
		uri, ok := n[k].(string)
		if !ok {
			continue
		}
		if _, exists := c[prefix]; exists && !root {
			continue
		}
		c[prefix] = uri
	}
	for _, k := range keys {
		if k == contextKey {
			continue
		}
		switch child := n[k].(type) {
		case map[string]any:
			c.declare(child, false)
		case []any:
			for _, item := range child {
				if cn, ok := item.(map[string]any); ok {
					c.declare(cn, false)
				}
			}
		}
	}
}

// resolve returns the namespace URI bound to prefix.
func (c Context) resolve(prefix string) (string, bool) {
	uri, ok := c[prefix]
	return uri, ok
}

func isDeclaration(key string) bool {
	return key == "xmlns" || strings.HasPrefix(key, declarationMarker)
}

func sortedKeys(n Node) []string {
	keys := make([]string, 0, len(n))
	for k := range n {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
