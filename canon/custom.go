package canon

import (
	"fmt"
	"sort"
	"strings"
)

// textKey marks the text content of an element converted from XML; it
// renders as "=<value>" with no key.
const textKey = "#text"

// custom serializes an extension field. A prefixed key (prefix:local) is
// rendered as {namespace-uri}local. Nested nodes render their children
// sorted after the parent's key; list elements each render as a separate
// entry and are sorted together.
func (w *walk) custom(key string, v any, path string) (string, bool, error) {
	if v == nil || isDeclaration(key) {
		return "", false, nil
	}
	rendered, ok, err := w.renderKey(key, path)
	if err != nil || !ok {
		return "", false, err
	}

	if n, isNode := asNode(v); isNode {
		parts, err := w.customFields(n, path)
		if err != nil {
			return "", false, err
		}
		return rendered + strings.Join(parts, ""), true, nil
	}

	if list, isList := asList(v); isList {
		parts := make([]string, 0, len(list))
		for i, el := range list {
			s, ok, err := w.custom(key, el, indexPath(path, i))
			if err != nil {
				return "", false, err
			}
			if ok {
				parts = append(parts, s)
			}
		}
		if len(parts) == 0 {
			return "", false, nil
		}
		sort.Strings(parts)
		return strings.Join(parts, ""), true, nil
	}

	s, ok := scalarText(v, w.strict)
	if !ok {
		return "", false, w.shapeError(path, fmt.Sprintf("unsupported value of type %T", v))
	}
	return rendered + "=" + s, true, nil
}

// customFields serializes every key of n as an extension field and returns
// the results in byte order.
func (w *walk) customFields(n Node, path string) ([]string, error) {
	parts := make([]string, 0, len(n))
	for _, k := range sortedKeys(n) {
		s, ok, err := w.custom(k, n[k], joinPath(path, k))
		if err != nil {
			return nil, err
		}
		if ok {
			parts = append(parts, s)
		}
	}
	sort.Strings(parts)
	return parts, nil
}

// renderKey resolves the namespace prefix of key. Unprefixed keys and
// absolute IRIs render verbatim. An undeclared prefix is an error in strict
// mode; in lenient mode the field is dropped (ok == false).
func (w *walk) renderKey(key, path string) (string, bool, error) {
	if key == textKey {
		return "", true, nil
	}
	prefix, local, ok := strings.Cut(key, ":")
	if !ok || prefix == "" || strings.HasPrefix(local, "//") {
		return key, true, nil
	}
	uri, found := w.ns.resolve(prefix)
	if !found {
		if w.strict {
			return "", false, newError(KindNamespace, RuleUnresolvedPrefix, path,
				fmt.Sprintf("namespace prefix %q is not declared in the context", prefix))
		}
		return "", false, nil
	}
	return "{" + uri + "}" + local, true, nil
}
