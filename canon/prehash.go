// Package canon builds the CBV 2.0 event-hash pre-hash string of an EPCIS
// event.
//
// The pre-hash string is a deterministic serialization: ordered fields
// first, in the canonical order of their entity kind, then extension fields
// sorted by their serialized text. Values are normalized on the way so that
// whitespace, timestamp representation, list order and identifier syntax do
// not change the result.
package canon

import (
	"sort"
	"strings"

	"xdao.co/epcis/cbv"
	"xdao.co/epcis/compliance"
)

// Options configures a Builder.
type Options struct {
	// Vocabulary expands CBV short codes. nil means cbv.Default().
	Vocabulary *cbv.Table
	// Mode selects strict (the zero value) or lenient handling of
	// unresolvable namespaces and wrongly shaped values.
	Mode compliance.Mode
	// IncludeErrorDeclaration serializes the event's errorDeclaration.
	// By default it is excluded so that declaring an error does not change
	// the identity of the event.
	IncludeErrorDeclaration bool
}

// Builder produces pre-hash strings. A Builder is immutable and safe for
// concurrent use.
type Builder struct {
	vocab      *cbv.Table
	mode       compliance.Mode
	eventOrder []string
}

// NewBuilder returns a Builder for opts.
func NewBuilder(opts Options) *Builder {
	b := &Builder{vocab: opts.Vocabulary, mode: opts.Mode}
	if b.vocab == nil {
		b.vocab = cbv.Default()
	}
	for _, f := range orders[EntityEvent] {
		if f == "errorDeclaration" && !opts.IncludeErrorDeclaration {
			continue
		}
		b.eventOrder = append(b.eventOrder, f)
	}
	return b
}

// Mode returns the builder's compliance mode.
func (b *Builder) Mode() compliance.Mode { return b.mode }

func (b *Builder) order(e Entity) []string {
	if e == EntityEvent {
		return b.eventOrder
	}
	return orders[e]
}

// PreHash returns the pre-hash string of event under the namespace context
// ctx (see NewContext for accepted shapes).
func (b *Builder) PreHash(event Node, ctx any) (string, error) {
	if event == nil {
		return "", newError(KindInput, RuleNilEvent, "", "event is nil")
	}
	f, err := b.Build(event, NewContext(ctx, event), EntityEvent, false)
	if err != nil {
		return "", err
	}
	return f.String(), nil
}

// Fragment is the serialization of one node: the ordered-field text and
// the extension-field texts that follow it.
type Fragment struct {
	Text   string
	Extras []string
}

// String concatenates Text and the extension texts in byte order.
func (f Fragment) String() string {
	if len(f.Extras) == 0 {
		return f.Text
	}
	extras := append([]string(nil), f.Extras...)
	sort.Strings(extras)
	return f.Text + strings.Join(extras, "")
}

// Build serializes n as entity e under ns. nested selects the field name
// emitted for the type discriminator (type= instead of eventType=).
func (b *Builder) Build(n Node, ns Context, e Entity, nested bool) (Fragment, error) {
	w := &walk{b: b, ns: ns, strict: b.mode.IsStrict()}
	return w.build(n, e, "", nested)
}

// walk carries the per-call state of one serialization.
type walk struct {
	b      *Builder
	ns     Context
	strict bool
}

func (w *walk) build(n Node, e Entity, path string, nested bool) (Fragment, error) {
	var sb strings.Builder
	rules := dispatch[e]
	for _, field := range w.b.order(e) {
		v, ok := n[field]
		if !ok || v == nil {
			continue
		}
		s, err := rules[field](w, field, v, joinPath(path, field), nested)
		if err != nil {
			return Fragment{}, err
		}
		sb.WriteString(s)
	}

	var extras []string
	for _, k := range sortedKeys(n) {
		if isOrdered(e, k) || ignored[k] {
			continue
		}
		s, ok, err := w.custom(k, n[k], joinPath(path, k))
		if err != nil {
			return Fragment{}, err
		}
		if ok {
			extras = append(extras, s)
		}
	}
	return Fragment{Text: sb.String(), Extras: extras}, nil
}

// assemble serializes a nested node including its extension fields.
func (w *walk) assemble(n Node, e Entity, path string) (string, error) {
	f, err := w.build(n, e, path, true)
	if err != nil {
		return "", err
	}
	return f.String(), nil
}

func (w *walk) vocabText(voc cbv.Vocabulary, v any) (string, bool) {
	if s, ok := v.(string); ok {
		return NormalizeValue(w.b.vocab.Expand(voc, strings.TrimSpace(s)), w.strict), true
	}
	return scalarText(v, w.strict)
}

// shapeError reports a value of the wrong shape. In lenient mode the value
// is dropped instead.
func (w *walk) shapeError(path, msg string) error {
	if !w.strict {
		return nil
	}
	return newError(KindInput, RuleShape, path, msg)
}
