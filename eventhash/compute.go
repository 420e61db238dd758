package eventhash

import (
	"xdao.co/epcis/canon"
	"xdao.co/epcis/cbv"
	"xdao.co/epcis/compliance"
)

// Option configures hashing.
type Option func(*canon.Options)

// WithMode selects strict (default) or lenient canonicalization.
func WithMode(m compliance.Mode) Option {
	return func(o *canon.Options) { o.Mode = m }
}

// WithVocabulary replaces the CBV expansion table.
func WithVocabulary(t *cbv.Table) Option {
	return func(o *canon.Options) { o.Vocabulary = t }
}

// WithErrorDeclaration includes the event's errorDeclaration in the
// pre-hash string.
func WithErrorDeclaration(include bool) Option {
	return func(o *canon.Options) { o.IncludeErrorDeclaration = include }
}

// NewBuilder returns a canon.Builder configured by opts. Callers hashing
// many events should build once and reuse it.
func NewBuilder(opts ...Option) *canon.Builder {
	var o canon.Options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return canon.NewBuilder(o)
}

// ComputePreHash returns the pre-hash string of event under the namespace
// context ctx.
func ComputePreHash(event canon.Node, ctx any, opts ...Option) (string, error) {
	return NewBuilder(opts...).PreHash(event, ctx)
}

// ComputeEventHash returns the event hash of event under the namespace
// context ctx.
func ComputeEventHash(event canon.Node, ctx any, opts ...Option) (string, error) {
	pre, err := ComputePreHash(event, ctx, opts...)
	if err != nil {
		return "", err
	}
	return Hash(pre), nil
}
