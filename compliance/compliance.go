// Package compliance selects how the canonicalizer treats malformed input.
//
// Strict mode prefers explicit failure over silent acceptance: an event
// whose extension fields cannot be resolved, or whose values have the wrong
// shape, aborts hashing. Lenient mode drops what it cannot canonicalize and
// still produces a hash.
package compliance

import "fmt"

// Mode is the compliance mode. The zero value is Strict.
type Mode int

const (
	Strict Mode = iota
	Lenient
)

func (m Mode) String() string {
	switch m {
	case Strict:
		return "strict"
	case Lenient:
		return "lenient"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// IsStrict reports whether malformed input must fail.
func (m Mode) IsStrict() bool { return m != Lenient }

// ParseMode parses "strict" or "lenient". "permissive" is accepted as an
// alias of lenient; the empty string yields Strict.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "strict":
		return Strict, nil
	case "lenient", "permissive":
		return Lenient, nil
	default:
		return Strict, fmt.Errorf("compliance: unknown mode %q", s)
	}
}
