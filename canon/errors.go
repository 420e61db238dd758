package canon

import "errors"

// ErrorKind is a stable category for programmatic error handling.
//
// Callers should branch on Kind/RuleID rather than matching error strings.
type ErrorKind string

const (
	KindNamespace ErrorKind = "Namespace"
	KindInput     ErrorKind = "Input"
	KindInternal  ErrorKind = "Internal"
)

// Error is the package's structured error type.
//
// RuleID is a stable identifier (e.g. EPCIS-NS-001) naming the violated
// rule. Path is the dotted field path of the offending value within the
// event, e.g. "ilmd.example:grading" or "epcList[2]".
type Error struct {
	Kind    ErrorKind
	RuleID  string
	Path    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Path == "" {
		return e.Message
	}
	return e.Path + ": " + e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newError(kind ErrorKind, ruleID, path, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Path: path, Message: msg}
}

func wrapError(kind ErrorKind, ruleID, path, msg string, cause error) error {
	if cause == nil {
		return newError(kind, ruleID, path, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Path: path, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) an *Error with the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}

// Rule IDs.
const (
	RuleUnresolvedPrefix = "EPCIS-NS-001"
	RuleDecode           = "EPCIS-IN-001"
	RuleShape            = "EPCIS-IN-002"
	RuleNilEvent         = "EPCIS-IN-003"
)
