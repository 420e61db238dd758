// Package dlink normalizes GS1 identifiers to canonical GS1 Digital Link
// URIs.
//
// Two input families are recognized: EPC URNs (pure identity, class and
// pattern forms from the Tag Data Standard) and http(s) Digital Link URIs.
// Both are rewritten to https://id.gs1.org/<AI>/<payload>[/<AI>/<value>].
// Anything else is returned unchanged. Normalization never fails: malformed
// numeric parts fall back to a zero check digit.
package dlink

// CanonicalBase is the domain every recognized identifier is rewritten to.
const CanonicalBase = "https://id.gs1.org"

// Normalize returns the canonical Digital Link form of uri, or uri itself
// when it is not a recognized identifier.
//
// The "urn:epc:" scheme is matched case-insensitively. Normalization never
// fails, so strict does not change the result; it is carried so callers can
// pass their canonicalization mode through unchanged.
func Normalize(uri string, strict bool) string {
	out, _ := Canonical(uri, strict)
	return out
}

// Canonical is Normalize that also reports whether uri was recognized.
func Canonical(uri string, _ bool) (string, bool) {
	if hasPrefixFold(uri, "urn:epc:") {
		if out, ok := fromURN("urn:epc:" + uri[len("urn:epc:"):]); ok {
			return out, true
		}
		return uri, false
	}
	if out, ok := normalizeResolvable(uri); ok {
		return out, true
	}
	return uri, false
}
