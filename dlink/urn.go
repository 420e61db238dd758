package dlink

import "strings"

// urnFields is a dot-split EPC URN body. fields[0] is always the company
// prefix.
type urnFields []string

// grammar describes one EPC URN scheme. build receives the validated fields
// and returns the Digital Link path (without the domain).
type grammar struct {
	fields int
	// wildcard is the index of the trailing "*" for pattern URNs, -1 otherwise.
	wildcard int
	// span is the exact length of company prefix plus reference. Schemes
	// with a variable reference set maxSpan instead.
	span    int
	maxSpan int
	build   func(f urnFields) (string, bool)
}

// partitioned reports whether the company prefix and reference fields add
// up to the length the scheme requires.
func (g grammar) partitioned(f urnFields) bool {
	n := len(f[0]) + len(f[1])
	if g.span > 0 {
		return n == g.span
	}
	return n <= g.maxSpan
}

// grammars is keyed by "<kind>:<scheme>" where kind is id, class or idpat.
var grammars = map[string]grammar{
	"id:sgtin": {fields: 3, wildcard: -1, span: 13, build: func(f urnFields) (string, bool) {
		gtin, ok := gtinFrom(f[0], f[1])
		return "/01/" + gtin + "/21/" + EncodePayload(f[2]), ok
	}},
	"id:sscc": {fields: 2, wildcard: -1, span: 17, build: func(f urnFields) (string, bool) {
		if f[1] == "" {
			return "", false
		}
		return "/00/" + AddCheckDigitAndZeroPad(f[1][:1]+f[0]+f[1][1:], 18), true
	}},
	"id:sgln": {fields: 3, wildcard: -1, span: 12, build: func(f urnFields) (string, bool) {
		path := "/414/" + AddCheckDigitAndZeroPad(f[0]+f[1], 13)
		if f[2] != "" && f[2] != "0" {
			path += "/254/" + EncodePayload(f[2])
		}
		return path, true
	}},
	"id:grai": {fields: 3, wildcard: -1, span: 12, build: func(f urnFields) (string, bool) {
		return "/8003/0" + AddCheckDigitAndZeroPad(f[0]+f[1], 13) + EncodePayload(f[2]), true
	}},
	"id:giai": {fields: 2, wildcard: -1, maxSpan: 30, build: func(f urnFields) (string, bool) {
		return "/8004/" + f[0] + EncodePayload(f[1]), true
	}},
	"id:gsrn": {fields: 2, wildcard: -1, span: 17, build: func(f urnFields) (string, bool) {
		return "/8018/" + AddCheckDigitAndZeroPad(f[0]+f[1], 18), true
	}},
	"id:gsrnp": {fields: 2, wildcard: -1, span: 17, build: func(f urnFields) (string, bool) {
		return "/8017/" + AddCheckDigitAndZeroPad(f[0]+f[1], 18), true
	}},
	"id:gdti": {fields: 3, wildcard: -1, span: 12, build: func(f urnFields) (string, bool) {
		return "/253/" + AddCheckDigitAndZeroPad(f[0]+f[1], 13) + EncodePayload(f[2]), true
	}},
	"id:cpi": {fields: 3, wildcard: -1, maxSpan: 30, build: func(f urnFields) (string, bool) {
		return "/8010/" + f[0] + EncodePayload(f[1]) + "/8011/" + EncodePayload(f[2]), true
	}},
	"id:sgcn": {fields: 3, wildcard: -1, span: 12, build: func(f urnFields) (string, bool) {
		return "/255/" + AddCheckDigitAndZeroPad(f[0]+f[1], 13) + EncodePayload(f[2]), true
	}},
	"id:ginc": {fields: 2, wildcard: -1, maxSpan: 30, build: func(f urnFields) (string, bool) {
		return "/401/" + f[0] + EncodePayload(f[1]), true
	}},
	"id:gsin": {fields: 2, wildcard: -1, span: 16, build: func(f urnFields) (string, bool) {
		return "/402/" + AddCheckDigitAndZeroPad(f[0]+f[1], 17), true
	}},
	"id:itip": {fields: 5, wildcard: -1, span: 13, build: func(f urnFields) (string, bool) {
		gtin, ok := gtinFrom(f[0], f[1])
		ok = ok && len(f[2]) == 2 && len(f[3]) == 2
		return "/8006/" + gtin + f[2] + f[3] + "/21/" + EncodePayload(f[4]), ok
	}},
	"id:upui": {fields: 3, wildcard: -1, span: 13, build: func(f urnFields) (string, bool) {
		gtin, ok := gtinFrom(f[0], f[1])
		return "/01/" + gtin + "/235/" + EncodePayload(f[2]), ok
	}},
	"id:pgln": {fields: 2, wildcard: -1, span: 12, build: func(f urnFields) (string, bool) {
		return "/417/" + AddCheckDigitAndZeroPad(f[0]+f[1], 13), true
	}},
	"class:lgtin": {fields: 3, wildcard: -1, span: 13, build: func(f urnFields) (string, bool) {
		gtin, ok := gtinFrom(f[0], f[1])
		return "/01/" + gtin + "/10/" + EncodePayload(f[2]), ok
	}},
	"idpat:sgtin": {fields: 3, wildcard: 2, span: 13, build: gtinPattern},
	"idpat:upui":  {fields: 3, wildcard: 2, span: 13, build: gtinPattern},
	"idpat:grai": {fields: 3, wildcard: 2, span: 12, build: func(f urnFields) (string, bool) {
		return "/8003/0" + AddCheckDigitAndZeroPad(f[0]+f[1], 13), true
	}},
	"idpat:gdti": {fields: 3, wildcard: 2, span: 12, build: func(f urnFields) (string, bool) {
		return "/253/" + AddCheckDigitAndZeroPad(f[0]+f[1], 13), true
	}},
	"idpat:sgcn": {fields: 3, wildcard: 2, span: 12, build: func(f urnFields) (string, bool) {
		return "/255/" + AddCheckDigitAndZeroPad(f[0]+f[1], 13), true
	}},
	"idpat:cpi": {fields: 3, wildcard: 2, maxSpan: 30, build: func(f urnFields) (string, bool) {
		return "/8010/" + f[0] + EncodePayload(f[1]), true
	}},
	"idpat:itip": {fields: 5, wildcard: 4, span: 13, build: func(f urnFields) (string, bool) {
		gtin, ok := gtinFrom(f[0], f[1])
		ok = ok && len(f[2]) == 2 && len(f[3]) == 2
		return "/8006/" + gtin + f[2] + f[3], ok
	}},
}

func gtinPattern(f urnFields) (string, bool) {
	gtin, ok := gtinFrom(f[0], f[1])
	return "/01/" + gtin, ok
}

// gtinFrom moves the indicator digit (first character of the item
// reference) in front of the company prefix and appends the check digit.
func gtinFrom(companyPrefix, indicatorItemRef string) (string, bool) {
	if indicatorItemRef == "" {
		return "", false
	}
	body := indicatorItemRef[:1] + companyPrefix + indicatorItemRef[1:]
	return AddCheckDigitAndZeroPad(body, DefaultKeyLength), true
}

// fromURN converts an EPC pure identity, class or pattern URN to its
// canonical Digital Link URI.
func fromURN(urn string) (string, bool) {
	rest, ok := strings.CutPrefix(urn, "urn:epc:")
	if !ok {
		return "", false
	}
	kind, rest, ok := strings.Cut(rest, ":")
	if !ok {
		return "", false
	}
	scheme, body, ok := strings.Cut(rest, ":")
	if !ok {
		return "", false
	}
	g, ok := grammars[kind+":"+scheme]
	if !ok {
		return "", false
	}
	f := urnFields(strings.Split(body, "."))
	if len(f) != g.fields {
		return "", false
	}
	if n := len(f[0]); n < 6 || n > 12 || !g.partitioned(f) {
		return "", false
	}
	for i, v := range f {
		if i == g.wildcard {
			if v != "*" {
				return "", false
			}
			continue
		}
		if v == "*" {
			return "", false
		}
	}
	path, ok := g.build(f)
	if !ok {
		return "", false
	}
	return CanonicalBase + path, true
}
