// Package cbv holds the GS1 Core Business Vocabulary (CBV 2.0) expansion
// tables used by event hashing.
//
// A Table is immutable once built. The builder receives one at construction
// and consults it for vocabulary-bearing fields; nothing in this package is
// mutated after init.
package cbv

import "strings"

// Vocabulary names one CBV code list.
type Vocabulary string

const (
	BizStep            Vocabulary = "BizStep"
	Disposition        Vocabulary = "Disp"
	BizTransactionType Vocabulary = "BTT"
	SourceDestType     Vocabulary = "SDT"
	ErrorReason        Vocabulary = "ER"
	SensorAlertType    Vocabulary = "SensorAlertType"
	MeasurementType    Vocabulary = "MT"
	Component          Vocabulary = "Comp"
)

const (
	// CBVBase is the Web URI base of CBV-defined code lists.
	CBVBase = "https://ref.gs1.org/cbv/"
	// VocBase is the Web URI base of the GS1 Web Vocabulary.
	VocBase = "https://gs1.org/voc/"
)

// Table maps short vocabulary codes to canonical Web URIs.
type Table struct {
	terms map[Vocabulary]map[string]string
	// urns maps CBV 1.x URN prefixes (urn:epcglobal:cbv:bizstep:) to the
	// vocabulary they belong to.
	urns map[string]Vocabulary
}

// New builds a table from code lists. Each code is expanded to
// <base><vocabulary>-<code> where base depends on the vocabulary.
func New(lists map[Vocabulary][]string) *Table {
	t := &Table{
		terms: make(map[Vocabulary]map[string]string, len(lists)),
		urns:  make(map[string]Vocabulary),
	}
	for v, codes := range lists {
		m := make(map[string]string, len(codes))
		for _, c := range codes {
			m[c] = v.base() + string(v) + "-" + c
		}
		t.terms[v] = m
		if p := v.urnPrefix(); p != "" {
			t.urns[p] = v
		}
	}
	return t
}

func (v Vocabulary) base() string {
	switch v {
	case MeasurementType, SensorAlertType:
		return VocBase
	default:
		return CBVBase
	}
}

func (v Vocabulary) urnPrefix() string {
	switch v {
	case BizStep:
		return "urn:epcglobal:cbv:bizstep:"
	case Disposition:
		return "urn:epcglobal:cbv:disp:"
	case BizTransactionType:
		return "urn:epcglobal:cbv:btt:"
	case SourceDestType:
		return "urn:epcglobal:cbv:sdt:"
	case ErrorReason:
		return "urn:epcglobal:cbv:er:"
	default:
		return ""
	}
}

// Expand returns the canonical URI for value in vocabulary v.
//
// Only an exact short code match is expanded. CBV 1.x URNs of a known code
// and the compact forms "cbv:<Vocab>-<code>" / "gs1:<Vocab>-<code>" are
// rewritten to the same Web URI. Anything else is returned unchanged.
func (t *Table) Expand(v Vocabulary, value string) string {
	if t == nil {
		return value
	}
	terms := t.terms[v]
	if uri, ok := terms[value]; ok {
		return uri
	}
	for prefix, uv := range t.urns {
		if uv != v || !strings.HasPrefix(value, prefix) {
			continue
		}
		if uri, ok := terms[value[len(prefix):]]; ok {
			return uri
		}
	}
	for _, compact := range [...]string{"cbv:", "gs1:"} {
		if rest, ok := strings.CutPrefix(value, compact); ok && strings.HasPrefix(rest, string(v)+"-") {
			if compact == "cbv:" {
				return CBVBase + rest
			}
			return VocBase + rest
		}
	}
	return value
}

// Has reports whether code is a short code of vocabulary v.
func (t *Table) Has(v Vocabulary, code string) bool {
	if t == nil {
		return false
	}
	_, ok := t.terms[v][code]
	return ok
}

var defaultTable = New(map[Vocabulary][]string{
	BizStep:            bizSteps,
	Disposition:        dispositions,
	BizTransactionType: bizTransactionTypes,
	SourceDestType:     sourceDestTypes,
	ErrorReason:        errorReasons,
	SensorAlertType:    sensorAlertTypes,
	MeasurementType:    measurementTypes,
	Component:          components,
})

// Default returns the CBV 2.0 table. The returned table is shared and must
// be treated as read-only.
func Default() *Table { return defaultTable }
