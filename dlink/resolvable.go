package dlink

import "strings"

// aliases rewrites Digital Link convenience path segments to numeric AIs.
var aliases = map[string]string{
	"gtin":  "01",
	"itip":  "8006",
	"cpv":   "22",
	"lot":   "10",
	"ser":   "21",
	"sscc":  "00",
	"gln":   "414",
	"glnx":  "254",
	"party": "417",
	"grai":  "8003",
	"giai":  "8004",
	"gsrn":  "8018",
	"gsrnp": "8017",
	"gdti":  "253",
	"gcn":   "255",
	"ginc":  "401",
	"gsin":  "402",
	"cpid":  "8010",
	"cpsn":  "8011",
	"upui":  "235",
}

// primaryKey describes a primary-key AI. Numeric keys list the digit
// lengths they accept in lengths and are zero-padded to padTo. Alphanumeric
// keys start with leadDigits digits and run to at most maxLen characters.
// qualifiers run from coarsest to finest; exclusive means only the finest
// present qualifier is kept.
type primaryKey struct {
	lengths    []int
	padTo      int
	leadDigits int
	maxLen     int
	qualifiers []string
	exclusive  bool
}

var primaryKeys = map[string]primaryKey{
	"01":   {lengths: []int{8, 12, 13, 14}, padTo: 14, qualifiers: []string{"22", "10", "235", "21"}, exclusive: true},
	"8006": {lengths: []int{18}, qualifiers: []string{"22", "10", "21"}, exclusive: true},
	"00":   {lengths: []int{18}},
	"414":  {lengths: []int{13}, qualifiers: []string{"254"}},
	"417":  {lengths: []int{13}},
	"8003": {leadDigits: 14, maxLen: 30},
	"8004": {leadDigits: 4, maxLen: 30},
	"8018": {lengths: []int{18}},
	"8017": {lengths: []int{18}},
	"253":  {leadDigits: 13, maxLen: 30},
	"255":  {leadDigits: 13, maxLen: 25},
	"401":  {leadDigits: 4, maxLen: 30},
	"402":  {lengths: []int{17}},
	"8010": {leadDigits: 4, maxLen: 30, qualifiers: []string{"8011"}},
}

// accepts reports whether v matches the key's own grammar.
func (pk primaryKey) accepts(v string) bool {
	if len(pk.lengths) > 0 {
		return isDigits(v) && containsInt(pk.lengths, len(v))
	}
	if len(v) < pk.leadDigits || len(v) > pk.maxLen {
		return false
	}
	return isDigits(v[:pk.leadDigits])
}

// canonicalAI returns the numeric AI for a path segment, resolving aliases.
func canonicalAI(seg string) string {
	if ai, ok := aliases[seg]; ok {
		return ai
	}
	return seg
}

// normalizeResolvable re-canonicalizes an http(s) Digital Link URI: any host
// and path prefix become CanonicalBase, aliases become numeric AIs, query
// and fragment are dropped, numeric keys are zero-padded and only the finest
// qualifier is kept. The URI is left alone unless the key value matches the
// grammar of its AI.
func normalizeResolvable(uri string) (string, bool) {
	var rest string
	switch {
	case hasPrefixFold(uri, "https://"):
		rest = uri[len("https://"):]
	case hasPrefixFold(uri, "http://"):
		rest = uri[len("http://"):]
	default:
		return "", false
	}
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}
	_, path, ok := strings.Cut(rest, "/")
	if !ok {
		return "", false
	}
	segs := strings.Split(strings.TrimSuffix(path, "/"), "/")

	start := -1
	for i := 0; i+1 < len(segs); i++ {
		if pk, ok := primaryKeys[canonicalAI(segs[i])]; ok && pk.accepts(segs[i+1]) {
			start = i
			break
		}
	}
	if start < 0 {
		return "", false
	}
	segs = segs[start:]
	if len(segs)%2 != 0 {
		return "", false
	}

	keyAI := canonicalAI(segs[0])
	pk := primaryKeys[keyAI]
	keyValue := segs[1]
	if pk.padTo > 0 {
		keyValue = zeroPad(keyValue, pk.padTo)
	}

	quals := make(map[string]string, len(segs)/2-1)
	for i := 2; i < len(segs); i += 2 {
		ai := canonicalAI(segs[i])
		if !contains(pk.qualifiers, ai) {
			return "", false
		}
		if _, dup := quals[ai]; dup {
			return "", false
		}
		quals[ai] = segs[i+1]
	}

	var b strings.Builder
	b.WriteString(CanonicalBase)
	b.WriteString("/")
	b.WriteString(keyAI)
	b.WriteString("/")
	b.WriteString(EncodePayload(keyValue))
	for _, ai := range selectQualifiers(pk, quals) {
		b.WriteString("/")
		b.WriteString(ai)
		b.WriteString("/")
		b.WriteString(EncodePayload(quals[ai]))
	}
	return b.String(), true
}

// selectQualifiers returns the qualifier AIs to emit, in canonical order.
func selectQualifiers(pk primaryKey, present map[string]string) []string {
	var out []string
	for _, ai := range pk.qualifiers {
		if _, ok := present[ai]; ok {
			out = append(out, ai)
		}
	}
	if pk.exclusive && len(out) > 1 {
		out = out[len(out)-1:]
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsInt(list []int, n int) bool {
	for _, v := range list {
		if v == n {
			return true
		}
	}
	return false
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
