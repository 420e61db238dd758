package canon

import (
	"regexp"
	"strings"
	"time"

	"xdao.co/epcis/dlink"
)

// minTimestampLength is the length a value must exceed before it is
// considered for timestamp normalization.
const minTimestampLength = 15

const canonicalTimeLayout = "2006-01-02T15:04:05.000Z"

var timestampPattern = regexp.MustCompile(
	`^(\d{4}-\d{2}-\d{2})[Tt ](\d{2}:\d{2})(:\d{2})?(\.\d+)?([Zz]|[+-]\d{2}:?\d{2})?$`)

// NormalizeValue canonicalizes one string value: surrounding whitespace is
// trimmed, date-times become UTC with millisecond precision
// (YYYY-MM-DDTHH:mm:ss.sssZ), and identifier URIs are rewritten by
// dlink.Normalize.
func NormalizeValue(value string, strict bool) string {
	v := strings.TrimSpace(value)
	if ts, ok := normalizeTimestamp(v); ok {
		return ts
	}
	return dlink.Normalize(v, strict)
}

// normalizeTimestamp reformats an ISO 8601 date-time. The date and time may
// also be separated by a single space. A missing offset is
// read as UTC. Fractional seconds are truncated, never rounded, to three
// digits.
func normalizeTimestamp(v string) (string, bool) {
	if len(v) <= minTimestampLength {
		return "", false
	}
	m := timestampPattern.FindStringSubmatch(v)
	if m == nil {
		return "", false
	}
	date, hm, sec, frac, offset := m[1], m[2], m[3], m[4], m[5]
	if sec == "" {
		sec = ":00"
	}
	if len(frac) > 10 {
		frac = frac[:10]
	}
	switch {
	case offset == "" || offset == "z":
		offset = "Z"
	case len(offset) == 5:
		offset = offset[:3] + ":" + offset[3:]
	}
	t, err := time.Parse(time.RFC3339Nano, date+"T"+hm+sec+frac+offset)
	if err != nil {
		return "", false
	}
	return t.UTC().Truncate(time.Millisecond).Format(canonicalTimeLayout), true
}
