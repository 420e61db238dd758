package dlink

import "strings"

const upperHex = "0123456789ABCDEF"

// reserved is the Digital Link reserved set that is percent-encoded inside
// serial and reference payloads.
const reserved = "!()*+,:"

// EncodePayload percent-encodes the reserved characters ! ( ) * + , : of a
// serial or reference payload with upper-case hex. Every other byte,
// including an existing %XX escape, is copied unchanged.
func EncodePayload(s string) string {
	if !strings.ContainsAny(s, reserved) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(reserved, c) >= 0 {
			b.WriteByte('%')
			b.WriteByte(upperHex[c>>4])
			b.WriteByte(upperHex[c&0x0f])
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
