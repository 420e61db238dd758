// Package eventhash computes CBV 2.0 event hashes of EPCIS events.
//
// The event hash is SHA-256 over the UTF-8 bytes of the event's pre-hash
// string (see package canon), formatted as a named information URI:
//
//	ni:///sha-256;<64 lowercase hex>?ver=CBV2.0
package eventhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	hashPrefix = "ni:///sha-256;"
	hashSuffix = "?ver=CBV2.0"
)

// Hash formats the event hash of a pre-hash string.
func Hash(preHash string) string {
	sum := sha256.Sum256([]byte(preHash))
	return FormatDigest(sum[:])
}

// FormatDigest wraps a 32-byte SHA-256 digest as an event hash.
func FormatDigest(digest []byte) string {
	return hashPrefix + hex.EncodeToString(digest) + hashSuffix
}

// ParseHash extracts the SHA-256 digest from an event hash. Only the
// canonical lower-case form produced by Hash is accepted.
func ParseHash(id string) ([]byte, error) {
	rest, ok := strings.CutPrefix(id, hashPrefix)
	if !ok {
		return nil, fmt.Errorf("eventhash: %q is not a sha-256 event hash", id)
	}
	hexDigest, ok := strings.CutSuffix(rest, hashSuffix)
	if !ok {
		return nil, fmt.Errorf("eventhash: %q lacks the %s version suffix", id, hashSuffix)
	}
	if len(hexDigest) != sha256.Size*2 || strings.ToLower(hexDigest) != hexDigest {
		return nil, fmt.Errorf("eventhash: digest must be %d lowercase hex characters", sha256.Size*2)
	}
	digest, err := hex.DecodeString(hexDigest)
	if err != nil {
		return nil, fmt.Errorf("eventhash: decode digest: %w", err)
	}
	return digest, nil
}
