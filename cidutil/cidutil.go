// Package cidutil bridges event hashes and content identifiers.
//
// An event hash is the SHA-256 of the event's pre-hash string, so the same
// identity is a CIDv1 with the raw multicodec and a sha2-256 multihash over
// the pre-hash bytes.
package cidutil

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"xdao.co/epcis/eventhash"
)

// CIDv1RawSHA256 returns a CIDv1 string using the "raw" multicodec
// and a sha2-256 multihash.
func CIDv1RawSHA256(data []byte) string {
	c, err := CIDv1RawSHA256CID(data)
	if err != nil {
		return ""
	}
	return c.String()
}

// CIDv1RawSHA256CID returns a CIDv1 (raw + sha2-256) derived from data.
func CIDv1RawSHA256CID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// FromEventHash converts an event hash to the CID of its pre-hash string.
func FromEventHash(id string) (cid.Cid, error) {
	digest, err := eventhash.ParseHash(id)
	if err != nil {
		return cid.Undef, err
	}
	mh, err := multihash.Encode(digest, multihash.SHA2_256)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, mh), nil
}

// EventHashFromCID converts a raw sha2-256 CID back to an event hash.
func EventHashFromCID(c cid.Cid) (string, error) {
	if !c.Defined() {
		return "", fmt.Errorf("cidutil: undefined CID")
	}
	dec, err := multihash.Decode(c.Hash())
	if err != nil {
		return "", err
	}
	if dec.Code != multihash.SHA2_256 {
		return "", fmt.Errorf("cidutil: %s uses multihash %s, want sha2-256", c, multihash.Codes[dec.Code])
	}
	return eventhash.FormatDigest(dec.Digest), nil
}
