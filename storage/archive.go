package storage

import (
	"fmt"

	"github.com/ipfs/go-cid"

	"xdao.co/epcis/cidutil"
	"xdao.co/epcis/eventhash"
)

// Archive records pre-hash strings so an event hash can be traced back to
// the canonical text it was computed from.
type Archive struct {
	CAS CAS
}

// Put stores preHash and returns its event hash and CID.
func (a Archive) Put(preHash string) (string, cid.Cid, error) {
	if a.CAS == nil {
		return "", cid.Undef, ErrNoBackends
	}
	id, err := a.CAS.Put([]byte(preHash))
	if err != nil {
		return "", cid.Undef, err
	}
	hash, err := cidutil.EventHashFromCID(id)
	if err != nil {
		return "", cid.Undef, fmt.Errorf("storage: %w", err)
	}
	if want := eventhash.Hash(preHash); hash != want {
		return "", cid.Undef, ErrCIDMismatch
	}
	return hash, id, nil
}

// Lookup returns the pre-hash string recorded for an event hash.
func (a Archive) Lookup(eventHash string) (string, error) {
	if a.CAS == nil {
		return "", ErrNoBackends
	}
	id, err := cidutil.FromEventHash(eventHash)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidCID, err)
	}
	b, err := a.CAS.Get(id)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Has reports whether a pre-hash string is recorded for eventHash.
func (a Archive) Has(eventHash string) bool {
	if a.CAS == nil {
		return false
	}
	id, err := cidutil.FromEventHash(eventHash)
	if err != nil {
		return false
	}
	return a.CAS.Has(id)
}
