// Package storage keeps pre-hash strings addressable by their event hash.
//
// The pre-hash string of an event is the exact input of its SHA-256 event
// hash, so a raw sha2-256 CID over the pre-hash bytes carries the same
// digest as the event hash. Any content-addressable store keyed that way
// can answer "which canonical text produced this event hash?".
package storage

import "github.com/ipfs/go-cid"

// CAS is a content-addressable byte store.
//
// Put is idempotent and returns the raw sha2-256 CIDv1 of the bytes written.
// Stored objects are immutable. Get returns ErrNotFound for an absent CID
// and ErrCIDMismatch when the stored bytes no longer hash to the CID.
type CAS interface {
	Put(bytes []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}
