package cidutil

import (
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"xdao.co/epcis/eventhash"
)

func TestFromEventHash_MatchesPreHashCID(t *testing.T) {
	pre := "eventType=ObjectEvent"
	c, err := FromEventHash(eventhash.Hash(pre))
	if err != nil {
		t.Fatalf("FromEventHash: %v", err)
	}
	want, err := CIDv1RawSHA256CID([]byte(pre))
	if err != nil {
		t.Fatalf("CIDv1RawSHA256CID: %v", err)
	}
	if !c.Equals(want) {
		t.Fatalf("got %s want %s", c, want)
	}
	if c.String() != CIDv1RawSHA256([]byte(pre)) {
		t.Fatalf("string form differs")
	}
}

func TestEventHashFromCID_RoundTrip(t *testing.T) {
	id := eventhash.Hash("eventType=AggregationEvent")
	c, err := FromEventHash(id)
	if err != nil {
		t.Fatalf("FromEventHash: %v", err)
	}
	back, err := EventHashFromCID(c)
	if err != nil {
		t.Fatalf("EventHashFromCID: %v", err)
	}
	if back != id {
		t.Fatalf("got %s want %s", back, id)
	}
}

func TestEventHashFromCID_Rejects(t *testing.T) {
	if _, err := EventHashFromCID(cid.Undef); err == nil {
		t.Fatalf("expected error for undefined CID")
	}
	mh, err := multihash.Sum([]byte("x"), multihash.SHA2_512, -1)
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if _, err := EventHashFromCID(cid.NewCidV1(cid.Raw, mh)); err == nil {
		t.Fatalf("expected error for sha2-512 CID")
	}
	if _, err := FromEventHash("urn:uuid:1"); err == nil {
		t.Fatalf("expected error for non-hash id")
	}
}
