package storage_test

import (
	"errors"
	"testing"

	"github.com/ipfs/go-cid"

	"xdao.co/epcis/cidutil"
	"xdao.co/epcis/storage"
	"xdao.co/epcis/storage/localfs"
	"xdao.co/epcis/storage/testkit"
)

func newLocal(t *testing.T) *localfs.CAS {
	t.Helper()
	cas, err := localfs.New(t.TempDir())
	if err != nil {
		t.Fatalf("localfs.New: %v", err)
	}
	return cas
}

func TestMultiCAS_Conformance(t *testing.T) {
	testkit.RunCASConformance(t, func(t *testing.T) storage.CAS {
		return storage.MultiCAS{Adapters: []storage.CAS{newLocal(t), newLocal(t)}}
	})
}

func TestReplicatingCAS_Conformance(t *testing.T) {
	testkit.RunCASConformance(t, func(t *testing.T) storage.CAS {
		return storage.ReplicatingCAS{Backends: []storage.NamedCAS{
			{Name: "a", CAS: newLocal(t)},
			{Name: "b", CAS: newLocal(t)},
		}}
	})
}

func TestMultiCAS_FallsBackInOrder(t *testing.T) {
	primary, archive := newLocal(t), newLocal(t)
	id, err := archive.Put([]byte("eventType=ObjectEvent"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	m := storage.MultiCAS{Adapters: []storage.CAS{primary, archive}}
	if !m.Has(id) {
		t.Fatalf("Has must consult every adapter")
	}
	if _, err := m.Get(id); err != nil {
		t.Fatalf("Get: %v", err)
	}

	newID, err := m.Put([]byte("eventType=AggregationEvent"))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if !primary.Has(newID) || archive.Has(newID) {
		t.Fatalf("Put must write to the first adapter only")
	}

	if _, err := (storage.MultiCAS{}).Put([]byte("x")); !errors.Is(err, storage.ErrNoBackends) {
		t.Fatalf("empty MultiCAS Put: %v", err)
	}
}

// divergentCAS reports a CID unrelated to the bytes written.
type divergentCAS struct{ storage.CAS }

func (d divergentCAS) Put([]byte) (cid.Cid, error) {
	return cidutil.CIDv1RawSHA256CID([]byte("something else"))
}

func TestReplicatingCAS_PutAll(t *testing.T) {
	a, b := newLocal(t), newLocal(t)
	r := storage.ReplicatingCAS{Backends: []storage.NamedCAS{{Name: "a", CAS: a}, {Name: "b", CAS: b}}}

	id, per, err := r.PutAll([]byte("eventType=ObjectEvent"))
	if err != nil {
		t.Fatalf("PutAll: %v", err)
	}
	if len(per) != 2 || !per["a"].Equals(id) || !per["b"].Equals(id) {
		t.Fatalf("unexpected per-backend CIDs: %v", per)
	}
	if !a.Has(id) || !b.Has(id) {
		t.Fatalf("object not replicated")
	}

	bad := storage.ReplicatingCAS{Backends: []storage.NamedCAS{
		{Name: "ok", CAS: newLocal(t)},
		{Name: "bad", CAS: divergentCAS{newLocal(t)}},
	}}
	if _, _, err := bad.PutAll([]byte("eventType=ObjectEvent")); !errors.Is(err, storage.ErrCIDMismatch) {
		t.Fatalf("expected ErrCIDMismatch, got %v", err)
	}
	if _, err := (storage.ReplicatingCAS{}).Put([]byte("x")); !errors.Is(err, storage.ErrNoBackends) {
		t.Fatalf("empty ReplicatingCAS Put: %v", err)
	}
}

func TestArchive_NoStore(t *testing.T) {
	var a storage.Archive
	if _, _, err := a.Put("eventType=ObjectEvent"); !errors.Is(err, storage.ErrNoBackends) {
		t.Fatalf("Put: %v", err)
	}
	if a.Has("ni:///sha-256;00?ver=CBV2.0") {
		t.Fatalf("Has must be false without a store")
	}
}
