package eventhash

import (
	"fmt"

	"xdao.co/epcis/canon"
)

// Result is the hash of one event of a document.
type Result struct {
	Index   int    `json:"index" yaml:"index" cbor:"1,keyasint"`
	EventID string `json:"eventID,omitempty" yaml:"eventID,omitempty" cbor:"2,keyasint,omitempty"`
	Hash    string `json:"hash" yaml:"hash" cbor:"3,keyasint"`
	PreHash string `json:"preHash,omitempty" yaml:"preHash,omitempty" cbor:"4,keyasint,omitempty"`
}

// Events returns the event list of an EPCIS document or query document:
// epcisBody.eventList, or epcisBody.queryResults.resultsBody.eventList.
// A bare event (an object with a type) is returned as a list of one.
func Events(doc canon.Node) ([]canon.Node, error) {
	if doc == nil {
		return nil, fmt.Errorf("eventhash: document is nil")
	}
	list, ok := findEventList(doc)
	if !ok {
		if _, isEvent := doc["type"].(string); isEvent && doc["epcisBody"] == nil {
			return []canon.Node{doc}, nil
		}
		return nil, fmt.Errorf("eventhash: no epcisBody.eventList in document")
	}
	out := make([]canon.Node, 0, len(list))
	for i, v := range list {
		n, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("eventhash: eventList[%d] is not an object", i)
		}
		out = append(out, n)
	}
	return out, nil
}

func findEventList(doc canon.Node) ([]any, bool) {
	body, ok := doc["epcisBody"].(map[string]any)
	if !ok {
		return nil, false
	}
	if list, ok := body["eventList"].([]any); ok {
		return list, true
	}
	qr, ok := body["queryResults"].(map[string]any)
	if !ok {
		return nil, false
	}
	rb, ok := qr["resultsBody"].(map[string]any)
	if !ok {
		return nil, false
	}
	list, ok := rb["eventList"].([]any)
	return list, ok
}

// HashDocument hashes every event of doc. The document's @context is the
// namespace context of each event; an event's own @context and inline
// declarations are merged on top of it.
func HashDocument(doc canon.Node, opts ...Option) ([]Result, error) {
	events, err := Events(doc)
	if err != nil {
		return nil, err
	}
	b := NewBuilder(opts...)
	var ctx any
	if doc["epcisBody"] != nil {
		ctx = doc["@context"]
	}
	results := make([]Result, 0, len(events))
	for i, ev := range events {
		pre, err := b.PreHash(ev, ctx)
		if err != nil {
			return nil, fmt.Errorf("eventhash: event %d: %w", i, err)
		}
		id, _ := ev["eventID"].(string)
		results = append(results, Result{Index: i, EventID: id, Hash: Hash(pre), PreHash: pre})
	}
	return results, nil
}

// AssignEventIDs sets eventID to the event hash on every event of doc that
// has no eventID, and returns how many were assigned. doc is modified in
// place. Existing IDs are kept unless overwrite is set.
func AssignEventIDs(doc canon.Node, overwrite bool, opts ...Option) (int, error) {
	results, err := HashDocument(doc, opts...)
	if err != nil {
		return 0, err
	}
	events, _ := Events(doc)
	n := 0
	for i, r := range results {
		if r.EventID != "" && !overwrite {
			continue
		}
		events[i]["eventID"] = r.Hash
		n++
	}
	return n, nil
}
