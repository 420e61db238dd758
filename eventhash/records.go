package eventhash

import (
	"github.com/fxamacker/cbor/v2"
)

// recordEnc is Core Deterministic Encoding (RFC 8949 §4.2): the same results
// always encode to the same bytes.
var recordEnc cbor.EncMode

func init() {
	var err error
	recordEnc, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("eventhash: CBOR encoder initialization failed: " + err.Error())
	}
}

// MarshalRecords encodes results as a deterministic CBOR array.
func MarshalRecords(results []Result) ([]byte, error) {
	if results == nil {
		results = []Result{}
	}
	return recordEnc.Marshal(results)
}

// UnmarshalRecords decodes the output of MarshalRecords.
func UnmarshalRecords(data []byte) ([]Result, error) {
	var out []Result
	if err := cbor.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
