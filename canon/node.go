package canon

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
)

// Node is one event or sub-entity: an unordered mapping from field name to
// value. Values are strings, numbers (json.Number, float64 or integer
// kinds), booleans, nil (treated as absent), nested Nodes or lists.
type Node = map[string]any

// Decode reads one JSON (or JSONC) object. Numbers are kept as json.Number
// so their text can be canonicalized without float rounding surprises.
func Decode(r io.Reader) (Node, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, wrapError(KindInput, RuleDecode, "", "read document", err)
	}
	v, err := DecodeValue(b)
	if err != nil {
		return nil, err
	}
	n, ok := asNode(v)
	if !ok {
		return nil, newError(KindInput, RuleDecode, "", "document must be a JSON object")
	}
	return n, nil
}

// DecodeValue decodes any JSON (or JSONC) value. It is used for namespace
// contexts, which may be a string, an object or an array.
func DecodeValue(b []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(b)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, wrapError(KindInput, RuleDecode, "", "invalid JSON", err)
	}
	if dec.More() {
		return nil, newError(KindInput, RuleDecode, "", "trailing data after JSON value")
	}
	return v, nil
}

func asNode(v any) (Node, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case map[string]string:
		n := make(Node, len(t))
		for k, s := range t {
			n[k] = s
		}
		return n, true
	default:
		return nil, false
	}
}

func asList(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(t))
		for i, n := range t {
			out[i] = n
		}
		return out, true
	default:
		return nil, false
	}
}

// scalarText formats a scalar value for the pre-hash string. ok is false
// for nodes, lists and nil.
func scalarText(v any, strict bool) (string, bool) {
	switch t := v.(type) {
	case string:
		return NormalizeValue(t, strict), true
	case json.Number:
		return formatJSONNumber(t), true
	case float64:
		return FormatNumber(t), true
	case float32:
		return FormatNumber(float64(t)), true
	case int:
		return strconv.Itoa(t), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint:
		return strconv.FormatUint(uint64(t), 10), true
	case uint32:
		return strconv.FormatUint(uint64(t), 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

func formatJSONNumber(n json.Number) string {
	s := strings.TrimSpace(n.String())
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return strconv.FormatInt(i, 10)
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return FormatNumber(f)
}

// FormatNumber returns the shortest decimal text that exactly round-trips
// f: no trailing zeros and no decimal point for integral values (10.0 is
// "10", 10.10 is "10.1"). Magnitudes outside [1e-6, 1e21) use exponent
// notation without a zero-padded exponent ("1e+21", "1.5e-7").
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
