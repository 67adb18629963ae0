package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// FromJSON decodes a single JSON document into the target Value model.
//
// Numbers are classified per spec.md §3.2/§9: a JSON number token with no
// '.', 'e', or 'E' is an Integer (parsed with math/big so it never loses
// precision); any other number token is a Float. encoding/json's
// json.Number preserves the original token, which is what makes this
// distinction possible without re-deriving it from the parsed float64 (spec
// §9 flags this as a known source of "float/int confusion" for strict float
// schemas — this mirrors the behavior called out there rather than trying
// to paper over it).
func FromJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}
	return fromJSONAny(raw)
}

func fromJSONAny(raw interface{}) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(v), nil
	case json.Number:
		return jsonNumberToValue(v)
	case string:
		return Text(v), nil
	case []interface{}:
		arr := make(Array, 0, len(v))
		for _, item := range v {
			cv, err := fromJSONAny(item)
			if err != nil {
				return nil, err
			}
			arr = append(arr, cv)
		}
		return arr, nil
	case map[string]interface{}:
		return fromJSONObject(v)
	default:
		return nil, fmt.Errorf("unsupported JSON value of type %T", raw)
	}
}

// fromJSONObject converts a decoded object into a Map whose entries are
// sorted by key. encoding/json's map[string]interface{} does not retain the
// source key order, so the instance's own order is lost; sorting keeps the
// entry order, and with it the diagnostics, the same across runs.
func fromJSONObject(m map[string]interface{}) (Value, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	// map[string]interface{} has no stable order; sort for determinism
	// since the original key order is unrecoverable at this point.
	sortStrings(keys)
	out := make(Map, 0, len(m))
	for _, k := range keys {
		cv, err := fromJSONAny(m[k])
		if err != nil {
			return nil, err
		}
		out = append(out, MapEntry{Key: Text(k), Value: cv})
	}
	return out, nil
}

func sortStrings(s []string) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && strings.Compare(s[j-1], s[j]) > 0; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}

func jsonNumberToValue(n json.Number) (Value, error) {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		bi, ok := new(big.Int).SetString(s, 10)
		if ok {
			return Integer{bi}, nil
		}
	}
	f, err := n.Float64()
	if err != nil {
		return nil, fmt.Errorf("invalid JSON number %q: %w", s, err)
	}
	return Float(f), nil
}
