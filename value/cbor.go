package value

import (
	"bytes"
	"fmt"
	"io"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

var cborDecMode = mustDecMode()

func mustDecMode() cbor.DecMode {
	opts := cbor.DecOptions{
		// Accept indefinite-length items and tags of every kind; spec
		// §6 requires both. BigIntDecodeValue keeps bignums (tags 2/3)
		// as math/big.Int rather than raw tag content.
		BigIntDec:         cbor.BigIntDecodeValue,
		DefaultMapType:    nil,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
	}
	mode, err := opts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("value: building CBOR decode mode: %v", err))
	}
	return mode
}

// FromCBOR decodes a single CBOR data item into the target Value model
// (spec.md §3.2, §6). Grounded on
// other_examples/..._fxamacker-cbor...example_test.go.go; the real,
// idiomatic way to decode CBOR in the ecosystem this corpus draws from.
func FromCBOR(data []byte) (Value, error) {
	var raw interface{}
	if err := cborDecMode.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding CBOR: %w", err)
	}
	return fromCBORAny(raw)
}

// FromCBORSeq decodes a CBOR sequence (RFC 8742: zero or more concatenated
// top-level CBOR data items with no envelope) into an Array, one element
// per item. Used by the interpreter's `.cborseq` control operator.
func FromCBORSeq(data []byte) (Array, error) {
	dec := cborDecMode.NewDecoder(bytes.NewReader(data))
	var out Array
	for {
		var raw interface{}
		if err := dec.Decode(&raw); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("decoding CBOR sequence: %w", err)
		}
		v, err := fromCBORAny(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func fromCBORAny(raw interface{}) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(v), nil
	case uint64:
		return NewUinteger(v), nil
	case int64:
		return NewInteger(v), nil
	case *big.Int:
		return Integer{v}, nil
	case big.Int:
		return Integer{&v}, nil
	case float32:
		return Float(float64(v)), nil
	case float64:
		return Float(v), nil
	case string:
		return Text(v), nil
	case []byte:
		return Bytes(v), nil
	case []interface{}:
		arr := make(Array, 0, len(v))
		for _, item := range v {
			cv, err := fromCBORAny(item)
			if err != nil {
				return nil, err
			}
			arr = append(arr, cv)
		}
		return arr, nil
	case map[interface{}]interface{}:
		out := make(Map, 0, len(v))
		for k, val := range v {
			ck, err := fromCBORAny(k)
			if err != nil {
				return nil, err
			}
			cv, err := fromCBORAny(val)
			if err != nil {
				return nil, err
			}
			out = append(out, MapEntry{Key: ck, Value: cv})
		}
		return out, nil
	case cbor.Tag:
		content, err := fromCBORAny(v.Content)
		if err != nil {
			return nil, err
		}
		return Tag{Number: v.Number, Content: content}, nil
	default:
		return nil, fmt.Errorf("unsupported CBOR value of type %T", raw)
	}
}
