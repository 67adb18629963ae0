// Package value defines the target data model the interpreter validates
// against (spec.md §3.2): a small union covering both JSON and CBOR
// instances, plus the two deserializers (json.go, cbor.go) that populate it.
//
// Grounded on the Rust original's `token::Value`/serde_json::Value handling
// (_examples/original_source/src/validation/json/mod.rs) and, for the
// struct-per-variant shape, the teacher's preference for small concrete
// types over `any` (goa.design/goa-ai's expr package).
package value

import "math/big"

// Kind identifies which Value variant a given instance is.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindFloat
	KindText
	KindBytes
	KindArray
	KindMap
	KindTag
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindText:
		return "text"
	case KindBytes:
		return "bytes"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindTag:
		return "tag"
	}
	return "unknown"
}

// Value is the tagged union described in spec.md §3.2:
// Null | Bool | Integer | Float | Text | Bytes | Array | Map | Tag.
type Value interface {
	Kind() Kind
}

type Null struct{}

func (Null) Kind() Kind { return KindNull }

type Bool bool

func (Bool) Kind() Kind { return KindBool }

// Integer holds an arbitrary-precision integer (spec calls out i128; Go has
// no native 128-bit int, so this uses math/big — see DESIGN.md for why no
// third-party bignum library was substituted).
type Integer struct {
	*big.Int
}

func (Integer) Kind() Kind { return KindInteger }

// NewInteger wraps an int64 as an Integer value.
func NewInteger(v int64) Integer { return Integer{big.NewInt(v)} }

// NewUinteger wraps a uint64 as an Integer value.
func NewUinteger(v uint64) Integer {
	return Integer{new(big.Int).SetUint64(v)}
}

type Float float64

func (Float) Kind() Kind { return KindFloat }

type Text string

func (Text) Kind() Kind { return KindText }

type Bytes []byte

func (Bytes) Kind() Kind { return KindBytes }

type Array []Value

func (Array) Kind() Kind { return KindArray }

// MapEntry is one (key, value) pair in a Map. A Map keeps its entries in
// the order they were appended: FromJSON appends them sorted by key and
// FromCBOR in Go map iteration order, so neither keeps the key order of the
// encoded instance.
type MapEntry struct {
	Key   Value
	Value Value
}

type Map []MapEntry

func (Map) Kind() Kind { return KindMap }

// Get returns the value for the first entry whose key equals the given
// text key, and whether it was found.
func (m Map) Get(key string) (Value, bool) {
	for _, e := range m {
		if t, ok := e.Key.(Text); ok && string(t) == key {
			return e.Value, true
		}
	}
	return nil, false
}

// GetValue returns the value for the first entry whose key equals the
// given literal Value key (used for non-text member keys).
func (m Map) GetValue(key Value) (Value, bool) {
	for _, e := range m {
		if Equal(e.Key, key) {
			return e.Value, true
		}
	}
	return nil, false
}

// Tag is a CBOR tagged value (major type 6); JSON values never produce Tag.
type Tag struct {
	Number  uint64
	Content Value
}

func (Tag) Kind() Kind { return KindTag }

// Equal reports whether two values are the same literal value. Used for map
// key lookup and `.eq`/`.ne` control operators.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch av := a.(type) {
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Integer:
		bv, ok := b.(Integer)
		if ok {
			return av.Int.Cmp(bv.Int) == 0
		}
		if bf, ok := b.(Float); ok {
			f := new(big.Float).SetInt(av.Int)
			bf2 := new(big.Float).SetFloat64(float64(bf))
			return f.Cmp(bf2) == 0
		}
		return false
	case Float:
		if bv, ok := b.(Float); ok {
			return av == bv
		}
		if bi, ok := b.(Integer); ok {
			return Equal(bi, av)
		}
		return false
	case Text:
		bv, ok := b.(Text)
		return ok && av == bv
	case Bytes:
		bv, ok := b.(Bytes)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
		return true
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Map:
		bv, ok := b.(Map)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i].Key, bv[i].Key) || !Equal(av[i].Value, bv[i].Value) {
				return false
			}
		}
		return true
	case Tag:
		bv, ok := b.(Tag)
		return ok && av.Number == bv.Number && Equal(av.Content, bv.Content)
	}
	return false
}
