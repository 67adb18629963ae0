package value_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goa.design/cddl/value"
)

func TestFromJSONNumberClassification(t *testing.T) {
	v, err := value.FromJSON([]byte(`{"i":7,"f":7.5,"neg":-3,"big":123456789012345678901234567890}`))
	require.NoError(t, err)
	m, ok := v.(value.Map)
	require.True(t, ok)

	iv, ok := m.Get("i")
	require.True(t, ok)
	assert.Equal(t, value.KindInteger, iv.Kind())

	fv, ok := m.Get("f")
	require.True(t, ok)
	assert.Equal(t, value.KindFloat, fv.Kind())

	nv, ok := m.Get("neg")
	require.True(t, ok)
	assert.Equal(t, value.KindInteger, nv.Kind())
	assert.Equal(t, int64(-3), nv.(value.Integer).Int64())

	bv, ok := m.Get("big")
	require.True(t, ok)
	assert.Equal(t, value.KindInteger, bv.Kind())
	want, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	assert.Equal(t, 0, bv.(value.Integer).Cmp(want))
}

func TestFromJSONArrayAndNested(t *testing.T) {
	v, err := value.FromJSON([]byte(`[1,"two",[3,4],{"k":null},true]`))
	require.NoError(t, err)
	arr, ok := v.(value.Array)
	require.True(t, ok)
	require.Len(t, arr, 5)
	assert.Equal(t, value.KindInteger, arr[0].Kind())
	assert.Equal(t, value.Text("two"), arr[1])
	nested, ok := arr[2].(value.Array)
	require.True(t, ok)
	assert.Len(t, nested, 2)
	assert.Equal(t, value.Bool(true), arr[4])
}

func TestFromJSONInvalid(t *testing.T) {
	_, err := value.FromJSON([]byte(`{not valid`))
	assert.Error(t, err)
}

func TestFromCBORScalarsAndTag(t *testing.T) {
	// CBOR encoding of: tag(55799){"a": 1, "b": [true, null]}
	// 0xd9d9f7 is the self-describe tag (55799), followed by a 2-entry map.
	data := []byte{
		0xd9, 0xd9, 0xf7, // tag 55799
		0xa2,                   // map(2)
		0x61, 'a', 0x01,         // "a": 1
		0x61, 'b', 0x82, 0xf5, 0xf6, // "b": [true, null]
	}
	v, err := value.FromCBOR(data)
	require.NoError(t, err)
	tag, ok := v.(value.Tag)
	require.True(t, ok)
	assert.Equal(t, uint64(55799), tag.Number)

	m, ok := tag.Content.(value.Map)
	require.True(t, ok)
	av, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, value.KindInteger, av.Kind())

	bv, ok := m.Get("b")
	require.True(t, ok)
	barr, ok := bv.(value.Array)
	require.True(t, ok)
	require.Len(t, barr, 2)
	assert.Equal(t, value.Bool(true), barr[0])
	assert.Equal(t, value.Null{}, barr[1])
}

func TestFromCBORSeq(t *testing.T) {
	// Two top-level items concatenated with no envelope: 1, "x".
	data := []byte{0x01, 0x61, 'x'}
	arr, err := value.FromCBORSeq(data)
	require.NoError(t, err)
	require.Len(t, arr, 2)
	assert.Equal(t, value.KindInteger, arr[0].Kind())
	assert.Equal(t, value.Text("x"), arr[1])
}

func TestEqual(t *testing.T) {
	assert.True(t, value.Equal(value.NewInteger(3), value.NewInteger(3)))
	assert.True(t, value.Equal(value.NewInteger(3), value.Float(3.0)))
	assert.False(t, value.Equal(value.NewInteger(3), value.Text("3")))
	assert.True(t, value.Equal(value.Text("k"), value.Text("k")))
	assert.True(t, value.Equal(value.Array{value.NewInteger(1), value.Text("a")}, value.Array{value.NewInteger(1), value.Text("a")}))
	assert.False(t, value.Equal(value.Array{value.NewInteger(1)}, value.Array{value.NewInteger(2)}))
	assert.True(t, value.Equal(value.Null{}, value.Null{}))
	assert.False(t, value.Equal(value.Null{}, value.Bool(false)))
}

func TestMapGetValue(t *testing.T) {
	m := value.Map{
		{Key: value.NewInteger(1), Value: value.Text("one")},
		{Key: value.Text("two"), Value: value.NewInteger(2)},
	}
	v, ok := m.GetValue(value.NewInteger(1))
	require.True(t, ok)
	assert.Equal(t, value.Text("one"), v)

	_, ok = m.GetValue(value.NewInteger(99))
	assert.False(t, ok)
}
