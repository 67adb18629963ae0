package cddl_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goa.design/cddl"
)

func TestValidateJSONSuccess(t *testing.T) {
	const schema = `person = { name: tstr, age: uint }`
	result, err := cddl.ValidateJSON(context.Background(), schema, []byte(`{"name":"ada","age":30}`))
	require.NoError(t, err)
	assert.True(t, result.OK(), "%v", result.Errors)
}

func TestValidateJSONFailure(t *testing.T) {
	const schema = `person = { name: tstr, age: uint }`
	result, err := cddl.ValidateJSON(context.Background(), schema, []byte(`{"name":"ada","age":-1}`))
	require.NoError(t, err)
	assert.False(t, result.OK())
}

func TestValidateJSONSchemaParseError(t *testing.T) {
	_, err := cddl.ValidateJSON(context.Background(), `not cddl = = =`, []byte(`{}`))
	assert.Error(t, err)
}

func TestValidateJSONInstanceDecodeError(t *testing.T) {
	const schema = `anything = any`
	_, err := cddl.ValidateJSON(context.Background(), schema, []byte(`{not valid json`))
	assert.Error(t, err)
}

func TestValidateCBORSuccess(t *testing.T) {
	const schema = `n = int`
	// CBOR encoding of the integer 7.
	result, err := cddl.ValidateCBOR(context.Background(), schema, []byte{0x07})
	require.NoError(t, err)
	assert.True(t, result.OK(), "%v", result.Errors)
}

func TestWithMaxDepthAppliesToRecursiveSchema(t *testing.T) {
	const schema = `loop = loop`
	_, err := cddl.ValidateJSON(context.Background(), schema, []byte(`1`), cddl.WithMaxDepth(4))
	require.NoError(t, err)
}
