package interp_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goa.design/cddl/interp"
	"goa.design/cddl/parser"
	"goa.design/cddl/value"
)

func validateJSON(t *testing.T, cddlSrc, jsonSrc string) *interp.Result {
	t.Helper()
	doc, err := parser.Parse(cddlSrc)
	require.NoError(t, err)
	v, err := value.FromJSON([]byte(jsonSrc))
	require.NoError(t, err)
	return interp.Validate(context.Background(), doc, v, interp.TargetJSON, interp.Options{})
}

// TestObjectWithNestedArray covers spec scenario 1.
func TestObjectWithNestedArray(t *testing.T) {
	const schema = `
		myobject = { mykey: tstr, myarray: [1* inner] }
		inner = { myotherkey: tstr }
	`
	result := validateJSON(t, schema, `{"mykey":"myvalue","myarray":[{"myotherkey":"myothervalue"}]}`)
	assert.True(t, result.OK(), "%v", result.Errors)
}

// TestArrayTuplePositional covers spec scenario 2.
func TestArrayTuplePositional(t *testing.T) {
	const schema = `G = [city: tstr, gps: { longitude: uint, latitude: uint }]`
	result := validateJSON(t, schema, `["washington", {"longitude":1234,"latitude":3947}]`)
	assert.True(t, result.OK(), "%v", result.Errors)
}

// TestEnumerationViaAmpersand covers spec scenario 3.
func TestEnumerationViaAmpersand(t *testing.T) {
	const schema = `
		color = &colors
		colors = (red: "red", blue: "blue", green: "green")
	`
	ok := validateJSON(t, schema, `"blue"`)
	assert.True(t, ok.OK(), "%v", ok.Errors)

	bad := validateJSON(t, schema, `"yellow"`)
	require.False(t, bad.OK())
	errs := interp.Flatten(bad.Errors.AsError())
	require.NotEmpty(t, errs)
	var foundEnumError bool
	for _, e := range errs {
		var ce *interp.Error
		if assert.ErrorAs(t, e, &ce) && ce.Kind == interp.NoEnumeratedMemberMatched {
			foundEnumError = true
		}
	}
	assert.True(t, foundEnumError, "expected a NoEnumeratedMemberMatched diagnostic among %v", errs)
}

// TestRangeAcrossRuleReferences covers spec scenario 4.
func TestRangeAcrossRuleReferences(t *testing.T) {
	const schema = `
		myrange = lower..upper
		lower = -1
		upper = 1 / 3
	`
	ok := validateJSON(t, schema, `3`)
	assert.True(t, ok.OK(), "%v", ok.Errors)

	bad := validateJSON(t, schema, `4`)
	require.False(t, bad.OK())
	errs := interp.Flatten(bad.Errors.AsError())
	require.NotEmpty(t, errs)
	var ce *interp.Error
	require.ErrorAs(t, errs[0], &ce)
	assert.Equal(t, interp.ValueMismatch, ce.Kind)
}

// TestCutInMap covers spec scenario 5.
func TestCutInMap(t *testing.T) {
	const schema = `M = { ? "optional-key" ^ => int, * tstr => any }`

	ok := validateJSON(t, schema, `{"optional-key":10}`)
	assert.True(t, ok.OK(), "%v", ok.Errors)

	bad := validateJSON(t, schema, `{"optional-key":"x"}`)
	assert.False(t, bad.OK(), "cut entry must not fall through to the wildcard")
}

// TestInvalidRangeMixedFloatIntBounds covers spec scenario 6: a range with
// a float lower bound and an integer upper bound rejects every value.
func TestInvalidRangeMixedFloatIntBounds(t *testing.T) {
	const schema = `badrange = 1.5...4`
	result := validateJSON(t, schema, `3`)
	assert.False(t, result.OK())
}
