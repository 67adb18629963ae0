package interp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestControlSize(t *testing.T) {
	result := validateJSON(t, `limited = tstr .size 5`, `"hello"`)
	assert.True(t, result.OK(), "%v", result.Errors)

	bad := validateJSON(t, `limited = tstr .size 5`, `"too long a string"`)
	assert.False(t, bad.OK())
}

func TestControlRegexp(t *testing.T) {
	result := validateJSON(t, `code = tstr .regexp "^[A-Z]{3}[0-9]{2}$"`, `"ABC12"`)
	assert.True(t, result.OK(), "%v", result.Errors)

	bad := validateJSON(t, `code = tstr .regexp "^[A-Z]{3}[0-9]{2}$"`, `"abc12"`)
	assert.False(t, bad.OK())
}

func TestControlCompare(t *testing.T) {
	schema := `pos = int .gt 0`
	ok := validateJSON(t, schema, `5`)
	assert.True(t, ok.OK(), "%v", ok.Errors)

	bad := validateJSON(t, schema, `-5`)
	assert.False(t, bad.OK())

	zero := validateJSON(t, schema, `0`)
	assert.False(t, zero.OK())
}

func TestControlEqNe(t *testing.T) {
	eq := validateJSON(t, `must3 = int .eq 3`, `3`)
	assert.True(t, eq.OK(), "%v", eq.Errors)

	notEq := validateJSON(t, `must3 = int .eq 3`, `4`)
	assert.False(t, notEq.OK())

	ne := validateJSON(t, `not3 = int .ne 3`, `4`)
	assert.True(t, ne.OK(), "%v", ne.Errors)
}

func TestControlAndWithin(t *testing.T) {
	schema := `smallpos = uint .and (0..10)`
	ok := validateJSON(t, schema, `5`)
	assert.True(t, ok.OK(), "%v", ok.Errors)

	bad := validateJSON(t, schema, `50`)
	assert.False(t, bad.OK())
}

func TestControlDefaultOnAbsentKey(t *testing.T) {
	schema := `M = { ? greeting: tstr .default "hello" }`
	result := validateJSON(t, schema, `{}`)
	require.NotNil(t, result)
	assert.True(t, result.OK(), "%v", result.Errors)
}

func TestControlBits(t *testing.T) {
	schema := `
		flags = uint .bits flagbits
		flagbits = (
			flag-a: 0,
			flag-b: 1
		)
	`
	// bit 0 and bit 1 set -> value 3, both allowed.
	ok := validateJSON(t, schema, `3`)
	assert.True(t, ok.OK(), "%v", ok.Errors)

	// bit 2 set, not a member of flagbits.
	bad := validateJSON(t, schema, `4`)
	assert.False(t, bad.OK())
}

func TestControlCat(t *testing.T) {
	schema := `
		greeting = "hello " .cat name
		name = "world"
	`
	ok := validateJSON(t, schema, `"hello world"`)
	assert.True(t, ok.OK(), "%v", ok.Errors)

	bad := validateJSON(t, schema, `"hello there"`)
	assert.False(t, bad.OK())
}
