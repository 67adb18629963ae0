package interp_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"goa.design/cddl/interp"
	"goa.design/cddl/parser"
	"goa.design/cddl/value"
)

// TestPropertyRangeBoundary checks spec.md §8's "range boundary" invariant:
// an inclusive range lo..hi accepts v iff lo <= v <= hi.
func TestPropertyRangeBoundary(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	properties.Property("inclusive range matches iff lo <= v <= hi", prop.ForAll(
		func(lo, span, offset int) bool {
			hi := lo + span
			v := lo + offset
			schema := fmt.Sprintf("r = %d..%d", lo, hi)
			doc, err := parser.Parse(schema)
			if err != nil {
				t.Fatalf("parsing %q: %v", schema, err)
			}
			result := interp.Validate(context.Background(), doc, value.NewInteger(int64(v)), interp.TargetJSON, interp.Options{})
			want := v >= lo && v <= hi
			return result.OK() == want
		},
		gen.IntRange(-1000, 1000),
		gen.IntRange(0, 50),
		gen.IntRange(-10, 60),
	))

	properties.TestingRun(t)
}

// TestPropertyAlternationSoundness checks spec.md §8's "soundness of
// alternation": a value that matches A or matches B matches `A / B`. Every
// generated value is text or an integer, so only that direction is checked.
func TestPropertyAlternationSoundness(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	const schema = `x = tstr / int`
	doc, err := parser.Parse(schema)
	if err != nil {
		t.Fatalf("parsing %q: %v", schema, err)
	}

	properties.Property("every text or integer value matches x", prop.ForAll(
		func(isText bool, n int, s string) bool {
			var v value.Value
			if isText {
				v = value.Text(s)
			} else {
				v = value.NewInteger(int64(n))
			}
			result := interp.Validate(context.Background(), doc, v, interp.TargetJSON, interp.Options{})
			return result.OK()
		},
		gen.Bool(),
		gen.IntRange(-1000, 1000),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

// TestPropertyValidateIdempotent checks that two independent Validate calls
// against the same schema and value always agree (no interpreter state
// leaks across calls).
func TestPropertyValidateIdempotent(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	const schema = `n = 0..100`
	doc, err := parser.Parse(schema)
	if err != nil {
		t.Fatalf("parsing %q: %v", schema, err)
	}

	properties.Property("repeated validation of the same input is stable", prop.ForAll(
		func(n int) bool {
			v := value.NewInteger(int64(n))
			r1 := interp.Validate(context.Background(), doc, v, interp.TargetJSON, interp.Options{})
			r2 := interp.Validate(context.Background(), doc, v, interp.TargetJSON, interp.Options{})
			return r1.OK() == r2.OK()
		},
		gen.IntRange(-200, 200),
	))

	properties.TestingRun(t)
}

// TestPropertyUnwrapIdentity checks spec.md §8's "unwrap identity" on
// accepted values: with wrapped = [int, int], every two-int array, which
// matches wrapped's interior group directly, also matches `~wrapped`.
func TestPropertyUnwrapIdentity(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	properties := gopter.NewProperties(parameters)

	const schema = `
		u = ~wrapped
		wrapped = [int, int]
	`
	doc, err := parser.Parse(schema)
	if err != nil {
		t.Fatalf("parsing %q: %v", schema, err)
	}

	properties.Property("unwrap of a 2-tuple matches when both elements are ints", prop.ForAll(
		func(a, b int) bool {
			arr := value.Array{value.NewInteger(int64(a)), value.NewInteger(int64(b))}
			result := interp.Validate(context.Background(), doc, arr, interp.TargetJSON, interp.Options{})
			return result.OK()
		},
		gen.IntRange(-1000, 1000),
		gen.IntRange(-1000, 1000),
	))

	properties.TestingRun(t)
}
