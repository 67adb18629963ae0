package interp

import (
	"math"
	"math/big"

	"goa.design/cddl/ast"
	"goa.design/cddl/value"
)

// numLit is a resolved numeric literal from the CDDL source, used by the
// range evaluator (§4.7) and the comparison control operators (§4.8).
type numLit struct {
	isFloat bool
	big     *big.Float
}

func literalFromType2(t2 ast.Type2) (numLit, bool) {
	switch v := t2.(type) {
	case *ast.IntValue:
		return numLit{isFloat: false, big: new(big.Float).SetInt64(v.Value)}, true
	case *ast.UintValue:
		return numLit{isFloat: false, big: new(big.Float).SetUint64(v.Value)}, true
	case *ast.FloatValue:
		return numLit{isFloat: true, big: big.NewFloat(v.Value)}, true
	}
	return numLit{}, false
}

// expandNumericLiterals resolves a Type2 to the set of numeric literals it
// denotes: itself if it already is one, or (transitively, through the
// primary rule and every alternate sharing its name) every numeric literal
// type choice reachable from a Typename. Grounded on
// original_source/src/validation/mod.rs's `numeric_values_from_type`/
// `numerical_ident_from_type`.
func (c *vctx) expandNumericLiterals(t2 ast.Type2, visited map[string]bool) []numLit {
	if lit, ok := literalFromType2(t2); ok {
		return []numLit{lit}
	}
	tn, ok := t2.(*ast.Typename)
	if !ok {
		return nil
	}
	if visited[tn.Ident] {
		return nil
	}
	visited[tn.Ident] = true
	var out []numLit
	primary, alternates := lookupTypeRule(c.doc, tn.Ident)
	rules := alternates
	if primary != nil {
		rules = append([]*ast.TypeRule{primary}, alternates...)
	}
	for _, r := range rules {
		for _, choice := range r.Value.Choices {
			out = append(out, c.expandNumericLiterals(choice.Type2, visited)...)
		}
	}
	return out
}

// valueNumeric extracts a comparable (*big.Float, isInteger) pair from a
// target Value, or ok=false if the value isn't numeric at all.
func valueNumeric(v value.Value) (f *big.Float, isInt bool, ok bool) {
	switch n := v.(type) {
	case value.Integer:
		return new(big.Float).SetInt(n.Int), true, true
	case value.Float:
		return big.NewFloat(float64(n)), false, true
	}
	return nil, false, false
}

// rangeContains implements spec.md §4.7's domain rules for one (lower,
// upper) literal pairing. A Float bound may only pair with another Float
// bound — grounded on original_source/src/validation/json/mod.rs's
// validate_range, whose Type2 match has no (FloatValue, IntValue/UintValue)
// arm and falls through to a syntax error for that combination; scenario 6
// of spec §8 (`badrange = 1.5...4`) exercises exactly this, so every value
// fails against it regardless of its own domain.
func rangeContains(lo, hi numLit, inclusive bool, v value.Value) bool {
	if lo.isFloat != hi.isFloat {
		return false
	}
	vf, vIsInt, ok := valueNumeric(v)
	if !ok {
		return false
	}
	floatDomain := lo.isFloat || hi.isFloat
	if floatDomain {
		if fv, isFloatVal := v.(value.Float); isFloatVal && math.IsNaN(float64(fv)) {
			return false
		}
	} else if !vIsInt {
		// Integer domain: non-integer values are rejected outright.
		return false
	}
	if lo.big.Cmp(hi.big) > 0 {
		// Empty set per spec §9 open question.
		return false
	}
	if vf.Cmp(lo.big) < 0 {
		return false
	}
	if inclusive {
		return vf.Cmp(hi.big) <= 0
	}
	return vf.Cmp(hi.big) < 0
}

// evalRange is the §4.7 range evaluator entry point.
func (c *vctx) evalRange(lowerT2, upperT2 ast.Type2, inclusive bool, v value.Value) error {
	lowers := c.expandNumericLiterals(lowerT2, map[string]bool{})
	uppers := c.expandNumericLiterals(upperT2, map[string]bool{})
	if len(lowers) == 0 || len(uppers) == 0 {
		return errf(c, SyntaxError, "", "range bounds must resolve to numeric literals")
	}
	for _, lo := range lowers {
		for _, hi := range uppers {
			if rangeContains(lo, hi, inclusive, v) {
				return nil
			}
		}
	}
	op := "..."
	if inclusive {
		op = ".."
	}
	return errf(c, ValueMismatch, renderRangeExpected(lowerT2, upperT2, inclusive), "value %s out of range (operator %q)", describeValue(v), op)
}

// numericLiteralEquals implements the "Integer/Float numerically equal"
// row of spec.md §4.2's matchType2 table, with a small epsilon for float
// comparisons to absorb encoding-level ULP differences.
func numericLiteralEquals(t2 ast.Type2, v value.Value) bool {
	lit, ok := literalFromType2(t2)
	if !ok {
		return false
	}
	vf, _, ok := valueNumeric(v)
	if !ok {
		return false
	}
	if lit.big.Cmp(vf) == 0 {
		return true
	}
	if lit.isFloat {
		diff := new(big.Float).Sub(lit.big, vf)
		diff.Abs(diff)
		return diff.Cmp(big.NewFloat(1e-9)) <= 0
	}
	return false
}

func renderRangeExpected(lower, upper ast.Type2, inclusive bool) string {
	op := "..."
	if inclusive {
		op = ".."
	}
	return renderType2(lower) + op + renderType2(upper)
}
