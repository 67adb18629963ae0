package interp

import (
	"math/big"
	"strings"

	"github.com/dlclark/regexp2"

	"goa.design/cddl/ast"
	"goa.design/cddl/value"
)

// evalControl implements spec.md §4.8's control operator engine. target is
// the Type2 on the left of the operator (the base type the value must also
// satisfy); rhs is the controller.
func (c *vctx) evalControl(target ast.Type2, name string, rhs ast.Type2, v value.Value) error {
	switch name {
	case "size":
		return c.controlSize(target, rhs, v)
	case "regexp", "pcre":
		return c.controlRegexp(target, rhs, v)
	case "cbor":
		return c.controlCBOR(target, rhs, v)
	case "cborseq":
		return c.controlCBORSeq(target, rhs, v)
	case "lt", "le", "gt", "ge":
		return c.controlCompare(target, name, rhs, v)
	case "eq":
		return c.controlEq(target, rhs, v, true)
	case "ne":
		return c.controlEq(target, rhs, v, false)
	case "and", "within":
		return c.controlAndWithin(target, rhs, v)
	case "default":
		return c.matchType2(target, v)
	case "bits":
		return c.controlBits(target, rhs, v)
	case "cat":
		return c.controlCat(target, rhs, v)
	}
	return errf(c, SyntaxError, "", "unrecognized control operator %q", name)
}

// controllerType turns an Operator.RHS into a full *ast.Type: unwrapped when
// it is itself a parenthesized type (so `.size (0..10)` reuses the range
// evaluator), wrapped as a single choice otherwise.
func controllerType(rhs ast.Type2) *ast.Type {
	if pt, ok := rhs.(*ast.ParenthesizedType); ok {
		return pt.Type
	}
	return &ast.Type{Choices: []*ast.Type1{{Type2: rhs}}}
}

func (c *vctx) controlSize(target, rhs ast.Type2, v value.Value) error {
	if err := c.matchType2(target, v); err != nil {
		return err
	}
	var length int64
	switch val := v.(type) {
	case value.Bytes:
		length = int64(len(val))
	case value.Text:
		length = int64(len([]rune(string(val))))
	case value.Integer:
		length = int64(byteWidth(val.Int))
	default:
		return errf(c, ValueMismatch, renderType2(target), "`.size` requires a text, bytes, or uint target, got %s", describeValue(v))
	}
	if err := c.matchType(controllerType(rhs), value.NewInteger(length)); err != nil {
		return errf(c, ValueMismatch, renderType2(rhs), "length %d of %s does not satisfy `.size %s`", length, describeValue(v), renderType2(rhs))
	}
	return nil
}

// byteWidth returns the minimal number of bytes needed to represent n's
// absolute value (0 takes 0 bytes), used for `uint .size N`.
func byteWidth(n *big.Int) int {
	abs := new(big.Int).Abs(n)
	width := 0
	for abs.Sign() != 0 {
		abs.Rsh(abs, 8)
		width++
	}
	return width
}

// rejectLookaround implements spec.md §4.8 pattern-support rule (b):
// lookaround constructs are unsupported and fail fast with
// PatternUnsupported rather than being handed to the regex engine (which,
// unlike RE2, would otherwise silently accept them).
func rejectLookaround(c *vctx, pattern string) error {
	for _, forbidden := range []string{"(?=", "(?!", "(?<=", "(?<!"} {
		if strings.Contains(pattern, forbidden) {
			return errf(c, PatternUnsupported, pattern, "lookaround construct %q is not supported in `.regexp`/`.pcre` patterns", forbidden)
		}
	}
	return nil
}

func (c *vctx) controlRegexp(target, rhs ast.Type2, v value.Value) error {
	if err := c.matchType2(target, v); err != nil {
		return err
	}
	tv, ok := v.(value.Text)
	if !ok {
		return errf(c, ValueMismatch, renderType2(target), "`.regexp`/`.pcre` requires a text target, got %s", describeValue(v))
	}
	pat, ok := rhs.(*ast.TextValue)
	if !ok {
		return errf(c, SyntaxError, renderType2(rhs), "`.regexp`/`.pcre` controller must be a text literal")
	}
	if err := rejectLookaround(c, pat.Value); err != nil {
		return err
	}
	// regexp2 already natively understands the .NET-style `(?<name>...)`
	// named-capture syntax spec.md §4.8 rule (c) asks patterns to be
	// rewritten to, so no rewrite is needed for this engine.
	re, err := regexp2.Compile(pat.Value, regexp2.None)
	if err != nil {
		return errf(c, SyntaxError, pat.Value, "invalid `.regexp`/`.pcre` pattern: %v", err)
	}
	matched, err := re.MatchString(string(tv))
	if err != nil {
		return errf(c, SyntaxError, pat.Value, "evaluating `.regexp`/`.pcre` pattern: %v", err)
	}
	if !matched {
		return errf(c, ValueMismatch, pat.Value, "text %q does not match pattern %q", string(tv), pat.Value)
	}
	return nil
}

func (c *vctx) controlCBOR(target, rhs ast.Type2, v value.Value) error {
	if err := c.matchType2(target, v); err != nil {
		return err
	}
	bv, ok := v.(value.Bytes)
	if !ok {
		return errf(c, ValueMismatch, renderType2(target), "`.cbor` requires a bytes target, got %s", describeValue(v))
	}
	decoded, err := value.FromCBOR(bv)
	if err != nil {
		return errf(c, ValueMismatch, renderType2(rhs), "`.cbor` bytes did not decode as CBOR: %v", err)
	}
	if err := c.matchType(controllerType(rhs), decoded); err != nil {
		return err
	}
	return nil
}

func (c *vctx) controlCBORSeq(target, rhs ast.Type2, v value.Value) error {
	if err := c.matchType2(target, v); err != nil {
		return err
	}
	bv, ok := v.(value.Bytes)
	if !ok {
		return errf(c, ValueMismatch, renderType2(target), "`.cborseq` requires a bytes target, got %s", describeValue(v))
	}
	arr, err := value.FromCBORSeq(bv)
	if err != nil {
		return errf(c, ValueMismatch, renderType2(rhs), "`.cborseq` bytes did not decode as a CBOR sequence: %v", err)
	}
	arrType, ok := rhs.(*ast.ArrayType)
	if !ok {
		return errf(c, SyntaxError, renderType2(rhs), "`.cborseq` controller must be an array type")
	}
	return c.matchArrayGroup(arrType.Group, nil, arr)
}

func (c *vctx) controlCompare(target ast.Type2, name string, rhs ast.Type2, v value.Value) error {
	if err := c.matchType2(target, v); err != nil {
		return err
	}
	vf, _, ok := valueNumeric(v)
	if !ok {
		return errf(c, ValueMismatch, renderType2(target), "`.%s` requires a numeric target, got %s", name, describeValue(v))
	}
	lits := c.expandNumericLiterals(rhs, map[string]bool{})
	if len(lits) == 0 {
		return errf(c, SyntaxError, renderType2(rhs), "`.%s` controller must resolve to a numeric literal", name)
	}
	for _, lit := range lits {
		cmp := vf.Cmp(lit.big)
		ok := false
		switch name {
		case "lt":
			ok = cmp < 0
		case "le":
			ok = cmp <= 0
		case "gt":
			ok = cmp > 0
		case "ge":
			ok = cmp >= 0
		}
		if ok {
			return nil
		}
	}
	return errf(c, ValueMismatch, renderType2(rhs), "value %s does not satisfy `.%s %s`", describeValue(v), name, renderType2(rhs))
}

func (c *vctx) controlEq(target, rhs ast.Type2, v value.Value, wantEqual bool) error {
	if err := c.matchType2(target, v); err != nil {
		return err
	}
	equal := false
	if lit, ok := literalFromType2(rhs); ok {
		if vf, _, numOK := valueNumeric(v); numOK {
			equal = vf.Cmp(lit.big) == 0
		}
	} else if rhsVal, err := literalType2ToValue(rhs); err == nil {
		equal = value.Equal(v, rhsVal)
	} else {
		return errf(c, SyntaxError, renderType2(rhs), "`.eq`/`.ne` controller must be a literal")
	}
	if equal == wantEqual {
		return nil
	}
	op := "eq"
	if !wantEqual {
		op = "ne"
	}
	return errf(c, ValueMismatch, renderType2(rhs), "value %s fails `.%s %s`", describeValue(v), op, renderType2(rhs))
}

func (c *vctx) controlAndWithin(target, rhs ast.Type2, v value.Value) error {
	if err := c.matchType2(target, v); err != nil {
		return err
	}
	return c.matchType(controllerType(rhs), v)
}

func (c *vctx) controlBits(target, rhs ast.Type2, v value.Value) error {
	if err := c.matchType2(target, v); err != nil {
		return err
	}
	var bits *big.Int
	switch val := v.(type) {
	case value.Integer:
		bits = val.Int
	case value.Bytes:
		bits = new(big.Int).SetBytes(val)
	default:
		return errf(c, ValueMismatch, renderType2(target), "`.bits` requires a uint or bytes target, got %s", describeValue(v))
	}

	var group *ast.Group
	switch r := rhs.(type) {
	case *ast.ChoiceFromGroup:
		g, err := c.resolveGroupForChoice(r.Ident, r.GenericArgs)
		if err != nil {
			return err
		}
		group = g
	case *ast.ChoiceFromInlineGroup:
		group = r.Group
	case *ast.Typename:
		g, err := c.resolveGroupForChoice(r.Ident, r.GenericArgs)
		if err != nil {
			return err
		}
		group = g
	default:
		return errf(c, SyntaxError, renderType2(rhs), "`.bits` controller must be a group")
	}

	allowed := map[int64]bool{}
	for _, t := range c.collectEnumTypes(group, map[string]bool{}) {
		for _, choice := range t.Choices {
			for _, lit := range c.expandNumericLiterals(choice.Type2, map[string]bool{}) {
				idx, _ := lit.big.Int64()
				allowed[idx] = true
			}
		}
	}
	for i := 0; i < bits.BitLen(); i++ {
		if bits.Bit(i) == 1 && !allowed[int64(i)] {
			return errf(c, ValueMismatch, renderType2(rhs), "bit %d is set but is not a member of the `.bits` group", i)
		}
	}
	return nil
}

func (c *vctx) controlCat(target, rhs ast.Type2, v value.Value) error {
	targetLits := c.expandCatLiterals(target, map[string]bool{})
	if len(targetLits) == 0 {
		return errf(c, SyntaxError, renderType2(target), "`.cat` target must resolve to a text or bytes literal")
	}
	var ctrlLits []value.Value
	for _, choice := range controllerType(rhs).Choices {
		ctrlLits = append(ctrlLits, c.expandCatLiterals(choice.Type2, map[string]bool{})...)
	}
	if len(ctrlLits) == 0 {
		return errf(c, SyntaxError, renderType2(rhs), "`.cat` controller must resolve to a text, bytes, or typename literal")
	}
	for _, t := range targetLits {
		for _, k := range ctrlLits {
			if cat, ok := concatLiterals(t, k); ok && value.Equal(v, cat) {
				return nil
			}
		}
	}
	return errf(c, ValueMismatch, renderType2(rhs), "value %s is not the concatenation of %s and `.cat %s`", describeValue(v), renderType2(target), renderType2(rhs))
}

func concatLiterals(a, b value.Value) (value.Value, bool) {
	switch av := a.(type) {
	case value.Text:
		if bv, ok := b.(value.Text); ok {
			return value.Text(string(av) + string(bv)), true
		}
	case value.Bytes:
		if bv, ok := b.(value.Bytes); ok {
			out := make(value.Bytes, 0, len(av)+len(bv))
			out = append(out, av...)
			out = append(out, bv...)
			return out, true
		}
	}
	return nil, false
}

// expandCatLiterals transitively resolves t2 to the set of Text/Bytes
// literal Values it can denote, following Typename references the same way
// expandNumericLiterals does for numbers.
func (c *vctx) expandCatLiterals(t2 ast.Type2, visited map[string]bool) []value.Value {
	switch v := t2.(type) {
	case *ast.TextValue:
		return []value.Value{value.Text(v.Value)}
	case *ast.ByteStringValue:
		return []value.Value{value.Bytes(v.Value)}
	case *ast.Typename:
		if visited[v.Ident] {
			return nil
		}
		visited[v.Ident] = true
		var out []value.Value
		primary, alternates := lookupTypeRule(c.doc, v.Ident)
		rules := alternates
		if primary != nil {
			rules = append([]*ast.TypeRule{primary}, alternates...)
		}
		for _, r := range rules {
			for _, choice := range r.Value.Choices {
				out = append(out, c.expandCatLiterals(choice.Type2, visited)...)
			}
		}
		return out
	case *ast.ParenthesizedType:
		var out []value.Value
		for _, choice := range v.Type.Choices {
			out = append(out, c.expandCatLiterals(choice.Type2, visited)...)
		}
		return out
	}
	return nil
}

// isDefaultControlled reports whether any choice of t carries a
// `.default` control operator, used by map matching to treat an absent key
// as satisfied rather than MissingKey (spec.md §4.8 `.default` row).
func isDefaultControlled(t *ast.Type) bool {
	if t == nil {
		return false
	}
	for _, choice := range t.Choices {
		if choice.Operator != nil && choice.Operator.Kind == ast.ControlOperator && choice.Operator.Name == "default" {
			return true
		}
	}
	return false
}
