package interp

import (
	"time"

	"goa.design/cddl/ast"
	"goa.design/cddl/value"
)

// matchType implements spec.md §4.2 matchType: try each TypeChoice in
// order, accumulating errors, succeeding iff any choice matches (the
// "Soundness of alternation" property of §8).
func (c *vctx) matchType(t *ast.Type, v value.Value) error {
	if t == nil || len(t.Choices) == 0 {
		return errf(c, SyntaxError, "", "empty type has no choices to match")
	}
	if len(t.Choices) == 1 {
		return c.matchType1(t.Choices[0], v)
	}
	me := &MultiError{}
	for _, choice := range t.Choices {
		if err := c.matchType1(choice, v); err == nil {
			return nil
		} else {
			me.Add(err)
		}
	}
	return me.AsError()
}

// matchType1 implements spec.md §4.2 matchType1.
func (c *vctx) matchType1(t1 *ast.Type1, v value.Value) error {
	if t1.Operator == nil {
		return c.matchType2(t1.Type2, v)
	}
	switch t1.Operator.Kind {
	case ast.RangeOperator:
		return c.evalRange(t1.Type2, t1.Operator.RHS, t1.Operator.Inclusive, v)
	default:
		return c.evalControl(t1.Type2, t1.Operator.Name, t1.Operator.RHS, v)
	}
}

// matchType2 implements the dispatch table of spec.md §4.2.
func (c *vctx) matchType2(t2 ast.Type2, v value.Value) error {
	switch t := t2.(type) {
	case *ast.TextValue:
		if tv, ok := v.(value.Text); ok && string(tv) == t.Value {
			return nil
		}
		return errf(c, ValueMismatch, renderType2(t2), "expected text value %q, got %s", t.Value, describeValue(v))

	case *ast.ByteStringValue:
		if bv, ok := v.(value.Bytes); ok && bytesEqual(bv, t.Value) {
			return nil
		}
		return errf(c, ValueMismatch, renderType2(t2), "expected byte string, got %s", describeValue(v))

	case *ast.IntValue, *ast.UintValue, *ast.FloatValue:
		if numericLiteralEquals(t2, v) {
			return nil
		}
		return errf(c, ValueMismatch, renderType2(t2), "expected numeric value %s, got %s", renderType2(t2), describeValue(v))

	case *ast.BoolValue:
		if bv, ok := v.(value.Bool); ok && bool(bv) == t.Value {
			return nil
		}
		return errf(c, ValueMismatch, renderType2(t2), "expected bool %v, got %s", t.Value, describeValue(v))

	case *ast.Typename:
		return c.resolveTypename(t.Ident, t.GenericArgs, v)

	case *ast.ArrayType:
		arr, ok := v.(value.Array)
		if !ok {
			return errf(c, StructureMismatch, renderType2(t2), "expected array, got %s", describeValue(v))
		}
		return c.matchArrayGroup(t.Group, nil, arr)

	case *ast.MapType:
		m, ok := v.(value.Map)
		if !ok {
			return errf(c, StructureMismatch, renderType2(t2), "expected map, got %s", describeValue(v))
		}
		return c.matchMapGroup(t.Group, m)

	case *ast.ParenthesizedType:
		return c.matchType(t.Type, v)

	case *ast.TaggedData:
		return c.matchTaggedData(t, v)

	case *ast.Unwrap:
		return c.matchUnwrap(t.Ident, t.GenericArgs, v)

	case *ast.ChoiceFromGroup:
		g, err := c.resolveGroupForChoice(t.Ident, t.GenericArgs)
		if err != nil {
			return err
		}
		return c.matchGroupToChoiceEnum(g, v)

	case *ast.ChoiceFromInlineGroup:
		return c.matchGroupToChoiceEnum(t.Group, v)

	case *ast.AnyType:
		return nil
	}
	return errf(c, SyntaxError, "", "unrecognized type2 node")
}

func (c *vctx) matchTaggedData(t *ast.TaggedData, v value.Value) error {
	tag, isTag := v.(value.Tag)
	if !isTag {
		if c.target == TargetJSON {
			// JSON has no tag concept; succeed when the inner type matches
			// the value directly (spec §4.2 TaggedData row).
			return c.matchType(t.Type, v)
		}
		return errf(c, TagMismatch, renderType2(t), "expected CBOR tag, got %s", describeValue(v))
	}
	if t.TagNumber != nil && *t.TagNumber != tag.Number {
		return errf(c, TagMismatch, renderType2(t), "expected tag %d, got %d", *t.TagNumber, tag.Number)
	}
	return c.matchType(t.Type, tag.Content)
}

// resolveTypename implements spec.md §4.3.
func (c *vctx) resolveTypename(ident string, args []*ast.Type1, v value.Value) error {
	if bound, ok := c.lookupGeneric(ident); ok {
		return c.matchType1(bound, v)
	}
	if isPreludeIdent(ident) {
		return c.matchPrelude(ident, v)
	}

	primary, alternates := lookupTypeRule(c.doc, ident)
	if primary == nil {
		if gPrimary, gAlts := lookupGroupRule(c.doc, ident); gPrimary != nil || len(gAlts) > 0 {
			return c.resolveGroupnameAsType(gPrimary, gAlts, args, v)
		}
		return errf(c, UnknownIdentifier, ident, "unknown identifier %q", ident)
	}

	leave, err := c.enter()
	defer leave()
	if err != nil {
		return err
	}

	nc := c
	if len(args) > 0 || len(primary.GenericParams) > 0 {
		frame, ferr := bindGenericFrame(primary.GenericParams, args)
		if ferr != nil {
			return ferr
		}
		nc = c.pushGeneric(frame)
	}

	me := &MultiError{}
	for _, choice := range primary.Value.Choices {
		if err := nc.matchType1(choice, v); err == nil {
			return nil
		} else {
			me.Add(err)
		}
	}
	for _, alt := range alternates {
		altCtx := nc
		if len(args) > 0 || len(alt.GenericParams) > 0 {
			frame, ferr := bindGenericFrame(alt.GenericParams, args)
			if ferr != nil {
				me.Add(ferr)
				continue
			}
			altCtx = nc.pushGeneric(frame)
		}
		for _, choice := range alt.Value.Choices {
			if err := altCtx.matchType1(choice, v); err == nil {
				return nil
			} else {
				me.Add(err)
			}
		}
	}
	return me.AsError()
}

// resolveGroupnameAsType handles a bare Typename that actually names a
// GroupRule (spec §4.3 step 2: "Apply the match against the rule's ...
// GroupEntry (for GroupRule, with is_enumeration=false)"). This arises when
// a map/array entry type directly names a group (rare outside generics).
func (c *vctx) resolveGroupnameAsType(primary *ast.GroupRule, alternates []*ast.GroupRule, args []*ast.Type1, v value.Value) error {
	leave, err := c.enter()
	defer leave()
	if err != nil {
		return err
	}
	g := &ast.Group{Choices: []*ast.GroupChoice{}}
	if primary != nil {
		g.Choices = append(g.Choices, &ast.GroupChoice{Entries: []ast.GroupEntry{primary.Entry}})
	}
	for _, a := range alternates {
		g.Choices = append(g.Choices, &ast.GroupChoice{Entries: []ast.GroupEntry{a.Entry}})
	}
	switch arr := v.(type) {
	case value.Array:
		return c.matchArrayGroup(g, nil, arr)
	case value.Map:
		return c.matchMapGroup(g, arr)
	}
	return errf(c, StructureMismatch, "", "group-valued rule requires an array or map, got %s", describeValue(v))
}

func (c *vctx) matchPrelude(ident string, v value.Value) error {
	switch ident {
	case "any":
		return nil
	case "null", "nil":
		if _, ok := v.(value.Null); ok {
			return nil
		}
		return errf(c, ValueMismatch, ident, "expected null, got %s", describeValue(v))
	case "bool":
		if _, ok := v.(value.Bool); ok {
			return nil
		}
		return errf(c, ValueMismatch, ident, "expected bool, got %s", describeValue(v))
	case "true", "false":
		bv, ok := v.(value.Bool)
		want := ident == "true"
		if ok && bool(bv) == want {
			return nil
		}
		return errf(c, ValueMismatch, ident, "expected %s, got %s", ident, describeValue(v))
	case "uint", "unsigned":
		iv, ok := v.(value.Integer)
		if ok && iv.Sign() >= 0 {
			return nil
		}
		return errf(c, ValueMismatch, ident, "expected non-negative integer, got %s", describeValue(v))
	case "nint":
		iv, ok := v.(value.Integer)
		if ok && iv.Sign() < 0 {
			return nil
		}
		return errf(c, ValueMismatch, ident, "expected negative integer, got %s", describeValue(v))
	case "int", "integer":
		if _, ok := v.(value.Integer); ok {
			return nil
		}
		return errf(c, ValueMismatch, ident, "expected integer, got %s", describeValue(v))
	case "number":
		switch v.(type) {
		case value.Integer, value.Float:
			return nil
		}
		return errf(c, ValueMismatch, ident, "expected number, got %s", describeValue(v))
	case "float", "float16", "float32", "float64", "float16-32", "float32-64":
		switch v.(type) {
		case value.Float:
			return nil
		case value.Integer:
			if c.target == TargetJSON {
				// JSON numbers without a fractional part are classified
				// Integer (spec §9 open question); a strict float schema
				// still accepts an integer-valued JSON number.
				return nil
			}
		}
		return errf(c, ValueMismatch, ident, "expected %s, got %s", ident, describeValue(v))
	case "tstr", "text":
		if _, ok := v.(value.Text); ok {
			return nil
		}
		return errf(c, ValueMismatch, ident, "expected text string, got %s", describeValue(v))
	case "bstr", "bytes":
		if _, ok := v.(value.Bytes); ok {
			return nil
		}
		return errf(c, ValueMismatch, ident, "expected byte string, got %s", describeValue(v))
	case "tdate":
		tv, ok := v.(value.Text)
		if ok {
			if _, err := time.Parse(time.RFC3339, string(tv)); err == nil {
				return nil
			}
		}
		return errf(c, ValueMismatch, ident, "expected RFC 3339 date text, got %s", describeValue(v))
	case "time":
		switch v.(type) {
		case value.Integer, value.Float:
			return nil
		}
		return errf(c, ValueMismatch, ident, "expected numeric time, got %s", describeValue(v))
	case "uri":
		tv, ok := v.(value.Text)
		if ok && isURIReference(string(tv)) {
			return nil
		}
		return errf(c, ValueMismatch, ident, "expected URI reference text, got %s", describeValue(v))
	case "b64url":
		tv, ok := v.(value.Text)
		if ok {
			return nil
		}
		_ = tv
		return errf(c, ValueMismatch, ident, "expected base64url text, got %s", describeValue(v))
	}
	return errf(c, UnknownIdentifier, ident, "unrecognized prelude identifier %q", ident)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
