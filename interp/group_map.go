package interp

import (
	"goa.design/cddl/ast"
	"goa.design/cddl/value"
)

// matchMapGroup implements spec.md §4.6: succeed iff some GroupChoice of g
// accepts m without error.
func (c *vctx) matchMapGroup(g *ast.Group, m value.Map) error {
	if len(g.Choices) == 0 {
		return errf(c, SyntaxError, "", "map group has no choices")
	}
	me := &MultiError{}
	for _, choice := range g.Choices {
		if err := c.matchMapChoice(choice, m); err == nil {
			return nil
		} else {
			me.Add(err)
		}
	}
	return me.AsError()
}

// wildcardEntry reports whether e is the §4.6 wildcard: a ValueMemberKey
// with ZeroOrMore occurrence whose member key is a non-cut Type1 key typed
// tstr/text.
func wildcardEntry(e ast.GroupEntry) (*ast.ValueMemberKey, bool) {
	vmk, ok := e.(*ast.ValueMemberKey)
	if !ok || vmk.Occur == nil || vmk.Occur.Kind != ast.ZeroOrMore {
		return nil, false
	}
	t1k, ok := vmk.MemberKey.(*ast.Type1Key)
	if !ok || t1k.Cut || t1k.T1.Operator != nil {
		return nil, false
	}
	tn, ok := t1k.T1.Type2.(*ast.Typename)
	if !ok || len(tn.GenericArgs) != 0 {
		return nil, false
	}
	if tn.Ident != "tstr" && tn.Ident != "text" {
		return nil, false
	}
	return vmk, true
}

func (c *vctx) matchMapChoice(choice *ast.GroupChoice, m value.Map) error {
	consumed := make([]bool, len(m))
	var wildcard *ast.ValueMemberKey
	for _, e := range choice.Entries {
		if w, ok := wildcardEntry(e); ok {
			wildcard = w
			break
		}
	}
	for _, e := range choice.Entries {
		if _, ok := wildcardEntry(e); ok {
			continue
		}
		if err := c.matchMapEntry(e, m, consumed, wildcard); err != nil {
			return err
		}
	}
	for i, used := range consumed {
		if used {
			continue
		}
		entry := m[i]
		if wildcard == nil {
			return errf(c, UnexpectedKey, describeValue(entry.Key), "unexpected map key %s", describeValue(entry.Key))
		}
		kc := c.withKey(describeValue(entry.Key))
		if err := kc.matchType(wildcard.EntryType, entry.Value); err != nil {
			return err
		}
		consumed[i] = true
	}
	return nil
}

// findUnconsumed returns the index of the first unconsumed map entry whose
// key equals key, or -1.
func findUnconsumed(m value.Map, consumed []bool, key value.Value) int {
	for i, e := range m {
		if consumed[i] {
			continue
		}
		if value.Equal(e.Key, key) {
			return i
		}
	}
	return -1
}

// missingKeyPolicy implements spec.md §4.6 step 2's absence table for
// Bareword/Value-literal member keys.
func missingKeyPolicy(occur *ast.Occur) (skip bool) {
	min, _ := occur.Bounds()
	return min == 0
}

func (c *vctx) matchMapEntry(e ast.GroupEntry, m value.Map, consumed []bool, wildcard *ast.ValueMemberKey) error {
	switch ge := e.(type) {
	case *ast.ValueMemberKey:
		return c.matchMapValueMemberKey(ge, m, consumed, wildcard)

	case *ast.TypeGroupname:
		leave, err := c.enter()
		defer leave()
		if err != nil {
			return err
		}
		primary, alternates := lookupGroupRule(c.doc, ge.Name)
		if primary == nil && len(alternates) == 0 {
			if inner, err := c.resolveContainer(ge.Name, ge.GenericArgs, map[string]bool{}); err == nil && inner.mapGroup != nil {
				return c.matchMapChoice(inner.mapGroup.Choices[0], m)
			}
			return errf(c, UnknownIdentifier, ge.Name, "identifier %q does not resolve to a group for map composition", ge.Name)
		}
		if primary != nil {
			if err := c.matchMapEntry(primary.Entry, m, consumed, wildcard); err != nil {
				return err
			}
		}
		for _, a := range alternates {
			if err := c.matchMapEntry(a.Entry, m, consumed, wildcard); err != nil {
				return err
			}
		}
		return nil

	case *ast.InlineGroup:
		return c.matchMapInlineGroup(ge, m, consumed, wildcard)
	}
	return errf(c, SyntaxError, "", "unrecognized group entry in map context")
}

func (c *vctx) matchMapValueMemberKey(ge *ast.ValueMemberKey, m value.Map, consumed []bool, wildcard *ast.ValueMemberKey) error {
	switch mk := ge.MemberKey.(type) {
	case *ast.Bareword:
		return c.matchMapLiteralKey(ge, value.Text(mk.Ident), m, consumed)

	case *ast.ValueKey:
		key, err := literalType2ToValue(mk.Literal)
		if err != nil {
			return errf(c, SyntaxError, renderMemberKey(mk), "%v", err)
		}
		return c.matchMapLiteralKey(ge, key, m, consumed)

	case *ast.Type1Key:
		min, max := ge.Occur.Bounds()
		count := 0
		for i, entry := range m {
			if consumed[i] {
				continue
			}
			if max >= 0 && count >= max {
				break
			}
			if err := c.matchType1(mk.T1, entry.Key); err != nil {
				continue
			}
			kc := c.withKey(describeValue(entry.Key))
			if err := kc.matchType(ge.EntryType, entry.Value); err != nil {
				if mk.Cut {
					return err
				}
				continue
			}
			consumed[i] = true
			count++
		}
		if count < min {
			if isDefaultControlled(ge.EntryType) {
				return nil
			}
			return errf(c, MissingKey, renderMemberKey(mk), "matched %d entries for key type %s, need at least %d", count, renderType1(mk.T1), min)
		}
		return nil

	case nil:
		return nil
	}
	return errf(c, SyntaxError, "", "unrecognized member key form")
}

func (c *vctx) matchMapLiteralKey(ge *ast.ValueMemberKey, key value.Value, m value.Map, consumed []bool) error {
	idx := findUnconsumed(m, consumed, key)
	if idx < 0 {
		if missingKeyPolicy(ge.Occur) || isDefaultControlled(ge.EntryType) {
			return nil
		}
		return errf(c, MissingKey, describeValue(key), "required key %s is missing", describeValue(key))
	}
	kc := c.withKey(describeValue(key))
	if err := kc.matchType(ge.EntryType, m[idx].Value); err != nil {
		return err
	}
	consumed[idx] = true
	return nil
}

func (c *vctx) matchMapInlineGroup(ge *ast.InlineGroup, m value.Map, consumed []bool, wildcard *ast.ValueMemberKey) error {
	me := &MultiError{}
	for _, choice := range ge.Group.Choices {
		trial := append([]bool{}, consumed...)
		ok := true
		for _, sub := range choice.Entries {
			if w, isWildcard := wildcardEntry(sub); isWildcard {
				wildcard = w
				continue
			}
			if err := c.matchMapEntry(sub, m, trial, wildcard); err != nil {
				me.Add(err)
				ok = false
				break
			}
		}
		if ok {
			copy(consumed, trial)
			return nil
		}
	}
	return me.AsError()
}

// literalType2ToValue converts a literal Type2 (used as a ValueKey) into the
// value.Value it denotes, for map-key comparison.
func literalType2ToValue(t2 ast.Type2) (value.Value, error) {
	switch v := t2.(type) {
	case *ast.TextValue:
		return value.Text(v.Value), nil
	case *ast.ByteStringValue:
		return value.Bytes(v.Value), nil
	case *ast.IntValue:
		return value.NewInteger(v.Value), nil
	case *ast.UintValue:
		return value.NewUinteger(v.Value), nil
	case *ast.FloatValue:
		return value.Float(v.Value), nil
	case *ast.BoolValue:
		return value.Bool(v.Value), nil
	}
	return nil, errUnsupportedLiteralKey
}

var errUnsupportedLiteralKey = &Error{Kind: SyntaxError, Message: "unsupported literal member key form"}
