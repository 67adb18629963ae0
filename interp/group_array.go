package interp

import (
	"goa.design/cddl/ast"
	"goa.design/cddl/value"
)

// matchArrayGroup implements spec.md §4.5: succeed iff some GroupChoice of g
// matches vs fully. The second parameter is unused and every caller passes
// nil: array occurrence policy is read from the
// occurrence modifier on the group's own entries (see matchHomogeneousChoice),
// not from an occurrence attached to the array's use site — grounded on
// original_source's `validate_group_choice`, which reads `tge.occur` off the
// single group entry itself.
func (c *vctx) matchArrayGroup(g *ast.Group, _ *ast.Occur, vs value.Array) error {
	if len(g.Choices) == 0 {
		return errf(c, SyntaxError, "", "array group has no choices")
	}
	me := &MultiError{}
	for _, choice := range g.Choices {
		if err := c.matchArrayChoice(choice, vs); err == nil {
			return nil
		} else {
			me.Add(err)
		}
	}
	return me.AsError()
}

func (c *vctx) matchArrayChoice(choice *ast.GroupChoice, vs value.Array) error {
	if len(choice.Entries) == 1 {
		return c.matchHomogeneousChoice(choice.Entries[0], vs)
	}
	consumed, err := c.matchPositionalEntries(choice.Entries, []value.Value(vs))
	if err != nil {
		return err
	}
	if consumed != len(vs) {
		return errf(c, OccurrenceError, renderGroupEntry(choice.Entries[len(choice.Entries)-1]),
			"array has %d element(s), group entries account for %d", len(vs), consumed)
	}
	return nil
}

// matchHomogeneousChoice implements spec.md §4.5's single-entry / outer-occur
// table: the sole entry's occurrence decides how many repetitions are
// required, and every repetition must consume a contiguous run of the
// remaining elements (width 1 for a plain entry type, >1 when the entry
// expands to a multi-element tuple via TypeGroupname/InlineGroup).
func (c *vctx) matchHomogeneousChoice(entry ast.GroupEntry, vs value.Array) error {
	min, max := entry.EntryOccur().Bounds()
	if len(vs) == 0 {
		if min == 0 {
			return nil
		}
		return errf(c, OccurrenceError, renderGroupEntry(entry), "array must have at least %d element(s)", min)
	}
	idx := 0
	count := 0
	var lastErr error
	for idx < len(vs) {
		if max >= 0 && count >= max {
			break
		}
		ic := c.withIndex(idx)
		n, err := ic.matchUnitOnce(entry, []value.Value(vs)[idx:])
		if err != nil {
			lastErr = err
			break
		}
		if n == 0 {
			break
		}
		idx += n
		count++
	}
	if idx != len(vs) {
		if lastErr != nil {
			return lastErr
		}
		return errf(c, OccurrenceError, renderGroupEntry(entry), "%d trailing array element(s) did not match", len(vs)-idx)
	}
	if count < min {
		return errf(c, OccurrenceError, renderGroupEntry(entry), "array matched %d repetition(s), need at least %d", count, min)
	}
	return nil
}

// matchPositionalEntries implements the positional walk for a multi-entry
// group choice (spec §4.5 "If positional, walk entries in order").
func (c *vctx) matchPositionalEntries(entries []ast.GroupEntry, vs []value.Value) (int, error) {
	idx := 0
	for _, e := range entries {
		occur := e.EntryOccur()
		if occur != nil && !isExactlyOneOccur(occur) {
			n, err := c.matchRepeated(e, occur, vs[idx:])
			if err != nil {
				return idx, err
			}
			idx += n
			continue
		}
		ic := c.withIndex(idx)
		n, err := ic.matchUnitOnce(e, vs[idx:])
		if err != nil {
			return idx, err
		}
		idx += n
	}
	return idx, nil
}

func isExactlyOneOccur(o *ast.Occur) bool {
	min, max := o.Bounds()
	return min == 1 && max == 1
}

// matchRepeated drives zero-or-more/one-or-more/bounded repetitions of a
// single entry within a positional walk.
func (c *vctx) matchRepeated(entry ast.GroupEntry, occur *ast.Occur, vs []value.Value) (int, error) {
	min, max := occur.Bounds()
	idx, count := 0, 0
	for max < 0 || count < max {
		n, err := c.matchUnitOnce(entry, vs[idx:])
		if err != nil {
			break
		}
		if n == 0 {
			break
		}
		idx += n
		count++
	}
	if count < min {
		return idx, errf(c, OccurrenceError, renderGroupEntry(entry), "matched %d repetition(s), need at least %d", count, min)
	}
	return idx, nil
}

// matchUnitOnce matches exactly one repetition of entry against the front
// of vs, returning how many elements it consumed.
func (c *vctx) matchUnitOnce(entry ast.GroupEntry, vs []value.Value) (int, error) {
	if len(vs) == 0 {
		return 0, errf(c, OccurrenceError, renderGroupEntry(entry), "expected an array element, array exhausted")
	}
	switch e := entry.(type) {
	case *ast.ValueMemberKey:
		if err := c.matchType(e.EntryType, vs[0]); err != nil {
			return 0, err
		}
		return 1, nil

	case *ast.TypeGroupname:
		primary, alternates := lookupGroupRule(c.doc, e.Name)
		if primary == nil && len(alternates) == 0 {
			return c.matchUnitOnce(&ast.ValueMemberKey{
				EntryType: &ast.Type{Choices: []*ast.Type1{{Type2: &ast.Typename{Ident: e.Name, GenericArgs: e.GenericArgs}}}},
			}, vs)
		}
		leave, err := c.enter()
		defer leave()
		if err != nil {
			return 0, err
		}
		me := &MultiError{}
		candidates := alternates
		if primary != nil {
			candidates = append([]*ast.GroupRule{primary}, alternates...)
		}
		for _, r := range candidates {
			if n, err := c.matchUnitOnce(r.Entry, vs); err == nil {
				return n, nil
			} else {
				me.Add(err)
			}
		}
		return 0, me.AsError()

	case *ast.InlineGroup:
		return c.matchGroupEntriesOnce(e.Group, vs)
	}
	return 0, errf(c, SyntaxError, "", "unrecognized group entry in array context")
}

// matchGroupEntriesOnce matches exactly one repetition of a (possibly
// multi-choice) inline group: each choice's entries are consumed, in order,
// as one contiguous tuple; the first choice that fits wins.
func (c *vctx) matchGroupEntriesOnce(g *ast.Group, vs []value.Value) (int, error) {
	me := &MultiError{}
	for _, choice := range g.Choices {
		total := 0
		ok := true
		for _, sub := range choice.Entries {
			subOccur := sub.EntryOccur()
			if subOccur != nil && !isExactlyOneOccur(subOccur) {
				n, err := c.matchRepeated(sub, subOccur, vs[total:])
				if err != nil {
					me.Add(err)
					ok = false
					break
				}
				total += n
				continue
			}
			n, err := c.matchUnitOnce(sub, vs[total:])
			if err != nil {
				me.Add(err)
				ok = false
				break
			}
			total += n
		}
		if ok {
			return total, nil
		}
	}
	return 0, me.AsError()
}
