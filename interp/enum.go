package interp

import (
	"goa.design/cddl/ast"
	"goa.design/cddl/value"
)

// collectEnumTypes implements spec.md §4.9's "produces the set of
// entryTypes from every ValueMemberKey across every choice of G"; member
// keys are documentary only in this context, so a TypeGroupname entry is
// expanded in place (its referenced group's entries are collected too,
// recursively) rather than treated as a type reference.
func (c *vctx) collectEnumTypes(g *ast.Group, visited map[string]bool) []*ast.Type {
	var out []*ast.Type
	for _, choice := range g.Choices {
		out = append(out, c.collectEnumEntries(choice.Entries, visited)...)
	}
	return out
}

func (c *vctx) collectEnumEntries(entries []ast.GroupEntry, visited map[string]bool) []*ast.Type {
	var out []*ast.Type
	for _, e := range entries {
		switch ge := e.(type) {
		case *ast.ValueMemberKey:
			out = append(out, ge.EntryType)
		case *ast.InlineGroup:
			for _, choice := range ge.Group.Choices {
				out = append(out, c.collectEnumEntries(choice.Entries, visited)...)
			}
		case *ast.TypeGroupname:
			if visited[ge.Name] {
				continue
			}
			visited[ge.Name] = true
			primary, alternates := lookupGroupRule(c.doc, ge.Name)
			if primary != nil {
				out = append(out, c.collectEnumEntries([]ast.GroupEntry{primary.Entry}, visited)...)
			}
			for _, a := range alternates {
				out = append(out, c.collectEnumEntries([]ast.GroupEntry{a.Entry}, visited)...)
			}
		}
	}
	return out
}

// matchGroupToChoiceEnum implements spec.md §4.9: a value matches iff it
// matches at least one entryType collected from the group.
func (c *vctx) matchGroupToChoiceEnum(g *ast.Group, v value.Value) error {
	leave, err := c.enter()
	defer leave()
	if err != nil {
		return err
	}
	types := c.collectEnumTypes(g, map[string]bool{})
	me := &MultiError{}
	for _, t := range types {
		if err := c.matchType(t, v); err == nil {
			return nil
		} else {
			me.Add(err)
		}
	}
	if len(types) == 0 {
		return errf(c, NoEnumeratedMemberMatched, "", "group has no enumerable member keys")
	}
	wrapped := newError(NoEnumeratedMemberMatched, c.renderPath(), renderGroup(g), "value %s did not match any enumerated member type", describeValue(v))
	me.Add(wrapped)
	return me.AsError()
}
