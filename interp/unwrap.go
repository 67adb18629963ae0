package interp

import (
	"goa.design/cddl/ast"
	"goa.design/cddl/value"
)

// containerInterior is what resolveContainer resolves a Typename to: either
// the group backing an Array/Map, or the Type wrapped by a TaggedData.
type containerInterior struct {
	arrayGroup *ast.Group
	mapGroup   *ast.Group
	tagged     *ast.TaggedData
}

// resolveContainer implements spec.md §4.4: resolve ident to its first type
// choice (across the primary rule and its alternates, in order) whose
// Type2 is Array, Map, or TaggedData.
func (c *vctx) resolveContainer(ident string, args []*ast.Type1, visited map[string]bool) (*containerInterior, error) {
	if visited[ident] {
		return nil, errf(c, UnwrapNotContainer, ident, "cyclic reference while resolving %q for unwrap", ident)
	}
	visited[ident] = true

	primary, alternates := lookupTypeRule(c.doc, ident)
	if primary == nil {
		return nil, errf(c, UnwrapNotContainer, ident, "identifier %q does not resolve to a type rule", ident)
	}
	rules := append([]*ast.TypeRule{primary}, alternates...)
	for _, r := range rules {
		for _, choice := range r.Value.Choices {
			switch t2 := choice.Type2.(type) {
			case *ast.ArrayType:
				return &containerInterior{arrayGroup: t2.Group}, nil
			case *ast.MapType:
				return &containerInterior{mapGroup: t2.Group}, nil
			case *ast.TaggedData:
				return &containerInterior{tagged: t2}, nil
			case *ast.Typename:
				if inner, err := c.resolveContainer(t2.Ident, t2.GenericArgs, visited); err == nil {
					return inner, nil
				}
			}
		}
	}
	return nil, errf(c, UnwrapNotContainer, ident, "identifier %q has no Array, Map, or TaggedData type choice reachable for unwrap", ident)
}

// matchUnwrap implements spec.md §4.4: splice the container's interior into
// the surrounding context, i.e. match v against the group/type directly as
// if ident had been replaced by its interior.
func (c *vctx) matchUnwrap(ident string, args []*ast.Type1, v value.Value) error {
	leave, err := c.enter()
	defer leave()
	if err != nil {
		return err
	}
	inner, err := c.resolveContainer(ident, args, map[string]bool{})
	if err != nil {
		return err
	}
	switch {
	case inner.arrayGroup != nil:
		arr, ok := v.(value.Array)
		if !ok {
			return errf(c, StructureMismatch, "~"+ident, "expected array for unwrap of %q, got %s", ident, describeValue(v))
		}
		return c.matchArrayGroup(inner.arrayGroup, nil, arr)
	case inner.mapGroup != nil:
		m, ok := v.(value.Map)
		if !ok {
			return errf(c, StructureMismatch, "~"+ident, "expected map for unwrap of %q, got %s", ident, describeValue(v))
		}
		return c.matchMapGroup(inner.mapGroup, m)
	case inner.tagged != nil:
		return c.matchTaggedData(inner.tagged, v)
	}
	return errf(c, UnwrapNotContainer, ident, "identifier %q is not a container", ident)
}

// resolveGroupForChoice implements the lookup half of `&ident` (spec §4.9):
// ident must name a group rule (directly, or transitively through a
// container Typename), combining the primary rule and all alternates into
// one Group whose choices are enumerated.
func (c *vctx) resolveGroupForChoice(ident string, args []*ast.Type1) (*ast.Group, error) {
	primary, alternates := lookupGroupRule(c.doc, ident)
	if primary != nil || len(alternates) > 0 {
		g := &ast.Group{}
		if primary != nil {
			g.Choices = append(g.Choices, &ast.GroupChoice{Entries: []ast.GroupEntry{primary.Entry}})
		}
		for _, a := range alternates {
			g.Choices = append(g.Choices, &ast.GroupChoice{Entries: []ast.GroupEntry{a.Entry}})
		}
		return g, nil
	}
	inner, err := c.resolveContainer(ident, args, map[string]bool{})
	if err != nil {
		return nil, errf(c, UnknownIdentifier, ident, "identifier %q does not resolve to a group for enumeration", ident)
	}
	if inner.arrayGroup != nil {
		return inner.arrayGroup, nil
	}
	if inner.mapGroup != nil {
		return inner.mapGroup, nil
	}
	return nil, errf(c, UnknownIdentifier, ident, "identifier %q does not resolve to a group for enumeration", ident)
}
