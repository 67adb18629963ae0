package interp

import "goa.design/cddl/ast"

// RootRule returns the first non-alternate TypeRule in document order,
// which spec.md §3.1 designates as the root of validation.
func RootRule(doc *ast.CDDL) *ast.TypeRule {
	for _, r := range doc.Rules {
		if tr, ok := r.(*ast.TypeRule); ok && !tr.IsAlternate {
			return tr
		}
	}
	return nil
}

// lookupTypeRule finds the primary (first non-alternate) TypeRule named
// name, plus every alternate TypeRule (`/=`, `//=`) sharing that name, in
// document order (spec §4.3 steps 2-3).
func lookupTypeRule(doc *ast.CDDL, name string) (primary *ast.TypeRule, alternates []*ast.TypeRule) {
	for _, r := range doc.Rules {
		tr, ok := r.(*ast.TypeRule)
		if !ok || tr.Name != name {
			continue
		}
		if tr.IsAlternate {
			alternates = append(alternates, tr)
			continue
		}
		if primary == nil {
			primary = tr
		}
	}
	return primary, alternates
}

// lookupGroupRule is the GroupRule analog of lookupTypeRule.
func lookupGroupRule(doc *ast.CDDL, name string) (primary *ast.GroupRule, alternates []*ast.GroupRule) {
	for _, r := range doc.Rules {
		gr, ok := r.(*ast.GroupRule)
		if !ok || gr.Name != name {
			continue
		}
		if gr.IsAlternate {
			alternates = append(alternates, gr)
			continue
		}
		if primary == nil {
			primary = gr
		}
	}
	return primary, alternates
}

// ruleExists reports whether any TypeRule or GroupRule is named name; used
// to disambiguate a bare Typename reference from an unknown identifier.
func ruleExists(doc *ast.CDDL, name string) bool {
	for _, r := range doc.Rules {
		if r.RuleName() == name {
			return true
		}
	}
	return false
}
