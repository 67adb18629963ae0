package interp

import (
	"context"

	"goa.design/cddl/ast"
	"goa.design/cddl/value"
)

// Validate implements spec.md §6's top-level entry point: match v against
// doc's root rule (the first non-alternate TypeRule in document order, spec
// §3.1),
// returning a Result that carries every accumulated diagnostic.
func Validate(goCtx context.Context, doc *ast.CDDL, v value.Value, target TargetKind, opts Options) *Result {
	root := RootRule(doc)
	if root == nil {
		return &Result{Errors: &MultiError{Errors: []error{
			newError(SyntaxError, "", "", "document has no root type rule"),
		}}}
	}
	c := newRootCtx(goCtx, doc, target, opts)
	err := c.matchType(root.Value, v)
	me := &MultiError{}
	me.Add(err)
	return &Result{Errors: me}
}
