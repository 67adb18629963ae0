package interp

import "goa.design/cddl/ast"

// bindGenericFrame implements spec.md §4.3 step 4 / §9 "Generic parameters":
// positional binding of generic arguments to a rule's declared parameter
// names, checked for arity (spec §3.1 invariant "Generic parameter arity
// must match the arity of any generic argument list").
func bindGenericFrame(params []string, args []*ast.Type1) (genericFrame, error) {
	if len(params) != len(args) {
		return genericFrame{}, newError(SyntaxError, "", "", "generic arity mismatch: rule declares %d parameter(s), %d argument(s) supplied", len(params), len(args))
	}
	bindings := make(map[string]*ast.Type1, len(params))
	for i, p := range params {
		bindings[p] = args[i]
	}
	return genericFrame{bindings: bindings}, nil
}
