package interp

import "goa.design/cddl/ast"

// preludeClass is one of the groups spec.md §4.1 classifies prelude
// identifiers into.
type preludeClass int

const (
	classNull preludeClass = iota
	classBool
	classNumeric
	classText
	classBytes
	classAny
	classTemporal
	classURI
	classB64URL
)

var preludeMembers = map[string]preludeClass{
	"null": classNull, "nil": classNull,
	"bool": classBool, "true": classBool, "false": classBool,
	"uint": classNumeric, "nint": classNumeric, "int": classNumeric,
	"integer": classNumeric, "number": classNumeric, "unsigned": classNumeric,
	"float": classNumeric, "float16": classNumeric, "float32": classNumeric,
	"float64": classNumeric, "float16-32": classNumeric, "float32-64": classNumeric,
	"tstr": classText, "text": classText,
	"bstr": classBytes, "bytes": classBytes,
	"any":   classAny,
	"tdate": classTemporal, "time": classTemporal,
	"uri":    classURI,
	"b64url": classB64URL,
}

// isPreludeIdent reports whether ident is one of the CDDL prelude data
// types at all (any class).
func isPreludeIdent(ident string) bool {
	_, ok := preludeMembers[ident]
	return ok
}

// identIsClass implements spec.md §4.1's "predicates such as is-numeric(ident)
// follow the definition transitively": if ident is a prelude member of the
// class directly, it holds; otherwise every rule named ident (including
// choice-alternates, since the predicate asks about "any type choice of the
// rule") is inspected, recursing through Typename references. Cycles are
// broken with visited.
func (c *vctx) identIsClass(ident string, class preludeClass, visited map[string]bool) bool {
	if cl, ok := preludeMembers[ident]; ok {
		return cl == class
	}
	if visited[ident] {
		return false
	}
	visited[ident] = true
	for _, r := range c.doc.Rules {
		tr, ok := r.(*ast.TypeRule)
		if !ok || tr.Name != ident {
			continue
		}
		for _, choice := range tr.Value.Choices {
			if c.type2IsClass(choice.Type2, class, visited) {
				return true
			}
		}
	}
	return false
}

// type2IsClass checks whether a Type2 (a literal, or a Typename reference)
// belongs to the given prelude class.
func (c *vctx) type2IsClass(t2 ast.Type2, class preludeClass, visited map[string]bool) bool {
	switch v := t2.(type) {
	case *ast.Typename:
		return c.identIsClass(v.Ident, class, visited)
	case *ast.IntValue, *ast.UintValue, *ast.FloatValue:
		return class == classNumeric
	case *ast.TextValue:
		return class == classText
	case *ast.ByteStringValue:
		return class == classBytes
	case *ast.BoolValue:
		return class == classBool
	case *ast.AnyType:
		return class == classAny
	}
	return false
}

// isNumericIdent is the §4.1 is-numeric predicate used by the range
// evaluator and control engine.
func (c *vctx) isNumericIdent(ident string) bool {
	return c.identIsClass(ident, classNumeric, map[string]bool{})
}
