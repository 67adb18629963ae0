package interp

import (
	"fmt"
	"strconv"
	"strings"

	"goa.design/cddl/ast"
	"goa.design/cddl/value"
)

// renderType renders a Type (spec §7 "expected shape (from the CDDL
// source)") as `choice1 / choice2 / ...`.
func renderType(t *ast.Type) string {
	if t == nil {
		return ""
	}
	parts := make([]string, 0, len(t.Choices))
	for _, c := range t.Choices {
		parts = append(parts, renderType1(c))
	}
	return strings.Join(parts, " / ")
}

func renderType1(t1 *ast.Type1) string {
	s := renderType2(t1.Type2)
	if t1.Operator == nil {
		return s
	}
	switch t1.Operator.Kind {
	case ast.RangeOperator:
		op := "..."
		if t1.Operator.Inclusive {
			op = ".."
		}
		return s + op + renderType2(t1.Operator.RHS)
	default:
		return s + "." + t1.Operator.Name + " " + renderType2(t1.Operator.RHS)
	}
}

func renderType2(t2 ast.Type2) string {
	switch v := t2.(type) {
	case *ast.TextValue:
		return strconv.Quote(v.Value)
	case *ast.ByteStringValue:
		return fmt.Sprintf("h'%x'", v.Value)
	case *ast.IntValue:
		return strconv.FormatInt(v.Value, 10)
	case *ast.UintValue:
		return strconv.FormatUint(v.Value, 10)
	case *ast.FloatValue:
		return strconv.FormatFloat(v.Value, 'g', -1, 64)
	case *ast.BoolValue:
		return strconv.FormatBool(v.Value)
	case *ast.Typename:
		if len(v.GenericArgs) == 0 {
			return v.Ident
		}
		args := make([]string, len(v.GenericArgs))
		for i, a := range v.GenericArgs {
			args[i] = renderType1(a)
		}
		return v.Ident + "<" + strings.Join(args, ", ") + ">"
	case *ast.ArrayType:
		return "[" + renderGroup(v.Group) + "]"
	case *ast.MapType:
		return "{" + renderGroup(v.Group) + "}"
	case *ast.ParenthesizedType:
		return "(" + renderType(v.Type) + ")"
	case *ast.TaggedData:
		if v.TagNumber != nil {
			return fmt.Sprintf("#6.%d(%s)", *v.TagNumber, renderType(v.Type))
		}
		return "#6(" + renderType(v.Type) + ")"
	case *ast.Unwrap:
		return "~" + v.Ident
	case *ast.ChoiceFromGroup:
		return "&" + v.Ident
	case *ast.ChoiceFromInlineGroup:
		return "&(" + renderGroup(v.Group) + ")"
	case *ast.AnyType:
		return "any"
	}
	return "?"
}

func renderGroup(g *ast.Group) string {
	if g == nil {
		return ""
	}
	parts := make([]string, 0, len(g.Choices))
	for _, gc := range g.Choices {
		entries := make([]string, 0, len(gc.Entries))
		for _, e := range gc.Entries {
			entries = append(entries, renderGroupEntry(e))
		}
		parts = append(parts, strings.Join(entries, ", "))
	}
	return strings.Join(parts, " // ")
}

func renderGroupEntry(e ast.GroupEntry) string {
	switch v := e.(type) {
	case *ast.ValueMemberKey:
		if v.MemberKey == nil {
			return renderType(v.EntryType)
		}
		return renderMemberKey(v.MemberKey) + " => " + renderType(v.EntryType)
	case *ast.TypeGroupname:
		return v.Name
	case *ast.InlineGroup:
		return "(" + renderGroup(v.Group) + ")"
	}
	return "?"
}

func renderMemberKey(mk ast.MemberKey) string {
	switch v := mk.(type) {
	case *ast.Bareword:
		return v.Ident + ":"
	case *ast.ValueKey:
		return renderType2(v.Literal) + ":"
	case *ast.Type1Key:
		if v.Cut {
			return renderType1(v.T1) + " ^"
		}
		return renderType1(v.T1)
	}
	return "?"
}

// describeValue renders a Value for diagnostic purposes.
func describeValue(v value.Value) string {
	if v == nil {
		return "<missing>"
	}
	switch val := v.(type) {
	case value.Null:
		return "null"
	case value.Bool:
		return strconv.FormatBool(bool(val))
	case value.Integer:
		return val.String()
	case value.Float:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	case value.Text:
		return strconv.Quote(string(val))
	case value.Bytes:
		return fmt.Sprintf("h'%x'", []byte(val))
	case value.Array:
		return fmt.Sprintf("array[%d]", len(val))
	case value.Map:
		return fmt.Sprintf("map[%d]", len(val))
	case value.Tag:
		return fmt.Sprintf("tag(%d, %s)", val.Number, describeValue(val.Content))
	}
	return fmt.Sprintf("%v", v)
}
