package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goa.design/cddl/ast"
	"goa.design/cddl/parser"
)

func TestParseSimpleTypeRule(t *testing.T) {
	doc, err := parser.Parse(`myrule = tstr`)
	require.NoError(t, err)
	require.Len(t, doc.Rules, 1)
	tr, ok := doc.Rules[0].(*ast.TypeRule)
	require.True(t, ok)
	assert.Equal(t, "myrule", tr.Name)
	require.Len(t, tr.Value.Choices, 1)
	tn, ok := tr.Value.Choices[0].Type2.(*ast.Typename)
	require.True(t, ok)
	assert.Equal(t, "tstr", tn.Ident)
}

func TestParseTypeChoice(t *testing.T) {
	doc, err := parser.Parse(`x = 1 / 2 / 3`)
	require.NoError(t, err)
	tr := doc.Rules[0].(*ast.TypeRule)
	require.Len(t, tr.Value.Choices, 3)
}

func TestParseMapWithBarewordAndNestedMap(t *testing.T) {
	doc, err := parser.Parse(`G = { city: tstr, gps: { longitude: uint, latitude: uint } }`)
	require.NoError(t, err)
	tr := doc.Rules[0].(*ast.TypeRule)
	mt, ok := tr.Value.Choices[0].Type2.(*ast.MapType)
	require.True(t, ok)
	require.Len(t, mt.Group.Choices, 1)
	entries := mt.Group.Choices[0].Entries
	require.Len(t, entries, 2)

	e0, ok := entries[0].(*ast.ValueMemberKey)
	require.True(t, ok)
	bw, ok := e0.MemberKey.(*ast.Bareword)
	require.True(t, ok)
	assert.Equal(t, "city", bw.Ident)

	e1, ok := entries[1].(*ast.ValueMemberKey)
	require.True(t, ok)
	bw1, ok := e1.MemberKey.(*ast.Bareword)
	require.True(t, ok)
	assert.Equal(t, "gps", bw1.Ident)
	_, ok = e1.EntryType.Choices[0].Type2.(*ast.MapType)
	assert.True(t, ok)
}

func TestParseArrayWithOccurrenceAndGroupnameReference(t *testing.T) {
	doc, err := parser.Parse(`
		myobject = { mykey: tstr, myarray: [1* inner] }
		inner = { myotherkey: tstr }
	`)
	require.NoError(t, err)
	require.Len(t, doc.Rules, 2)
	tr := doc.Rules[0].(*ast.TypeRule)
	mt := tr.Value.Choices[0].Type2.(*ast.MapType)
	entries := mt.Group.Choices[0].Entries
	require.Len(t, entries, 2)
	arrEntry := entries[1].(*ast.ValueMemberKey)
	at, ok := arrEntry.EntryType.Choices[0].Type2.(*ast.ArrayType)
	require.True(t, ok)
	require.Len(t, at.Group.Choices[0].Entries, 1)

	tg, ok := at.Group.Choices[0].Entries[0].(*ast.TypeGroupname)
	require.True(t, ok)
	assert.Equal(t, "inner", tg.Name)
	require.NotNil(t, tg.Occur)
	min, max := tg.Occur.Bounds()
	assert.Equal(t, 1, min)
	assert.Equal(t, -1, max)
}

func TestParseGroupRuleViaParentheses(t *testing.T) {
	doc, err := parser.Parse(`
		color = &colors
		colors = (red: "red", blue: "blue", green: "green")
	`)
	require.NoError(t, err)
	require.Len(t, doc.Rules, 2)

	tr, ok := doc.Rules[0].(*ast.TypeRule)
	require.True(t, ok)
	cfg, ok := tr.Value.Choices[0].Type2.(*ast.ChoiceFromGroup)
	require.True(t, ok)
	assert.Equal(t, "colors", cfg.Ident)

	gr, ok := doc.Rules[1].(*ast.GroupRule)
	require.True(t, ok)
	assert.Equal(t, "colors", gr.Name)
	ig, ok := gr.Entry.(*ast.InlineGroup)
	require.True(t, ok)
	require.Len(t, ig.Group.Choices, 1)
	require.Len(t, ig.Group.Choices[0].Entries, 3)

	vmk, ok := ig.Group.Choices[0].Entries[0].(*ast.ValueMemberKey)
	require.True(t, ok)
	bw, ok := vmk.MemberKey.(*ast.Bareword)
	require.True(t, ok)
	assert.Equal(t, "red", bw.Ident)
	tv, ok := vmk.EntryType.Choices[0].Type2.(*ast.TextValue)
	require.True(t, ok)
	assert.Equal(t, "red", tv.Value)
}

func TestParseRangeOperator(t *testing.T) {
	doc, err := parser.Parse(`myrange = lower..upper`)
	require.NoError(t, err)
	tr := doc.Rules[0].(*ast.TypeRule)
	t1 := tr.Value.Choices[0]
	require.NotNil(t, t1.Operator)
	assert.Equal(t, ast.RangeOperator, t1.Operator.Kind)
	assert.True(t, t1.Operator.Inclusive)
}

func TestParseExclusiveRangeOperator(t *testing.T) {
	doc, err := parser.Parse(`badrange = 1.5...4`)
	require.NoError(t, err)
	tr := doc.Rules[0].(*ast.TypeRule)
	t1 := tr.Value.Choices[0]
	require.NotNil(t, t1.Operator)
	assert.Equal(t, ast.RangeOperator, t1.Operator.Kind)
	assert.False(t, t1.Operator.Inclusive)
	fv, ok := t1.Type2.(*ast.FloatValue)
	require.True(t, ok)
	assert.InDelta(t, 1.5, fv.Value, 1e-9)
}

func TestParseControlOperator(t *testing.T) {
	doc, err := parser.Parse(`limited = tstr .size 10`)
	require.NoError(t, err)
	tr := doc.Rules[0].(*ast.TypeRule)
	t1 := tr.Value.Choices[0]
	require.NotNil(t, t1.Operator)
	assert.Equal(t, ast.ControlOperator, t1.Operator.Kind)
	assert.Equal(t, "size", t1.Operator.Name)
}

func TestParseCutInMap(t *testing.T) {
	doc, err := parser.Parse(`M = { ? "optional-key" ^ => int, * tstr => any }`)
	require.NoError(t, err)
	tr := doc.Rules[0].(*ast.TypeRule)
	mt := tr.Value.Choices[0].Type2.(*ast.MapType)
	entries := mt.Group.Choices[0].Entries
	require.Len(t, entries, 2)

	e0 := entries[0].(*ast.ValueMemberKey)
	min, max := e0.Occur.Bounds()
	assert.Equal(t, 0, min)
	assert.Equal(t, 1, max)
	tk, ok := e0.MemberKey.(*ast.Type1Key)
	require.True(t, ok)
	assert.True(t, tk.Cut)
	tv, ok := tk.T1.Type2.(*ast.TextValue)
	require.True(t, ok)
	assert.Equal(t, "optional-key", tv.Value)

	e1 := entries[1].(*ast.ValueMemberKey)
	emin, emax := e1.Occur.Bounds()
	assert.Equal(t, 0, emin)
	assert.Equal(t, -1, emax)
	tk1, ok := e1.MemberKey.(*ast.Type1Key)
	require.True(t, ok)
	assert.False(t, tk1.Cut)
}

func TestParseTaggedData(t *testing.T) {
	doc, err := parser.Parse(`tagged = #6.32(tstr)`)
	require.NoError(t, err)
	tr := doc.Rules[0].(*ast.TypeRule)
	td, ok := tr.Value.Choices[0].Type2.(*ast.TaggedData)
	require.True(t, ok)
	require.NotNil(t, td.TagNumber)
	assert.Equal(t, uint64(32), *td.TagNumber)
}

func TestParseUnwrapAndAny(t *testing.T) {
	doc, err := parser.Parse(`
		u = ~wrapped
		wrapped = [int]
		everything = any
	`)
	require.NoError(t, err)
	tr := doc.Rules[0].(*ast.TypeRule)
	uw, ok := tr.Value.Choices[0].Type2.(*ast.Unwrap)
	require.True(t, ok)
	assert.Equal(t, "wrapped", uw.Ident)

	tr3 := doc.Rules[2].(*ast.TypeRule)
	_, ok = tr3.Value.Choices[0].Type2.(*ast.AnyType)
	assert.True(t, ok)
}

func TestParseGenericRule(t *testing.T) {
	doc, err := parser.Parse(`
		pair<A, B> = [A, B]
		intpair = pair<int, int>
	`)
	require.NoError(t, err)
	tr := doc.Rules[0].(*ast.TypeRule)
	assert.Equal(t, []string{"A", "B"}, tr.GenericParams)

	tr2 := doc.Rules[1].(*ast.TypeRule)
	tn := tr2.Value.Choices[0].Type2.(*ast.Typename)
	assert.Equal(t, "pair", tn.Ident)
	require.Len(t, tn.GenericArgs, 2)
}

func TestParseInvalidSyntaxReturnsError(t *testing.T) {
	_, err := parser.Parse(`this is not valid cddl = = =`)
	assert.Error(t, err)
}

func TestParseEmptyInputReturnsError(t *testing.T) {
	_, err := parser.Parse(``)
	assert.Error(t, err)
}
