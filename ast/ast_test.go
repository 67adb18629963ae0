package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"goa.design/cddl/ast"
)

func TestOccurBoundsNil(t *testing.T) {
	var o *ast.Occur
	min, max := o.Bounds()
	assert.Equal(t, 1, min)
	assert.Equal(t, 1, max)
}

func TestOccurBoundsKinds(t *testing.T) {
	cases := []struct {
		name    string
		occur   *ast.Occur
		min     int
		max     int
	}{
		{"zero-or-more", &ast.Occur{Kind: ast.ZeroOrMore}, 0, -1},
		{"one-or-more", &ast.Occur{Kind: ast.OneOrMore}, 1, -1},
		{"optional", &ast.Occur{Kind: ast.Optional}, 0, 1},
		{"exact both bounds", &ast.Occur{Kind: ast.Exact, Lower: intPtr(2), Upper: intPtr(5)}, 2, 5},
		{"exact lower only", &ast.Occur{Kind: ast.Exact, Lower: intPtr(3)}, 3, -1},
		{"exact upper only", &ast.Occur{Kind: ast.Exact, Upper: intPtr(4)}, 0, 4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			min, max := c.occur.Bounds()
			assert.Equal(t, c.min, min)
			assert.Equal(t, c.max, max)
		})
	}
}

func intPtr(v int) *int { return &v }
