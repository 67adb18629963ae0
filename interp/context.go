package interp

import (
	"context"
	"strconv"
	"strings"

	"goa.design/cddl/ast"
)

// TargetKind distinguishes the two supported instance formats. It decides
// whether a non-tag value may satisfy TaggedData (§4.2 TaggedData row) and
// whether the float prelude types accept an Integer; diagnostic paths are
// rendered the same way for both.
type TargetKind int

const (
	TargetJSON TargetKind = iota
	TargetCBOR
)

// Options configures a Validate call (spec §5 resource model).
type Options struct {
	// MaxDepth bounds rule-reference/generic-expansion recursion.
	// Defaults to 256 when zero.
	MaxDepth int
}

func (o Options) maxDepth() int {
	if o.MaxDepth <= 0 {
		return 256
	}
	return o.MaxDepth
}

// genericFrame binds a generic rule's parameter names to the Type1
// arguments supplied at a particular call site (spec §4.3 step 4, §9
// "Generic parameters": bindings live on the call stack, the AST is never
// rewritten).
type genericFrame struct {
	bindings map[string]*ast.Type1
}

// pathSeg is one segment of the path into the instance rendered in
// diagnostics (spec §7 "user-visible output").
type pathSeg struct {
	key   string
	index int
	isKey bool
}

// vctx ("validation context") is threaded through every matchX call. It is
// never mutated in place across alternatives: each alternative gets a
// shallow copy via withKey/withIndex/pushGeneric so sibling branches of an
// alternation never see each other's path or generic bindings.
type vctx struct {
	doc      *ast.CDDL
	target   TargetKind
	opts     Options
	goCtx    context.Context
	depth    int
	generics []genericFrame
	path     []pathSeg
}

func newRootCtx(goCtx context.Context, doc *ast.CDDL, target TargetKind, opts Options) *vctx {
	return &vctx{doc: doc, target: target, opts: opts, goCtx: goCtx}
}

func (c *vctx) withKey(key string) *vctx {
	n := *c
	n.path = append(append([]pathSeg{}, c.path...), pathSeg{key: key, isKey: true})
	return &n
}

func (c *vctx) withIndex(i int) *vctx {
	n := *c
	n.path = append(append([]pathSeg{}, c.path...), pathSeg{index: i})
	return &n
}

func (c *vctx) renderPath() string {
	if len(c.path) == 0 {
		return ""
	}
	var b strings.Builder
	for _, seg := range c.path {
		b.WriteByte('/')
		if seg.isKey {
			b.WriteString(strings.NewReplacer("~", "~0", "/", "~1").Replace(seg.key))
		} else {
			b.WriteString(strconv.Itoa(seg.index))
		}
	}
	return b.String()
}

// enter bumps the recursion depth for one rule expansion (a type-rule or
// group-rule reference, an unwrap, or an `&` enumeration), failing with RecursionLimit on exceedance and checking for Go
// context cancellation (spec §5). It returns a function to restore the
// previous depth; callers defer it.
func (c *vctx) enter() (func(), error) {
	if c.goCtx != nil {
		select {
		case <-c.goCtx.Done():
			return func() {}, newError(Cancelled, c.renderPath(), "", "validation cancelled: %v", c.goCtx.Err())
		default:
		}
	}
	c.depth++
	if c.depth > c.opts.maxDepth() {
		d := c.depth
		c.depth--
		return func() {}, newError(RecursionLimit, c.renderPath(), "", "recursion depth exceeded limit of %d", d-1)
	}
	return func() { c.depth-- }, nil
}

func (c *vctx) pushGeneric(frame genericFrame) *vctx {
	n := *c
	n.generics = append(append([]genericFrame{}, c.generics...), frame)
	return &n
}

// lookupGeneric searches the generic-binding stack from the innermost frame
// outward, so a bound name shadows any outer rule of the same name (spec §9
// "Each bound name shadows any outer rule of the same name within the
// substitution scope").
func (c *vctx) lookupGeneric(name string) (*ast.Type1, bool) {
	for i := len(c.generics) - 1; i >= 0; i-- {
		if t1, ok := c.generics[i].bindings[name]; ok {
			return t1, true
		}
	}
	return nil, false
}

func errf(c *vctx, kind Kind, expected, format string, args ...any) *Error {
	return newError(kind, c.renderPath(), expected, format, args...)
}
