// Package ast defines the immutable tree produced by parsing a CDDL
// document (RFC 8610). The interpreter (package interp) only ever reads
// this tree; nothing in this module mutates it after parsing.
//
// Grounded on the shape of _examples/original_source/src/ast.rs, adapted
// from Rust enums to Go tagged interfaces in the style the teacher repo
// uses for its own expression tree (goa.design/goa-ai's expr/agent package:
// small interfaces with one concrete struct per variant, rather than a
// generic any-typed node).
package ast

// Span is a node's start and end byte offsets within the original CDDL
// source text. The parser does not fill it in, so every node carries the
// zero Span; neither parse errors nor validation diagnostics read it.
type Span struct {
	Start int
	End   int
}
