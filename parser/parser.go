package parser

import (
	"fmt"
	"strconv"
	"strings"

	"goa.design/cddl/ast"
)

// parser is a recursive-descent parser over a fully tokenized input. Full
// upfront tokenization (rather than a streaming lexer) keeps the
// type-rule/group-rule disambiguation below cheap: it is plain index
// save/restore instead of a lexer-state snapshot.
type parser struct {
	toks []Token
	pos  int
}

func lexAll(src string) ([]Token, error) {
	lx := NewLexer(src)
	var toks []Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == TEOF {
			break
		}
	}
	return toks, nil
}

// Parse implements spec.md §4.10: turn CDDL source text into an *ast.CDDL.
func Parse(src string) (*ast.CDDL, error) {
	toks, err := lexAll(src)
	if err != nil {
		return nil, fmt.Errorf("lexing CDDL: %w", err)
	}
	p := &parser{toks: toks}
	doc := &ast.CDDL{}
	for p.cur().Kind != TEOF {
		rule, err := p.parseRule()
		if err != nil {
			return nil, fmt.Errorf("parsing CDDL: %w", err)
		}
		doc.Rules = append(doc.Rules, rule)
	}
	if len(doc.Rules) == 0 {
		return nil, fmt.Errorf("parsing CDDL: no rules found")
	}
	return doc, nil
}

func (p *parser) cur() Token {
	return p.toks[p.pos]
}

func (p *parser) peekAt(n int) Token {
	idx := p.pos + n
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}

func (p *parser) advance() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(k TokKind) (Token, error) {
	if p.cur().Kind != k {
		return Token{}, fmt.Errorf("unexpected token %q at offset %d", p.cur().Text, p.cur().Pos)
	}
	return p.advance(), nil
}

// atRuleStart reports whether the parser is positioned at the start of a
// new top-level rule (`ident [<params>] (= | /= | //=)`), used to bound a
// bare (unbracketed) group-rule body.
func (p *parser) atRuleStart() bool {
	if p.cur().Kind != TIdent {
		return false
	}
	j := p.pos + 1
	if j < len(p.toks) && p.toks[j].Kind == TLAngle {
		depth := 0
		for j < len(p.toks) {
			switch p.toks[j].Kind {
			case TLAngle:
				depth++
			case TRAngle:
				depth--
				j++
				if depth == 0 {
					goto checkAssign
				}
				continue
			}
			j++
		}
	checkAssign:
	}
	if j >= len(p.toks) {
		return false
	}
	switch p.toks[j].Kind {
	case TAssign, TAssignSlash, TAssignSlash2:
		return true
	}
	return false
}

func (p *parser) parseRule() (ast.Rule, error) {
	nameTok, err := p.expect(TIdent)
	if err != nil {
		return nil, err
	}
	name := nameTok.Text
	var params []string
	if p.cur().Kind == TLAngle {
		params, err = p.parseGenericParams()
		if err != nil {
			return nil, err
		}
	}
	switch p.cur().Kind {
	case TAssign:
		p.advance()
		checkpoint := p.pos
		if typ, terr := p.parseType(); terr == nil {
			return &ast.TypeRule{Name: name, GenericParams: params, Value: typ}, nil
		}
		p.pos = checkpoint
		entry, eerr := p.parseGroupEntry()
		if eerr != nil {
			return nil, fmt.Errorf("rule %q: could not parse right-hand side as a type or group: %w", name, eerr)
		}
		return &ast.GroupRule{Name: name, GenericParams: params, Entry: entry}, nil

	case TAssignSlash:
		p.advance()
		typ, terr := p.parseType()
		if terr != nil {
			return nil, terr
		}
		return &ast.TypeRule{Name: name, GenericParams: params, IsAlternate: true, Value: typ}, nil

	case TAssignSlash2:
		p.advance()
		entry, eerr := p.parseGroupEntry()
		if eerr != nil {
			return nil, eerr
		}
		return &ast.GroupRule{Name: name, GenericParams: params, IsAlternate: true, Entry: entry}, nil
	}
	return nil, fmt.Errorf("expected '=', '/=', or '//=' after rule name %q", name)
}

func (p *parser) parseGenericParams() ([]string, error) {
	if _, err := p.expect(TLAngle); err != nil {
		return nil, err
	}
	var params []string
	for {
		tok, err := p.expect(TIdent)
		if err != nil {
			return nil, err
		}
		params = append(params, tok.Text)
		if p.cur().Kind == TComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(TRAngle); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *parser) maybeGenericArgs() ([]*ast.Type1, error) {
	if p.cur().Kind != TLAngle {
		return nil, nil
	}
	return p.parseGenericArgs()
}

func (p *parser) parseGenericArgs() ([]*ast.Type1, error) {
	if _, err := p.expect(TLAngle); err != nil {
		return nil, err
	}
	var args []*ast.Type1
	for {
		t1, err := p.parseType1()
		if err != nil {
			return nil, err
		}
		args = append(args, t1)
		if p.cur().Kind == TComma {
			p.advance()
			continue
		}
		break
	}
	if _, err := p.expect(TRAngle); err != nil {
		return nil, err
	}
	return args, nil
}

// parseGroupEntry parses a bare (top-level, unbracketed) group-rule body:
// one or more comma/choice-separated entries, collapsed to a single
// GroupEntry the way ast.GroupRule.Entry requires (spec.md §3.1).
func (p *parser) parseGroupEntry() (ast.GroupEntry, error) {
	group, err := p.parseGroup(func() bool { return p.atRuleStart() })
	if err != nil {
		return nil, err
	}
	if len(group.Choices) == 1 && len(group.Choices[0].Entries) == 1 {
		return group.Choices[0].Entries[0], nil
	}
	return &ast.InlineGroup{Group: group}, nil
}

func (p *parser) parseGroup(stop func() bool) (*ast.Group, error) {
	g := &ast.Group{}
	choice := &ast.GroupChoice{}
	for {
		if p.cur().Kind == TEOF || stop() {
			break
		}
		entry, err := p.parseOneGroupEntry()
		if err != nil {
			return nil, err
		}
		choice.Entries = append(choice.Entries, entry)
		if p.cur().Kind == TComma {
			p.advance()
			continue
		}
		if p.cur().Kind == TSlashSlash {
			p.advance()
			g.Choices = append(g.Choices, choice)
			choice = &ast.GroupChoice{}
			continue
		}
		break
	}
	g.Choices = append(g.Choices, choice)
	return g, nil
}

func (p *parser) parseGroupBracketed(closer TokKind) (*ast.Group, error) {
	return p.parseGroup(func() bool { return p.cur().Kind == closer })
}

func isLiteralTok(k TokKind) bool {
	switch k {
	case TText, TBytes, TInt, TUint, TFloat:
		return true
	}
	return false
}

func mapByteEnc(e ByteEncoding) ast.ByteEncoding {
	switch e {
	case Base16Bytes:
		return ast.Base16Bytes
	case Base64Bytes:
		return ast.Base64Bytes
	}
	return ast.RawBytes
}

func tokenToType2(tok Token) ast.Type2 {
	switch tok.Kind {
	case TText:
		return &ast.TextValue{Value: tok.Text}
	case TBytes:
		return &ast.ByteStringValue{Value: tok.Bytes, Encoding: mapByteEnc(tok.ByteEnc)}
	case TInt:
		return &ast.IntValue{Value: tok.Int}
	case TUint:
		return &ast.UintValue{Value: tok.Uint}
	case TFloat:
		return &ast.FloatValue{Value: tok.Float}
	}
	return nil
}

func intPtr(v int) *int { return &v }

// tryParseOccur implements the four occurrence-modifier shapes of spec.md
// §3.1 (`?`, `*`, `+`, `n*m`/`n*`/`*m`).
func (p *parser) tryParseOccur() *ast.Occur {
	switch p.cur().Kind {
	case TQuestion:
		p.advance()
		return &ast.Occur{Kind: ast.Optional}
	case TPlus:
		p.advance()
		return &ast.Occur{Kind: ast.OneOrMore}
	case TStar:
		p.advance()
		if p.cur().Kind == TUint {
			upper := int(p.cur().Uint)
			p.advance()
			return &ast.Occur{Kind: ast.Exact, Lower: intPtr(0), Upper: &upper}
		}
		return &ast.Occur{Kind: ast.ZeroOrMore}
	case TUint:
		checkpoint := p.pos
		lowerTok := p.advance()
		if p.cur().Kind == TStar {
			p.advance()
			lower := int(lowerTok.Uint)
			if p.cur().Kind == TUint {
				upperTok := p.advance()
				upper := int(upperTok.Uint)
				return &ast.Occur{Kind: ast.Exact, Lower: &lower, Upper: &upper}
			}
			return &ast.Occur{Kind: ast.Exact, Lower: &lower}
		}
		p.pos = checkpoint
		return nil
	}
	return nil
}

func (p *parser) parseOneGroupEntry() (ast.GroupEntry, error) {
	occur := p.tryParseOccur()

	if p.cur().Kind == TLParen {
		p.advance()
		inner, err := p.parseGroupBracketed(TRParen)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TRParen); err != nil {
			return nil, err
		}
		return &ast.InlineGroup{Occur: occur, Group: inner}, nil
	}

	if p.cur().Kind == TIdent && p.peekAt(1).Kind == TColon {
		ident := p.cur().Text
		p.advance()
		p.advance()
		entryType, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &ast.ValueMemberKey{Occur: occur, MemberKey: &ast.Bareword{Ident: ident}, EntryType: entryType}, nil
	}

	if isLiteralTok(p.cur().Kind) && p.peekAt(1).Kind == TColon {
		lit := tokenToType2(p.cur())
		p.advance()
		p.advance()
		entryType, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return &ast.ValueMemberKey{Occur: occur, MemberKey: &ast.ValueKey{Literal: lit}, EntryType: entryType}, nil
	}

	checkpoint := p.pos
	if t1, err := p.parseType1(); err == nil {
		cut := false
		if p.cur().Kind == TCaret {
			cut = true
			p.advance()
		}
		if p.cur().Kind == TArrow {
			p.advance()
			entryType, err := p.parseType()
			if err != nil {
				return nil, err
			}
			return &ast.ValueMemberKey{Occur: occur, MemberKey: &ast.Type1Key{T1: t1, Cut: cut}, EntryType: entryType}, nil
		}
	}
	p.pos = checkpoint

	if p.cur().Kind == TIdent {
		name := p.cur().Text
		p.advance()
		args, err := p.maybeGenericArgs()
		if err != nil {
			return nil, err
		}
		return &ast.TypeGroupname{Occur: occur, Name: name, GenericArgs: args}, nil
	}

	entryType, err := p.parseType()
	if err != nil {
		return nil, err
	}
	return &ast.ValueMemberKey{Occur: occur, EntryType: entryType}, nil
}

func (p *parser) parseType() (*ast.Type, error) {
	t1, err := p.parseType1()
	if err != nil {
		return nil, err
	}
	choices := []*ast.Type1{t1}
	for p.cur().Kind == TSlash {
		p.advance()
		t1b, err := p.parseType1()
		if err != nil {
			return nil, err
		}
		choices = append(choices, t1b)
	}
	return &ast.Type{Choices: choices}, nil
}

func (p *parser) parseType1() (*ast.Type1, error) {
	t2, err := p.parseType2()
	if err != nil {
		return nil, err
	}
	switch p.cur().Kind {
	case TDotDot, TDotDotDot:
		inclusive := p.cur().Kind == TDotDot
		p.advance()
		rhs, err := p.parseType2()
		if err != nil {
			return nil, err
		}
		return &ast.Type1{Type2: t2, Operator: &ast.Operator{Kind: ast.RangeOperator, Inclusive: inclusive, RHS: rhs}}, nil
	case TDot:
		p.advance()
		nameTok, err := p.expect(TIdent)
		if err != nil {
			return nil, err
		}
		rhs, err := p.parseType2()
		if err != nil {
			return nil, err
		}
		return &ast.Type1{Type2: t2, Operator: &ast.Operator{Kind: ast.ControlOperator, Name: nameTok.Text, RHS: rhs}}, nil
	}
	return &ast.Type1{Type2: t2}, nil
}

func (p *parser) parseType2() (ast.Type2, error) {
	tok := p.cur()
	switch tok.Kind {
	case TText:
		p.advance()
		return &ast.TextValue{Value: tok.Text}, nil
	case TBytes:
		p.advance()
		return &ast.ByteStringValue{Value: tok.Bytes, Encoding: mapByteEnc(tok.ByteEnc)}, nil
	case TInt:
		p.advance()
		return &ast.IntValue{Value: tok.Int}, nil
	case TUint:
		p.advance()
		return &ast.UintValue{Value: tok.Uint}, nil
	case TFloat:
		p.advance()
		return &ast.FloatValue{Value: tok.Float}, nil

	case TLBracket:
		p.advance()
		g, err := p.parseGroupBracketed(TRBracket)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TRBracket); err != nil {
			return nil, err
		}
		return &ast.ArrayType{Group: g}, nil

	case TLBrace:
		p.advance()
		g, err := p.parseGroupBracketed(TRBrace)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TRBrace); err != nil {
			return nil, err
		}
		return &ast.MapType{Group: g}, nil

	case TLParen:
		p.advance()
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TRParen); err != nil {
			return nil, err
		}
		return &ast.ParenthesizedType{Type: t}, nil

	case THash:
		return p.parseTaggedData()

	case TTilde:
		p.advance()
		nameTok, err := p.expect(TIdent)
		if err != nil {
			return nil, err
		}
		args, err := p.maybeGenericArgs()
		if err != nil {
			return nil, err
		}
		return &ast.Unwrap{Ident: nameTok.Text, GenericArgs: args}, nil

	case TAmp:
		p.advance()
		if p.cur().Kind == TLParen {
			p.advance()
			g, err := p.parseGroupBracketed(TRParen)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TRParen); err != nil {
				return nil, err
			}
			return &ast.ChoiceFromInlineGroup{Group: g}, nil
		}
		nameTok, err := p.expect(TIdent)
		if err != nil {
			return nil, err
		}
		args, err := p.maybeGenericArgs()
		if err != nil {
			return nil, err
		}
		return &ast.ChoiceFromGroup{Ident: nameTok.Text, GenericArgs: args}, nil

	case TIdent:
		p.advance()
		if tok.Text == "any" && p.cur().Kind != TLAngle {
			return &ast.AnyType{}, nil
		}
		args, err := p.maybeGenericArgs()
		if err != nil {
			return nil, err
		}
		return &ast.Typename{Ident: tok.Text, GenericArgs: args}, nil
	}
	return nil, fmt.Errorf("unexpected token %q at offset %d in type position", tok.Text, tok.Pos)
}

// parseTaggedData parses `#6.N(type)` or `#6(type)`. The lexer has no
// notion of "major type dot tag number" and, following ordinary number
// rules, reads "6.32" as a single float literal — so the common case
// arrives as one TFloat token, not TUint/TDot/TUint.
func (p *parser) parseTaggedData() (ast.Type2, error) {
	if _, err := p.expect(THash); err != nil {
		return nil, err
	}
	var tagNumber *uint64
	switch p.cur().Kind {
	case TFloat:
		tok := p.advance()
		n, err := splitMajorDotTag(tok.Text)
		if err != nil {
			return nil, fmt.Errorf("invalid tagged-data prefix %q at offset %d: %w", tok.Text, tok.Pos, err)
		}
		tagNumber = &n
	case TUint:
		p.advance()
		if p.cur().Kind == TDot {
			p.advance()
			numTok, err := p.expect(TUint)
			if err != nil {
				return nil, err
			}
			n := numTok.Uint
			tagNumber = &n
		}
	default:
		return nil, fmt.Errorf("expected major type 6 after '#' at offset %d", p.cur().Pos)
	}
	if _, err := p.expect(TLParen); err != nil {
		return nil, err
	}
	typ, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TRParen); err != nil {
		return nil, err
	}
	return &ast.TaggedData{TagNumber: tagNumber, Type: typ}, nil
}

// splitMajorDotTag splits a lexed "6.32"-shaped float token's source text
// back into its major-type and tag-number halves.
func splitMajorDotTag(text string) (uint64, error) {
	dot := strings.IndexByte(text, '.')
	if dot < 0 {
		return 0, fmt.Errorf("malformed tag literal")
	}
	tag, err := strconv.ParseUint(text[dot+1:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid tag number: %w", err)
	}
	return tag, nil
}
