package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goa.design/cddl/parser"
)

func lexAllTokens(t *testing.T, src string) []parser.Token {
	t.Helper()
	l := parser.NewLexer(src)
	var toks []parser.Token
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Kind == parser.TEOF {
			return toks
		}
	}
}

func TestLexerPunctuationAndOperators(t *testing.T) {
	toks := lexAllTokens(t, `= /= //= => ^ ~ & # .. ... ? * +`)
	kinds := make([]parser.TokKind, 0, len(toks))
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []parser.TokKind{
		parser.TAssign, parser.TAssignSlash, parser.TAssignSlash2, parser.TArrow,
		parser.TCaret, parser.TTilde, parser.TAmp, parser.THash,
		parser.TDotDot, parser.TDotDotDot, parser.TQuestion, parser.TStar, parser.TPlus,
		parser.TEOF,
	}, kinds)
}

func TestLexerNumbers(t *testing.T) {
	toks := lexAllTokens(t, `42 -7 3.14 1e10 0xFF`)
	require.Len(t, toks, 6)
	assert.Equal(t, parser.TUint, toks[0].Kind)
	assert.Equal(t, uint64(42), toks[0].Uint)

	assert.Equal(t, parser.TInt, toks[1].Kind)
	assert.Equal(t, int64(-7), toks[1].Int)

	assert.Equal(t, parser.TFloat, toks[2].Kind)
	assert.InDelta(t, 3.14, toks[2].Float, 1e-9)

	assert.Equal(t, parser.TFloat, toks[3].Kind)
	assert.InDelta(t, 1e10, toks[3].Float, 1)

	assert.Equal(t, parser.TUint, toks[4].Kind)
	assert.Equal(t, uint64(0xFF), toks[4].Uint)
}

func TestLexerTextString(t *testing.T) {
	toks := lexAllTokens(t, `"hello\nworld"`)
	require.Len(t, toks, 2)
	assert.Equal(t, parser.TText, toks[0].Kind)
	assert.Equal(t, "hello\nworld", toks[0].Text)
}

func TestLexerByteStrings(t *testing.T) {
	toks := lexAllTokens(t, `'abc' h'68656c6c6f' b64'aGVsbG8'`)
	require.Len(t, toks, 4)

	assert.Equal(t, parser.TBytes, toks[0].Kind)
	assert.Equal(t, []byte("abc"), toks[0].Bytes)
	assert.Equal(t, parser.RawBytes, toks[0].ByteEnc)

	assert.Equal(t, parser.TBytes, toks[1].Kind)
	assert.Equal(t, []byte("hello"), toks[1].Bytes)
	assert.Equal(t, parser.Base16Bytes, toks[1].ByteEnc)

	assert.Equal(t, parser.TBytes, toks[2].Kind)
	assert.Equal(t, []byte("hello"), toks[2].Bytes)
	assert.Equal(t, parser.Base64Bytes, toks[2].ByteEnc)
}

func TestLexerIdentifiersWithExtendedCharset(t *testing.T) {
	toks := lexAllTokens(t, `my-rule.name@v1 $foo _bar`)
	require.Len(t, toks, 4)
	assert.Equal(t, parser.TIdent, toks[0].Kind)
	assert.Equal(t, "my-rule.name@v1", toks[0].Text)
	assert.Equal(t, "$foo", toks[1].Text)
	assert.Equal(t, "_bar", toks[2].Text)
}

func TestLexerComments(t *testing.T) {
	toks := lexAllTokens(t, "a ; this is a comment\n= 1")
	kinds := make([]parser.TokKind, 0, len(toks))
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []parser.TokKind{parser.TIdent, parser.TAssign, parser.TUint, parser.TEOF}, kinds)
}

func TestLexerUnexpectedCharacter(t *testing.T) {
	l := parser.NewLexer(`%`)
	_, err := l.Next()
	assert.Error(t, err)
}
