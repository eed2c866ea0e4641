package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daemonica-lang/altars/lexer"
	"github.com/daemonica-lang/altars/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks, err := lexer.Scan("<test>", "(){},.-+;*!= == >= <= !")
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{
		token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
		token.Comma, token.Dot, token.Minus, token.Plus, token.Semicolon,
		token.Star, token.BangEqual, token.EqualEqual, token.GreaterEqual,
		token.LessEqual, token.Bang, token.EOF,
	}, kinds(toks))
}

func TestScanKeywords(t *testing.T) {
	toks, err := lexer.Scan("<test>", "et vel si aliter verum mendacium incantatio beneficium enim dum nihil ligamen scribo")
	require.NoError(t, err)
	want := []token.Kind{
		token.And, token.Or, token.If, token.Else, token.True, token.False,
		token.Fn, token.Return, token.For, token.While, token.None, token.Var, token.Print,
		token.EOF,
	}
	assert.Equal(t, want, kinds(toks))
}

func TestMaximalMunchKeywordPrefix(t *testing.T) {
	toks, err := lexer.Scan("<test>", "velocity")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, token.Identifier, toks[0].Kind)
	assert.Equal(t, "velocity", toks[0].Lexeme)
}

func TestScanNumberLiteral(t *testing.T) {
	toks, err := lexer.Scan("<test>", "42 3.14")
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.EqualValues(t, 42, toks[0].Literal.Num)
	assert.EqualValues(t, 3.14, toks[1].Literal.Num)
}

func TestScanNumberTrailingDotNotConsumed(t *testing.T) {
	toks, err := lexer.Scan("<test>", "7.")
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, token.Number, toks[0].Kind)
	assert.EqualValues(t, 7, toks[0].Literal.Num)
	assert.Equal(t, token.Dot, toks[1].Kind)
}

func TestScanStringLiteral(t *testing.T) {
	toks, err := lexer.Scan("<test>", `"hello, world"`)
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, token.String, toks[0].Kind)
	assert.Equal(t, "hello, world", toks[0].Literal.Str)
}

func TestScanMultilineString(t *testing.T) {
	toks, err := lexer.Scan("<test>", "\"line one\nline two\"")
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, "line one\nline two", toks[0].Literal.Str)
}

func TestScanUnterminatedStringErrors(t *testing.T) {
	_, err := lexer.Scan("<test>", `"unterminated`)
	assert.Error(t, err)
}

func TestScanLineComment(t *testing.T) {
	toks, err := lexer.Scan("<test>", "ligamen x = 1; // trailing comment\nligamen y = 2;")
	require.NoError(t, err)
	// two statements worth of tokens plus EOF, the comment contributes nothing
	assert.Equal(t, token.Var, toks[0].Kind)
	assert.Equal(t, token.EOF, toks[len(toks)-1].Kind)
}

func TestScanBlockCommentTracksLines(t *testing.T) {
	toks, err := lexer.Scan("<test>", "/* line1\nline2\nline3 */ ligamen x = 1;")
	require.NoError(t, err)
	require.NotEmpty(t, toks)
	assert.Equal(t, 3, toks[0].Line)
}

func TestScanUnterminatedBlockCommentErrors(t *testing.T) {
	_, err := lexer.Scan("<test>", "/* never closed")
	assert.Error(t, err)
}

func TestScanUnrecognisedCharacterErrors(t *testing.T) {
	_, err := lexer.Scan("<test>", "ligamen x = @;")
	assert.Error(t, err)
}

func TestScanAccumulatesMultipleErrors(t *testing.T) {
	_, err := lexer.Scan("<test>", "@ # $")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"@"`)
	assert.Contains(t, err.Error(), `"#"`)
	assert.Contains(t, err.Error(), `"$"`)
}

func TestScanEveryTokenHasPositiveLine(t *testing.T) {
	toks, err := lexer.Scan("<test>", "ligamen x = 1;\nligamen y = 2;\ndum (verum) { scribo x; }")
	require.NoError(t, err)
	for _, tok := range toks {
		assert.Greater(t, tok.Line, 0)
	}
}

func TestScanEndsWithSingleEOF(t *testing.T) {
	toks, err := lexer.Scan("<test>", "ligamen x = 1;")
	require.NoError(t, err)
	require.NotEmpty(t, toks)
	assert.Equal(t, token.EOF, toks[len(toks)-1].Kind)
	for _, tok := range toks[:len(toks)-1] {
		assert.NotEqual(t, token.EOF, tok.Kind)
	}
}
