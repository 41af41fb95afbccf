package imp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.imp.dev/internal/test"
)

type BufferedTokenizerMocker struct {
	buf []Token
	pos int
}

func NewBufferedTokenizerMocker(toks []Token) *BufferedTokenizerMocker {
	return &BufferedTokenizerMocker{
		buf: toks,
		pos: 0,
	}
}

func (b *BufferedTokenizerMocker) Get() Token {
	if len(b.buf) <= b.pos {
		return Token{Typ: TokenEOF}
	}

	tok := b.buf[b.pos]
	b.pos++

	return tok
}

func TestParser(t *testing.T) {
	cases := []struct {
		data   []Token
		fail   bool
		expect Expr
	}{
		{
			[]Token{
				{TokenIdentifier, "a", Span{}},
				{TokenAssign, ":=", Span{}},
				{TokenNumber, "1", Span{}},
			},
			false,
			&Assignment{
				Location: "a",
				Value:    &Integer{1},
			},
		},
		{
			[]Token{
				{TokenNumber, "1", Span{}},
				{TokenPlus, "+", Span{}},
				{TokenNumber, "2", Span{}},
				{TokenGreaterEqual, ">=", Span{}},
				{TokenBang, "!", Span{}},
				{TokenIdentifier, "b", Span{}},
			},
			false,
			&Operation{
				Op: OpGreaterEqual,
				Lhs: &Operation{
					Op:  OpAdd,
					Lhs: &Integer{1},
					Rhs: &Integer{2},
				},
				Rhs: &Dereference{"b"},
			},
		},
		{
			[]Token{
				{TokenSkip, "skip", Span{}},
				{TokenSemicolon, ";", Span{}},
				{TokenTrue, "true", Span{}},
				{TokenSemicolon, ";", Span{}},
				{TokenFalse, "false", Span{}},
			},
			false,
			&Sequence{[]Expr{&Skip{}, &Boolean{true}, &Boolean{false}}},
		},
		{
			[]Token{
				{TokenOpenParentheses, "(", Span{}},
				{TokenNumber, "7", Span{}},
				{TokenCloseParentheses, ")", Span{}},
			},
			false,
			&Integer{7},
		},
		{
			[]Token{
				{TokenIdentifier, "a", Span{}},
				{TokenNumber, "1", Span{}},
			},
			true,
			nil,
		},
		{
			[]Token{
				{TokenNumber, "1", Span{}},
				{TokenNumber, "2", Span{}},
			},
			true,
			nil,
		},
		{
			[]Token{
				{TokenSkip, "skip", Span{}},
				{TokenError, "invalid symbol '@'", Span{}},
			},
			true,
			nil,
		},
	}

	for _, c := range cases {
		tokenizer := NewBufferedTokenizerMocker(c.data)
		p := NewParser(tokenizer)

		got, err := p.Run()
		if c.fail {
			assert.Error(t, err)
			assert.Nil(t, got)

			continue
		}

		require.NoError(t, err)
		assert.Equal(t, c.expect, got)
	}
}

func TestParseSexp(t *testing.T) {
	cases := []struct {
		src    string
		expect string
	}{
		// Atoms
		{"skip", "skip"},
		{"true", "true"},
		{"false", "false"},
		{"123", "123"},
		{"-123", "-123"},
		{"!a", "!a"},
		{"  ! a  ", "!a"},

		// Assignment
		{"a := 1", "(:= a 1)"},
		{"a := 1 + 2", "(:= a (+ 1 2))"},
		{"a := (b := 1; !b)", "(:= a (; (:= b 1) !b))"},
		{"a := if !cond then 1 else 2", "(:= a (if !cond 1 2))"},
		{"a = 1", "(:= a 1)"},

		// Operations
		{"1 + 2", "(+ 1 2)"},
		{"1 + 2 + 3", "(+ (+ 1 2) 3)"},
		{"1 >= 2", "(>= 1 2)"},
		{"1 >= 2 >= 3", "(>= (>= 1 2) 3)"},
		{"1 + 2 >= 3 + 4", "(>= (+ 1 2) (+ 3 4))"},
		{"(1 + 2 >= 3) + 4", "(+ (>= (+ 1 2) 3) 4)"},
		{"1 + (2 + 3)", "(+ 1 (+ 2 3))"},

		// Control flow
		{"if 1 then 2 else 3", "(if 1 2 3)"},
		{"if true then 1 else 2 + 3", "(if true 1 (+ 2 3))"},
		{"while 1 do 2", "(while 1 2)"},

		// Sequences
		{"skip; skip", "(; skip skip)"},
		{"(skip)", "skip"},
		{"((1; 2))", "(; 1 2)"},
		{
			"i := 0; a := 10; b := 0; while !a >= !b + 2 do (a := !b + 5; i := !i + 1); a := 0",
			"(; (:= i 0) (:= a 10) (:= b 0) (while (>= !a (+ !b 2)) (; (:= a (+ !b 5)) (:= i (+ !i 1)))) (:= a 0))",
		},
		{
			"while 10 >= !i do if !b then a := 1 else a := 2; a := 3",
			"(; (while (>= 10 !i) (if !b (:= a 1) (:= a 2))) (:= a 3))",
		},
		{
			"while 10 >= !i do (if !b then a := 1 else a := 2; a := 3)",
			"(while (>= 10 !i) (; (if !b (:= a 1) (:= a 2)) (:= a 3)))",
		},
		{
			"while 10 >= !i do if !b then a := 1 else (a := 2; a := 3)",
			"(while (>= 10 !i) (if !b (:= a 1) (; (:= a 2) (:= a 3))))",
		},
	}

	for _, c := range cases {
		got, err := Parse(c.src)
		if assert.NoError(t, err, c.src) {
			assert.Equal(t, c.expect, Sexp(got), c.src)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		src    string
		start  Location
		expect string
	}{
		{"", Location{0, 1, 1}, "unexpected end of input, expected an expression"},
		{"1 2", Location{2, 1, 3}, `unexpected integer "2", expected end of input`},
		{"a := 1;", Location{7, 1, 8}, "unexpected end of input, expected an expression"},
		{"skip := 1", Location{5, 1, 6}, "unexpected ':=', expected end of input"},
		{"a 1", Location{2, 1, 3}, `unexpected integer "1", expected ':=' after location "a"`},
		{"!1", Location{1, 1, 2}, `unexpected integer "1", expected a location after '!'`},
		{"if true then 1", Location{14, 1, 15}, "unexpected end of input, expected 'else' after then branch"},
		{"while true 1", Location{11, 1, 12}, `unexpected integer "1", expected 'do' after while predicate`},
		{"(1; 2", Location{5, 1, 6}, "unexpected end of input, expected ')' to close parenthesis"},
		{"1 + ", Location{4, 1, 5}, "unexpected end of input, expected an expression"},
		{"9223372036854775808", Location{0, 1, 1}, "integer literal 9223372036854775808 out of range"},
		{"a := 1 $ 2", Location{7, 1, 8}, "invalid symbol '$'"},
		{"a := 1)", Location{6, 1, 7}, "unexpected ')', expected end of input"},
		{"1\x00)", Location{1, 1, 2}, "invalid symbol U+0000"},
		{"a := 1\x00; b := (", Location{6, 1, 7}, "invalid symbol U+0000"},
	}

	for _, c := range cases {
		got, err := Parse(c.src)
		assert.Nil(t, got, c.src)

		var syntaxErr *SyntaxError
		if assert.ErrorAs(t, err, &syntaxErr, c.src) {
			assert.Equal(t, c.start, syntaxErr.Span.Start, c.src)
			assert.Equal(t, c.expect, syntaxErr.Msg, c.src)
		}
	}
}

func TestParseIntegerBounds(t *testing.T) {
	got, err := Parse("-9223372036854775808")
	require.NoError(t, err)
	assert.Equal(t, &Integer{-9223372036854775808}, got)

	got, err = Parse("9223372036854775807")
	require.NoError(t, err)
	assert.Equal(t, &Integer{9223372036854775807}, got)
}

func TestParseInfixRoundTrip(t *testing.T) {
	cases := []string{
		"a := 1 + 2",
		"i := 0; while 10 >= !i do (i := !i + 1; b := true)",
		"if !b then a := 1 else (a := 2; a := 3)",
		"x := if 1 >= 2 then skip else (y := -3)",
		"while !a >= !b + 2 do (a := !b + 5; i := !i + 1)",
	}

	for _, src := range cases {
		first, err := Parse(src)
		require.NoError(t, err, src)

		second, err := Parse(first.String())
		require.NoError(t, err, first.String())

		assert.Equal(t, Sexp(first), Sexp(second), src)
		assert.Equal(t, first, second, src)
	}
}

// Use a package-level variable to avoid compiler optimisation
var parseResult Expr

func benchmarkParser(size int, b *testing.B) {
	src := test.GetRandomProgram(size)

	for n := 0; n < b.N; n++ {
		var err error
		parseResult, err = Parse(src)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParser10(b *testing.B) {
	benchmarkParser(10, b)
}

func BenchmarkParser100(b *testing.B) {
	benchmarkParser(100, b)
}

func BenchmarkParser1000(b *testing.B) {
	benchmarkParser(1000, b)
}
