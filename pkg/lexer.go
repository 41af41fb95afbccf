package imp

import (
	"bufio"
	"fmt"
	"io"
	"unicode"
	"unicode/utf8"
)

type TokenType uint64
type stateFunc func(l *Lexer) stateFunc

const (
	EOF rune = -1

	TokenError TokenType = iota
	TokenEOF
	TokenNumber
	TokenIdentifier

	TokenSkip
	TokenTrue
	TokenFalse
	TokenIf
	TokenThen
	TokenElse
	TokenWhile
	TokenDo

	TokenPlus
	TokenGreaterEqual
	TokenAssign
	TokenBang
	TokenSemicolon
	TokenOpenParentheses
	TokenCloseParentheses
)

var keywordTable = map[string]TokenType{
	"skip":  TokenSkip,
	"true":  TokenTrue,
	"false": TokenFalse,
	"if":    TokenIf,
	"then":  TokenThen,
	"else":  TokenElse,
	"while": TokenWhile,
	"do":    TokenDo,
}

var operatorTable = map[string]TokenType{
	"+":  TokenPlus,
	">=": TokenGreaterEqual,
	":=": TokenAssign,
	"=":  TokenAssign,
	"!":  TokenBang,
	";":  TokenSemicolon,
	"(":  TokenOpenParentheses,
	")":  TokenCloseParentheses,
}

var tokenNames = map[TokenType]string{
	TokenError:            "error",
	TokenEOF:              "end of input",
	TokenNumber:           "integer",
	TokenIdentifier:       "location",
	TokenSkip:             "'skip'",
	TokenTrue:             "'true'",
	TokenFalse:            "'false'",
	TokenIf:               "'if'",
	TokenThen:             "'then'",
	TokenElse:             "'else'",
	TokenWhile:            "'while'",
	TokenDo:               "'do'",
	TokenPlus:             "'+'",
	TokenGreaterEqual:     "'>='",
	TokenAssign:           "':='",
	TokenBang:             "'!'",
	TokenSemicolon:        "';'",
	TokenOpenParentheses:  "'('",
	TokenCloseParentheses: "')'",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}

	return fmt.Sprintf("TokenType(%d)", uint64(t))
}

// Location is a position in the source. Offset is a 0-based byte offset,
// Line and Column are 1-based.
type Location struct {
	Offset int
	Line   int
	Column int
}

func (l Location) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// Span covers the source of a token, End is exclusive.
type Span struct {
	Start Location
	End   Location
}

func (s Span) String() string {
	return s.Start.String() + "-" + s.End.String()
}

type Token struct {
	Typ   TokenType
	Value string
	Span  Span
}

func (t Token) String() string {
	switch t.Typ {
	case TokenNumber, TokenIdentifier:
		return fmt.Sprintf("%s %q", t.Typ, t.Value)
	default:
		return t.Typ.String()
	}
}

func (t Token) isValid() bool {
	return t.Typ != TokenError && t.Typ != TokenEOF
}

// Tokenizer hands out tokens one at a time. Once the stream ends, every
// further call returns the final EOF or Error token again.
type Tokenizer interface {
	Get() Token
}

// Lexer runs its state functions lazily: Get advances the machine only until
// the next token is available.
type Lexer struct {
	reader  *bufio.Reader
	state   stateFunc
	pending []Token
	last    Token

	start Location
	pos   Location
}

func NewLexer(reader io.Reader) *Lexer {
	return &Lexer{
		reader: bufio.NewReader(reader),
		state:  defaultState,
		pos:    Location{Line: 1, Column: 1},
	}
}

func (l *Lexer) Get() Token {
	for len(l.pending) == 0 {
		if l.state == nil {
			return l.last
		}

		l.state = l.state(l)
	}

	tok := l.pending[0]
	l.pending = l.pending[1:]
	l.last = tok

	return tok
}

// Tokenize drains the lexer. The EOF token is not included.
func (l *Lexer) Tokenize() ([]Token, error) {
	var tokens []Token
	for {
		t := l.Get()
		switch t.Typ {
		case TokenEOF:
			return tokens, nil
		case TokenError:
			return nil, &SyntaxError{Span: t.Span, Msg: t.Value}
		}

		tokens = append(tokens, t)
	}
}

func defaultState(l *Lexer) stateFunc {
	for {
		l.start = l.pos

		switch r := l.peek(); {
		case r == EOF:
			return l.emitValue(TokenEOF, "")
		case unicode.IsSpace(r):
			l.next()
			continue
		case isDigit(r) || r == '-':
			return numberState
		case isIdentStart(r):
			return identifierState
		default:
			return operatorState
		}
	}
}

func numberState(l *Lexer) stateFunc {
	num := make([]rune, 0, 8)
	if l.peek() == '-' {
		num = append(num, l.next())
		if !isDigit(l.peek()) {
			return l.errorf("invalid symbol '-'")
		}
	}

	for r := l.peek(); isDigit(r); r = l.peek() {
		num = append(num, l.next())
	}

	return l.emitValue(TokenNumber, string(num))
}

func identifierState(l *Lexer) stateFunc {
	id := make([]rune, 0, 8)
	for r := l.peek(); isIdentStart(r) || isDigit(r); r = l.peek() {
		id = append(id, l.next())
	}

	if t, ok := keywordTable[string(id)]; ok {
		return l.emitValue(t, string(id))
	}

	return l.emitValue(TokenIdentifier, string(id))
}

func operatorState(l *Lexer) stateFunc {
	r := l.next()
	if r == ':' || r == '>' { // Both start two-rune operators
		op := string(r) + string(l.peek())
		if tok, ok := operatorTable[op]; ok {
			l.next()
			return l.emitValue(tok, op)
		}
	}

	if tok, ok := operatorTable[string(r)]; ok {
		return l.emitValue(tok, string(r))
	}

	if r == utf8.RuneError {
		return l.errorf("invalid UTF-8 input")
	}

	if !unicode.IsPrint(r) {
		return l.errorf("invalid symbol %U", r)
	}

	return l.errorf("invalid symbol '%c'", r)
}

func (l *Lexer) errorf(format string, args ...interface{}) stateFunc {
	l.pending = append(l.pending, Token{
		Typ:   TokenError,
		Value: fmt.Sprintf(format, args...),
		Span:  Span{l.start, l.pos},
	})

	return nil
}

func (l *Lexer) emitValue(t TokenType, val string) stateFunc {
	l.pending = append(l.pending, Token{
		Typ:   t,
		Value: val,
		Span:  Span{l.start, l.pos},
	})

	if t == TokenEOF {
		return nil
	}

	return defaultState
}

func (l *Lexer) peek() rune {
	r, _, err := l.reader.ReadRune()
	if err != nil {
		if err == io.EOF {
			return EOF
		}

		return utf8.RuneError
	}

	_ = l.reader.UnreadRune()

	return r
}

func (l *Lexer) next() rune {
	r, size, err := l.reader.ReadRune()
	if err != nil {
		if err == io.EOF {
			return EOF
		}

		return utf8.RuneError
	}

	l.pos.Offset += size
	if r == '\n' {
		l.pos.Line++
		l.pos.Column = 1
	} else {
		l.pos.Column++
	}

	return r
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z')
}
