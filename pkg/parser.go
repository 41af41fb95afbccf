package imp

import (
	"fmt"
	"strconv"
	"strings"
)

type binaryOperator struct {
	op   Op
	prec int
}

// Binary operators understood by the precedence climber, all
// left-associative. Higher binds tighter.
var binaryTable = map[TokenType]binaryOperator{
	TokenGreaterEqual: {OpGreaterEqual, 0},
	TokenPlus:         {OpAdd, 1},
}

type Parser struct {
	tokenizer Tokenizer
	buf       *Token
	err       *SyntaxError
}

func NewParser(tokenizer Tokenizer) *Parser {
	return &Parser{
		tokenizer: tokenizer,
	}
}

// Parse parses a whole program. The entire input must form one expression.
func Parse(src string) (Expr, error) {
	return NewParser(NewLexer(strings.NewReader(src))).Run()
}

func (p *Parser) Run() (Expr, error) {
	expr := p.sequence()
	if p.err == nil {
		if tok := p.peek(); tok.Typ != TokenEOF {
			p.unexpected(tok, "expected end of input")
		}
	}

	if p.err != nil {
		return nil, p.err
	}

	return expr, nil
}

func (p *Parser) peek() Token {
	if p.buf == nil {
		temp := p.tokenizer.Get()
		p.buf = &temp
	}

	return *p.buf
}

func (p *Parser) next() Token {
	tok := p.peek()
	if tok.isValid() {
		// Invalid tokens stay buffered, nothing follows them
		p.buf = nil
	}

	return tok
}

func (p *Parser) check(typ TokenType) bool {
	return p.peek().Typ == typ
}

func (p *Parser) consume(typ TokenType, context string) bool {
	if tok := p.peek(); tok.Typ != typ {
		p.unexpected(tok, fmt.Sprintf("expected %s %s", typ, context))
		return false
	}

	p.next()

	return true
}

// errorf keeps only the first error, later ones are consequences of it.
func (p *Parser) errorf(tok Token, format string, args ...interface{}) Expr {
	if p.err == nil {
		p.err = &SyntaxError{
			Span: tok.Span,
			Msg:  fmt.Sprintf(format, args...),
		}
	}

	return nil
}

func (p *Parser) unexpected(tok Token, context string) Expr {
	if tok.Typ == TokenError {
		return p.errorf(tok, "%s", tok.Value)
	}

	return p.errorf(tok, "unexpected %s, %s", tok, context)
}

func (p *Parser) sequence() Expr {
	first := p.expr()
	if p.err != nil || !p.check(TokenSemicolon) {
		return first
	}

	exprs := []Expr{first}
	for p.check(TokenSemicolon) {
		p.next() // Skip ;

		e := p.expr()
		if p.err != nil {
			return nil
		}

		exprs = append(exprs, e)
	}

	return &Sequence{exprs}
}

func (p *Parser) expr() Expr {
	return p.binaryExpr(0)
}

// binaryExpr climbs precedence levels starting at minPrec. Operands of equal
// precedence fold to the left.
func (p *Parser) binaryExpr(minPrec int) Expr {
	lhs := p.atom()
	if p.err != nil {
		return nil
	}

	for {
		operator, ok := binaryTable[p.peek().Typ]
		if !ok || operator.prec < minPrec {
			return lhs
		}

		p.next()

		rhs := p.binaryExpr(operator.prec + 1)
		if p.err != nil {
			return nil
		}

		lhs = NewOperation(operator.op, lhs, rhs)
	}
}

func (p *Parser) atom() Expr {
	switch tok := p.peek(); tok.Typ {
	case TokenSkip:
		p.next()
		return NewSkip()
	case TokenTrue, TokenFalse:
		p.next()
		return NewBoolean(tok.Typ == TokenTrue)
	case TokenNumber:
		return p.integer()
	case TokenBang:
		return p.dereference()
	case TokenIdentifier:
		return p.assignment()
	case TokenIf:
		return p.ifThenElse()
	case TokenWhile:
		return p.whileLoop()
	case TokenOpenParentheses:
		return p.parenthesisedSequence()
	default:
		return p.unexpected(tok, "expected an expression")
	}
}

func (p *Parser) integer() Expr {
	tok := p.next()

	n, err := strconv.ParseInt(tok.Value, 10, 64)
	if err != nil {
		return p.errorf(tok, "integer literal %s out of range", tok.Value)
	}

	return NewInteger(n)
}

func (p *Parser) dereference() Expr {
	p.next() // Skip !

	tok := p.peek()
	if tok.Typ != TokenIdentifier {
		return p.unexpected(tok, "expected a location after '!'")
	}

	p.next()

	return NewDereference(tok.Value)
}

func (p *Parser) assignment() Expr {
	location := p.next()

	if !p.consume(TokenAssign, "after location "+strconv.Quote(location.Value)) {
		return nil
	}

	value := p.expr()
	if p.err != nil {
		return nil
	}

	return NewAssignment(location.Value, value)
}

func (p *Parser) ifThenElse() Expr {
	p.next() // Skip if

	predicate := p.expr()
	if p.err != nil || !p.consume(TokenThen, "after if predicate") {
		return nil
	}

	consequent := p.expr()
	if p.err != nil || !p.consume(TokenElse, "after then branch") {
		return nil
	}

	alternative := p.expr()
	if p.err != nil {
		return nil
	}

	return NewIfThenElse(predicate, consequent, alternative)
}

func (p *Parser) whileLoop() Expr {
	p.next() // Skip while

	predicate := p.expr()
	if p.err != nil || !p.consume(TokenDo, "after while predicate") {
		return nil
	}

	body := p.expr()
	if p.err != nil {
		return nil
	}

	return NewWhileLoop(predicate, body)
}

func (p *Parser) parenthesisedSequence() Expr {
	p.next() // Skip (

	seq := p.sequence()
	if p.err != nil || !p.consume(TokenCloseParentheses, "to close parenthesis") {
		return nil
	}

	return seq
}
