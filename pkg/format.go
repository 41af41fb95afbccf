package imp

import (
	"fmt"
	"strconv"
	"strings"
)

// Sexp renders e in the fully parenthesized prefix form, e.g.
// "a := 1 + 2" becomes "(:= a (+ 1 2))".
func Sexp(e Expr) string {
	var b strings.Builder
	writeSexp(&b, e)

	return b.String()
}

func writeSexp(b *strings.Builder, expr Expr) {
	switch e := expr.(type) {
	case *Skip:
		b.WriteString("skip")
	case *Boolean:
		b.WriteString(strconv.FormatBool(e.Value))
	case *Integer:
		b.WriteString(strconv.FormatInt(e.Value, 10))
	case *Dereference:
		b.WriteString("!" + e.Location)
	case *Assignment:
		b.WriteString("(:= " + e.Location + " ")
		writeSexp(b, e.Value)
		b.WriteString(")")
	case *Operation:
		b.WriteString("(" + string(e.Op) + " ")
		writeSexp(b, e.Lhs)
		b.WriteString(" ")
		writeSexp(b, e.Rhs)
		b.WriteString(")")
	case *IfThenElse:
		b.WriteString("(if ")
		writeSexp(b, e.Predicate)
		b.WriteString(" ")
		writeSexp(b, e.Consequent)
		b.WriteString(" ")
		writeSexp(b, e.Alternative)
		b.WriteString(")")
	case *WhileLoop:
		b.WriteString("(while ")
		writeSexp(b, e.Predicate)
		b.WriteString(" ")
		writeSexp(b, e.Body)
		b.WriteString(")")
	case *Sequence:
		b.WriteString("(;")
		for _, child := range e.Exprs {
			b.WriteString(" ")
			writeSexp(b, child)
		}
		b.WriteString(")")
	default:
		panic(unexpectedExpr(expr))
	}
}

// selfDelimiting reports whether e can be printed as an operand without
// parentheses.
func selfDelimiting(e Expr) bool {
	switch e.(type) {
	case *Skip, *Boolean, *Integer, *Dereference, *Operation:
		return true
	}

	return false
}

func operand(e Expr) string {
	if selfDelimiting(e) {
		return e.String()
	}

	return "(" + e.String() + ")"
}

func (e *Skip) String() string {
	return "skip"
}

func (e *Boolean) String() string {
	return strconv.FormatBool(e.Value)
}

func (e *Integer) String() string {
	return strconv.FormatInt(e.Value, 10)
}

func (e *Dereference) String() string {
	return "!" + e.Location
}

func (e *Assignment) String() string {
	return e.Location + " = " + operand(e.Value)
}

func (e *Operation) String() string {
	return operand(e.Lhs) + " " + string(e.Op) + " " + operand(e.Rhs)
}

func (e *IfThenElse) String() string {
	return "if " + operand(e.Predicate) + " then " + operand(e.Consequent) + " else " + operand(e.Alternative)
}

func (e *WhileLoop) String() string {
	return "while " + operand(e.Predicate) + " do " + operand(e.Body)
}

func (e *Sequence) String() string {
	parts := make([]string, len(e.Exprs))
	for i, child := range e.Exprs {
		parts[i] = child.String()
	}

	return strings.Join(parts, "; ")
}

func unexpectedExpr(e Expr) string {
	return fmt.Sprintf("unexpected expression type %T", e)
}
