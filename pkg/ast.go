package imp

import "fmt"

// Expr is any IMP expression. The set of implementations is closed. String
// renders the infix form.
type Expr interface {
	fmt.Stringer
	expr()
}

type Skip struct{}

type Boolean struct {
	Value bool
}

type Integer struct {
	Value int64
}

type Dereference struct {
	Location string
}

type Assignment struct {
	Location string
	Value    Expr
}

type Op string

const (
	OpAdd          Op = "+"
	OpGreaterEqual Op = ">="
)

type Operation struct {
	Op  Op
	Lhs Expr
	Rhs Expr
}

type IfThenElse struct {
	Predicate   Expr
	Consequent  Expr
	Alternative Expr
}

type WhileLoop struct {
	Predicate Expr
	Body      Expr
}

// Sequence holds at least two expressions once parsed. The evaluator may
// shrink it to one element for the duration of a single step.
type Sequence struct {
	Exprs []Expr
}

func (*Skip) expr()        {}
func (*Boolean) expr()     {}
func (*Integer) expr()     {}
func (*Dereference) expr() {}
func (*Assignment) expr()  {}
func (*Operation) expr()   {}
func (*IfThenElse) expr()  {}
func (*WhileLoop) expr()   {}
func (*Sequence) expr()    {}

func NewSkip() Expr {
	return &Skip{}
}

func NewBoolean(b bool) Expr {
	return &Boolean{b}
}

func NewInteger(n int64) Expr {
	return &Integer{n}
}

func NewDereference(location string) Expr {
	return &Dereference{location}
}

func NewAssignment(location string, value Expr) Expr {
	return &Assignment{
		Location: location,
		Value:    value,
	}
}

func NewOperation(op Op, lhs, rhs Expr) Expr {
	return &Operation{
		Op:  op,
		Lhs: lhs,
		Rhs: rhs,
	}
}

func NewIfThenElse(predicate, consequent, alternative Expr) Expr {
	return &IfThenElse{
		Predicate:   predicate,
		Consequent:  consequent,
		Alternative: alternative,
	}
}

func NewWhileLoop(predicate, body Expr) Expr {
	return &WhileLoop{
		Predicate: predicate,
		Body:      body,
	}
}

func NewSequence(exprs ...Expr) Expr {
	return &Sequence{exprs}
}

// IsValue reports whether e is one of the irreducible literal forms.
func IsValue(e Expr) bool {
	switch e.(type) {
	case *Skip, *Boolean, *Integer:
		return true
	}

	return false
}

// Clone returns a deep copy of e. No node of the copy is shared with e.
func Clone(e Expr) Expr {
	switch e := e.(type) {
	case *Skip:
		return &Skip{}
	case *Boolean:
		return &Boolean{e.Value}
	case *Integer:
		return &Integer{e.Value}
	case *Dereference:
		return &Dereference{e.Location}
	case *Assignment:
		return NewAssignment(e.Location, Clone(e.Value))
	case *Operation:
		return NewOperation(e.Op, Clone(e.Lhs), Clone(e.Rhs))
	case *IfThenElse:
		return NewIfThenElse(Clone(e.Predicate), Clone(e.Consequent), Clone(e.Alternative))
	case *WhileLoop:
		return NewWhileLoop(Clone(e.Predicate), Clone(e.Body))
	case *Sequence:
		exprs := make([]Expr, len(e.Exprs))
		for i, child := range e.Exprs {
			exprs[i] = Clone(child)
		}

		return &Sequence{exprs}
	case nil:
		return nil
	default:
		panic(unexpectedExpr(e))
	}
}
