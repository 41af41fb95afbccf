package imp

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrStepLimit is returned by the interpreter when a run exceeds its step
// budget.
var ErrStepLimit = errors.New("step limit exceeded")

// SyntaxError is the first failure found while parsing. No AST is produced
// alongside it.
type SyntaxError struct {
	Span Span
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Span.Start, e.Msg)
}

// UndefinedError reports a dereference of a location that was never
// assigned.
type UndefinedError struct {
	Name string
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("undefined location %q", e.Name)
}

// UndefinedOperationError reports an operator applied to operands other
// than integers.
type UndefinedOperationError struct {
	Op  Op
	Lhs Expr
	Rhs Expr
}

func (e *UndefinedOperationError) Error() string {
	return fmt.Sprintf("invalid operands for %s: %s and %s", e.Op, Sexp(e.Lhs), Sexp(e.Rhs))
}

// ConditionError reports a conditional whose predicate reduced to something
// other than a boolean.
type ConditionError struct {
	Predicate Expr
}

func (e *ConditionError) Error() string {
	return fmt.Sprintf("expected boolean predicate, found %s", Sexp(e.Predicate))
}

// IsRuntimeError reports whether err, or its cause, is one of the evaluation
// failures.
func IsRuntimeError(err error) bool {
	switch errors.Cause(err).(type) {
	case *UndefinedError, *UndefinedOperationError, *ConditionError:
		return true
	}

	return false
}
