package imp

// CanTransition reports whether e has a successor, which holds for every
// expression except the literal values.
func CanTransition(e Expr) bool {
	return !IsValue(e)
}

// Transition performs one reduction step on expr and returns its successor.
// Sub-expressions are rewritten in place, so the returned value may be expr
// itself. The store is written only when an assignment commits.
//
// An expression without a successor is returned as is. On error expr is
// returned unchanged and the store is untouched.
func Transition(expr Expr, store *Store) (Expr, error) {
	switch e := expr.(type) {
	case *Skip, *Boolean, *Integer:
		return expr, nil
	case *Dereference:
		v, ok := store.Get(e.Location)
		if !ok {
			return expr, &UndefinedError{Name: e.Location}
		}

		return Clone(v), nil
	case *Assignment:
		if CanTransition(e.Value) {
			return reduceIn(expr, &e.Value, store)
		}

		store.Set(e.Location, e.Value)
		return NewSkip(), nil
	case *Operation:
		if CanTransition(e.Lhs) {
			return reduceIn(expr, &e.Lhs, store)
		}

		if CanTransition(e.Rhs) {
			return reduceIn(expr, &e.Rhs, store)
		}

		return apply(e)
	case *IfThenElse:
		if CanTransition(e.Predicate) {
			return reduceIn(expr, &e.Predicate, store)
		}

		cond, ok := e.Predicate.(*Boolean)
		if !ok {
			return expr, &ConditionError{Predicate: e.Predicate}
		}

		if cond.Value {
			return e.Consequent, nil
		}

		return e.Alternative, nil
	case *WhileLoop:
		// The loop itself becomes the tail of the unrolled body; the copies
		// in front of it own their own nodes.
		return NewIfThenElse(
			Clone(e.Predicate),
			NewSequence(Clone(e.Body), e),
			NewSkip(),
		), nil
	case *Sequence:
		if len(e.Exprs) == 0 {
			return NewSkip(), nil
		}

		if IsValue(e.Exprs[0]) {
			e.Exprs = e.Exprs[1:]
		} else if _, err := reduceIn(expr, &e.Exprs[0], store); err != nil {
			return expr, err
		}

		switch len(e.Exprs) {
		case 0:
			return NewSkip(), nil
		case 1:
			return e.Exprs[0], nil
		}

		return e, nil
	default:
		panic(unexpectedExpr(expr))
	}
}

// reduceIn steps the child at slot and stores its successor back into the
// parent.
func reduceIn(parent Expr, slot *Expr, store *Store) (Expr, error) {
	next, err := Transition(*slot, store)
	if err != nil {
		return parent, err
	}

	*slot = next

	return parent, nil
}

func apply(e *Operation) (Expr, error) {
	lhs, lok := e.Lhs.(*Integer)
	rhs, rok := e.Rhs.(*Integer)
	if !lok || !rok {
		return e, &UndefinedOperationError{
			Op:  e.Op,
			Lhs: e.Lhs,
			Rhs: e.Rhs,
		}
	}

	switch e.Op {
	case OpAdd:
		return NewInteger(lhs.Value + rhs.Value), nil
	case OpGreaterEqual:
		return NewBoolean(lhs.Value >= rhs.Value), nil
	default:
		panic("unexpected binary op: " + e.Op)
	}
}
