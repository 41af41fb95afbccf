package imp

import (
	"sort"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// globalPrefix keeps location globals apart from function names.
const globalPrefix = "loc."

type ValueLookup struct {
	vals map[string]value.Value
}

func NewValueLookup() *ValueLookup {
	return &ValueLookup{
		vals: make(map[string]value.Value),
	}
}

func (l *ValueLookup) Get(id string) (value.Value, bool) {
	val, ok := l.vals[id]
	return val, ok
}

func (l *ValueLookup) Set(id string, val value.Value) {
	l.vals[id] = val
}

// LLVMIRBuilder lowers expressions into the current block of a function.
// Every IMP value is an i64: booleans are 0 or 1 and skip is 0.
type LLVMIRBuilder struct {
	mod       *ir.Module
	fn        *ir.Func
	block     *ir.Block
	values    *ValueLookup
	locations []string
}

func NewLLVMIRBuilder() *LLVMIRBuilder {
	return &LLVMIRBuilder{
		mod:    ir.NewModule(),
		values: NewValueLookup(),
	}
}

// declare creates a zero initialized global for every location.
func (b *LLVMIRBuilder) declare(locations []string) {
	for _, loc := range locations {
		g := b.mod.NewGlobalDef(globalPrefix+loc, constant.NewInt(types.I64, 0))
		b.values.Set(loc, g)
	}

	b.locations = locations
}

func (b *LLVMIRBuilder) main(expr Expr) error {
	b.fn = b.mod.NewFunc("main", types.I32)
	b.block = b.fn.NewBlock("")

	if _, err := b.expression(expr); err != nil {
		return err
	}

	dump := defineBuiltins(b)
	b.block.NewCall(dump)
	b.block.NewRet(constant.NewInt(types.I32, 0))

	return nil
}

func (b *LLVMIRBuilder) expression(expr Expr) (value.Value, error) {
	switch e := expr.(type) {
	case *Skip:
		return zero(), nil
	case *Boolean:
		if e.Value {
			return constant.NewInt(types.I64, 1), nil
		}

		return zero(), nil
	case *Integer:
		return constant.NewInt(types.I64, e.Value), nil
	case *Dereference:
		g, ok := b.values.Get(e.Location)
		if !ok {
			return nil, &UndefinedError{Name: e.Location}
		}

		return b.block.NewLoad(types.I64, g), nil
	case *Assignment:
		return b.assignment(e)
	case *Operation:
		return b.operation(e)
	case *IfThenElse:
		return b.ifThenElse(e)
	case *WhileLoop:
		return b.whileLoop(e)
	case *Sequence:
		var last value.Value = zero()
		for _, child := range e.Exprs {
			v, err := b.expression(child)
			if err != nil {
				return nil, err
			}

			last = v
		}

		return last, nil
	default:
		panic(unexpectedExpr(expr))
	}
}

func (b *LLVMIRBuilder) assignment(e *Assignment) (value.Value, error) {
	v, err := b.expression(e.Value)
	if err != nil {
		return nil, err
	}

	g, ok := b.values.Get(e.Location)
	if !ok {
		// Every assigned location is declared up front
		panic("undeclared location: " + e.Location)
	}

	b.block.NewStore(v, g)

	return zero(), nil
}

func (b *LLVMIRBuilder) operation(e *Operation) (value.Value, error) {
	lhs, err := b.expression(e.Lhs)
	if err != nil {
		return nil, err
	}

	rhs, err := b.expression(e.Rhs)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case OpAdd:
		return b.block.NewAdd(lhs, rhs), nil
	case OpGreaterEqual:
		cmp := b.block.NewICmp(enum.IPredSGE, lhs, rhs)
		return b.block.NewZExt(cmp, types.I64), nil
	default:
		panic("unexpected binary op: " + e.Op)
	}
}

func (b *LLVMIRBuilder) condition(predicate Expr) (value.Value, error) {
	p, err := b.expression(predicate)
	if err != nil {
		return nil, err
	}

	return b.block.NewICmp(enum.IPredNE, p, zero()), nil
}

func (b *LLVMIRBuilder) ifThenElse(e *IfThenElse) (value.Value, error) {
	cond, err := b.condition(e.Predicate)
	if err != nil {
		return nil, err
	}

	thenBlock := b.fn.NewBlock("")
	elseBlock := b.fn.NewBlock("")
	join := b.fn.NewBlock("")
	b.block.NewCondBr(cond, thenBlock, elseBlock)

	b.block = thenBlock
	thenValue, err := b.expression(e.Consequent)
	if err != nil {
		return nil, err
	}

	thenEnd := b.block
	thenEnd.NewBr(join)

	b.block = elseBlock
	elseValue, err := b.expression(e.Alternative)
	if err != nil {
		return nil, err
	}

	elseEnd := b.block
	elseEnd.NewBr(join)

	b.block = join

	return join.NewPhi(ir.NewIncoming(thenValue, thenEnd), ir.NewIncoming(elseValue, elseEnd)), nil
}

func (b *LLVMIRBuilder) whileLoop(e *WhileLoop) (value.Value, error) {
	header := b.fn.NewBlock("")
	b.block.NewBr(header)

	b.block = header
	cond, err := b.condition(e.Predicate)
	if err != nil {
		return nil, err
	}

	body := b.fn.NewBlock("")
	exit := b.fn.NewBlock("")
	b.block.NewCondBr(cond, body, exit)

	b.block = body
	if _, err := b.expression(e.Body); err != nil {
		return nil, err
	}

	b.block.NewBr(header)
	b.block = exit

	return zero(), nil
}

func zero() value.Value {
	return constant.NewInt(types.I64, 0)
}

// assignedLocations lists, in key order, every location some assignment in e
// writes to.
func assignedLocations(e Expr) []string {
	seen := make(map[string]bool)

	var walk func(Expr)
	walk = func(expr Expr) {
		switch e := expr.(type) {
		case *Assignment:
			seen[e.Location] = true
			walk(e.Value)
		case *Operation:
			walk(e.Lhs)
			walk(e.Rhs)
		case *IfThenElse:
			walk(e.Predicate)
			walk(e.Consequent)
			walk(e.Alternative)
		case *WhileLoop:
			walk(e.Predicate)
			walk(e.Body)
		case *Sequence:
			for _, child := range e.Exprs {
				walk(child)
			}
		}
	}
	walk(e)

	locations := make([]string, 0, len(seen))
	for loc := range seen {
		locations = append(locations, loc)
	}

	sort.Strings(locations)

	return locations
}

type LLVMGenerator struct {
	expr Expr
}

func NewLLVMGenerator(expr Expr) *LLVMGenerator {
	return &LLVMGenerator{
		expr: expr,
	}
}

// Do lowers the program into a module whose main runs it and prints the
// final value of every location.
func (g LLVMGenerator) Do() (*ir.Module, error) {
	builder := NewLLVMIRBuilder()
	builder.declare(assignedLocations(g.expr))

	if err := builder.main(g.expr); err != nil {
		return nil, err
	}

	return builder.mod, nil
}
