package imp

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Step is one observable state of a run. Store is the live store, so an
// observer has to render it before returning.
type Step struct {
	Index int
	Expr  Expr
	Store *Store
}

// String renders the step as "<expr>, {<loc> -> <val>, ...}".
func (s Step) String() string {
	return fmt.Sprintf("%s, %s", s.Expr, s.Store)
}

type Option func(*Interpreter)

func WithLogger(logger *zap.Logger) Option {
	return func(i *Interpreter) {
		i.logger = logger
	}
}

// WithMaxSteps bounds the number of reductions of a single run. Zero means
// no bound.
func WithMaxSteps(n int) Option {
	return func(i *Interpreter) {
		i.maxSteps = n
	}
}

// WithObserver registers a callback receiving the initial state and the
// state after every reduction.
func WithObserver(observe func(Step)) Option {
	return func(i *Interpreter) {
		i.observe = observe
	}
}

type Interpreter struct {
	logger   *zap.Logger
	maxSteps int
	observe  func(Step)
}

func NewInterpreter(opts ...Option) *Interpreter {
	i := &Interpreter{
		logger: zap.NewNop(),
	}

	for _, opt := range opts {
		opt(i)
	}

	return i
}

// Run parses src and reduces it against store until no transition is left.
func (i *Interpreter) Run(src string, store *Store) (Expr, error) {
	expr, err := Parse(src)
	if err != nil {
		return nil, err
	}

	return i.Eval(expr, store)
}

func (i *Interpreter) RunFromReader(reader io.Reader, store *Store) (Expr, error) {
	src, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read program")
	}

	return i.Run(string(src), store)
}

// Eval reduces expr step by step. The returned expression is the last state
// reached, which is irreducible unless an error is returned.
func (i *Interpreter) Eval(expr Expr, store *Store) (Expr, error) {
	i.emit(Step{Index: 0, Expr: expr, Store: store})

	for n := 1; CanTransition(expr); n++ {
		if i.maxSteps > 0 && n > i.maxSteps {
			return expr, errors.Wrapf(ErrStepLimit, "after %d steps", i.maxSteps)
		}

		next, err := Transition(expr, store)
		if err != nil {
			i.logger.Debug("Reduction failed", zap.Int("step", n), zap.Error(err))
			return expr, errors.Wrapf(err, "step %d", n)
		}

		expr = next
		i.logger.Debug("Reduced", zap.Int("step", n), zap.Stringer("expr", expr), zap.Int("locations", store.Len()))
		i.emit(Step{Index: n, Expr: expr, Store: store})
	}

	return expr, nil
}

func (i *Interpreter) emit(s Step) {
	if i.observe != nil {
		i.observe(s)
	}
}
