package imp

import (
	"io"
	"os"

	"github.com/llir/llvm/ir"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Compiler turns IMP programs into LLVM IR modules. The generated code
// assumes a well-typed program: there are no runtime checks on operands or
// predicates. Every assigned location starts at 0, so a program that reads a
// location before the assignment that defines it (`b := !a; a := 1`) compiles
// and reads 0 where the interpreter fails with an UndefinedError.
type Compiler struct {
	logger *zap.Logger
}

func NewCompiler(logger *zap.Logger) *Compiler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Compiler{
		logger: logger,
	}
}

func (c *Compiler) Compile(filename string) (*ir.Module, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", filename)
	}
	defer f.Close()

	return c.CompileFromReader(f)
}

func (c *Compiler) CompileFromReader(reader io.Reader) (*ir.Module, error) {
	src, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read program")
	}

	expr, err := Parse(string(src))
	if err != nil {
		return nil, err
	}

	return c.CompileExpr(expr)
}

func (c *Compiler) CompileExpr(expr Expr) (*ir.Module, error) {
	mod, err := NewLLVMGenerator(expr).Do()
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate IR")
	}

	c.logger.Debug("Generated module", zap.Int("globals", len(mod.Globals)), zap.Int("funcs", len(mod.Funcs)))

	return mod, nil
}
