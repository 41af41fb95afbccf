package imp

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

// defineBuiltins adds printf and the dump function, which prints every
// declared location as "<loc> -> <value>".
func defineBuiltins(b *LLVMIRBuilder) *ir.Func {
	printf := b.mod.NewFunc("printf", types.I32, ir.NewParam("format", types.I8Ptr))
	printf.Sig.Variadic = true

	return builtinDump(b, printf)
}

func builtinDump(b *LLVMIRBuilder, printf *ir.Func) *ir.Func {
	f := b.mod.NewFunc("dump", types.Void)
	block := f.NewBlock("")

	idx := constant.NewInt(types.I32, 0)

	for _, loc := range b.locations {
		format := constant.NewCharArrayFromString(loc + " -> %lld\n\x00")
		formatGlob := b.mod.NewGlobalDef("fmt."+loc, format)
		formatGlob.Immutable = true

		fmtAddr := constant.NewGetElementPtr(format.Typ, formatGlob, idx, idx)

		g, _ := b.values.Get(loc)
		block.NewCall(printf, fmtAddr, block.NewLoad(types.I64, g))
	}

	block.NewRet(nil)

	return f
}
