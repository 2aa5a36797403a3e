package llvm

import (
	"context"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"tlog.app/go/tlog"

	"github.com/slowlang/dl/compiler/ast"
	"github.com/slowlang/dl/compiler/diag"
	"github.com/slowlang/dl/compiler/tp"
)

// Compile translates fn into an LLVM IR module text.
// It accepts the same subset as the assembly backend.
func Compile(ctx context.Context, fn *ast.Func) (_ []byte, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "llvm: compile func", "name", fn.Name, "stmts", len(fn.Body))
	defer tr.Finish("err", &err)

	m := ir.NewModule()
	m.SourceFilename = fn.Path

	f := m.NewFunc(fn.Name, types.I32)
	b := f.NewBlock("entry")

	for _, s := range fn.Body {
		// code after return is checked and kept, in a block nothing jumps to
		if b.Term != nil {
			b = f.NewBlock("")
		}

		switch s := s.(type) {
		case *ast.VarDecl:
			x, ok := s.Value.(*ast.Int)
			if !ok {
				return nil, diag.New(diag.UnsupportedInitializer, fn.Path, s.Line, "unsupported initializer for %v", s.Name)
			}

			v, err := literal(fn, x)
			if err != nil {
				return nil, err
			}

			slot := b.NewAlloca(intType(s.Type))
			b.NewStore(v, slot)
		case *ast.Return:
			x, ok := s.Value.(*ast.Int)
			if !ok {
				return nil, diag.New(diag.UnsupportedReturnExpression, fn.Path, s.Line, "unsupported return expression")
			}

			v, err := literal(fn, x)
			if err != nil {
				return nil, err
			}

			b.NewRet(v)
		default:
			panic(s)
		}
	}

	if b.Term == nil {
		b.NewUnreachable()
	}

	text := m.String()

	if tr.If("dump_asm") {
		tr.Printw("llvm ir", "text", text)
	}

	return []byte(text), nil
}

func literal(fn *ast.Func, x *ast.Int) (*constant.Int, error) {
	if !x.Tp.Resolved() {
		return nil, diag.New(diag.UnresolvedType, fn.Path, x.Line, "expression type is not resolved")
	}

	return constant.NewInt(intType(x.Tp), x.Value), nil
}

func intType(t tp.Type) *types.IntType {
	switch t {
	case tp.I16:
		return types.I16
	case tp.I32:
		return types.I32
	case tp.I64:
		return types.I64
	default:
		return types.I8
	}
}
