package back

import (
	"context"
	"strings"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/tlog"

	"github.com/slowlang/dl/compiler/ast"
	"github.com/slowlang/dl/compiler/diag"
	"github.com/slowlang/dl/compiler/tp"
)

type (
	// Compiler emits x86-64 NASM text for the System V ABI.
	Compiler struct{}

	funContext struct {
		*ast.Func

		// slot base, the same for every declaration
		base int
	}
)

const (
	retReg = "eax"

	// caller saved, never holds a result
	scratchReg = "r11"
)

func New() *Compiler { return &Compiler{} }

// Compile is a shortcut for New().CompileFunc(ctx, nil, fn).
func Compile(ctx context.Context, fn *ast.Func) ([]byte, error) {
	return New().CompileFunc(ctx, nil, fn)
}

// CompileFunc appends fn assembly to b.
// Nothing is appended if it fails.
func (c *Compiler) CompileFunc(ctx context.Context, b []byte, fn *ast.Func) (_ []byte, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "back: compile func", "name", fn.Name, "stmts", len(fn.Body))
	defer tr.Finish("err", &err)

	st := len(b)

	f := &funContext{Func: fn}

	b = hfmt.Appendf(b, `bits 64
default rel
section .text
global %[1]s
%[1]s:
	push rbp
	mov rbp, rsp
`, fn.Name)

	for _, s := range fn.Body {
		b, err = c.compileStmt(ctx, b, f, s)
		if err != nil {
			return b[:st], err
		}
	}

	b = append(b, "\tpop rbp\n\tret\n\n"...)

	if tr.If("dump_asm") {
		tr.Printw("asm", "text", b[st:])
	}

	return b, nil
}

func (c *Compiler) compileStmt(ctx context.Context, b []byte, f *funContext, s ast.Stmt) (_ []byte, err error) {
	switch s := s.(type) {
	case *ast.VarDecl:
		x, ok := s.Value.(*ast.Int)
		if !ok {
			return b, diag.New(diag.UnsupportedInitializer, f.Path, s.Line, "unsupported initializer for %v: %v", s.Name, describe(s.Value))
		}

		err = f.resolved(x)
		if err != nil {
			return b, err
		}

		return f.store(b, s.Type, x.Value), nil
	case *ast.Return:
		x, ok := s.Value.(*ast.Int)
		if !ok {
			return b, diag.New(diag.UnsupportedReturnExpression, f.Path, s.Line, "unsupported return expression: %v", describe(s.Value))
		}

		err = f.resolved(x)
		if err != nil {
			return b, err
		}

		return hfmt.Appendf(b, "\tmov %s, %d\n", retReg, x.Value), nil
	default:
		panic(s)
	}
}

// store writes v to the slot of a t typed variable.
func (f *funContext) store(b []byte, t tp.Type, v int64) []byte {
	size := t.Size()
	off := f.base + size

	if size == 8 && !tp.I32.Fits(v) {
		b = hfmt.Appendf(b, "\tmov %s, %d\n", scratchReg, v)
		return hfmt.Appendf(b, "\tmov QWORD [rbp-%d], %s\n", off, scratchReg)
	}

	return hfmt.Appendf(b, "\tmov %s [rbp-%d], %d\n", ptrSize(size), off, v)
}

func (f *funContext) resolved(x ast.Expr) error {
	if x.Type().Resolved() {
		return nil
	}

	return diag.New(diag.UnresolvedType, f.Path, lineOf(x), "expression type is not resolved")
}

func ptrSize(size int) string {
	switch size {
	case 2:
		return "WORD"
	case 4:
		return "DWORD"
	case 8:
		return "QWORD"
	default:
		return "BYTE"
	}
}

func describe(x ast.Expr) string {
	switch x := x.(type) {
	case *ast.Var:
		return "variable " + x.Name
	default:
		panic(x)
	}
}

func lineOf(x ast.Expr) int {
	switch x := x.(type) {
	case *ast.Var:
		return x.Line
	case *ast.Int:
		return x.Line
	default:
		panic(x)
	}
}

// Lines splits emitted text into lines.
func Lines(obj []byte) []string {
	if len(obj) == 0 {
		return nil
	}

	return strings.Split(strings.TrimSuffix(string(obj), "\n"), "\n")
}
