package compiler

import (
	"context"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/dl/compiler/ast"
	"github.com/slowlang/dl/compiler/back"
	"github.com/slowlang/dl/compiler/front"
	"github.com/slowlang/dl/compiler/lex"
	"github.com/slowlang/dl/compiler/llvm"
)

type (
	Backend func(ctx context.Context, fn *ast.Func) ([]byte, error)
)

var (
	Asm  Backend = back.Compile
	LLVM Backend = llvm.Compile
)

func CompileFile(ctx context.Context, name string, be Backend) (obj []byte, err error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Compile(ctx, name, text, be)
}

func Compile(ctx context.Context, name string, text []byte, be Backend) (obj []byte, err error) {
	fn, err := Parse(ctx, name, text)
	if err != nil {
		return nil, err
	}

	obj, err = be(ctx, fn)
	if err != nil {
		return nil, errors.Wrap(err, "compile")
	}

	return obj, nil
}

// Parse tokenizes and parses text into the entry function.
func Parse(ctx context.Context, name string, text []byte) (fn *ast.Func, err error) {
	toks := lex.Tokenize(text)

	if tlog.If("dump_tokens") {
		for _, t := range toks {
			tlog.Printw("token", "kind", t.Kind, "val", t.Value, "line", t.Line)
		}
	}

	fn, err = front.Parse(ctx, toks, name)
	if err != nil {
		return nil, errors.Wrap(err, "parse text")
	}

	return fn, nil
}
