package front

import (
	"context"

	"tlog.app/go/tlog"

	"github.com/slowlang/dl/compiler/ast"
	"github.com/slowlang/dl/compiler/diag"
	"github.com/slowlang/dl/compiler/lex"
)

const entryPoint = "main"

// Parse builds the entry function from toks
// resolving variables and stamping literal types on the way.
// Failures are *diag.Error.
func Parse(ctx context.Context, toks []lex.Token, path string) (fn *ast.Func, err error) {
	tr, _ := tlog.SpawnFromContextAndWrap(ctx, "front: parse", "path", path, "tokens", len(toks))
	defer tr.Finish("err", &err)

	err = FindEntry(toks, path)
	if err != nil {
		return nil, err
	}

	tr.Printw("entry point found", "path", path)

	p := New(toks, path)

	fn, err = p.ParseFunc()
	if err != nil {
		return nil, err
	}

	if tr.If("dump_ast") {
		for i, s := range fn.Body {
			tr.Printw("stmt", "i", i, "typ", tlog.NextAsType, s, "val", s)
		}
	}

	return fn, nil
}

// FindEntry checks that an entry point keyword is present anywhere in toks.
func FindEntry(toks []lex.Token, path string) error {
	for _, t := range toks {
		if t.Kind == lex.Keyword && t.Value == entryPoint {
			return nil
		}
	}

	return diag.New(diag.MissingEntryPoint, path, 0, "could not find entry point %v", entryPoint)
}
