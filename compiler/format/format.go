package format

import (
	"context"

	"github.com/nikandfor/hacked/hfmt"
	"tlog.app/go/errors"

	"github.com/slowlang/dl/compiler/ast"
)

// Format appends an indented dump of x to b.
func Format(ctx context.Context, b []byte, x ast.Node) ([]byte, error) {
	return format(ctx, b, x, 0)
}

func format(ctx context.Context, b []byte, x ast.Node, d int) (_ []byte, err error) {
	switch x := x.(type) {
	case *ast.Func:
		b = app(b, d, "Function: %s\n", x.Name)

		for i, s := range x.Body {
			b, err = format(ctx, b, s, d+1)
			if err != nil {
				return nil, errors.Wrap(err, "stmt %d", i)
			}
		}
	case *ast.VarDecl:
		b = app(b, d, "VarDecl: %s: %v\n", x.Name, x.Type)

		b, err = format(ctx, b, x.Value, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "value")
		}
	case *ast.Return:
		b = app(b, d, "Return:\n")

		b, err = format(ctx, b, x.Value, d+1)
		if err != nil {
			return nil, errors.Wrap(err, "value")
		}
	case *ast.Var:
		b = app(b, d, "Var: %s: %v\n", x.Name, x.Tp)
	case *ast.Int:
		b = app(b, d, "Int: %d: %v\n", x.Value, x.Tp)
	default:
		return nil, errors.New("unsupported node: %T", x)
	}

	return b, nil
}

func app(b []byte, d int, f string, args ...any) []byte {
	for i := 0; i < d; i++ {
		b = append(b, "  "...)
	}

	return hfmt.Appendf(b, f, args...)
}
