package front

import (
	"fmt"

	"github.com/slowlang/dl/compiler/ast"
	"github.com/slowlang/dl/compiler/diag"
	"github.com/slowlang/dl/compiler/lex"
	"github.com/slowlang/dl/compiler/tp"
)

type (
	Parser struct {
		path string
		toks []lex.Token
		pos  int

		// declared variables, function wide
		vars map[string]tp.Type
	}
)

func New(toks []lex.Token, path string) *Parser {
	return &Parser{
		path: path,
		toks: toks,
		vars: make(map[string]tp.Type),
	}
}

func (p *Parser) ParseFunc() (fn *ast.Func, err error) {
	name, err := p.consume(lex.Keyword, entryPoint)
	if err != nil {
		return nil, err
	}

	for _, exp := range []struct {
		k lex.Kind
		v string
	}{
		{lex.Symbol, ":"},
		{lex.Symbol, ":"},
		{lex.Type, "i32"},
		{lex.Symbol, "{"},
	} {
		_, err = p.consume(exp.k, exp.v)
		if err != nil {
			return nil, err
		}
	}

	fn = &ast.Func{
		Base: ast.Base{Line: name.Line},
		Name: name.Value,
		Path: p.path,
	}

	fn.Body, err = p.parseBlock()
	if err != nil {
		return nil, err
	}

	_, err = p.consume(lex.Symbol, "}")
	if err != nil {
		return nil, err
	}

	if t, ok := p.peek(); ok {
		return nil, p.unexpected(t, `end of input after closing "}" of function `+entryPoint)
	}

	return fn, nil
}

func (p *Parser) parseBlock() (body []ast.Stmt, err error) {
	for {
		t, ok := p.peek()
		if !ok {
			return nil, p.eof(want(lex.Symbol, "}"))
		}

		if t.Kind == lex.Symbol && t.Value == "}" {
			return body, nil
		}

		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}

		body = append(body, s)
	}
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	t, _ := p.peek()

	switch {
	case t.Kind == lex.Identifier:
		return p.parseDecl()
	case t.Kind == lex.Keyword && t.Value == "return":
		return p.parseReturn()
	default:
		return nil, p.unexpected(t, "declaration or return")
	}
}

func (p *Parser) parseDecl() (_ *ast.VarDecl, err error) {
	name, err := p.consume(lex.Identifier, "")
	if err != nil {
		return nil, err
	}

	_, err = p.consume(lex.Symbol, ":")
	if err != nil {
		return nil, err
	}

	typ, err := p.consume(lex.Type, "")
	if err != nil {
		return nil, err
	}

	_, err = p.consume(lex.Symbol, "=")
	if err != nil {
		return nil, err
	}

	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	_, err = p.consume(lex.Symbol, ";")
	if err != nil {
		return nil, err
	}

	t, _ := tp.Lookup(typ.Value)

	if xt := x.Type(); xt.Resolved() && xt != t {
		return nil, diag.New(diag.TypeMismatch, p.path, name.Line, "type mismatch: %v declared as %v, got %v", name.Value, t, xt)
	}

	err = p.stamp(x, t)
	if err != nil {
		return nil, err
	}

	// bound after the initializer, redeclaration overwrites
	p.vars[name.Value] = t

	return &ast.VarDecl{
		Base:  ast.Base{Line: name.Line},
		Name:  name.Value,
		Type:  t,
		Value: x,
	}, nil
}

func (p *Parser) parseReturn() (_ *ast.Return, err error) {
	ret, err := p.consume(lex.Keyword, "return")
	if err != nil {
		return nil, err
	}

	x, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	_, err = p.consume(lex.Symbol, ";")
	if err != nil {
		return nil, err
	}

	if xt := x.Type(); xt.Resolved() && xt != tp.I32 {
		return nil, diag.New(diag.ReturnTypeMismatch, p.path, ret.Line, "return type mismatch: expected %v, got %v", tp.I32, xt)
	}

	err = p.stamp(x, tp.I32)
	if err != nil {
		return nil, err
	}

	return &ast.Return{
		Base:  ast.Base{Line: ret.Line},
		Value: x,
	}, nil
}

func (p *Parser) parseExpr() (ast.Expr, error) {
	t, ok := p.peek()
	if !ok {
		return nil, p.eof("number or identifier")
	}

	switch t.Kind {
	case lex.Number:
		p.pos++

		if !t.Fits() {
			return nil, diag.New(diag.LiteralOverflow, p.path, t.Line, "integer literal %v overflows 64 bits", t.Value)
		}

		return &ast.Int{
			Base:  ast.Base{Line: t.Line},
			Value: t.Num,
		}, nil
	case lex.Identifier:
		p.pos++

		typ, ok := p.vars[t.Value]
		if !ok {
			return nil, diag.New(diag.UndeclaredVariable, p.path, t.Line, "undeclared variable %q", t.Value)
		}

		return &ast.Var{
			Base: ast.Base{Line: t.Line},
			Name: t.Value,
			Tp:   typ,
		}, nil
	default:
		return nil, p.unexpected(t, "number or identifier")
	}
}

// stamp gives an unresolved literal its contextual type.
func (p *Parser) stamp(x ast.Expr, t tp.Type) error {
	switch x := x.(type) {
	case *ast.Int:
		if x.Tp.Resolved() {
			return nil
		}

		if !t.Fits(x.Value) {
			return diag.New(diag.LiteralOverflow, p.path, x.Line, "integer literal %d overflows %v", x.Value, t)
		}

		x.Tp = t
	case *ast.Var:
	default:
		panic(x)
	}

	return nil
}

func (p *Parser) peek() (lex.Token, bool) {
	if p.pos < len(p.toks) {
		return p.toks[p.pos], true
	}

	return lex.Token{}, false
}

// consume advances past the current token if it matches.
// Zero kind or empty value match anything.
func (p *Parser) consume(k lex.Kind, v string) (lex.Token, error) {
	t, ok := p.peek()
	if !ok {
		return t, p.eof(want(k, v))
	}

	if k != 0 && t.Kind != k || v != "" && t.Value != v {
		return t, p.unexpected(t, want(k, v))
	}

	p.pos++

	return t, nil
}

func (p *Parser) unexpected(t lex.Token, exp string) error {
	return diag.New(diag.UnexpectedToken, p.path, t.Line, "unexpected %v %q, expected %v", t.Kind, t.Value, exp)
}

func (p *Parser) eof(exp string) error {
	var line int
	if len(p.toks) != 0 {
		line = p.toks[len(p.toks)-1].Line
	}

	return diag.New(diag.UnexpectedEndOfInput, p.path, line, "unexpected end of input, expected %v", exp)
}

func want(k lex.Kind, v string) string {
	switch {
	case k != 0 && v != "":
		return fmt.Sprintf("%v %q", k, v)
	case v != "":
		return fmt.Sprintf("%q", v)
	case k != 0:
		return k.String()
	default:
		return "token"
	}
}
