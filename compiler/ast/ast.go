package ast

import "github.com/slowlang/dl/compiler/tp"

type (
	// Node is one of Func, VarDecl, Return, Var or Int.
	Node interface {
		node()
	}

	Stmt interface {
		Node
		stmt()
	}

	Expr interface {
		Node
		expr()

		Type() tp.Type
	}

	Base struct {
		Line int
	}

	Func struct {
		Base `tlog:",embed"`

		Name string
		Path string
		Body []Stmt
	}

	VarDecl struct {
		Base `tlog:",embed"`

		Name  string
		Type  tp.Type
		Value Expr
	}

	Return struct {
		Base `tlog:",embed"`

		Value Expr
	}

	// Var references a declared variable.
	Var struct {
		Base `tlog:",embed"`

		Name string
		Tp   tp.Type
	}

	// Int is an integer literal.
	// Tp stays unresolved until the literal's context stamps it.
	Int struct {
		Base `tlog:",embed"`

		Value int64
		Tp    tp.Type
	}
)

func (*Func) node()    {}
func (*VarDecl) node() {}
func (*Return) node()  {}
func (*Var) node()     {}
func (*Int) node()     {}

func (*VarDecl) stmt() {}
func (*Return) stmt()  {}

func (*Var) expr() {}
func (*Int) expr() {}

func (x *Var) Type() tp.Type { return x.Tp }
func (x *Int) Type() tp.Type { return x.Tp }
