package diag

import (
	"fmt"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
)

type (
	Kind int

	// Error is a compilation failure tied to a source position.
	Error struct {
		Kind Kind
		Path string
		Line int
		Msg  string

		From loc.PC `tlog:",omitempty"`
	}
)

const (
	_ Kind = iota
	MissingEntryPoint
	UnexpectedToken
	UnexpectedEndOfInput
	TypeMismatch
	UndeclaredVariable
	ReturnTypeMismatch
	LiteralOverflow
	UnsupportedInitializer
	UnsupportedReturnExpression
	UnresolvedType
)

var kinds = []string{
	MissingEntryPoint:           "MissingEntryPoint",
	UnexpectedToken:             "UnexpectedToken",
	UnexpectedEndOfInput:        "UnexpectedEndOfInput",
	TypeMismatch:                "TypeMismatch",
	UndeclaredVariable:          "UndeclaredVariable",
	ReturnTypeMismatch:          "ReturnTypeMismatch",
	LiteralOverflow:             "LiteralOverflow",
	UnsupportedInitializer:      "UnsupportedInitializer",
	UnsupportedReturnExpression: "UnsupportedReturnExpression",
	UnresolvedType:              "UnresolvedType",
}

// New creates a diagnostic and records the caller it was raised from.
func New(k Kind, path string, line int, format string, args ...any) *Error {
	return &Error{
		Kind: k,
		Path: path,
		Line: line,
		Msg:  fmt.Sprintf(format, args...),
		From: loc.Caller(1),
	}
}

// As finds the first diagnostic in err's chain.
func As(err error) (*Error, bool) {
	var e *Error

	if !errors.As(err, &e) {
		return nil, false
	}

	return e, true
}

// Is reports whether err carries a diagnostic of kind k.
func Is(err error, k Kind) bool {
	e, ok := As(err)

	return ok && e.Kind == k
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d: ERROR: %s", e.Path, e.Line, e.Msg)
}

func (k Kind) String() string {
	if k > 0 && int(k) < len(kinds) {
		return kinds[k]
	}

	return fmt.Sprintf("Kind(%d)", int(k))
}
