package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tlog.app/go/errors"
)

func TestErrorFormat(t *testing.T) {
	e := New(UndeclaredVariable, "a.dl", 3, "undeclared variable %q", "x")

	assert.Equal(t, `a.dl:3: ERROR: undeclared variable "x"`, e.Error())
	assert.Equal(t, "UndeclaredVariable", e.Kind.String())
	assert.NotZero(t, e.From)
}

func TestAsWrapped(t *testing.T) {
	var err error = New(TypeMismatch, "a.dl", 2, "type mismatch")

	err = errors.Wrap(err, "parse")
	err = errors.Wrap(err, "compile %v", "a.dl")

	e, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, TypeMismatch, e.Kind)
	assert.Equal(t, "a.dl:2: ERROR: type mismatch", e.Error())

	assert.True(t, Is(err, TypeMismatch))
	assert.False(t, Is(err, ReturnTypeMismatch))

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "MissingEntryPoint", MissingEntryPoint.String())
	assert.Equal(t, "UnresolvedType", UnresolvedType.String())
	assert.Equal(t, "Kind(0)", Kind(0).String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
}
