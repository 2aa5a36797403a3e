package tp

type (
	// Type is a primitive integer type.
	// The zero value is an unresolved type.
	Type int
)

const (
	Unresolved Type = iota
	I8
	I16
	I32
	I64
)

var names = map[string]Type{
	"i8":  I8,
	"i16": I16,
	"i32": I32,
	"i64": I64,
}

// Lookup resolves a reserved type name.
func Lookup(name string) (Type, bool) {
	t, ok := names[name]
	return t, ok
}

func (t Type) Resolved() bool { return t != Unresolved }

// Size is the storage width in bytes.
// Unknown types take one byte.
func (t Type) Size() int {
	switch t {
	case I16:
		return 2
	case I32:
		return 4
	case I64:
		return 8
	default:
		return 1
	}
}

func (t Type) Bits() int { return t.Size() * 8 }

// Fits reports whether v is representable as a signed value of type t.
func (t Type) Fits(v int64) bool {
	if t == I64 {
		return true
	}

	lim := int64(1) << (t.Bits() - 1)

	return v >= -lim && v < lim
}

func (t Type) String() string {
	switch t {
	case Unresolved:
		return "<unresolved>"
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case I64:
		return "i64"
	default:
		return "<unknown>"
	}
}
