package expr

import "github.com/westonpace/substrait-expr/pkg/types"

// Typed literal constructors. Literals are non-nullable; use NullOf for a
// typed null.

func Bool(v bool) Expression {
	return Literal{Type: types.Bool(false), Value: v}
}

func I8(v int8) Expression {
	return Literal{Type: types.I8(false), Value: v}
}

func I16(v int16) Expression {
	return Literal{Type: types.I16(false), Value: v}
}

func I32(v int32) Expression {
	return Literal{Type: types.I32(false), Value: v}
}

func I64(v int64) Expression {
	return Literal{Type: types.I64(false), Value: v}
}

func FP32(v float32) Expression {
	return Literal{Type: types.FP32(false), Value: v}
}

func FP64(v float64) Expression {
	return Literal{Type: types.FP64(false), Value: v}
}

func Str(v string) Expression {
	return Literal{Type: types.String(false), Value: v}
}

func Bin(v []byte) Expression {
	return Literal{Type: types.Binary(false), Value: v}
}

// NullOf creates a typed null literal. The type is forced nullable.
func NullOf(t types.Type) Expression {
	return Literal{Type: t.WithNullable(true)}
}

// Field creates a positional field reference with a known type.
func Field(index int, t types.Type) Expression {
	return FieldRef{Index: index, Type: t}
}
