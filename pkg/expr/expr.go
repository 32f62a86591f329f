// Package expr provides the expression nodes and the function-call builder
// that generated builder entry points target.
//
// The nodes here are deliberately small: enough structure for a downstream
// serializer to render them, with the output type and the function anchor
// carried on every call node so consumers never need to re-resolve.
package expr

import (
	"fmt"
	"strings"

	"github.com/westonpace/substrait-expr/pkg/types"
)

// Expression is a typed expression node.
type Expression interface {
	// OutputType is the type an evaluator would produce for this node.
	OutputType() types.Type
	String() string

	isExpression()
}

// Literal is a constant value with an explicit type.
type Literal struct {
	Type types.Type
	// Value holds the Go representation of the constant; nil means a typed
	// null (the type must be nullable).
	Value any
}

func (l Literal) isExpression()          {}
func (l Literal) OutputType() types.Type { return l.Type }

func (l Literal) String() string {
	if l.Value == nil {
		return fmt.Sprintf("null(%s)", l.Type)
	}
	if s, ok := l.Value.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return fmt.Sprintf("%v", l.Value)
}

// FieldRef is a reference to an input field by position.
type FieldRef struct {
	Index int
	Type  types.Type
}

func (f FieldRef) isExpression()          {}
func (f FieldRef) OutputType() types.Type { return f.Type }
func (f FieldRef) String() string         { return fmt.Sprintf("$%d", f.Index) }

// Argument is one argument of a scalar function call: either a value
// expression or an enum option string.
type Argument struct {
	Value Expression
	// Enum is the selected option for enum arguments; Value is nil then.
	Enum string
}

func (a Argument) String() string {
	if a.Value == nil {
		return a.Enum
	}
	return a.Value.String()
}

// ScalarCall is a resolved call to an extension function variant.
type ScalarCall struct {
	// URI and Name identify the function entry.
	URI  string
	Name string
	// Anchor is the resolved variant's compound signature name.
	Anchor string
	// FunctionRef is the numeric anchor assigned by the plan's anchor
	// registry for serialization.
	FunctionRef uint32
	Args        []Argument
	// Type is the instantiated return type for this call site.
	Type types.Type
}

func (c ScalarCall) isExpression()          {}
func (c ScalarCall) OutputType() types.Type { return c.Type }

func (c ScalarCall) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Anchor, strings.Join(args, ", "))
}
