package types

import (
	"fmt"
	"sort"
	"strings"
)

// Binding records the concrete types bound to class-vars and the values
// bound to free integer parameters during one resolution attempt. A Binding
// is created fresh per attempt and never shared across calls.
type Binding struct {
	types map[string]Type
	ints  map[string]int32
}

// NewBinding creates an empty binding.
func NewBinding() *Binding {
	return &Binding{
		types: make(map[string]Type),
		ints:  make(map[string]int32),
	}
}

// BindType binds a class-var to a concrete type. Nullability is tracked
// separately from bindings, so the stored type is normalized to
// non-nullable.
func (b *Binding) BindType(name string, t Type) {
	b.types[name] = t.WithNullable(false)
}

// TypeOf returns the type bound to a class-var, if any.
func (b *Binding) TypeOf(name string) (Type, bool) {
	t, ok := b.types[name]
	return t, ok
}

// BindInt binds an integer parameter variable to a value.
func (b *Binding) BindInt(name string, value int32) {
	b.ints[name] = value
}

// IntOf returns the value bound to an integer parameter variable, if any.
func (b *Binding) IntOf(name string) (int32, bool) {
	v, ok := b.ints[name]
	return v, ok
}

// Empty reports whether nothing has been bound.
func (b *Binding) Empty() bool {
	return len(b.types) == 0 && len(b.ints) == 0
}

// String renders the binding with sorted keys for deterministic output.
func (b *Binding) String() string {
	parts := make([]string, 0, len(b.types)+len(b.ints))
	for name, t := range b.types {
		parts = append(parts, fmt.Sprintf("%s=%s", name, t))
	}
	for name, v := range b.ints {
		parts = append(parts, fmt.Sprintf("%s=%d", name, v))
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ", ") + "}"
}
