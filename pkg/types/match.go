package types

// Matches reports whether a concrete call-site type can satisfy a declared
// argument type under the current partial binding, extending the binding
// with any class-vars or parameter variables it resolves. The predicate is
// pure aside from the binding it is handed; no cast-cost reasoning happens
// here.
//
// When strict is true the declared nullability must equal the concrete
// nullability at every level (the DISCRETE nullability handling mode).
// Otherwise nullability is ignored during matching and propagated by the
// resolver according to the variant's handling mode.
func Matches(declared, concrete Type, b *Binding, strict bool) bool {
	if strict && declared.IsNullable() != concrete.IsNullable() {
		return false
	}

	switch d := declared.(type) {
	case ClassVar:
		if !Satisfies(d.Name, concrete) {
			return false
		}
		if prev, ok := b.TypeOf(d.Name); ok {
			return prev.EqualIgnoringNullability(concrete)
		}
		b.BindType(d.Name, concrete)
		return true

	case Primitive:
		c, ok := concrete.(Primitive)
		return ok && c.Kind == d.Kind

	case FixedChar:
		c, ok := concrete.(FixedChar)
		return ok && matchParam(d.Length, c.Length, b)

	case VarChar:
		c, ok := concrete.(VarChar)
		return ok && matchParam(d.Length, c.Length, b)

	case FixedBinary:
		c, ok := concrete.(FixedBinary)
		return ok && matchParam(d.Length, c.Length, b)

	case Decimal:
		c, ok := concrete.(Decimal)
		return ok && matchParam(d.Precision, c.Precision, b) && matchParam(d.Scale, c.Scale, b)

	case List:
		c, ok := concrete.(List)
		return ok && Matches(d.Elem, c.Elem, b, strict)

	case Map:
		c, ok := concrete.(Map)
		return ok && Matches(d.Key, c.Key, b, strict) && Matches(d.Value, c.Value, b, strict)

	case Struct:
		c, ok := concrete.(Struct)
		if !ok || len(c.Fields) != len(d.Fields) {
			return false
		}
		for i, f := range d.Fields {
			if !Matches(f, c.Fields[i], b, strict) {
				return false
			}
		}
		return true
	}
	return false
}

// matchParam matches a declared integer parameter against a concrete one.
// A free declared parameter binds to the concrete value on first sight and
// must agree with its previous binding afterwards. A bound declared
// parameter requires an exact value match.
func matchParam(declared, concrete IntParam, b *Binding) bool {
	if concrete.IsVar() {
		// Call-site types are always fully concrete.
		return false
	}
	if !declared.IsVar() {
		return declared.Value == concrete.Value
	}
	if prev, ok := b.IntOf(declared.Var); ok {
		return prev == concrete.Value
	}
	b.BindInt(declared.Var, concrete.Value)
	return true
}
