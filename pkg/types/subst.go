package types

import "fmt"

// UnboundVariableError reports a class-var or parameter variable that has no
// binding during substitution.
type UnboundVariableError struct {
	Name string
}

func (e *UnboundVariableError) Error() string {
	return fmt.Sprintf("no binding for type variable %s", e.Name)
}

// Substitute replaces every class-var and free integer parameter in the
// declared type with its binding, producing a fully concrete type. The
// declared nullable flags are preserved; the resolver overrides the
// top-level flag when the variant's handling mode requires it.
func Substitute(declared Type, b *Binding) (Type, error) {
	switch d := declared.(type) {
	case ClassVar:
		bound, ok := b.TypeOf(d.Name)
		if !ok {
			return nil, &UnboundVariableError{Name: d.Name}
		}
		return bound.WithNullable(d.Nullable), nil

	case Primitive:
		return d, nil

	case FixedChar:
		length, err := substParam(d.Length, b)
		if err != nil {
			return nil, err
		}
		d.Length = length
		return d, nil

	case VarChar:
		length, err := substParam(d.Length, b)
		if err != nil {
			return nil, err
		}
		d.Length = length
		return d, nil

	case FixedBinary:
		length, err := substParam(d.Length, b)
		if err != nil {
			return nil, err
		}
		d.Length = length
		return d, nil

	case Decimal:
		precision, err := substParam(d.Precision, b)
		if err != nil {
			return nil, err
		}
		scale, err := substParam(d.Scale, b)
		if err != nil {
			return nil, err
		}
		d.Precision = precision
		d.Scale = scale
		return d, nil

	case List:
		elem, err := Substitute(d.Elem, b)
		if err != nil {
			return nil, err
		}
		d.Elem = elem
		return d, nil

	case Map:
		key, err := Substitute(d.Key, b)
		if err != nil {
			return nil, err
		}
		value, err := Substitute(d.Value, b)
		if err != nil {
			return nil, err
		}
		d.Key = key
		d.Value = value
		return d, nil

	case Struct:
		fields := make([]Type, len(d.Fields))
		for i, f := range d.Fields {
			sub, err := Substitute(f, b)
			if err != nil {
				return nil, err
			}
			fields[i] = sub
		}
		d.Fields = fields
		return d, nil
	}
	return declared, nil
}

func substParam(p IntParam, b *Binding) (IntParam, error) {
	if !p.IsVar() {
		return p, nil
	}
	value, ok := b.IntOf(p.Var)
	if !ok {
		return IntParam{}, &UnboundVariableError{Name: p.Var}
	}
	return BoundParam(value), nil
}

// FreeVars returns the class-var and parameter variable names appearing in
// the type, deduplicated, in order of first appearance.
func FreeVars(t Type) []string {
	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	collectFreeVars(t, add)
	return names
}

func collectFreeVars(t Type, add func(string)) {
	addParam := func(p IntParam) {
		if p.IsVar() {
			add(p.Var)
		}
	}
	switch v := t.(type) {
	case ClassVar:
		add(v.Name)
	case FixedChar:
		addParam(v.Length)
	case VarChar:
		addParam(v.Length)
	case FixedBinary:
		addParam(v.Length)
	case Decimal:
		addParam(v.Precision)
		addParam(v.Scale)
	case List:
		collectFreeVars(v.Elem, add)
	case Map:
		collectFreeVars(v.Key, add)
		collectFreeVars(v.Value, add)
	case Struct:
		for _, f := range v.Fields {
			collectFreeVars(f, add)
		}
	}
}
