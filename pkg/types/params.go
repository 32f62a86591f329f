package types

import "strconv"

// IntParam is an integer type parameter (decimal precision/scale, fixed
// lengths). In declared types the parameter may be a free variable to be
// bound during matching; in concrete types it is always a bound value.
type IntParam struct {
	// Var is the variable name when the parameter is free (e.g. "P").
	// Empty for bound parameters.
	Var   string
	Value int32
}

// BoundParam creates a parameter bound to a value.
func BoundParam(value int32) IntParam {
	return IntParam{Value: value}
}

// ParamVar creates a free parameter variable.
func ParamVar(name string) IntParam {
	return IntParam{Var: name}
}

// IsVar reports whether the parameter is a free variable.
func (p IntParam) IsVar() bool {
	return p.Var != ""
}

func (p IntParam) String() string {
	if p.IsVar() {
		return p.Var
	}
	return strconv.FormatInt(int64(p.Value), 10)
}
