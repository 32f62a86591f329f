package registry

import "fmt"

// DuplicateDefinitionError reports two variants of one function whose
// argument patterns are indistinguishable for every possible input. This is
// a defect in the extension data, not a resolution failure.
type DuplicateDefinitionError struct {
	URI      string
	Name     string
	Anchor   string
	Existing string
}

func (e *DuplicateDefinitionError) Error() string {
	return fmt.Sprintf("duplicate definition for %s#%s: variant %s is indistinguishable from %s",
		e.URI, e.Name, e.Anchor, e.Existing)
}

// UnresolvableReturnTypeError reports a variant whose return type references
// a class-var or parameter variable that appears in no argument position, so
// no call could ever produce a concrete return type.
type UnresolvableReturnTypeError struct {
	URI      string
	Name     string
	Variable string
	Return   string
}

func (e *UnresolvableReturnTypeError) Error() string {
	return fmt.Sprintf("unresolvable return type for %s#%s: %s references %s, which no argument binds",
		e.URI, e.Name, e.Return, e.Variable)
}
