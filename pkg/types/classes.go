package types

import "strings"

// classPredicates maps class-var base names (trailing digits stripped) to
// the set of concrete types they admit. Extension documents mostly use the
// Substrait "any"/"anyN" wildcards; the named classes cover the documents
// that constrain a template to a type family.
var classPredicates = map[string]func(Type) bool{
	"any":         func(Type) bool { return true },
	"T":           func(Type) bool { return true },
	"numeric":     isNumeric,
	"integer":     isInteger,
	"floating":    isFloating,
	"any-decimal": isDecimal,
	"decimal":     isDecimal,
}

func isInteger(t Type) bool {
	p, ok := t.(Primitive)
	if !ok {
		return false
	}
	switch p.Kind {
	case KindI8, KindI16, KindI32, KindI64:
		return true
	}
	return false
}

func isFloating(t Type) bool {
	p, ok := t.(Primitive)
	if !ok {
		return false
	}
	return p.Kind == KindFP32 || p.Kind == KindFP64
}

func isDecimal(t Type) bool {
	_, ok := t.(Decimal)
	return ok
}

func isNumeric(t Type) bool {
	return isInteger(t) || isFloating(t) || isDecimal(t)
}

// Satisfies reports whether the concrete type is a member of the class named
// by a class-var. Unrecognized class names admit any type, matching how
// extension documents treat bare template names like "T".
func Satisfies(className string, concrete Type) bool {
	base := strings.TrimRight(className, "0123456789")
	if pred, ok := classPredicates[base]; ok {
		return pred(concrete)
	}
	if pred, ok := classPredicates[className]; ok {
		return pred(concrete)
	}
	return true
}

// IsClassVarName reports whether a type-string name denotes a class-var
// rather than a concrete type. Extension documents spell templates as
// "any", "any1".."anyN", "T", or a named class.
func IsClassVarName(name string) bool {
	lower := strings.ToLower(name)
	if _, ok := kindsByName[lower]; ok {
		return false
	}
	base := strings.TrimRight(lower, "0123456789")
	if base == "any" || name == "T" {
		return true
	}
	_, ok := classPredicates[base]
	return ok
}
