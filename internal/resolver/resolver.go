// Package resolver matches call sites against the signature store.
//
// Given a function name and the concrete types of the supplied arguments it
// finds the variant(s) whose declared argument pattern the call satisfies,
// binds the variant's class-vars and parameter variables, and computes the
// instantiated return type. When several variants match, the ambiguity
// ranker picks the most specific one or reports the tie.
//
// Resolution is pure computation: the only state is the per-call Binding, so
// distinct calls may run concurrently against a frozen store.
package resolver

import (
	"github.com/westonpace/substrait-expr/internal/registry"
	"github.com/westonpace/substrait-expr/pkg/types"
)

// Resolution is one successful match of a call site to a variant.
type Resolution struct {
	Variant *registry.Variant
	// Binding maps the variant's class-vars and parameter variables to the
	// concrete types and values this call bound them to.
	Binding *types.Binding
	// ReturnType is the declared return type with the binding substituted
	// in and the variant's nullability handling applied.
	ReturnType types.Type
}

// Resolve finds the unique variant of (namespace, name) matching the given
// concrete argument types.
//
// Failure modes, in order: UnknownFunctionError when no entry exists for the
// name; NoMatchingSignatureError when no variant's arguments match;
// AmbiguousSignatureError when two or more equally specific variants
// survive ranking. The resolver never guesses: a call either resolves to
// exactly one variant or fails with enough context to diagnose.
func Resolve(store *registry.Store, uri, name string, args []types.Type) (*Resolution, error) {
	candidates := store.Lookup(uri, name)
	if len(candidates) == 0 {
		return nil, &UnknownFunctionError{URI: uri, Name: name}
	}

	var matches []*Resolution
	for _, v := range candidates {
		if res, ok := tryVariant(v, args); ok {
			matches = append(matches, res)
		}
	}

	switch len(matches) {
	case 0:
		return nil, &NoMatchingSignatureError{
			URI:        uri,
			Name:       name,
			ArgTypes:   types.FormatList(args),
			Candidates: declaredSignatures(candidates),
		}
	case 1:
		return matches[0], nil
	default:
		return rank(uri, name, args, matches)
	}
}

// ResolveVariant matches a call site against one specific variant, as the
// generated per-variant builder entry points do.
func ResolveVariant(v *registry.Variant, args []types.Type) (*Resolution, error) {
	if res, ok := tryVariant(v, args); ok {
		return res, nil
	}
	return nil, &NoMatchingSignatureError{
		URI:        v.URI(),
		Name:       v.Name(),
		ArgTypes:   types.FormatList(args),
		Candidates: []string{v.Anchor() + " " + v.Signature()},
	}
}

// tryVariant checks arity, walks the argument positions left to right under
// a fresh binding, and instantiates the return type. A failure at any
// position abandons this candidate only.
func tryVariant(v *registry.Variant, args []types.Type) (*Resolution, bool) {
	fixed := len(v.Args)
	if v.IsVariadic() {
		fixed--
		occurrences := len(args) - fixed
		if occurrences < v.Variadic.Min {
			return nil, false
		}
		if v.Variadic.Max > 0 && occurrences > v.Variadic.Max {
			return nil, false
		}
	} else if len(args) != fixed {
		return nil, false
	}

	binding := types.NewBinding()
	strict := v.Nullability == registry.NullabilityDiscrete
	for i, arg := range args {
		spec := specAt(v, i)
		if spec.IsEnum() {
			if !isStringType(arg) {
				return nil, false
			}
			continue
		}
		if !types.Matches(spec.Type, arg, binding, strict) {
			return nil, false
		}
	}

	ret, err := types.Substitute(v.Return, binding)
	if err != nil {
		// A variadic tail with zero occurrences can leave a return-type
		// class-var unbound; the variant simply does not match this call.
		return nil, false
	}
	if v.Nullability == registry.NullabilityMirror && len(args) > 0 {
		ret = ret.WithNullable(anyNullable(args))
	}

	return &Resolution{Variant: v, Binding: binding, ReturnType: ret}, true
}

// specAt returns the argument spec governing call position i, repeating the
// variadic tail beyond the fixed prefix.
func specAt(v *registry.Variant, i int) registry.ArgumentSpec {
	if i < len(v.Args) {
		return v.Args[i]
	}
	return v.Args[len(v.Args)-1]
}

func isStringType(t types.Type) bool {
	p, ok := t.(types.Primitive)
	return ok && p.Kind == types.KindString
}

func anyNullable(args []types.Type) bool {
	for _, a := range args {
		if a.IsNullable() {
			return true
		}
	}
	return false
}

func declaredSignatures(variants []*registry.Variant) []string {
	sigs := make([]string, len(variants))
	for i, v := range variants {
		sigs[i] = v.Anchor() + " " + v.Signature()
	}
	return sigs
}
